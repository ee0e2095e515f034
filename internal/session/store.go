// Package session persists instance credentials: which workflow instances
// the user has logged into, the API key for each, and which one is current.
package session

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Record struct {
	APIKey    string    `json:"apiKey"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	Current   string            `json:"current,omitempty"`
	Instances map[string]Record `json:"instances"`
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		h, herr := os.UserHomeDir()
		if herr != nil {
			return "", errors.New("cannot determine config dir")
		}
		dir = filepath.Join(h, ".config")
	}
	return filepath.Join(dir, "flowdeck", "session.json"), nil
}

func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var s Store
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.Instances == nil {
		s.Instances = map[string]Record{}
	}
	return &s, nil
}

// LoadOrEmpty returns an empty store when no session file exists yet.
func LoadOrEmpty(path string) (*Store, error) {
	s, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{Instances: map[string]Record{}}, nil
		}
		return nil, err
	}
	return s, nil
}

func SaveAtomic(path string, s *Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if s.Instances == nil {
		s.Instances = map[string]Record{}
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	// Keys live in this file; keep it out of group/other hands.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func normalizeURL(instanceURL string) string {
	return strings.TrimRight(strings.TrimSpace(instanceURL), "/")
}

func (s *Store) Get(instanceURL string) (string, bool) {
	rec, ok := s.Instances[normalizeURL(instanceURL)]
	if !ok || strings.TrimSpace(rec.APIKey) == "" {
		return "", false
	}
	return rec.APIKey, true
}

// Set stores the key for an instance and makes that instance current.
// Blank inputs are ignored.
func (s *Store) Set(instanceURL, apiKey string) {
	u := normalizeURL(instanceURL)
	apiKey = strings.TrimSpace(apiKey)
	if u == "" || apiKey == "" {
		return
	}
	if s.Instances == nil {
		s.Instances = map[string]Record{}
	}
	s.Instances[u] = Record{APIKey: apiKey, UpdatedAt: time.Now().UTC()}
	s.Current = u
}

func (s *Store) Delete(instanceURL string) {
	u := normalizeURL(instanceURL)
	delete(s.Instances, u)
	if s.Current == u {
		s.Current = ""
	}
}

// CurrentRecord resolves the current instance and its key, if any.
func (s *Store) CurrentRecord() (string, string, bool) {
	if s.Current == "" {
		return "", "", false
	}
	key, ok := s.Get(s.Current)
	if !ok {
		return "", "", false
	}
	return s.Current, key, true
}
