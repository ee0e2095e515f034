// Package config stores client-side preferences, separate from the
// credential file so it can be shared or checked in without leaking keys.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultPageSize   = 25
	DefaultDebounceMS = 300
)

type Store struct {
	InstanceURL string `json:"instanceUrl,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
	DebounceMS  int    `json:"debounceMs,omitempty"`
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("cannot determine user config dir")
	}
	return filepath.Join(dir, "flowdeck", "config.json"), nil
}

func Load(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var st Store
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	st.InstanceURL = strings.TrimSpace(st.InstanceURL)
	return &st, nil
}

// LoadOrDefault returns defaults when no config file exists yet.
func LoadOrDefault(path string) (*Store, error) {
	st, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{}, nil
		}
		return nil, err
	}
	return st, nil
}

func SaveAtomic(path string, st *Store) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("missing path")
	}
	if st == nil {
		return errors.New("missing store")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) EffectivePageSize() int {
	if s == nil || s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

func (s *Store) EffectiveDebounceMS() int {
	if s == nil || s.DebounceMS <= 0 {
		return DefaultDebounceMS
	}
	return s.DebounceMS
}
