package session

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestStore_SetGet_TrimsAndValidates(t *testing.T) {
	s := &Store{}
	s.Set("  http://localhost:5678/ ", "  key-1  ")

	got, ok := s.Get("http://localhost:5678")
	if !ok {
		t.Fatalf("expected key present")
	}
	if got != "key-1" {
		t.Fatalf("expected trimmed key, got %q", got)
	}
	if s.Current != "http://localhost:5678" {
		t.Fatalf("expected current instance set, got %q", s.Current)
	}

	// Blank inputs should be ignored.
	s.Set("", "key-2")
	s.Set("http://y", "")
	if _, ok := s.Get("http://y"); ok {
		t.Fatalf("expected not set")
	}
}

func TestStore_SaveAtomicAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	s := &Store{}
	s.Set("http://localhost:5678", "key-1")
	if err := SaveAtomic(path, s); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}

	if runtime.GOOS != "windows" {
		st, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if st.Mode().Perm() != 0o600 {
			t.Fatalf("expected 0600 perms, got %o", st.Mode().Perm())
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(b), "\n") {
		t.Fatalf("expected trailing newline")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	url, key, ok := loaded.CurrentRecord()
	if !ok || url != "http://localhost:5678" || key != "key-1" {
		t.Fatalf("expected current record, got url=%q key=%q ok=%v", url, key, ok)
	}
}

func TestStore_Delete_ClearsCurrent(t *testing.T) {
	s := &Store{}
	s.Set("http://a", "k")
	s.Delete("http://a/")
	if _, _, ok := s.CurrentRecord(); ok {
		t.Fatalf("expected no current record after delete")
	}
}

func TestLoadOrEmpty_MissingFile(t *testing.T) {
	s, err := LoadOrEmpty(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadOrEmpty: %v", err)
	}
	if s.Instances == nil {
		t.Fatalf("expected instances map initialized")
	}
}
