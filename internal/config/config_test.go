package config

import (
	"path/filepath"
	"testing"
)

func TestSaveAtomicAndLoad_RoundTripAndTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	st := &Store{InstanceURL: "  http://localhost:5678  ", PageSize: 50}
	if err := SaveAtomic(path, st); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.InstanceURL != "http://localhost:5678" {
		t.Fatalf("expected trimmed instance url, got %q", loaded.InstanceURL)
	}
	if loaded.EffectivePageSize() != 50 {
		t.Fatalf("expected page size 50, got %d", loaded.EffectivePageSize())
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	st, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if st.EffectivePageSize() != DefaultPageSize {
		t.Fatalf("expected default page size")
	}
	if st.EffectiveDebounceMS() != DefaultDebounceMS {
		t.Fatalf("expected default debounce")
	}
}

func TestSaveAtomic_Validations(t *testing.T) {
	if err := SaveAtomic("", &Store{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if err := SaveAtomic("x.json", nil); err == nil {
		t.Fatalf("expected error for missing store")
	}
}
