package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	st, err := LoadFrom(filepath.Join(t.TempDir(), "config.ini"))
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	return st
}

func TestLoadFromMissingFile(t *testing.T) {
	st := tempStore(t)

	if got := st.Profiles(); len(got) != 0 {
		t.Errorf("expected no profiles in a fresh store, got %v", got)
	}
	if got := st.Version(); got != "0.0.1" {
		t.Errorf("expected version 0.0.1 for a fresh store, got %q", got)
	}

	// A missing file is created lazily, not by Load.
	if _, err := os.Stat(st.Path()); !os.IsNotExist(err) {
		t.Error("expected store file to not exist before the first save")
	}
}

func TestLoadFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte("[unclosed\ngarbage"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if !errors.Is(err, ErrStoreUnreadable) {
		t.Errorf("expected ErrStoreUnreadable, got %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	st := tempStore(t)

	st.Set("prod", "api", "ms1")
	st.Set("prod", "key", "abcdef12")
	st.Set(EtcSection, KeyVersion, "2.1.0")

	if err := st.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(st.Path())
	if err != nil {
		t.Fatalf("store file missing after save: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected store permissions 0600, got %o", perm)
	}

	reloaded, err := LoadFrom(st.Path())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.Get("prod", "api", ""); got != "ms1" {
		t.Errorf("expected api=ms1 after reload, got %q", got)
	}
	if got := reloaded.Version(); got != "2.1.0" {
		t.Errorf("expected version 2.1.0 after reload, got %q", got)
	}
}

func TestGetFallback(t *testing.T) {
	st := tempStore(t)
	st.Set("prod", "api", "ms1")

	if got := st.Get("prod", "missing", "fb"); got != "fb" {
		t.Errorf("expected fallback for missing key, got %q", got)
	}
	if got := st.Get("missing", "api", "fb"); got != "fb" {
		t.Errorf("expected fallback for missing section, got %q", got)
	}
	if got := st.Get("prod", "api", "fb"); got != "ms1" {
		t.Errorf("expected stored value, got %q", got)
	}
}

func TestSetEmptyRemovesKey(t *testing.T) {
	st := tempStore(t)

	st.Set("prod", "description", "old text")
	st.Set("prod", "description", "")

	if got := st.Get("prod", "description", "unset"); got != "unset" {
		t.Errorf("expected cleared key to fall back, got %q", got)
	}
}

func TestProfilesExcludesEtc(t *testing.T) {
	st := tempStore(t)

	st.Set(EtcSection, KeyVersion, "2.1.0")
	st.Set("beta", "api", "ac2")
	st.Set("alpha", "api", "ms1")

	got := st.Profiles()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("expected sorted [alpha beta], got %v", got)
	}
}

func TestHasProfile(t *testing.T) {
	st := tempStore(t)
	st.Set("prod", "api", "ms1")
	st.Set(EtcSection, KeyVersion, "2.1.0")

	if !st.HasProfile("prod") {
		t.Error("expected HasProfile(prod) to be true")
	}
	if st.HasProfile("missing") {
		t.Error("expected HasProfile(missing) to be false")
	}
	if st.HasProfile(EtcSection) {
		t.Error("the etc section must never count as a profile")
	}
	if st.HasProfile("") {
		t.Error("the empty name must never count as a profile")
	}
}

func TestRemoveProfile(t *testing.T) {
	st := tempStore(t)
	st.Set("prod", "api", "ms1")
	st.Set("stage", "api", "ms1")
	if err := st.SetDefaultProfile("prod"); err != nil {
		t.Fatal(err)
	}

	if err := st.RemoveProfile("prod"); err != nil {
		t.Fatalf("RemoveProfile() failed: %v", err)
	}
	if st.HasProfile("prod") {
		t.Error("profile still present after removal")
	}

	// The dangling default pointer falls back to a remaining profile.
	if got := st.DefaultProfile(); got != "stage" {
		t.Errorf("expected default to fall back to stage, got %q", got)
	}

	if err := st.RemoveProfile("prod"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDefaultProfile(t *testing.T) {
	st := tempStore(t)

	if got := st.DefaultProfile(); got != "" {
		t.Errorf("expected no default in an empty store, got %q", got)
	}

	st.Set("beta", "api", "ms1")
	st.Set("alpha", "api", "ms1")

	// Unset pointer falls back to the first profile.
	if got := st.DefaultProfile(); got != "alpha" {
		t.Errorf("expected fallback default alpha, got %q", got)
	}

	if err := st.SetDefaultProfile("beta"); err != nil {
		t.Fatal(err)
	}
	if got := st.DefaultProfile(); got != "beta" {
		t.Errorf("expected default beta, got %q", got)
	}

	if err := st.SetDefaultProfile("missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	st := tempStore(t)
	st.Set("prod", "api", "ms1")
	if err := st.Save(); err != nil {
		t.Fatal(err)
	}

	if err := st.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := os.Stat(st.Path()); !os.IsNotExist(err) {
		t.Error("expected store file to be gone after delete")
	}
	if got := st.Profiles(); len(got) != 0 {
		t.Errorf("expected in-memory store to be empty after delete, got %v", got)
	}

	// Deleting an already-missing file is not an error.
	if err := st.Delete(); err != nil {
		t.Errorf("second Delete() failed: %v", err)
	}
}
