package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/ini.v1"
)

const (
	// EtcSection is the reserved section holding global settings. It can
	// never be used as a profile name.
	EtcSection = "etc"

	// KeyVersion is the etc key holding the schema version.
	KeyVersion = "version"
	// KeyDefaultProfile is the etc key pointing at the default profile.
	// Renamed from "default" by the 2.0.0 migration.
	KeyDefaultProfile = "env"
	// KeyLegacyDefault is the pre-2.0.0 name of the default profile pointer.
	KeyLegacyDefault = "default"
)

var (
	// ErrStoreUnreadable indicates the store file exists but cannot be parsed.
	ErrStoreUnreadable = errors.New("profile store is unreadable")
	// ErrProfileNotFound indicates a referenced profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
)

// Store is the durable, versioned profile store. Each profile is an INI
// section of flat key=value pairs; the reserved etc section holds the
// schema version and global settings.
type Store struct {
	file *ini.File
	path string
}

// Load loads the profile store from the default path.
func Load() (*Store, error) {
	paths := GetPaths()
	return LoadFrom(paths.StoreFile)
}

// LoadFrom loads the profile store from a specific path. A missing file is
// not an error: an empty store is returned and the file is created lazily
// on the first save.
func LoadFrom(path string) (*Store, error) {
	st := &Store{path: path}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			st.file = ini.Empty()
			return st, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreadable, err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreadable, err)
	}
	st.file = f
	return st, nil
}

// Path returns the path of the backing file.
func (st *Store) Path() string {
	return st.path
}

// Get returns the value for key in section, or fallback if the section or
// key is absent or empty. It never fails.
func (st *Store) Get(section, key, fallback string) string {
	sec, err := st.file.GetSection(section)
	if err != nil {
		return fallback
	}
	if !sec.HasKey(key) {
		return fallback
	}
	if v := sec.Key(key).String(); v != "" {
		return v
	}
	return fallback
}

// Set upserts a value. Setting the empty string removes the key entirely,
// so a later Get returns the caller-supplied fallback rather than a stored
// blank. The section is created on first write.
func (st *Store) Set(section, key, value string) {
	if value == "" {
		if sec, err := st.file.GetSection(section); err == nil {
			sec.DeleteKey(key)
		}
		return
	}
	sec := st.file.Section(section)
	sec.Key(key).SetValue(value)
}

// HasProfile reports whether a profile section exists.
func (st *Store) HasProfile(name string) bool {
	if name == "" || name == EtcSection {
		return false
	}
	_, err := st.file.GetSection(name)
	return err == nil
}

// Profiles returns all profile section names in sorted order, excluding the
// reserved etc section.
func (st *Store) Profiles() []string {
	var names []string
	for _, name := range st.file.SectionStrings() {
		if name == ini.DefaultSection || name == EtcSection {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveProfile deletes an entire profile section. Callers must check
// existence first; removing a missing profile returns ErrProfileNotFound.
func (st *Store) RemoveProfile(name string) error {
	if !st.HasProfile(name) {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	st.file.DeleteSection(name)
	if st.DefaultProfile() == name {
		st.Set(EtcSection, KeyDefaultProfile, "")
	}
	return nil
}

// DefaultProfile returns the configured default profile name. If the
// pointer is unset or references a profile that no longer exists, it falls
// back to the first remaining profile, or "" when none exist.
func (st *Store) DefaultProfile() string {
	name := st.Get(EtcSection, KeyDefaultProfile, "")
	if name != "" && st.HasProfile(name) {
		return name
	}
	if profiles := st.Profiles(); len(profiles) > 0 {
		return profiles[0]
	}
	return ""
}

// SetDefaultProfile points the default profile at an existing profile.
func (st *Store) SetDefaultProfile(name string) error {
	if !st.HasProfile(name) {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	st.Set(EtcSection, KeyDefaultProfile, name)
	return nil
}

// Version returns the stored schema version.
func (st *Store) Version() string {
	return st.Get(EtcSection, KeyVersion, "0.0.1")
}

// Save atomically persists the store: the content is written to a temporary
// file in the same directory and then renamed over the target, so an
// interrupted save never corrupts the previous state.
func (st *Store) Save() error {
	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.ini")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := st.file.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set store permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, st.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

// Delete removes the backing file. Used only by the purge flow after every
// profile and secret has been wiped.
func (st *Store) Delete() error {
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	st.file = ini.Empty()
	return nil
}
