package keyring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore is a file-based keyring implementation for testing. Each
// (profile, login) pair maps to one file in the store directory. This
// should ONLY be used for testing, never in production.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a new file-based keyring store. The directory is
// created with secure permissions if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// entryPath returns the file path for a (profile, login) pair.
func (f *FileStore) entryPath(profile, login string) string {
	return filepath.Join(f.dir, sanitizeKey(profile)+"--"+sanitizeKey(login))
}

// sanitizeKey makes a key safe for use as a filename. Keys containing path
// traversal patterns are hashed instead.
func sanitizeKey(key string) string {
	if strings.Contains(key, "..") || strings.Contains(key, "/") ||
		strings.Contains(key, "\\") || strings.Contains(key, string(filepath.Separator)) {
		h := sha256.Sum256([]byte(key))
		return hex.EncodeToString(h[:])
	}

	result := make([]byte, len(key))
	for i, c := range []byte(key) {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '-' {
			result[i] = c
		} else {
			result[i] = '_'
		}
	}
	return string(result)
}

// Set implements Store.
func (f *FileStore) Set(profile, login, secret string) error {
	if profile == "" || login == "" {
		return fmt.Errorf("profile and login cannot be empty")
	}
	if secret == "" {
		return fmt.Errorf("secret cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.WriteFile(f.entryPath(profile, login), []byte(secret), 0600); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}
	return nil
}

// Get implements Store.
func (f *FileStore) Get(profile, login string) (string, error) {
	if profile == "" || login == "" {
		return "", fmt.Errorf("profile and login cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.entryPath(profile, login))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("failed to retrieve secret: %w", err)
	}
	return string(data), nil
}

// Delete implements Store.
func (f *FileStore) Delete(profile, login string) error {
	if profile == "" || login == "" {
		return fmt.Errorf("profile and login cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.entryPath(profile, login)); err != nil {
		if os.IsNotExist(err) {
			return ErrSecretNotFound
		}
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}
