// Package keyring stores profile secrets in the OS credential store.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// ServicePrefix is the prefix used for keyring service names. Each
	// profile gets its own service entry: "com.github.clack-cli.clack.<name>",
	// with the profile's login as the account.
	ServicePrefix = "com.github.clack-cli.clack."

	// TestKeyringEnvVar is the environment variable that, when set to a
	// directory path, makes Clack use a file-based keyring instead of the
	// OS keyring. Intended for tests only.
	TestKeyringEnvVar = "CLACK_TEST_KEYRING_DIR"
)

var (
	// ErrUnavailable is returned when no secure keyring is available.
	ErrUnavailable = errors.New("secure keyring is not available on this system")
	// ErrSecretNotFound is returned when no secret is stored for a
	// (profile, login) pair. Cleanup paths may ignore it.
	ErrSecretNotFound = errors.New("secret not found in keyring")
	// ErrAccessDenied is returned when access to the keyring is denied.
	ErrAccessDenied = errors.New("access to keyring denied")
)

// Store is a secure secret storage backend. Secrets are keyed by the
// (profile, login) pair; changing a profile's login orphans the old entry,
// so callers must delete and re-save on rename.
type Store interface {
	// Set stores the secret for a profile's login.
	Set(profile, login, secret string) error
	// Get retrieves the secret for a profile's login.
	Get(profile, login string) (string, error)
	// Delete removes the secret for a profile's login. Returns
	// ErrSecretNotFound when nothing is stored.
	Delete(profile, login string) error
}

// serviceName returns the keyring service name for a profile.
func serviceName(profile string) string {
	return ServicePrefix + profile
}

// DefaultStore returns the keyring store for the current platform. If
// CLACK_TEST_KEYRING_DIR is set, a file-based store is used instead so
// tests can run without touching the OS keyring.
func DefaultStore() Store {
	if testDir := os.Getenv(TestKeyringEnvVar); testDir != "" {
		fileStore, err := NewFileStore(testDir)
		if err == nil {
			return fileStore
		}
	}
	return &osKeyring{}
}

// osKeyring implements Store using the OS keyring.
type osKeyring struct{}

// Set stores a secret in the keyring.
func (k *osKeyring) Set(profile, login, secret string) error {
	if profile == "" || login == "" {
		return errors.New("profile and login cannot be empty")
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	if err := gokeyring.Set(serviceName(profile), login, secret); err != nil {
		return wrapKeyringError(err, "failed to store secret")
	}
	return nil
}

// Get retrieves a secret from the keyring.
func (k *osKeyring) Get(profile, login string) (string, error) {
	if profile == "" || login == "" {
		return "", errors.New("profile and login cannot be empty")
	}

	secret, err := gokeyring.Get(serviceName(profile), login)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve secret")
	}
	return secret, nil
}

// Delete removes a secret from the keyring.
func (k *osKeyring) Delete(profile, login string) error {
	if profile == "" || login == "" {
		return errors.New("profile and login cannot be empty")
	}

	if err := gokeyring.Delete(serviceName(profile), login); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return ErrSecretNotFound
		}
		return wrapKeyringError(err, "failed to delete secret")
	}
	return nil
}

// wrapKeyringError wraps a keyring error with context and maps it onto the
// package's typed errors where the underlying message allows it.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())

	if containsAny(errStr, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s: %v", ErrAccessDenied, context, err)
	}
	if containsAny(errStr, "no keyring", "unavailable", "secret service", "dbus") {
		msg := context
		if runtime.GOOS == "linux" {
			msg += " - install and start gnome-keyring, kwallet, or another secret service provider"
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, msg, err)
	}

	return fmt.Errorf("%s: %w", context, err)
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
