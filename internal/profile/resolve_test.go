package profile

import (
	"errors"
	"testing"

	"github.com/clack-cli/clack/internal/api"
	"github.com/clack-cli/clack/internal/config"
	"github.com/clack-cli/clack/internal/keyring"
)

func seedProfile(t *testing.T, st *config.Store, secrets keyring.Store, name string, family api.Family, login, secret string) {
	t.Helper()
	p := &Profile{Name: name, Family: family, Host: DefaultHosts[family], Login: login, VerifyTLS: true}
	p.Save(st)
	if secret != "" {
		if err := secrets.Set(name, login, secret); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolveFromDefaultProfile(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	seedProfile(t, st, secrets, "prod", api.FamilyMedia, "abcdef12", "abcdefghij1234567890")

	cfg, name, err := Resolve(st, secrets, Overrides{}, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if name != "prod" {
		t.Errorf("expected profile prod, got %q", name)
	}
	if cfg.Family != api.FamilyMedia || cfg.Login != "abcdef12" || cfg.Secret != "abcdefghij1234567890" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Format != "py" {
		t.Errorf("expected default format py for media, got %q", cfg.Format)
	}
}

func TestResolveExplicitEnv(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	seedProfile(t, st, secrets, "prod", api.FamilyMedia, "abcdef12", "abcdefghij1234567890")
	seedProfile(t, st, secrets, "portal", api.FamilyAccount, "user@example.com", "hunter2")
	if err := st.SetDefaultProfile("prod"); err != nil {
		t.Fatal(err)
	}

	cfg, name, err := Resolve(st, secrets, Overrides{Env: "portal"}, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if name != "portal" || cfg.Family != api.FamilyAccount {
		t.Errorf("expected the portal profile, got %q %+v", name, cfg)
	}
	if cfg.Method != "get" {
		t.Errorf("expected default method get for account, got %q", cfg.Method)
	}
}

func TestResolveMissingEnv(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()

	_, _, err := Resolve(st, secrets, Overrides{Env: "ghost"}, nil)
	if !errors.Is(err, config.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestResolveOverridesWin(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	seedProfile(t, st, secrets, "prod", api.FamilyMedia, "abcdef12", "abcdefghij1234567890")

	o := Overrides{
		Host:   "staging.jwplatform.com",
		Login:  "override99",
		Secret: "overridesecret",
		Format: "json",
	}
	cfg, _, err := Resolve(st, secrets, o, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.Host != "staging.jwplatform.com" || cfg.Login != "override99" || cfg.Secret != "overridesecret" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Format != "json" {
		t.Errorf("expected format override json, got %q", cfg.Format)
	}
}

func TestResolveNoProfileRequiresOverrides(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()

	_, _, err := Resolve(st, secrets, Overrides{}, nil)
	if !errors.Is(err, ErrInsufficientConfig) {
		t.Errorf("expected ErrInsufficientConfig for an empty store, got %v", err)
	}

	// Partial overrides are still insufficient.
	_, _, err = Resolve(st, secrets, Overrides{Family: "ms1", Login: "abcdef12"}, nil)
	if !errors.Is(err, ErrInsufficientConfig) {
		t.Errorf("expected ErrInsufficientConfig for partial overrides, got %v", err)
	}

	// A complete override set works without any profile.
	o := Overrides{Family: "ms1", Host: "api.jwplatform.com", Login: "abcdef12", Secret: "abcdefghij1234567890"}
	cfg, name, err := Resolve(st, secrets, o, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if name != "" {
		t.Errorf("expected no profile name for an override-only call, got %q", name)
	}
	if !cfg.VerifyTLS {
		t.Error("expected TLS verification on for override-only calls")
	}
}

func TestResolvePromptsForMissingSecret(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	seedProfile(t, st, secrets, "prod", api.FamilyMedia, "abcdef12", "")

	prompted := false
	prompt := func() (string, error) {
		prompted = true
		return "promptedsecret123456", nil
	}

	cfg, _, err := Resolve(st, secrets, Overrides{}, prompt)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !prompted {
		t.Error("expected the secret prompt to run")
	}
	if cfg.Secret != "promptedsecret123456" {
		t.Errorf("expected the prompted secret, got %q", cfg.Secret)
	}

	// Without a prompt a missing secret cannot be resolved.
	if _, _, err := Resolve(st, secrets, Overrides{}, nil); !errors.Is(err, ErrInsufficientConfig) {
		t.Errorf("expected ErrInsufficientConfig without a prompt, got %v", err)
	}
}

func TestResolveMissingLoginSkipsPrompt(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	st.Set("broken", config.KeyAPI, "ms1")

	prompted := false
	prompt := func() (string, error) {
		prompted = true
		return "promptedsecret123456", nil
	}

	_, _, err := Resolve(st, secrets, Overrides{Env: "broken"}, prompt)
	if !errors.Is(err, ErrInsufficientConfig) {
		t.Errorf("expected ErrInsufficientConfig for a login-less profile, got %v", err)
	}
	if prompted {
		t.Error("the secret prompt must not run when the call can never be made")
	}
}

func TestResolveKeyringFailurePropagates(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	seedProfile(t, st, secrets, "prod", api.FamilyMedia, "abcdef12", "abcdefghij1234567890")
	secrets.SetFailing(true)

	if _, _, err := Resolve(st, secrets, Overrides{}, nil); !errors.Is(err, keyring.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestResolveAdminProfile(t *testing.T) {
	st := tempStore(t)
	secrets := keyring.NewMockStore()
	p := &Profile{Name: "admin", Family: api.FamilyAccount, Host: "api.jwplayer.com", Login: "root@example.com", VerifyTLS: true, IsAdmin: true}
	p.Save(st)
	if err := secrets.Set("admin", "root@example.com", "hunter2"); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Resolve(st, secrets, Overrides{Env: "admin", Method: "POST"}, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !cfg.IsAdmin {
		t.Error("expected the admin marker to carry over")
	}
	if cfg.Method != "post" {
		t.Errorf("expected the method lowercased, got %q", cfg.Method)
	}
}
