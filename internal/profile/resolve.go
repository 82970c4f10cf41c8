package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clack-cli/clack/internal/api"
	"github.com/clack-cli/clack/internal/config"
	"github.com/clack-cli/clack/internal/keyring"
)

// ErrInsufficientConfig indicates that no profile is selected and the
// required connection parameters are not all available from overrides.
var ErrInsufficientConfig = errors.New(
	"not enough information to make an API call: configure a profile with " +
		"\"clack settings add\" or pass --api, --host, --key and --secret")

// Overrides are the explicit per-invocation connection settings. Every
// field is optional; set fields win over the selected profile's values.
type Overrides struct {
	Env    string
	Family string
	Host   string
	Login  string
	Secret string
	Method string
	Format string
}

// SecretPrompt asks the user for a secret when none is stored. A nil prompt
// makes a missing secret an ErrInsufficientConfig.
type SecretPrompt func() (string, error)

// Resolve builds the call configuration for one invocation. Precedence per
// field: explicit override, then the selected profile (the --env choice or
// the store default), then the family's documented default. The secret is
// looked up in the keyring and, when absent, requested through prompt.
// The selected profile name is returned for display; it is empty when the
// call runs purely on overrides.
func Resolve(st *config.Store, secrets keyring.Store, o Overrides, prompt SecretPrompt) (*api.CallConfig, string, error) {
	name := o.Env
	if name == "" {
		name = st.DefaultProfile()
	}

	if name == "" {
		// No profile anywhere: every connection parameter must come from
		// the overrides.
		if o.Family == "" || o.Host == "" || o.Login == "" {
			return nil, "", ErrInsufficientConfig
		}
	} else if !st.HasProfile(name) {
		return nil, "", fmt.Errorf("%w: %q", config.ErrProfileNotFound, name)
	}

	var prof *Profile
	if name != "" {
		var err error
		prof, err = Get(st, name)
		if err != nil {
			return nil, "", err
		}
	}

	familyStr := o.Family
	if familyStr == "" && prof != nil {
		familyStr = string(prof.Family)
	}
	family, err := api.ParseFamily(familyStr)
	if err != nil {
		return nil, "", err
	}

	login := o.Login
	if login == "" && prof != nil {
		login = prof.Login
	}

	host := o.Host
	if host == "" && prof != nil {
		host = prof.Host
	}
	if host == "" {
		host = DefaultHosts[family]
	}

	// Without a usable login and host the call can never be made; bail out
	// before bothering the user with a secret prompt.
	if login == "" || host == "" {
		return nil, "", ErrInsufficientConfig
	}

	secret := o.Secret
	if secret == "" && name != "" {
		stored, err := secrets.Get(name, login)
		if err != nil && !errors.Is(err, keyring.ErrSecretNotFound) {
			return nil, "", err
		}
		secret = stored
	}
	if secret == "" {
		if prompt == nil {
			return nil, "", ErrInsufficientConfig
		}
		secret, err = prompt()
		if err != nil {
			return nil, "", err
		}
	}

	if secret == "" {
		return nil, "", ErrInsufficientConfig
	}

	cfg := &api.CallConfig{
		Family:    family,
		Host:      host,
		Login:     login,
		Secret:    secret,
		VerifyTLS: true,
	}
	if prof != nil {
		cfg.VerifyTLS = prof.VerifyTLS
	}

	switch family {
	case api.FamilyMedia:
		cfg.Format = o.Format
		if cfg.Format == "" {
			cfg.Format = "py"
		}
	case api.FamilyAccount:
		if prof != nil {
			cfg.IsAdmin = prof.IsAdmin
		}
		cfg.Method = strings.ToLower(o.Method)
		if cfg.Method == "" {
			cfg.Method = "get"
		}
	}

	return cfg, name, nil
}
