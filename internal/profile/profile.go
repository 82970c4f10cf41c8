// Package profile provides profile types, validation and resolution on top
// of the profile store.
package profile

import (
	"fmt"
	"regexp"

	"github.com/clack-cli/clack/internal/api"
	"github.com/clack-cli/clack/internal/config"
)

// Validation patterns for profile fields.
var (
	// namePattern constrains profile names. The reserved etc section name
	// is rejected separately.
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]{1,16}$`)
	// hostPattern constrains hosts to the allowed domain suffix set.
	hostPattern = regexp.MustCompile(`^(https?://)?[a-zA-Z0-9-.]+\.(jwplatform|jwplayer|longtailvideo|ltv)\.(com|dev)$`)
	// mediaLoginPattern constrains media services API keys.
	mediaLoginPattern = regexp.MustCompile(`^[a-zA-Z0-9]{8,}$`)
	// mediaSecretPattern constrains media services API secrets; empty is
	// allowed and means "prompt at call time".
	mediaSecretPattern = regexp.MustCompile(`^[a-zA-Z0-9]{20,}$|^$`)
)

// DefaultHosts maps each family to its default API host.
var DefaultHosts = map[api.Family]string{
	api.FamilyMedia:   "api.jwplatform.com",
	api.FamilyAccount: "api.jwplayer.com",
}

// Profile is a named set of connection settings.
type Profile struct {
	Name        string
	Family      api.Family
	Host        string
	Login       string
	Description string
	VerifyTLS   bool
	// IsAdmin marks account-family profiles whose credentials are for
	// admin calls.
	IsAdmin bool
}

// ValidName reports whether name is an acceptable profile name.
func ValidName(name string) bool {
	return name != config.EtcSection && namePattern.MatchString(name)
}

// ValidHost reports whether host is within the allowed domain suffix set.
func ValidHost(host string) bool {
	return hostPattern.MatchString(host)
}

// ValidLogin reports whether login is acceptable for the given family.
// Media services keys are alphanumeric and at least 8 characters; account
// logins are free-form.
func ValidLogin(family api.Family, login string) bool {
	if login == "" {
		return false
	}
	if family == api.FamilyMedia {
		return mediaLoginPattern.MatchString(login)
	}
	return true
}

// ValidSecret reports whether secret is acceptable for the given family.
// Empty is always acceptable and means the secret is prompted at call time.
func ValidSecret(family api.Family, secret string) bool {
	if family == api.FamilyMedia {
		return mediaSecretPattern.MatchString(secret)
	}
	return true
}

// Get loads a profile from the store.
func Get(st *config.Store, name string) (*Profile, error) {
	if !st.HasProfile(name) {
		return nil, fmt.Errorf("%w: %q", config.ErrProfileNotFound, name)
	}

	family, err := api.ParseFamily(st.Get(name, config.KeyAPI, string(api.FamilyMedia)))
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return &Profile{
		Name:        name,
		Family:      family,
		Host:        st.Get(name, config.KeyHost, DefaultHosts[family]),
		Login:       st.Get(name, config.KeyLogin, ""),
		Description: st.Get(name, config.KeyDescription, ""),
		VerifyTLS:   st.Get(name, config.KeyVerifySSL, "yes") == "yes",
		IsAdmin:     st.Get(name, config.KeyIsAdmin, "no") == "yes",
	}, nil
}

// Save writes the profile's fields to the store. The secret is never
// written here; it lives in the keyring.
func (p *Profile) Save(st *config.Store) {
	st.Set(p.Name, config.KeyAPI, string(p.Family))
	st.Set(p.Name, config.KeyHost, p.Host)
	st.Set(p.Name, config.KeyLogin, p.Login)
	st.Set(p.Name, config.KeyDescription, p.Description)
	if p.VerifyTLS {
		st.Set(p.Name, config.KeyVerifySSL, "yes")
	} else {
		st.Set(p.Name, config.KeyVerifySSL, "no")
	}
	if p.Family == api.FamilyAccount {
		if p.IsAdmin {
			st.Set(p.Name, config.KeyIsAdmin, "yes")
		} else {
			st.Set(p.Name, config.KeyIsAdmin, "no")
		}
	} else {
		st.Set(p.Name, config.KeyIsAdmin, "")
	}
}
