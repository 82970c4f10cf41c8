package api

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Family identifies a backend API family. The set is closed: dispatch is an
// explicit switch, never name-based reflection.
type Family string

const (
	// FamilyMedia is the media services API (ms1).
	FamilyMedia Family = "ms1"
	// FamilyAccount is the account API v2 (ac2).
	FamilyAccount Family = "ac2"
)

// ParseFamily parses a family identifier.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyMedia:
		return FamilyMedia, nil
	case FamilyAccount:
		return FamilyAccount, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

// Families returns the supported family identifiers.
func Families() []string {
	return []string{string(FamilyMedia), string(FamilyAccount)}
}

// CallConfig carries the resolved connection settings for one invocation.
// Verbosity and display concerns stay outside; this is connection state only.
type CallConfig struct {
	Family    Family
	Host      string // full URL, https:// is assumed when no scheme is given
	Login     string
	Secret    string
	VerifyTLS bool

	// IsAdmin toggles admin endpoint handling (ac2 only).
	IsAdmin bool
	// Method is the HTTP method for ac2 calls: get, post, put or delete.
	Method string
	// Format is the api_format forwarded on ms1 calls: json, py, xml or php.
	Format string

	// Timeout bounds each HTTP request. Zero means the default 30s.
	Timeout time.Duration
}

// BaseURL returns the host as a full URL with an https scheme applied when
// none was configured.
func (c *CallConfig) BaseURL() string {
	host := strings.TrimRight(c.Host, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

// NormalizeEndpoint canonicalizes an endpoint path: surrounding slashes and
// spaces are trimmed and a leading version prefix is stripped. For the
// account family, a leading admin segment is stripped the first time it is
// seen and the config is marked admin from then on.
func (c *CallConfig) NormalizeEndpoint(endpoint string) string {
	endpoint = strings.Trim(endpoint, "/ ")
	endpoint = strings.TrimPrefix(endpoint, "v2/")
	if c.Family == FamilyAccount && !c.IsAdmin && strings.HasPrefix(endpoint, "admin/") {
		endpoint = strings.TrimPrefix(endpoint, "admin/")
		c.IsAdmin = true
	}
	return strings.Trim(endpoint, "/ ")
}

// Caller executes calls against one backend API family.
type Caller interface {
	// Call invokes endpoint with params and returns the structured
	// response. A non-nil error means the call could not complete or the
	// response could not be decoded; API-level failures are reported
	// through Response.OK with the body preserved for display.
	Call(ctx context.Context, endpoint string, params map[string]any) (*Response, error)
}

// New returns the Caller for the config's family.
func New(cfg *CallConfig) (Caller, error) {
	switch cfg.Family {
	case FamilyMedia:
		return newMediaClient(cfg), nil
	case FamilyAccount:
		return newAccountClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, cfg.Family)
	}
}
