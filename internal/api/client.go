package api

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// defaultTimeout bounds every backend request unless the config overrides it.
const defaultTimeout = 30 * time.Second

// Response is the structured result of a backend call.
type Response struct {
	// OK is the per-family success verdict: a 2xx status class for the
	// account family, a status field equal to "ok" for the media family.
	OK bool
	// StatusCode is the HTTP status code, 0 when the transport layer did
	// not produce one.
	StatusCode int
	// Body is the decoded JSON response body, nil when undecodable.
	Body any
	// Raw is the raw response body.
	Raw []byte
	// Headers holds normalized (lowercased) response header names to their
	// first value. Populated for the account family only.
	Headers map[string]string
}

// buildHTTPClient creates an HTTP client honoring the profile's TLS
// verification toggle and timeout.
func buildHTTPClient(cfg *CallConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{}
	if !cfg.VerifyTLS {
		// Set only after the user explicitly confirmed it during setup.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// normalizeHeaders lowercases header names so callers can look them up
// without guessing the canonical spelling.
func normalizeHeaders(h http.Header) map[string]string {
	normalized := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) > 0 {
			normalized[strings.ToLower(name)] = values[0]
		}
	}
	return normalized
}

// decodeBody decodes a JSON response body, tolerating non-JSON payloads by
// leaving Body nil and keeping the raw bytes.
func decodeBody(resp *Response) {
	if len(resp.Raw) == 0 {
		return
	}
	var v any
	if err := json.Unmarshal(resp.Raw, &v); err == nil {
		resp.Body = v
	}
}

// paramString renders a parameter value the way the query-string transports
// expect: booleans as true/false, numbers without exponent noise, strings
// verbatim. Nested structures are JSON-encoded.
func paramString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
