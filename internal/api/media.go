package api

import (
	"context"
	"crypto/rand"
	"crypto/sha1" // #nosec G505 - request signing scheme mandated by the media services API
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// mediaClient calls the media services API (ms1). Every request is a signed
// GET: the parameters are sorted, percent-encoded, concatenated with the
// API secret and hashed into an api_signature parameter.
type mediaClient struct {
	cfg  *CallConfig
	http *http.Client

	// now and nonce are swappable for tests.
	now   func() time.Time
	nonce func() string
}

func newMediaClient(cfg *CallConfig) *mediaClient {
	return &mediaClient{
		cfg:   cfg,
		http:  buildHTTPClient(cfg),
		now:   time.Now,
		nonce: randomNonce,
	}
}

// randomNonce returns an 8-digit random nonce.
func randomNonce() string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000000))
	if err != nil {
		return "00000000"
	}
	return fmt.Sprintf("%08d", n.Int64())
}

// Call implements Caller.
func (c *mediaClient) Call(ctx context.Context, endpoint string, params map[string]any) (*Response, error) {
	values := map[string]string{
		"api_key":       c.cfg.Login,
		"api_timestamp": strconv.FormatInt(c.now().Unix(), 10),
		"api_nonce":     c.nonce(),
	}
	format := c.cfg.Format
	if format == "" {
		format = "json"
	}
	values["api_format"] = format
	for k, v := range params {
		values[k] = paramString(v)
	}
	values["api_signature"] = signParams(values, c.cfg.Secret)

	query := make(url.Values, len(values))
	for k, v := range values {
		query.Set(k, v)
	}

	reqURL := c.cfg.BaseURL() + "/v1/" + strings.Trim(endpoint, "/ ") + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RemoteError{Message: err.Error()}
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Message: err.Error()}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &RemoteError{Status: httpResp.StatusCode, Message: err.Error()}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Raw:        raw,
	}
	decodeBody(resp)

	// The media API reports success through a status field, not the HTTP
	// status class.
	if body, ok := resp.Body.(map[string]any); ok {
		resp.OK = body["status"] == "ok"
	}
	return resp, nil
}

// signParams computes the request signature: keys sorted, percent-encoded
// key=value pairs joined by &, secret appended, SHA1 hex digest.
func signParams(values map[string]string, secret string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(signatureEscape(k))
		b.WriteByte('=')
		b.WriteString(signatureEscape(values[k]))
	}
	b.WriteString(secret)

	sum := sha1.Sum([]byte(b.String())) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// signatureEscape percent-encodes for the signature base string, which uses
// %20 for spaces rather than the form-encoding plus sign.
func signatureEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
