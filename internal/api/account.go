package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// accountClient calls the account API v2 (ac2) with basic-auth JSON
// requests. The HTTP method is caller-selectable; admin calls are routed
// through the admin path prefix.
type accountClient struct {
	cfg  *CallConfig
	http *http.Client
}

func newAccountClient(cfg *CallConfig) *accountClient {
	return &accountClient{
		cfg:  cfg,
		http: buildHTTPClient(cfg),
	}
}

// Call implements Caller.
func (c *accountClient) Call(ctx context.Context, endpoint string, params map[string]any) (*Response, error) {
	method := strings.ToUpper(c.cfg.Method)
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, &RemoteError{Message: fmt.Sprintf("unsupported method %q", c.cfg.Method)}
	}

	prefix := "/v2/"
	if c.cfg.IsAdmin {
		prefix = "/v2/admin/"
	}
	reqURL := c.cfg.BaseURL() + prefix + strings.Trim(endpoint, "/ ")

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
		if len(params) > 0 {
			query := make(url.Values, len(params))
			for k, v := range params {
				query.Set(k, paramString(v))
			}
			reqURL += "?" + query.Encode()
		}
	default:
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, &RemoteError{Message: err.Error()}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &RemoteError{Message: err.Error()}
	}
	req.SetBasicAuth(c.cfg.Login, c.cfg.Secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
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
		// Success for this family is the HTTP status class.
		OK:         httpResp.StatusCode >= 200 && httpResp.StatusCode < 300,
		StatusCode: httpResp.StatusCode,
		Raw:        raw,
		Headers:    normalizeHeaders(httpResp.Header),
	}
	decodeBody(resp)
	return resp, nil
}
