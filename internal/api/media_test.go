package api

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedMediaClient(cfg *CallConfig) *mediaClient {
	c := newMediaClient(cfg)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	c.nonce = func() string { return "12345678" }
	return c
}

func TestSignParams(t *testing.T) {
	values := map[string]string{
		"api_key":       "abcdef12",
		"api_timestamp": "1700000000",
		"api_nonce":     "12345678",
		"api_format":    "json",
		"search":        "hello world",
	}

	// Sorted, percent-encoded base string with the secret appended.
	base := "api_format=json&api_key=abcdef12&api_nonce=12345678" +
		"&api_timestamp=1700000000&search=hello%20world" + "sekret"
	sum := sha1.Sum([]byte(base))
	want := hex.EncodeToString(sum[:])

	if got := signParams(values, "sekret"); got != want {
		t.Errorf("signParams() = %q, want %q", got, want)
	}
}

func TestSignatureEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"hello world", "hello%20world"},
		{"a&b=c", "a%26b%3Dc"},
	}
	for _, tt := range tests {
		if got := signatureEscape(tt.in); got != tt.want {
			t.Errorf("signatureEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMediaCall(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok", "videos": []}`))
	}))
	defer server.Close()

	cfg := &CallConfig{
		Family:    FamilyMedia,
		Host:      server.URL,
		Login:     "abcdef12",
		Secret:    "sekret",
		VerifyTLS: true,
	}
	client := fixedMediaClient(cfg)

	resp, err := client.Call(context.Background(), "videos/list", map[string]any{"result_limit": int64(10)})
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}

	if gotPath != "/v1/videos/list" {
		t.Errorf("expected path /v1/videos/list, got %q", gotPath)
	}
	if got := gotQuery["api_key"]; len(got) != 1 || got[0] != "abcdef12" {
		t.Errorf("expected api_key=abcdef12, got %v", got)
	}
	if got := gotQuery["result_limit"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("expected result_limit=10, got %v", got)
	}
	if got := gotQuery["api_format"]; len(got) != 1 || got[0] != "json" {
		t.Errorf("expected default api_format=json, got %v", got)
	}

	// The signature must cover everything but itself.
	values := map[string]string{}
	for k, v := range gotQuery {
		if k != "api_signature" {
			values[k] = v[0]
		}
	}
	want := signParams(values, "sekret")
	if got := gotQuery["api_signature"]; len(got) != 1 || got[0] != want {
		t.Errorf("signature mismatch: got %v, want %q", got, want)
	}

	if !resp.OK {
		t.Error("expected OK for status=ok body")
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestMediaCallStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The media API reports failures with HTTP 200 and an error status.
		w.Write([]byte(`{"status": "error", "message": "parameter missing"}`))
	}))
	defer server.Close()

	cfg := &CallConfig{Family: FamilyMedia, Host: server.URL, Login: "abcdef12", Secret: "sekret", VerifyTLS: true}
	client := fixedMediaClient(cfg)

	resp, err := client.Call(context.Background(), "videos/show", nil)
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	if resp.OK {
		t.Error("expected failure for status=error body")
	}
	body, ok := resp.Body.(map[string]any)
	if !ok || body["message"] != "parameter missing" {
		t.Errorf("expected decoded body preserved for display, got %#v", resp.Body)
	}
}

func TestMediaCallTransportError(t *testing.T) {
	cfg := &CallConfig{Family: FamilyMedia, Host: "http://127.0.0.1:1", Login: "abcdef12", Secret: "sekret", VerifyTLS: true, Timeout: time.Second}
	client := fixedMediaClient(cfg)

	_, err := client.Call(context.Background(), "videos/list", nil)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Errorf("expected RemoteError for unreachable host, got %v", err)
	}
}

func TestMediaCallFormatOverride(t *testing.T) {
	var gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFormat = r.URL.Query().Get("api_format")
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	cfg := &CallConfig{Family: FamilyMedia, Host: server.URL, Login: "abcdef12", Secret: "sekret", VerifyTLS: true, Format: "py"}
	client := fixedMediaClient(cfg)

	if _, err := client.Call(context.Background(), "videos/list", nil); err != nil {
		t.Fatal(err)
	}
	if gotFormat != "py" {
		t.Errorf("expected api_format=py, got %q", gotFormat)
	}
}

func TestRandomNonce(t *testing.T) {
	for i := 0; i < 10; i++ {
		nonce := randomNonce()
		if len(nonce) != 8 {
			t.Fatalf("expected 8-digit nonce, got %q", nonce)
		}
		for _, c := range nonce {
			if c < '0' || c > '9' {
				t.Fatalf("nonce %q contains non-digit", nonce)
			}
		}
	}
}
