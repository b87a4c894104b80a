package tokencookie

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
)

func TestRead(t *testing.T) {
	t.Parallel()

	if _, ok := Read(nil); ok {
		t.Fatalf("expected nil request to have no token cookie")
	}
	req := httptest.NewRequest(http.MethodGet, "http://chat.example.test/login", nil)
	if _, ok := Read(req); ok {
		t.Fatalf("expected missing cookie")
	}
	req.AddCookie(&http.Cookie{Name: "userToken", Value: "  abc123  "})
	value, ok := Read(req)
	if !ok || value != "abc123" {
		t.Fatalf("Read() = %q, %v", value, ok)
	}
}

func TestWriteAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		target       string
		policy       Policy
		wantSecure   bool
		wantHTTPOnly bool
	}{
		{name: "plain http", target: "http://chat.example.test/login", wantHTTPOnly: true},
		{name: "https", target: "https://chat.example.test/login", wantSecure: true, wantHTTPOnly: true},
		{name: "script access", target: "http://chat.example.test/login", policy: Policy{ScriptAccess: true}},
		{name: "forwarded https", target: "http://chat.example.test/login", policy: Policy{Scheme: requestmeta.SchemePolicy{TrustForwardedProto: true}}, wantSecure: true, wantHTTPOnly: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, tc.target, nil)
			req.Header.Set("X-Forwarded-Proto", "https")
			rr := httptest.NewRecorder()
			if err := Write(rr, req, "abc123", tc.policy); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
			if err != nil {
				t.Fatalf("ParseSetCookie() error = %v", err)
			}
			if cookie.Name != "userToken" || cookie.Value != "abc123" || cookie.Path != "/" {
				t.Fatalf("cookie = %+v", cookie)
			}
			if cookie.Secure != tc.wantSecure || cookie.HttpOnly != tc.wantHTTPOnly {
				t.Fatalf("Secure = %v HttpOnly = %v, want %v %v", cookie.Secure, cookie.HttpOnly, tc.wantSecure, tc.wantHTTPOnly)
			}
			if cookie.SameSite != http.SameSiteLaxMode {
				t.Fatalf("SameSite = %v, want Lax", cookie.SameSite)
			}
			if cookie.MaxAge != int(MaxAge/time.Second) {
				t.Fatalf("MaxAge = %d", cookie.MaxAge)
			}
		})
	}
}

func TestWriteRejectsEmptyTokens(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	for _, token := range []string{"", "   "} {
		rr := httptest.NewRecorder()
		if err := Write(rr, req, token, Policy{}); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Write(%q) error = %v, want ErrInvalidToken", token, err)
		}
		if rr.Header().Get("Set-Cookie") != "" {
			t.Fatalf("Write(%q) set a cookie", token)
		}
	}
}

func TestWriteCarriesOpaqueTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		encoded string
	}{
		{token: "abc123", encoded: "abc123"},
		{token: "eyJhbGciOi.eyJzdWIi.sig-_", encoded: "eyJhbGciOi.eyJzdWIi.sig-_"},
		{token: "opaque token,v1", encoded: "opaque%20token%2Cv1"},
		{token: `a;b"c\d`, encoded: "a%3Bb%22c%5Cd"},
		{token: "100%+tök", encoded: "100%25+t%C3%B6k"},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			if err := Write(rr, httptest.NewRequest(http.MethodPost, "/login", nil), tc.token, Policy{}); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			cookies := rr.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Value != tc.encoded {
				t.Fatalf("cookies = %+v, want value %q", cookies, tc.encoded)
			}

			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			req.AddCookie(cookies[0])
			got, ok := Read(req)
			if !ok || got != tc.token {
				t.Fatalf("Read() = %q, %v, want %q", got, ok, tc.token)
			}
		})
	}
}

func TestStoreReadsOwnWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: "old"})
	rr := httptest.NewRecorder()
	store := NewStore(rr, req, Policy{})

	token, ok, err := store.LoadToken(ctx)
	if err != nil || !ok || token != "old" {
		t.Fatalf("LoadToken() = %q, %v, %v", token, ok, err)
	}
	if err := store.SaveToken(ctx, "new"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	if token, _, _ := store.LoadToken(ctx); token != "new" {
		t.Fatalf("LoadToken() after save = %q", token)
	}
	if err := store.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if _, ok, _ := store.LoadToken(ctx); ok {
		t.Fatalf("LoadToken() after clear ok = true")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 2 || cookies[1].MaxAge >= 0 {
		t.Fatalf("cookies = %+v, want write then expire", cookies)
	}
}
