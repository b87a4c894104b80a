package publicauth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/chat.space/internal/services/web/platform/tokencookie"
	"github.com/louisbranch/chat.space/internal/services/web/routepath"
)

func TestRegisterRoutesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, handlers{})
}

func TestMountUsesRootPrefix(t *testing.T) {
	t.Parallel()

	mount, err := New(Config{}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.Root {
		t.Fatalf("prefix = %q, want %q", mount.Prefix, routepath.Root)
	}
	if mount.Handler == nil {
		t.Fatal("expected handler")
	}
}

func TestModuleHealthy(t *testing.T) {
	t.Parallel()

	if New(Config{}).Healthy() {
		t.Fatal("module without an auth client should be unhealthy")
	}
	if !New(Config{Auth: &stubAuth{}}).Healthy() {
		t.Fatal("module with an auth client should be healthy")
	}
	if got := New(Config{}).ID(); got != "publicauth" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestRouteMethodContracts(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{Auth: &stubAuth{}})
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: routepath.Root, want: http.StatusFound},
		{method: http.MethodGet, path: routepath.Health, want: http.StatusOK},
		{method: http.MethodHead, path: routepath.Health, want: http.StatusOK},
		{method: http.MethodGet, path: routepath.Login, want: http.StatusOK},
		{method: http.MethodGet, path: routepath.Register, want: http.StatusOK},
		{method: http.MethodDelete, path: routepath.Login, want: http.StatusMethodNotAllowed},
		{method: http.MethodPut, path: routepath.Register, want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: routepath.GoogleCredential, want: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: routepath.GoogleCallback, want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: routepath.Logout, want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/missing", want: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			t.Parallel()
			rr := serve(h, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestLogoutGetSetsAllowHeader(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{Auth: &stubAuth{}})
	rr := serve(h, httptest.NewRequest(http.MethodGet, routepath.Logout, nil))
	if got := rr.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q, want %q", got, http.MethodPost)
	}
}

func TestRootRedirectsToLogin(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{Auth: &stubAuth{}})
	rr := serve(h, httptest.NewRequest(http.MethodGet, routepath.Root, nil))
	if got := rr.Header().Get("Location"); got != routepath.Login {
		t.Fatalf("Location = %q, want %q", got, routepath.Login)
	}
}

func TestLoginPageRendersForm(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{Auth: &stubAuth{}})
	rr := serve(h, httptest.NewRequest(http.MethodGet, routepath.Login, nil))
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("content type = %q", got)
	}
	body := rr.Body.String()
	for _, want := range []string{`name="email"`, `name="password"`, `action="/login"`, `href="/register"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("login page missing %s: %q", want, body)
		}
	}
	if strings.Contains(body, `name="firstname"`) {
		t.Fatalf("login page should not render name fields: %q", body)
	}
}

func TestLoginPageRendersGoogleWhenConfigured(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{Auth: &stubAuth{}, Google: testGoogle(t)})
	rr := serve(h, httptest.NewRequest(http.MethodGet, routepath.Login, nil))
	body := rr.Body.String()
	if !strings.Contains(body, `data-client_id="client-1"`) {
		t.Fatalf("google button missing: %q", body)
	}
	if !strings.Contains(body, `data-login_uri="http://example.com/auth/google/credential?flow=login"`) {
		t.Fatalf("login uri missing: %q", body)
	}
}

func TestAuthPagesRedirectSignedInBrowsers(t *testing.T) {
	t.Parallel()

	auth := &stubAuth{sessionUser: json.RawMessage(`{"id":"u1"}`)}
	h := newTestHandler(t, Config{Auth: auth})

	for _, path := range []string{routepath.Login, routepath.Register} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: tokencookie.Name, Value: "abc123"})
		rr := serve(h, req)
		if rr.Code != http.StatusFound {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusFound)
		}
		if got := rr.Header().Get("Location"); got != routepath.Chats {
			t.Fatalf("%s Location = %q, want %q", path, got, routepath.Chats)
		}
	}
}

func TestAuthPagesRenderWhenSessionInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		auth *stubAuth
	}{
		{name: "no user", auth: &stubAuth{sessionUser: json.RawMessage(`null`)}},
		{name: "check fails", auth: &stubAuth{sessionErr: errors.New("boom")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHandler(t, Config{Auth: tc.auth})
			req := httptest.NewRequest(http.MethodGet, routepath.Login, nil)
			req.AddCookie(&http.Cookie{Name: tokencookie.Name, Value: "stale"})
			rr := serve(h, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
			}
			if got := tc.auth.callCount("check"); got != 1 {
				t.Fatalf("check calls = %d, want 1", got)
			}
		})
	}
}

func TestAuthPagesSkipSessionCheckWithoutToken(t *testing.T) {
	t.Parallel()

	auth := &stubAuth{sessionUser: json.RawMessage(`{"id":"u1"}`)}
	h := newTestHandler(t, Config{Auth: auth})
	rr := serve(h, httptest.NewRequest(http.MethodGet, routepath.Login, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := auth.callCount("check"); got != 0 {
		t.Fatalf("check calls = %d, want 0", got)
	}
}
