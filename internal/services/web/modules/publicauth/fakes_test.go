package publicauth

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/integration/google"
	"github.com/louisbranch/chat.space/internal/services/web/platform/tokencookie"
)

type stubAuth struct {
	mu sync.Mutex

	result      authflow.AuthResult
	err         error
	sessionUser json.RawMessage
	sessionErr  error

	calls       []string
	credentials []authflow.Credentials
	profiles    []authflow.Profile
	idTokens    []string
	checked     []string
}

func (s *stubAuth) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubAuth) Login(_ context.Context, credentials authflow.Credentials) (authflow.AuthResult, error) {
	s.record("login")
	s.mu.Lock()
	s.credentials = append(s.credentials, credentials)
	s.mu.Unlock()
	return s.result, s.err
}

func (s *stubAuth) Register(_ context.Context, profile authflow.Profile) (authflow.AuthResult, error) {
	s.record("register")
	s.mu.Lock()
	s.profiles = append(s.profiles, profile)
	s.mu.Unlock()
	return s.result, s.err
}

func (s *stubAuth) FederatedLogin(_ context.Context, idToken string) (authflow.AuthResult, error) {
	s.record("federated")
	s.mu.Lock()
	s.idTokens = append(s.idTokens, idToken)
	s.mu.Unlock()
	return s.result, s.err
}

func (s *stubAuth) CheckSession(_ context.Context, token string) (authflow.SessionCheck, error) {
	s.record("check")
	s.mu.Lock()
	s.checked = append(s.checked, token)
	s.mu.Unlock()
	return authflow.SessionCheck{User: s.sessionUser}, s.sessionErr
}

func (s *stubAuth) callCount(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	mount, err := New(cfg).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mount.Handler
}

func postForm(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func responseCookie(rr *httptest.ResponseRecorder, name string) (*http.Cookie, bool) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie, true
		}
	}
	return nil, false
}

func tokenCookie(rr *httptest.ResponseRecorder) (string, bool) {
	cookie, ok := responseCookie(rr, tokencookie.Name)
	if !ok || cookie.MaxAge < 0 {
		return "", false
	}
	return cookie.Value, true
}

// followFlash renders the login page with the flash cookies rr set.
func followFlash(t *testing.T, handler http.Handler, rr *httptest.ResponseRecorder) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge >= 0 && cookie.Name != tokencookie.Name {
			req.AddCookie(cookie)
		}
	}
	page := serve(handler, req)
	if page.Code != http.StatusOK {
		t.Fatalf("GET /login status = %d", page.Code)
	}
	return page.Body.String()
}

func testGoogle(t *testing.T) *google.Provider {
	t.Helper()
	provider, err := google.NewProvider(google.Config{ClientID: "client-1"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return provider
}

func googleCredential(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, google.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "g-1",
			Audience:  jwt.ClaimStrings{"client-1"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}
