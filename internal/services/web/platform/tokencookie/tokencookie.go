// Package tokencookie keeps the chat.space session token in the browser.
package tokencookie

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
)

// Name is the cookie holding the session token. The chat application reads
// the same key.
const Name = authflow.TokenKey

// MaxAge is the longest lifetime browsers honor. The token has no
// client-side expiry of its own.
const MaxAge = 400 * 24 * time.Hour

// ErrInvalidToken rejects an empty token.
var ErrInvalidToken = errors.New("tokencookie: token is empty")

// Policy controls cookie attributes.
type Policy struct {
	Scheme requestmeta.SchemePolicy
	// ScriptAccess drops HttpOnly so a script-driven chat client can read the
	// token.
	ScriptAccess bool
}

// Read returns the decoded token cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := decodeValue(strings.TrimSpace(cookie.Value))
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Write sets the token cookie. The token is opaque: bytes outside the
// cookie-octet set are percent-encoded and Read restores them.
func Write(w http.ResponseWriter, r *http.Request, token string, policy Policy) error {
	if w == nil {
		return errors.New("tokencookie: response writer is required")
	}
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	http.SetCookie(w, policy.cookie(r, encodeValue(token), int(MaxAge/time.Second)))
	return nil
}

// Clear expires the token cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy Policy) {
	if w == nil {
		return
	}
	http.SetCookie(w, policy.cookie(r, "", -1))
}

func (p Policy) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: !p.ScriptAccess,
		Secure:   p.Scheme.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// encodeValue percent-encodes every byte outside the RFC 6265 cookie-octet
// set, plus '%' itself. Script readers decode it with decodeURIComponent.
func encodeValue(value string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if cookieOctet(c) && c != '%' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

// decodeValue reverses encodeValue. Values that do not decode are returned
// as sent.
func decodeValue(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

func cookieOctet(c byte) bool {
	return c >= 0x21 && c <= 0x7e && c != '"' && c != ',' && c != ';' && c != '\\'
}

// Store is an authflow.TokenStore bound to one request and its response.
// Writes are visible to later reads on the same Store.
type Store struct {
	w      http.ResponseWriter
	r      *http.Request
	policy Policy

	mu      sync.Mutex
	written bool
	token   string
}

// NewStore binds a token store to one exchange.
func NewStore(w http.ResponseWriter, r *http.Request, policy Policy) *Store {
	return &Store{w: w, r: r, policy: policy}
}

// SaveToken writes the token cookie.
func (s *Store) SaveToken(_ context.Context, token string) error {
	if err := Write(s.w, s.r, token, s.policy); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written, s.token = true, token
	return nil
}

// LoadToken returns the token written on this exchange, else the request
// cookie.
func (s *Store) LoadToken(context.Context) (string, bool, error) {
	s.mu.Lock()
	written, token := s.written, s.token
	s.mu.Unlock()
	if written {
		return token, token != "", nil
	}
	token, ok := Read(s.r)
	return token, ok, nil
}

// ClearToken expires the token cookie.
func (s *Store) ClearToken(context.Context) error {
	Clear(s.w, s.r, s.policy)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written, s.token = true, ""
	return nil
}

var _ authflow.TokenStore = (*Store)(nil)
