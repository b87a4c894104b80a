package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SessionStatus is the capability the session guard grants.
type SessionStatus int

const (
	SessionAnonymous SessionStatus = iota
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	if s == SessionAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is the guard result. User is only set when Authenticated.
type Session struct {
	Status SessionStatus
	User   json.RawMessage
}

// Authenticated reports whether the stored token belongs to a live session.
func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated
}

// Guard decides whether the login and registration forms are reachable.
type Guard struct {
	Auth   AuthClient
	Tokens TokenStore
}

// Check resolves the stored token into a session. Check failures degrade to
// an anonymous session and are returned for logging.
func (g Guard) Check(ctx context.Context) (Session, error) {
	if g.Auth == nil || g.Tokens == nil {
		return Session{}, errors.New("authflow: guard is not configured")
	}
	token, ok, err := g.Tokens.LoadToken(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load token: %w", err)
	}
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Session{}, nil
	}
	check, err := g.Auth.CheckSession(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("check session: %w", err)
	}
	if !userPresent(check.User) {
		return Session{}, nil
	}
	return Session{Status: SessionAuthenticated, User: append(json.RawMessage(nil), check.User...)}, nil
}

// userPresent treats null, false, zero and the empty string as absent.
func userPresent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
