package authflow

import (
	"context"
	"encoding/json"
)

// TokenKey is the fixed storage key of the session token.
const TokenKey = "userToken"

// Credentials is the login payload.
type Credentials struct {
	Email    string
	Password string
}

// Profile is the registration payload.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// FederatedCredential is an identity provider assertion, forwarded verbatim.
type FederatedCredential struct {
	Credential string
}

// AuthResult is a completed Auth API exchange. An empty Token is a soft
// failure; Message then carries the server explanation when one was sent.
type AuthResult struct {
	Token   string
	Message string
}

// SessionCheck is the session probe answer. User is the raw user object.
type SessionCheck struct {
	User json.RawMessage
}

// AuthClient is the remote Auth API as consumed by the flows. A returned
// error means the call itself failed (network, protocol, malformed body).
type AuthClient interface {
	Login(ctx context.Context, credentials Credentials) (AuthResult, error)
	Register(ctx context.Context, profile Profile) (AuthResult, error)
	FederatedLogin(ctx context.Context, idToken string) (AuthResult, error)
	CheckSession(ctx context.Context, token string) (SessionCheck, error)
}

// TokenStore persists the session token under TokenKey.
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, bool, error)
	ClearToken(ctx context.Context) error
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(Notice)
}

// Navigator moves the user elsewhere. Navigate is an in-app route change;
// Redirect is a full-page navigation that discards this page's state.
type Navigator interface {
	Navigate(route string)
	Redirect(route string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f.
func (f NotifierFunc) Notify(notice Notice) {
	if f != nil {
		f(notice)
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

type discardNavigator struct{}

func (discardNavigator) Navigate(string) {}
func (discardNavigator) Redirect(string) {}
