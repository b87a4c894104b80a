// Package google integrates Google sign-in: the OAuth 2.0 authorization-code
// flow with PKCE and the Google Identity Services credential post.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/louisbranch/chat.space/internal/platform/timeouts"
)

// DefaultScopes are requested when Config.Scopes is empty. The id_token is
// the only artifact this service forwards.
var DefaultScopes = []string{"openid", "email", "profile"}

const (
	// StateTTL bounds how long a started redirect flow stays valid.
	StateTTL = 10 * time.Minute
)

var (
	// ErrNotConfigured reports a redirect flow attempted without a client secret
	// or redirect URL.
	ErrNotConfigured = errors.New("google: redirect sign-in is not configured")
	// ErrProviderDenied reports an error returned by Google on the callback.
	ErrProviderDenied = errors.New("google: provider returned an error")
	// ErrInvalidState reports a missing, mismatched, or expired state.
	ErrInvalidState = errors.New("google: invalid oauth state")
	// ErrMissingCode reports a callback without an authorization code.
	ErrMissingCode = errors.New("google: missing authorization code")
	// ErrNoIDToken reports a token response without an id_token.
	ErrNoIDToken = errors.New("google: token response has no id_token")
)

// Config holds Google client registration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Endpoint overrides Google's endpoints.
	Endpoint oauth2.Endpoint
	// HTTPClient is used for the token exchange.
	HTTPClient *http.Client
}

// Provider runs Google sign-in.
type Provider struct {
	clientID   string
	oauth      *oauth2.Config
	redirect   bool
	httpClient *http.Client
	now        func() time.Time
	newState   func() string
}

// NewProvider builds a provider. A client id is required; the redirect flow
// additionally needs a client secret and redirect URL.
func NewProvider(cfg Config) (*Provider, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errors.New("google: client id is required")
	}
	redirectURL := strings.TrimSpace(cfg.RedirectURL)
	if redirectURL != "" {
		parsed, err := url.Parse(redirectURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("google: redirect url %q must be absolute", redirectURL)
		}
	}
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = googleoauth.Endpoint
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.TokenExchange}
	}
	return &Provider{
		clientID: clientID,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		redirect:   strings.TrimSpace(cfg.ClientSecret) != "" && redirectURL != "",
		httpClient: httpClient,
		now:        time.Now,
		newState:   uuid.NewString,
	}, nil
}

// ClientID returns the registered client id.
func (p *Provider) ClientID() string {
	if p == nil {
		return ""
	}
	return p.clientID
}

// RedirectEnabled reports whether the authorization-code flow can run.
func (p *Provider) RedirectEnabled() bool {
	return p != nil && p.redirect
}

// PendingState is what the browser carries between Begin and Complete.
type PendingState struct {
	State     string    `json:"state"`
	Verifier  string    `json:"verifier"`
	Flow      string    `json:"flow"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authorization is a started redirect flow.
type Authorization struct {
	URL     string
	Pending PendingState
}

// Begin starts the redirect flow for the originating page flow.
func (p *Provider) Begin(flow string) (Authorization, error) {
	if !p.RedirectEnabled() {
		return Authorization{}, ErrNotConfigured
	}
	verifier := oauth2.GenerateVerifier()
	pending := PendingState{
		State:     p.newState(),
		Verifier:  verifier,
		Flow:      strings.TrimSpace(flow),
		ExpiresAt: p.now().UTC().Add(StateTTL),
	}
	authURL := p.oauth.AuthCodeURL(pending.State,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
	return Authorization{URL: authURL, Pending: pending}, nil
}

// Complete validates the callback against pending and exchanges the code.
// It returns the id_token to forward as the federated credential.
func (p *Provider) Complete(ctx context.Context, pending PendingState, query url.Values) (string, error) {
	if !p.RedirectEnabled() {
		return "", ErrNotConfigured
	}
	if errParam := strings.TrimSpace(query.Get("error")); errParam != "" {
		return "", fmt.Errorf("%w: %s", ErrProviderDenied, errParam)
	}
	state := strings.TrimSpace(query.Get("state"))
	if state == "" || pending.State == "" || state != pending.State {
		return "", ErrInvalidState
	}
	if !pending.ExpiresAt.IsZero() && pending.ExpiresAt.Before(p.now().UTC()) {
		return "", fmt.Errorf("%w: expired", ErrInvalidState)
	}
	code := strings.TrimSpace(query.Get("code"))
	if code == "" {
		return "", ErrMissingCode
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(pending.Verifier))
	if err != nil {
		return "", fmt.Errorf("google: exchange code: %w", err)
	}
	idToken, _ := token.Extra("id_token").(string)
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", ErrNoIDToken
	}
	if _, err := p.ParseCredential(idToken); err != nil {
		return "", err
	}
	return idToken, nil
}
