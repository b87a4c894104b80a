package google

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Google Identity Services post fields.
const (
	CredentialParam = "credential"
	CSRFParam       = "g_csrf_token"
	CSRFCookieName  = "g_csrf_token"
)

var (
	// ErrMalformedCredential reports a credential that is not a JWT.
	ErrMalformedCredential = errors.New("google: malformed credential")
	// ErrAudienceMismatch reports a credential issued to another client.
	ErrAudienceMismatch = errors.New("google: credential audience mismatch")
	// ErrExpiredCredential reports a credential past its exp claim.
	ErrExpiredCredential = errors.New("google: credential expired")
	// ErrCSRFMismatch reports a failed g_csrf_token double-submit check.
	ErrCSRFMismatch = errors.New("google: csrf token mismatch")
)

// Claims are the identity claims read from a Google ID token.
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
}

// ParseCredential checks that raw is structurally a JWT issued to this
// client and not expired. The signature is not verified here; the Auth API
// verifies it when the credential is exchanged.
func (p *Provider) ParseCredential(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrMalformedCredential
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}
	if clientID := p.ClientID(); clientID != "" && !slices.Contains([]string(claims.Audience), clientID) {
		return Claims{}, ErrAudienceMismatch
	}
	if claims.ExpiresAt != nil && p != nil && claims.ExpiresAt.Time.Before(p.now()) {
		return Claims{}, ErrExpiredCredential
	}
	return claims, nil
}

// CheckCSRF runs the Google Identity Services double-submit check: the
// g_csrf_token cookie must be present and equal the posted field. The form
// must already be parsed.
func CheckCSRF(r *http.Request) error {
	if r == nil {
		return ErrCSRFMismatch
	}
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return fmt.Errorf("%w: cookie missing", ErrCSRFMismatch)
	}
	posted := strings.TrimSpace(r.PostFormValue(CSRFParam))
	if posted == "" {
		return fmt.Errorf("%w: field missing", ErrCSRFMismatch)
	}
	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(posted)) != 1 {
		return ErrCSRFMismatch
	}
	return nil
}
