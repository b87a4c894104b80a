package google

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
)

// StateCookieName holds the pending redirect flow between start and callback.
const StateCookieName = "chat_google_oauth"

// stateCookiePath scopes the cookie to the Google start and callback routes.
const stateCookiePath = "/auth/google"

// WriteState stores pending in a short-lived cookie.
func WriteState(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, pending PendingState) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(pending.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(StateTTL.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     stateCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ConsumeState reads and clears the pending flow. The cookie is single use:
// it is cleared even when it cannot be decoded.
func ConsumeState(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) (PendingState, error) {
	if r == nil {
		return PendingState{}, ErrInvalidState
	}
	cookie, err := r.Cookie(StateCookieName)
	if err != nil {
		return PendingState{}, ErrInvalidState
	}
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     StateCookieName,
			Value:    "",
			Path:     stateCookiePath,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   policy.IsHTTPS(r),
			SameSite: http.SameSiteLaxMode,
		})
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cookie.Value))
	if err != nil {
		return PendingState{}, ErrInvalidState
	}
	var pending PendingState
	if err := json.Unmarshal(decoded, &pending); err != nil {
		return PendingState{}, ErrInvalidState
	}
	if strings.TrimSpace(pending.State) == "" || strings.TrimSpace(pending.Verifier) == "" {
		return PendingState{}, ErrInvalidState
	}
	return pending, nil
}
