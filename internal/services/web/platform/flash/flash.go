// Package flash provides one-time web notices persisted across redirects.
//
// The cookie is readable by page script so the chat application can show a
// notice raised just before it was entered (the registration toast).
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
)

// CookieName is the canonical cookie used for one-time web notices.
const CookieName = "chat_flash"

// maxNotices caps how many notices one redirect may carry.
const maxNotices = 3

// maxMessageRunes caps server-supplied messages kept in the cookie.
const maxMessageRunes = 200

// Kind classifies flash notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice stores one flash message. Key is a localization key; Message, when
// set, is literal text that wins over Key.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Key     string `json:"key"`
	Message string `json:"message,omitempty"`
}

// NoticeSuccess creates a success notice for the provided localization key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// Write stores notices in the flash cookie for the next page render.
// Invalid notices are dropped; nothing is written when none remain.
func Write(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, notices ...Notice) {
	if w == nil {
		return
	}
	kept := make([]Notice, 0, len(notices))
	for _, notice := range notices {
		if normalized, ok := normalizeNotice(notice); ok {
			kept = append(kept, normalized)
		}
		if len(kept) == maxNotices {
			break
		}
	}
	if len(kept) == 0 {
		return
	}
	payload, err := json.Marshal(kept)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear reads and clears the flash cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) []Notice {
	if r == nil {
		return nil
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return nil
	}
	if w != nil {
		Clear(w, r, policy)
	}
	return decodeNotices(cookie.Value)
}

// Clear expires any flash cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func decodeNotices(raw string) []Notice {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var notices []Notice
	if err := json.Unmarshal(decoded, &notices); err != nil {
		return nil
	}
	kept := make([]Notice, 0, len(notices))
	for _, notice := range notices {
		if normalized, ok := normalizeNotice(notice); ok {
			kept = append(kept, normalized)
		}
		if len(kept) == maxNotices {
			break
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	notice.Message = strings.TrimSpace(notice.Message)
	if notice.Key == "" && notice.Message == "" {
		return Notice{}, false
	}
	if utf8.RuneCountInString(notice.Message) > maxMessageRunes {
		notice.Message = string([]rune(notice.Message)[:maxMessageRunes])
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
