package templates

import (
	"strings"

	"github.com/louisbranch/chat.space/internal/services/web/routepath"
)

const (
	stylesheetPath = routepath.StaticPrefix + "auth.css"
	scriptPath     = routepath.StaticPrefix + "auth.js"

	// GoogleIdentityScript loads Google Identity Services.
	GoogleIdentityScript = "https://accounts.google.com/gsi/client"
)

// LayoutOptions configures the document shell around an auth page.
type LayoutOptions struct {
	Title           string
	MetaDescription string
	Lang            string
	// Scripts are extra external scripts loaded async after the page script.
	Scripts []string
}

func (o LayoutOptions) lang() string {
	if lang := strings.TrimSpace(o.Lang); lang != "" {
		return lang
	}
	return "en-US"
}

func (o LayoutOptions) description() string {
	return strings.TrimSpace(o.MetaDescription)
}

func (o LayoutOptions) scripts() []string {
	kept := make([]string, 0, len(o.Scripts))
	for _, src := range o.Scripts {
		if src = strings.TrimSpace(src); src != "" {
			kept = append(kept, src)
		}
	}
	return kept
}
