package templates

import (
	"strings"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

// GoogleView configures Google sign-in on an auth page.
type GoogleView struct {
	// ClientID enables the Google Identity Services button.
	ClientID string
	// LoginURI is the absolute URI Google posts the credential to.
	LoginURI string
	// Redirect enables the OAuth redirect link.
	Redirect bool
}

func (g GoogleView) identityServices() bool {
	return strings.TrimSpace(g.ClientID) != "" && strings.TrimSpace(g.LoginURI) != ""
}

// Enabled reports whether any Google sign-in entry point renders.
func (g GoogleView) Enabled() bool {
	return g.identityServices() || g.Redirect
}

func googleContext(flow authflow.Flow) string {
	if flow == authflow.FlowRegister {
		return "signup"
	}
	return "signin"
}

func googleButtonText(flow authflow.Flow) string {
	if flow == authflow.FlowRegister {
		return "signup_with"
	}
	return "signin_with"
}
