// Package routepath stores canonical HTTP paths for the auth web service.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root             = "/"
	Login            = "/login"
	Register         = "/register"
	Logout           = "/logout"
	Health           = "/up"
	StaticPrefix     = "/static/"
	AuthPrefix       = "/auth/"
	GoogleStart      = "/auth/google"
	GoogleCallback   = "/auth/google/callback"
	GoogleCredential = "/auth/google/credential"

	// Chats is the authenticated landing route. It is served by the chat
	// application, not by this service.
	Chats = "/chats"
)

// FlowParam carries the originating page through federated sign-in hops.
const FlowParam = "flow"

// FlowPage returns the page path for a flow name, defaulting to login.
func FlowPage(flow string) string {
	switch strings.TrimSpace(flow) {
	case "register":
		return Register
	default:
		return Login
	}
}

// GoogleStartFor returns the Google redirect entry point for a flow.
func GoogleStartFor(flow string) string {
	return withFlow(GoogleStart, flow)
}

// GoogleCredentialFor returns the Google Identity Services login URI for a flow.
func GoogleCredentialFor(flow string) string {
	return withFlow(GoogleCredential, flow)
}

func withFlow(path string, flow string) string {
	flow = strings.TrimSpace(flow)
	if flow == "" {
		return path
	}
	return path + "?" + url.Values{FlowParam: []string{flow}}.Encode()
}
