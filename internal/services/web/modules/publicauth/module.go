// Package publicauth serves the login and registration pages, their form
// posts, Google sign-in and logout.
package publicauth

import (
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/integration/google"
	module "github.com/louisbranch/chat.space/internal/services/web/module"
	"github.com/louisbranch/chat.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/chat.space/internal/services/web/platform/tokencookie"
	"github.com/louisbranch/chat.space/internal/services/web/routepath"
)

// Config carries the module's collaborators.
type Config struct {
	// Auth calls the Auth API. A nil client renders the pages but every
	// exchange fails as unavailable.
	Auth authflow.AuthClient
	// Google enables Google sign-in when set.
	Google *google.Provider
	// Token controls the session token cookie.
	Token tokencookie.Policy
	// LandingRoute overrides the authenticated landing page.
	LandingRoute string
	Logger       *log.Logger
}

// Module provides the unauthenticated auth routes.
type Module struct {
	cfg Config
}

// New returns the auth module.
func New(cfg Config) Module {
	if cfg.Auth == nil {
		cfg.Auth = unavailableAuthClient{}
	}
	if strings.TrimSpace(cfg.LandingRoute) == "" {
		cfg.LandingRoute = routepath.Chats
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return Module{cfg: cfg}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "publicauth"
}

// Healthy reports whether an Auth API client is configured.
func (m Module) Healthy() bool {
	_, unavailable := m.cfg.Auth.(unavailableAuthClient)
	return !unavailable
}

// Mount wires the auth routes at the root. Responses are never cached.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	return module.Mount{Prefix: routepath.Root, Handler: httpx.Chain(mux, httpx.NoStore())}, nil
}
