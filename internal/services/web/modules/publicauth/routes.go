package publicauth

import (
	"net/http"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/chat.space/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleRoot)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)

	mux.Handle(http.MethodGet+" "+routepath.Login, h.requireAnonymous(authflow.FlowLogin, http.HandlerFunc(h.handleLoginPage)))
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLoginSubmit)
	mux.Handle(http.MethodGet+" "+routepath.Register, h.requireAnonymous(authflow.FlowRegister, http.HandlerFunc(h.handleRegisterPage)))
	mux.HandleFunc(http.MethodPost+" "+routepath.Register, h.handleRegisterSubmit)

	mux.HandleFunc(http.MethodGet+" "+routepath.GoogleStart, h.handleGoogleStart)
	mux.HandleFunc(http.MethodGet+" "+routepath.GoogleCallback, h.handleGoogleCallback)
	mux.HandleFunc(http.MethodPost+" "+routepath.GoogleCredential, h.handleGoogleCredential)

	mux.Handle(routepath.Logout, httpx.Chain(http.HandlerFunc(h.handleLogout), httpx.AllowMethods(http.MethodPost)))
}

// requireAnonymous runs the session guard before an auth page renders and
// sends signed-in browsers to the landing route instead.
func (h handlers) requireAnonymous(flow authflow.Flow, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.newFlowSession(w, r, flow)
		if err != nil {
			h.logError(r, "auth flow init failed", err)
			next.ServeHTTP(w, r)
			return
		}
		if _, err := session.controller.OnMount(r.Context()); err != nil {
			h.logError(r, "session check failed", err)
		}
		if target, ok := session.nav.destination(); ok {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
