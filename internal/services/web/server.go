package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/chat.space/internal/platform/timeouts"
	webapp "github.com/louisbranch/chat.space/internal/services/web/app"
	"github.com/louisbranch/chat.space/internal/services/web/authclient"
	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/integration/google"
	module "github.com/louisbranch/chat.space/internal/services/web/module"
	"github.com/louisbranch/chat.space/internal/services/web/modules"
	"github.com/louisbranch/chat.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/chat.space/internal/services/web/platform/observability"
	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/chat.space/internal/services/web/platform/tokencookie"
)

// Config defines the inputs for the auth web server.
type Config struct {
	HTTPAddr string
	// AuthBaseURL roots the remote Auth API.
	AuthBaseURL string
	// AuthClient replaces the HTTP Auth API client when set.
	AuthClient authflow.AuthClient

	// GoogleClientID enables Google Identity Services sign-in.
	GoogleClientID string
	// GoogleClientSecret and GoogleRedirectURL additionally enable the
	// server-side redirect flow.
	GoogleClientSecret string
	GoogleRedirectURL  string

	// TrustForwardedProto honors X-Forwarded-Proto from a TLS-terminating proxy.
	TrustForwardedProto bool
	// TokenScriptAccess lets scripts read the session token cookie.
	TokenScriptAccess bool
	LandingRoute      string

	Logger         *log.Logger
	TracerProvider trace.TracerProvider
}

// Server hosts the auth web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	handler    http.Handler
	logger     *log.Logger
}

// NewServer builds a configured web server.
//
// NewServer is the process entrypoint adapter:
// - wires the Auth API client and optional Google provider into modules
// - composes module mounts under the shared middleware chain
// - returns a ready-to-run HTTP server wrapper.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	authClient := config.AuthClient
	if authClient == nil {
		if strings.TrimSpace(config.AuthBaseURL) == "" {
			return nil, errors.New("auth base url is required")
		}
		opts := []authclient.Option{}
		if config.TracerProvider != nil {
			opts = append(opts, authclient.WithTracerProvider(config.TracerProvider))
		}
		client, err := authclient.New(config.AuthBaseURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("build auth client: %w", err)
		}
		authClient = client
	}

	var googleProvider *google.Provider
	if strings.TrimSpace(config.GoogleClientID) != "" {
		provider, err := google.NewProvider(google.Config{
			ClientID:     config.GoogleClientID,
			ClientSecret: config.GoogleClientSecret,
			RedirectURL:  config.GoogleRedirectURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build google provider: %w", err)
		}
		googleProvider = provider
	}

	scheme := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	mods := modules.DefaultModules(modules.Dependencies{
		AuthClient:   authClient,
		Google:       googleProvider,
		TokenPolicy:  tokencookie.Policy{Scheme: scheme, ScriptAccess: config.TokenScriptAccess},
		LandingRoute: config.LandingRoute,
		Logger:       logger,
	})
	root, err := webapp.Compose(webapp.ComposeInput{Modules: mods})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}
	logModules(logger, mods, googleProvider)

	handler := httpx.Chain(root,
		httpx.RequestID(),
		observability.Tracing(config.TracerProvider),
		observability.RequestLogger(logger),
		httpx.RecoverPanic(logger),
		httpx.SecurityHeaders(),
	)
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ErrorLog:          logger,
		},
		handler: handler,
		logger:  logger,
	}, nil
}

// Handler returns the composed root handler.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("web auth listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops the HTTP server without draining.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	if err := s.httpServer.Close(); err != nil {
		s.logger.Printf("close http server: %v", err)
	}
}

func logModules(logger *log.Logger, mods []module.Module, googleProvider *google.Provider) {
	ids := make([]string, 0, len(mods))
	for _, mod := range mods {
		ids = append(ids, mod.ID())
	}
	logger.Printf(
		"web modules mounted modules=%s healthy=%t google=%t google_redirect=%t",
		strings.Join(ids, ","),
		webapp.Healthy(mods),
		googleProvider != nil,
		googleProvider.RedirectEnabled(),
	)
}
