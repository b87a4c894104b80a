// Package web parses web command flags and launches the auth web server.
package web

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/chat.space/internal/platform/cmd"
	"github.com/louisbranch/chat.space/internal/platform/timeouts"
	"github.com/louisbranch/chat.space/internal/services/web"
)

// Config holds the web command configuration. The Google client secret is
// read from the environment only.
type Config struct {
	HTTPAddr            string `env:"CHAT_SPACE_WEB_HTTP_ADDR" envDefault:"localhost:8090"`
	AuthBaseURL         string `env:"CHAT_SPACE_WEB_AUTH_BASE_URL" envDefault:"http://localhost:5000"`
	TrustForwardedProto bool   `env:"CHAT_SPACE_WEB_TRUST_FORWARDED_PROTO"`
	TokenScriptAccess   bool   `env:"CHAT_SPACE_WEB_TOKEN_SCRIPT_ACCESS"`
	GoogleClientID      string `env:"CHAT_SPACE_GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `env:"CHAT_SPACE_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL   string `env:"CHAT_SPACE_GOOGLE_REDIRECT_URL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AuthBaseURL, "auth-base-url", cfg.AuthBaseURL, "Auth API base URL")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honor X-Forwarded-Proto from a TLS proxy")
	fs.BoolVar(&cfg.TokenScriptAccess, "token-script-access", cfg.TokenScriptAccess, "Let scripts read the session token cookie")
	fs.StringVar(&cfg.GoogleClientID, "google-client-id", cfg.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&cfg.GoogleRedirectURL, "google-redirect-url", cfg.GoogleRedirectURL, "Absolute Google OAuth callback URL")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the auth web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWeb, entrypoint.RunOptions{ShutdownTimeout: timeouts.Shutdown}, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			AuthBaseURL:         cfg.AuthBaseURL,
			GoogleClientID:      cfg.GoogleClientID,
			GoogleClientSecret:  cfg.GoogleClientSecret,
			GoogleRedirectURL:   cfg.GoogleRedirectURL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			TokenScriptAccess:   cfg.TokenScriptAccess,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
