// Package chatlogin parses terminal client flags and runs one auth command.
package chatlogin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	entrypoint "github.com/louisbranch/chat.space/internal/platform/cmd"
	"github.com/louisbranch/chat.space/internal/platform/timeouts"
	"github.com/louisbranch/chat.space/internal/services/chatlogin"
	"github.com/louisbranch/chat.space/internal/services/chatlogin/storage/sqlite"
	"github.com/louisbranch/chat.space/internal/services/web/authclient"
)

// Commands accepted as the first argument.
const (
	CommandLogin    = "login"
	CommandRegister = "register"
	CommandGoogle   = "google"
	CommandStatus   = "status"
	CommandLogout   = "logout"
)

// ErrUsage reports a missing or unknown command.
var ErrUsage = errors.New("usage: chatlogin [flags] login|register|google|status|logout")

// Config holds the terminal client configuration.
type Config struct {
	AuthBaseURL string `env:"CHAT_SPACE_AUTH_BASE_URL" envDefault:"http://localhost:5000"`
	ProfilePath string `env:"CHAT_SPACE_PROFILE_PATH"`
	IDToken     string `env:"-"`
	Command     string `env:"-"`
}

// ParseConfig parses environment, flags and the command name.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.AuthBaseURL, "auth-base-url", cfg.AuthBaseURL, "Auth API base URL")
	fs.StringVar(&cfg.ProfilePath, "profile", cfg.ProfilePath, "Path of the local profile database")
	fs.StringVar(&cfg.IDToken, "id-token", "", "Google id token for the google command")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, ErrUsage
	}
	switch command := strings.ToLower(rest[0]); command {
	case CommandLogin, CommandRegister, CommandGoogle, CommandStatus, CommandLogout:
		cfg.Command = command
	default:
		return Config{}, fmt.Errorf("%w: unknown command %q", ErrUsage, rest[0])
	}
	// Flags may also follow the command name.
	if err := fs.Parse(rest[1:]); err != nil {
		return Config{}, err
	}
	if fs.NArg() != 0 {
		return Config{}, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	if cfg.ProfilePath == "" {
		path, err := DefaultProfilePath()
		if err != nil {
			return Config{}, err
		}
		cfg.ProfilePath = path
	}
	return cfg, nil
}

// DefaultProfilePath returns the per-user profile database location.
func DefaultProfilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "chat.space", "profile.db"), nil
}

// IO carries the terminal streams.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes the configured command.
func Run(ctx context.Context, cfg Config, stdio IO) error {
	errOut := stdio.Err
	if errOut == nil {
		errOut = io.Discard
	}
	options := entrypoint.RunOptions{Logger: log.New(errOut, "[CHATLOGIN] ", 0)}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceChatLogin, options, func(ctx context.Context) error {
		client, err := authclient.New(cfg.AuthBaseURL)
		if err != nil {
			return fmt.Errorf("build auth client: %w", err)
		}
		store, err := openStore(ctx, cfg.ProfilePath)
		if err != nil {
			return err
		}
		defer store.Close()

		return Execute(ctx, cfg.Command, cfg.IDToken, &chatlogin.Session{
			In:     stdio.In,
			Out:    stdio.Out,
			Err:    stdio.Err,
			Auth:   client,
			Tokens: store,
		})
	})
}

// Execute dispatches command on session.
func Execute(ctx context.Context, command, idToken string, session *chatlogin.Session) error {
	switch command {
	case CommandLogin:
		return session.Login(ctx)
	case CommandRegister:
		return session.Register(ctx)
	case CommandGoogle:
		return session.Google(ctx, idToken)
	case CommandStatus:
		_, err := session.Status(ctx)
		return err
	case CommandLogout:
		return session.Logout(ctx)
	default:
		return ErrUsage
	}
}

func openStore(ctx context.Context, path string) (*sqlite.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	openCtx, cancel := context.WithTimeout(ctx, timeouts.StoreOpen)
	defer cancel()
	store, err := sqlite.Open(openCtx, path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	return store, nil
}
