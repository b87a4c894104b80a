// Package chatlogin drives the login and registration flows from a terminal.
//
// Prompts go to Out, notices to Err as "[level] text". Each prompt keeps the
// current value when the answer is empty.
package chatlogin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

// DefaultMaxAttempts bounds interactive submissions per command.
const DefaultMaxAttempts = 3

var (
	// ErrTooManyAttempts ends an interactive flow after repeated failures.
	ErrTooManyAttempts = errors.New("too many failed attempts")
	// ErrIDTokenRequired rejects a federated sign-in without a credential.
	ErrIDTokenRequired = errors.New("id token is required")
)

// Session is one terminal conversation with the Auth API.
type Session struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Auth   authflow.AuthClient
	Tokens authflow.TokenStore

	// MaxAttempts defaults to DefaultMaxAttempts.
	MaxAttempts  int
	LandingRoute string

	reader *bufio.Reader
}

// Login prompts for credentials until a session token is stored.
func (s *Session) Login(ctx context.Context) error {
	return s.interactive(ctx, authflow.FlowLogin)
}

// Register prompts for a profile until a session token is stored.
func (s *Session) Register(ctx context.Context) error {
	return s.interactive(ctx, authflow.FlowRegister)
}

// Google exchanges an identity provider id token for a session token.
func (s *Session) Google(ctx context.Context, idToken string) error {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return ErrIDTokenRequired
	}
	controller, done, err := s.mount(ctx, authflow.FlowLogin)
	if err != nil || done {
		return err
	}
	return controller.OnFederatedCredential(ctx, &authflow.FederatedCredential{Credential: idToken})
}

// Status reports whether the stored token belongs to a live session.
func (s *Session) Status(ctx context.Context) (authflow.Session, error) {
	session, err := authflow.Guard{Auth: s.Auth, Tokens: s.Tokens}.Check(ctx)
	if err != nil {
		fmt.Fprintf(s.errOut(), "session check: %v\n", err)
	}
	if session.Authenticated() {
		fmt.Fprintf(s.out(), "authenticated user=%s\n", session.User)
	} else {
		fmt.Fprintln(s.out(), "anonymous")
	}
	return session, nil
}

// Logout forgets the stored token.
func (s *Session) Logout(ctx context.Context) error {
	if s.Tokens == nil {
		return errors.New("token store is required")
	}
	if err := s.Tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Fprintln(s.out(), "signed out")
	return nil
}

func (s *Session) interactive(ctx context.Context, flow authflow.Flow) error {
	controller, done, err := s.mount(ctx, flow)
	if err != nil || done {
		return err
	}
	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for range maxAttempts {
		if err := s.fill(controller); err != nil {
			return err
		}
		err := controller.OnSubmit(ctx)
		if err == nil {
			return nil
		}
		if authflow.FailureOf(err) == authflow.FailureNone {
			return err
		}
	}
	return ErrTooManyAttempts
}

// mount builds a controller and runs the session guard. done reports that a
// session already exists and the flow was skipped.
func (s *Session) mount(ctx context.Context, flow authflow.Flow) (*authflow.Controller, bool, error) {
	controller, err := authflow.NewController(flow, authflow.Dependencies{
		Auth:         s.Auth,
		Tokens:       s.Tokens,
		Notifier:     authflow.NotifierFunc(s.notify),
		Navigator:    terminalNavigator{out: s.out()},
		LandingRoute: s.LandingRoute,
	})
	if err != nil {
		return nil, false, err
	}
	session, err := controller.OnMount(ctx)
	if err != nil {
		fmt.Fprintf(s.errOut(), "session check: %v\n", err)
	}
	return controller, session.Authenticated(), nil
}

func (s *Session) fill(controller *authflow.Controller) error {
	for _, field := range controller.Flow().Fields() {
		current := controller.State().Form.Value(field)
		value, err := s.prompt(field, current)
		if err != nil {
			return err
		}
		if err := controller.OnFieldChange(field, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) prompt(field authflow.Field, current string) (string, error) {
	label := promptLabels[field]
	switch {
	case current == "":
		fmt.Fprintf(s.out(), "%s: ", label)
	case field == authflow.FieldPassword:
		fmt.Fprintf(s.out(), "%s [kept]: ", label)
	default:
		fmt.Fprintf(s.out(), "%s [%s]: ", label, current)
	}
	if s.reader == nil {
		if s.In == nil {
			return "", errors.New("input is required")
		}
		s.reader = bufio.NewReader(s.In)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read %s: %w", field, io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return current, nil
	}
	return line, nil
}

func (s *Session) notify(notice authflow.Notice) {
	fmt.Fprintf(s.errOut(), "[%s] %s\n", notice.Level, notice.Text())
}

func (s *Session) out() io.Writer {
	if s.Out == nil {
		return io.Discard
	}
	return s.Out
}

func (s *Session) errOut() io.Writer {
	if s.Err == nil {
		return io.Discard
	}
	return s.Err
}

var promptLabels = map[authflow.Field]string{
	authflow.FieldFirstName: "First name",
	authflow.FieldLastName:  "Last name",
	authflow.FieldEmail:     "Email",
	authflow.FieldPassword:  "Password",
}

type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) Navigate(route string) {
	fmt.Fprintf(n.out, "signed in, continue at %s\n", route)
}

func (n terminalNavigator) Redirect(route string) {
	fmt.Fprintf(n.out, "already signed in, continue at %s\n", route)
}
