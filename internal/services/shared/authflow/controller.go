package authflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultLandingRoute is the authenticated area entered after sign-in.
const DefaultLandingRoute = "/chats"

// Dependencies wires a controller to its surface.
type Dependencies struct {
	Auth      AuthClient
	Tokens    TokenStore
	Notifier  Notifier
	Navigator Navigator
	// LandingRoute defaults to DefaultLandingRoute.
	LandingRoute string
}

// Controller drives one login or registration form instance.
//
// All methods are safe for concurrent use. The remote call runs without the
// lock held so edits made while submitting are kept.
type Controller struct {
	flow    Flow
	auth    AuthClient
	tokens  TokenStore
	notify  Notifier
	nav     Navigator
	landing string

	mu    sync.Mutex
	state State
}

// NewController builds a controller for flow.
func NewController(flow Flow, deps Dependencies) (*Controller, error) {
	if !flow.Valid() {
		return nil, fmt.Errorf("authflow: unknown flow %q", flow)
	}
	if deps.Auth == nil {
		return nil, errors.New("authflow: auth client is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("authflow: token store is required")
	}
	c := &Controller{
		flow:    flow,
		auth:    deps.Auth,
		tokens:  deps.Tokens,
		notify:  deps.Notifier,
		nav:     deps.Navigator,
		landing: strings.TrimSpace(deps.LandingRoute),
	}
	if c.notify == nil {
		c.notify = discardNotifier{}
	}
	if c.nav == nil {
		c.nav = discardNavigator{}
	}
	if c.landing == "" {
		c.landing = DefaultLandingRoute
	}
	return c, nil
}

// Flow returns the flow this controller drives.
func (c *Controller) Flow() Flow {
	return c.flow
}

// State returns a snapshot of the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnFieldChange merges one input value into the form. Inputs stay editable
// while a submission is outstanding.
func (c *Controller) OnFieldChange(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseSucceeded {
		return ErrFlowFinished
	}
	form, err := Reduce(c.flow, c.state.Form, FieldEdit{Field: field, Value: value})
	if err != nil {
		return err
	}
	c.state.Form = form
	return nil
}

// TogglePasswordVisibility flips whether the password input shows its text.
func (c *Controller) TogglePasswordVisibility() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseSucceeded {
		return ErrFlowFinished
	}
	c.state.ShowPassword = !c.state.ShowPassword
	return nil
}

// SetPasswordVisible restores the visibility a previous render left the
// password input in.
func (c *Controller) SetPasswordVisible(visible bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseSucceeded {
		return ErrFlowFinished
	}
	c.state.ShowPassword = visible
	return nil
}

// OnSubmit validates the form and exchanges it for a session token.
//
// Every failure has been surfaced as exactly one notice when the returned
// error is a *FlowError.
func (c *Controller) OnSubmit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	form := c.state.Form
	if !Submittable(c.flow, form) {
		c.state.Form = Form{}
		c.state.Phase = PhaseFailed
		c.state.Failure = FailureValidation
		c.mu.Unlock()
		return c.fail(FailureValidation, warningNotice(NoticeProvideValidCredentials), ErrInvalidForm)
	}
	c.state.Phase = PhaseSubmitting
	c.state.Failure = FailureNone
	c.mu.Unlock()

	var (
		result AuthResult
		err    error
	)
	switch c.flow {
	case FlowRegister:
		result, err = c.auth.Register(ctx, form.Profile())
	default:
		result, err = c.auth.Login(ctx, form.Credentials())
	}
	if err != nil {
		c.settleFailed(FailureTransport, false)
		return c.fail(FailureTransport, errorNotice(NoticeUnexpectedError), err)
	}
	if strings.TrimSpace(result.Token) == "" {
		c.settleFailed(FailureRejected, c.flow == FlowLogin)
		return c.fail(FailureRejected, rejectedNotice(result.Message), ErrNoToken)
	}
	if err := c.tokens.SaveToken(ctx, result.Token); err != nil {
		c.settleFailed(FailureTransport, false)
		return c.fail(FailureTransport, errorNotice(NoticeUnexpectedError), fmt.Errorf("save token: %w", err))
	}
	if c.flow == FlowRegister {
		c.notify.Notify(Notice{Level: LevelSuccess, Key: NoticeRegistered})
	}
	c.succeed()
	return nil
}

// OnFederatedCredential exchanges an identity provider credential for a
// session token. A nil or empty credential is ignored.
func (c *Controller) OnFederatedCredential(ctx context.Context, credential *FederatedCredential) error {
	if credential == nil || strings.TrimSpace(credential.Credential) == "" {
		return nil
	}
	c.mu.Lock()
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.Phase = PhaseSubmitting
	c.state.Failure = FailureNone
	c.mu.Unlock()

	result, err := c.auth.FederatedLogin(ctx, credential.Credential)
	if err != nil {
		c.settleFailed(FailureTransport, false)
		return c.fail(FailureTransport, errorNotice(NoticeGoogleSignInFailed), err)
	}
	if strings.TrimSpace(result.Token) == "" {
		c.settleFailed(FailureRejected, false)
		return c.fail(FailureRejected, errorNotice(NoticeGoogleLoginFailed), ErrNoToken)
	}
	if err := c.tokens.SaveToken(ctx, result.Token); err != nil {
		c.settleFailed(FailureTransport, false)
		return c.fail(FailureTransport, errorNotice(NoticeGoogleSignInFailed), fmt.Errorf("save token: %w", err))
	}
	c.succeed()
	return nil
}

// OnFederatedFailure reports an error raised by the identity provider
// itself. The phase and form are left as they are.
func (c *Controller) OnFederatedFailure(cause error) error {
	c.mu.Lock()
	finished := c.state.Phase == PhaseSucceeded
	c.mu.Unlock()
	if finished {
		return ErrFlowFinished
	}
	return c.fail(FailureProvider, errorNotice(NoticeProviderFailure), cause)
}

// OnMount runs the session guard and leaves the page with a full-page
// redirect when a session already exists.
func (c *Controller) OnMount(ctx context.Context) (Session, error) {
	c.mu.Lock()
	finished := c.state.Phase == PhaseSucceeded
	c.mu.Unlock()
	if finished {
		return Session{}, ErrFlowFinished
	}
	session, err := Guard{Auth: c.auth, Tokens: c.tokens}.Check(ctx)
	if !session.Authenticated() {
		return session, err
	}
	c.mu.Lock()
	c.state.Phase = PhaseSucceeded
	c.state.Failure = FailureNone
	c.mu.Unlock()
	c.nav.Redirect(c.landing)
	return session, err
}

func (c *Controller) beginLocked() error {
	switch c.state.Phase {
	case PhaseSucceeded:
		return ErrFlowFinished
	case PhaseSubmitting:
		return ErrSubmitInFlight
	default:
		return nil
	}
}

func (c *Controller) settleFailed(kind FailureKind, clearPassword bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Phase = PhaseFailed
	c.state.Failure = kind
	if clearPassword {
		c.state.Form.Password = ""
	}
}

func (c *Controller) succeed() {
	c.mu.Lock()
	c.state.Phase = PhaseSucceeded
	c.state.Failure = FailureNone
	c.mu.Unlock()
	c.nav.Navigate(c.landing)
}

func (c *Controller) fail(kind FailureKind, notice Notice, cause error) error {
	c.notify.Notify(notice)
	return &FlowError{Kind: kind, Notice: notice, Err: cause}
}
