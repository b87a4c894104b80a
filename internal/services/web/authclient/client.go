// Package authclient calls the remote chat.space Auth API over HTTP/JSON.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/chat.space/internal/platform/timeouts"
	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	googlePath   = "/api/google"
	validPath    = "/auth/valid"

	tracerName = "github.com/louisbranch/chat.space/internal/services/web/authclient"

	// maxResponseBytes bounds decoded response bodies.
	maxResponseBytes = 1 << 20
)

// ErrTransport marks failures of the call itself rather than a rejection.
var ErrTransport = errors.New("authclient: transport failure")

// StatusError reports a 5xx response from the Auth API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("auth api %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// Is lets errors.Is(err, ErrTransport) match status failures.
func (e *StatusError) Is(target error) bool {
	return target == ErrTransport
}

// Client is an authflow.AuthClient backed by the Auth API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. Its timeout is kept as set.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// WithPropagator overrides the global text map propagator.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *Client) {
		if propagator != nil {
			c.propagator = propagator
		}
	}
}

// New builds a client for the Auth API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("authclient: base url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("authclient: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("authclient: base url %q must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("authclient: base url %q has no host", baseURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeouts.AuthRequest},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"idToken"`
}

type errorBody struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token   string          `json:"token"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type sessionResponse struct {
	User json.RawMessage `json:"user"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, credentials authflow.Credentials) (authflow.AuthResult, error) {
	return c.exchange(ctx, "auth.login", loginPath, loginRequest{
		Email:    credentials.Email,
		Password: credentials.Password,
	})
}

// Register creates an account and returns its session token.
func (c *Client) Register(ctx context.Context, profile authflow.Profile) (authflow.AuthResult, error) {
	return c.exchange(ctx, "auth.register", registerPath, registerRequest{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Password:  profile.Password,
	})
}

// FederatedLogin exchanges a Google ID token for a session token.
func (c *Client) FederatedLogin(ctx context.Context, idToken string) (authflow.AuthResult, error) {
	return c.exchange(ctx, "auth.google", googlePath, googleRequest{IDToken: idToken})
}

// CheckSession asks whether token belongs to a live session.
func (c *Client) CheckSession(ctx context.Context, token string) (authflow.SessionCheck, error) {
	var body sessionResponse
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	if err := c.do(ctx, "auth.valid", http.MethodGet, validPath, nil, header, &body); err != nil {
		return authflow.SessionCheck{}, err
	}
	return authflow.SessionCheck{User: body.User}, nil
}

func (c *Client) exchange(ctx context.Context, spanName, path string, payload any) (authflow.AuthResult, error) {
	var body tokenResponse
	if err := c.do(ctx, spanName, http.MethodPost, path, payload, nil, &body); err != nil {
		return authflow.AuthResult{}, err
	}
	return authflow.AuthResult{
		Token:   strings.TrimSpace(body.Token),
		Message: body.rejectionMessage(),
	}, nil
}

// rejectionMessage accepts {"error":{"message":..}}, {"error":".."} and
// {"message":..}.
func (r tokenResponse) rejectionMessage() string {
	if len(r.Error) > 0 {
		var nested errorBody
		if err := json.Unmarshal(r.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
			return strings.TrimSpace(nested.Message)
		}
		var flat string
		if err := json.Unmarshal(r.Error, &flat); err == nil && strings.TrimSpace(flat) != "" {
			return strings.TrimSpace(flat)
		}
	}
	return strings.TrimSpace(r.Message)
}

func (c *Client) do(ctx context.Context, spanName, method, path string, payload any, header http.Header, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(method),
			semconv.URLFull(endpoint.String()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	c.propagate(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < http.StatusOK || (resp.StatusCode >= http.StatusMultipleChoices && resp.StatusCode < http.StatusBadRequest) {
		return fmt.Errorf("%w: %s %s returned %s", ErrTransport, method, path, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrTransport, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		span.SetAttributes(attribute.Bool("auth.empty_body", true))
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) && !json.Valid(raw) {
		return fmt.Errorf("%w: %s %s returned non-JSON body", ErrTransport, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrTransport, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetAttributes(attribute.Bool("auth.rejected", true))
	}
	return nil
}

func (c *Client) propagate(ctx context.Context, req *http.Request) {
	propagator := c.propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

var _ authflow.AuthClient = (*Client)(nil)
