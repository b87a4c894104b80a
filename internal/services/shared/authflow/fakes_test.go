package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

type fakeAuth struct {
	mu sync.Mutex

	loginResult    AuthResult
	loginErr       error
	registerResult AuthResult
	registerErr    error
	federResult    AuthResult
	federErr       error
	sessionUser    json.RawMessage
	sessionErr     error

	// block, when set, is received from before the remote call returns.
	block chan struct{}

	logins      []Credentials
	registers   []Profile
	federated   []string
	checkTokens []string
}

func (f *fakeAuth) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAuth) Login(_ context.Context, credentials Credentials) (AuthResult, error) {
	f.mu.Lock()
	f.logins = append(f.logins, credentials)
	f.mu.Unlock()
	f.wait()
	return f.loginResult, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, profile Profile) (AuthResult, error) {
	f.mu.Lock()
	f.registers = append(f.registers, profile)
	f.mu.Unlock()
	f.wait()
	return f.registerResult, f.registerErr
}

func (f *fakeAuth) FederatedLogin(_ context.Context, idToken string) (AuthResult, error) {
	f.mu.Lock()
	f.federated = append(f.federated, idToken)
	f.mu.Unlock()
	f.wait()
	return f.federResult, f.federErr
}

func (f *fakeAuth) CheckSession(_ context.Context, token string) (SessionCheck, error) {
	f.mu.Lock()
	f.checkTokens = append(f.checkTokens, token)
	f.mu.Unlock()
	return SessionCheck{User: f.sessionUser}, f.sessionErr
}

func (f *fakeAuth) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logins) + len(f.registers) + len(f.federated)
}

type memoryTokens struct {
	mu      sync.Mutex
	token   string
	set     bool
	saveErr error
	loadErr error
}

func (m *memoryTokens) SaveToken(_ context.Context, token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, true
	return nil
}

func (m *memoryTokens) LoadToken(context.Context) (string, bool, error) {
	if m.loadErr != nil {
		return "", false, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set, nil
}

func (m *memoryTokens) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = "", false
	return nil
}

type recorder struct {
	mu        sync.Mutex
	notices   []Notice
	navigated []string
	redirects []string
}

func (r *recorder) Notify(notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigated = append(r.navigated, route)
}

func (r *recorder) Redirect(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, route)
}

var errNetwork = errors.New("connection refused")

type harness struct {
	auth   *fakeAuth
	tokens *memoryTokens
	rec    *recorder
	ctrl   *Controller
}

func newHarness(flow Flow, auth *fakeAuth) *harness {
	if auth == nil {
		auth = &fakeAuth{}
	}
	h := &harness{auth: auth, tokens: &memoryTokens{}, rec: &recorder{}}
	ctrl, err := NewController(flow, Dependencies{
		Auth:      h.auth,
		Tokens:    h.tokens,
		Notifier:  h.rec,
		Navigator: h.rec,
	})
	if err != nil {
		panic(err)
	}
	h.ctrl = ctrl
	return h
}

func (h *harness) fill(values map[Field]string) {
	for field, value := range values {
		if err := h.ctrl.OnFieldChange(field, value); err != nil {
			panic(err)
		}
	}
}
