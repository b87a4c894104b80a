package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestGuardWithoutTokenSkipsNetwork(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{sessionUser: json.RawMessage(`{"id":"u1"}`)}
	session, err := Guard{Auth: auth, Tokens: &memoryTokens{}}.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("session = %+v, want anonymous", session)
	}
	if len(auth.checkTokens) != 0 {
		t.Fatalf("session probes = %v, want none", auth.checkTokens)
	}
}

func TestGuardUserPresence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user string
		want bool
	}{
		{name: "object", user: `{"id":"u1"}`, want: true},
		{name: "empty object", user: `{}`, want: true},
		{name: "string", user: `"ada"`, want: true},
		{name: "absent", user: ``, want: false},
		{name: "null", user: `null`, want: false},
		{name: "false", user: `false`, want: false},
		{name: "zero", user: `0`, want: false},
		{name: "empty string", user: `""`, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tokens := &memoryTokens{token: "abc", set: true}
			auth := &fakeAuth{sessionUser: json.RawMessage(tc.user)}
			session, err := Guard{Auth: auth, Tokens: tokens}.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if session.Authenticated() != tc.want {
				t.Fatalf("Authenticated() = %v, want %v", session.Authenticated(), tc.want)
			}
			if len(auth.checkTokens) != 1 || auth.checkTokens[0] != "abc" {
				t.Fatalf("probe tokens = %v", auth.checkTokens)
			}
		})
	}
}

func TestGuardDegradesToAnonymousOnFailure(t *testing.T) {
	t.Parallel()

	loadFailure := &memoryTokens{loadErr: errors.New("locked")}
	session, err := Guard{Auth: &fakeAuth{}, Tokens: loadFailure}.Check(context.Background())
	if err == nil || session.Authenticated() {
		t.Fatalf("load failure: session = %+v err = %v", session, err)
	}

	tokens := &memoryTokens{token: "abc", set: true}
	session, err = Guard{Auth: &fakeAuth{sessionErr: errNetwork, sessionUser: json.RawMessage(`{"id":1}`)}, Tokens: tokens}.Check(context.Background())
	if !errors.Is(err, errNetwork) {
		t.Fatalf("Check() error = %v, want errNetwork", err)
	}
	if session.Authenticated() {
		t.Fatalf("session = %+v, want anonymous", session)
	}
}
