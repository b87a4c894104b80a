package publicauth

import (
	"context"
	"errors"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

const authServiceUnavailableMessage = "auth service is not configured"

var errAuthUnavailable = errors.New(authServiceUnavailableMessage)

// unavailableAuthClient fails every call as a transport error.
type unavailableAuthClient struct{}

func (unavailableAuthClient) Login(context.Context, authflow.Credentials) (authflow.AuthResult, error) {
	return authflow.AuthResult{}, errAuthUnavailable
}

func (unavailableAuthClient) Register(context.Context, authflow.Profile) (authflow.AuthResult, error) {
	return authflow.AuthResult{}, errAuthUnavailable
}

func (unavailableAuthClient) FederatedLogin(context.Context, string) (authflow.AuthResult, error) {
	return authflow.AuthResult{}, errAuthUnavailable
}

func (unavailableAuthClient) CheckSession(context.Context, string) (authflow.SessionCheck, error) {
	return authflow.SessionCheck{}, errAuthUnavailable
}
