package authflow

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField rejects edits to fields the flow does not declare.
	ErrUnknownField = errors.New("authflow: unknown form field")
	// ErrSubmitInFlight refuses a second submission while one is outstanding.
	ErrSubmitInFlight = errors.New("authflow: submission already in flight")
	// ErrFlowFinished refuses operations after a successful sign-in.
	ErrFlowFinished = errors.New("authflow: flow already succeeded")
	// ErrNoToken marks an Auth API answer without a session token.
	ErrNoToken = errors.New("authflow: auth response carried no token")
	// ErrInvalidForm marks a submission that failed local validation.
	ErrInvalidForm = errors.New("authflow: form failed local validation")
)

// FailureKind classifies flow failures.
type FailureKind string

const (
	FailureNone FailureKind = ""
	// FailureValidation never reaches the network.
	FailureValidation FailureKind = "validation"
	// FailureRejected is a completed call without a token.
	FailureRejected FailureKind = "auth_rejected"
	// FailureTransport is a thrown or rejected call.
	FailureTransport FailureKind = "transport"
	// FailureProvider is reported by the identity provider itself.
	FailureProvider FailureKind = "identity_provider"
)

// FlowError reports a failure that has already been surfaced as Notice.
type FlowError struct {
	Kind   FailureKind
	Notice Notice
	Err    error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("authflow: %s failure", e.Kind)
	}
	return fmt.Sprintf("authflow: %s failure: %v", e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// FailureOf returns the failure kind carried by err.
func FailureOf(err error) FailureKind {
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Kind
	}
	return FailureNone
}
