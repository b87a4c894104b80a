package authflow

// Phase is the explicit state of one form instance.
type Phase int

const (
	// PhaseIdle accepts edits and submissions.
	PhaseIdle Phase = iota
	// PhaseSubmitting has one remote call outstanding. Inputs stay editable;
	// further submissions are refused.
	PhaseSubmitting
	// PhaseFailed is Idle after a failure; Failure names the reason.
	PhaseFailed
	// PhaseSucceeded is terminal: the token is stored and navigation issued.
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseFailed:
		return "failed"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// State is a snapshot of one controller.
type State struct {
	Phase        Phase
	Failure      FailureKind
	Form         Form
	ShowPassword bool
}

// IsLoading reports whether the submit affordance shows the loading indicator.
func (s State) IsLoading() bool {
	return s.Phase == PhaseSubmitting
}

// CanSubmit reports whether a submission would be accepted.
func (s State) CanSubmit() bool {
	return s.Phase == PhaseIdle || s.Phase == PhaseFailed
}
