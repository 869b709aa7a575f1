package navguard

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoHistory indicates there is no navigable history to guard.
	// Every guard operation degrades to a no-op in this case.
	ErrNoHistory = errors.New("navguard: no navigable history")

	// ErrExitRejected indicates the user chose to stay in the activity.
	// This is a normal flow control error, not a failure.
	ErrExitRejected = errors.New("navguard: exit rejected by user")

	// ErrExitAbandoned indicates the guard was disarmed while the user was being asked.
	// The answer was ignored.
	ErrExitAbandoned = errors.New("navguard: exit prompt abandoned")

	// ErrClosed indicates the guard was torn down.
	ErrClosed = errors.New("navguard: guard closed")

	// ErrPolicyTimeout indicates the confirmation prompt was not answered in time.
	ErrPolicyTimeout = errors.New("navguard: confirmation timed out")

	// ErrPolicyPanic indicates the confirmation policy panicked.
	ErrPolicyPanic = errors.New("navguard: confirmation policy panicked")

	// ErrPromptUnavailable is returned by policies that cannot show a prompt at all.
	ErrPromptUnavailable = errors.New("navguard: confirmation prompt unavailable")
)

// PolicyError reports a confirmation that could not be completed.
// The guard treats it as a rejection.
type PolicyError struct {
	Op  string // Where the prompt was requested ("history", "confirm_exit")
	Err error  // Underlying error
}

func (e *PolicyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("navguard: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("navguard: %s", e.Op)
}

func (e *PolicyError) Unwrap() error {
	return e.Err
}

// NewPolicyError creates a new policy error.
func NewPolicyError(op string, err error) *PolicyError {
	return &PolicyError{Op: op, Err: err}
}

// IsPolicyError checks if an error is a policy error.
func IsPolicyError(err error) bool {
	var policyErr *PolicyError
	return errors.As(err, &policyErr)
}

// IsTimeout checks if an error indicates an unanswered prompt.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrPolicyTimeout)
}

// IsRejected checks if an error indicates the user chose to stay.
func IsRejected(err error) bool {
	return errors.Is(err, ErrExitRejected)
}
