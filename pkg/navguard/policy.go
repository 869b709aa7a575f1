package navguard

import (
	"context"
	"errors"
	"fmt"
)

// Policy asks the user whether to leave the current activity.
//
// Confirm returns (true, nil) to leave and (false, nil) to stay. Any error, a panic,
// or a context that ends first counts as "stay". Implementations should block until
// the user answers and honor ctx cancellation: a Confirm that ignores ctx keeps running
// on its own goroutine after the guard has given up on it, until it returns. Such
// prompts are counted in Stats.PolicyTimeouts.
type Policy interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Policy.
func (f PolicyFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AlwaysConfirm approves every exit. Useful for kiosk builds and automation.
type AlwaysConfirm struct{}

// Confirm implements Policy.
func (AlwaysConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

// AlwaysDeny rejects every exit.
type AlwaysDeny struct{}

// Confirm implements Policy.
func (AlwaysDeny) Confirm(context.Context, string) (bool, error) { return false, nil }

// unavailablePolicy stands in when no policy was configured.
type unavailablePolicy struct{}

func (unavailablePolicy) Confirm(context.Context, string) (bool, error) {
	return false, ErrPromptUnavailable
}

var (
	_ Policy = PolicyFunc(nil)
	_ Policy = AlwaysConfirm{}
	_ Policy = AlwaysDeny{}
	_ Policy = unavailablePolicy{}
)

type decision struct {
	ok  bool
	err error
}

// ask runs the policy with a deadline. It never panics and only reports approval
// when the policy approved without error before the deadline.
func ask(ctx context.Context, p Policy, message string) (bool, error) {
	done := make(chan decision, 1)
	go func() {
		var d decision
		defer func() {
			if r := recover(); r != nil {
				d = decision{err: fmt.Errorf("%w: %v", ErrPolicyPanic, r)}
			}
			done <- d
		}()
		d.ok, d.err = p.Confirm(ctx, message)
	}()

	select {
	case d := <-done:
		if errors.Is(d.err, context.DeadlineExceeded) {
			return false, ErrPolicyTimeout
		}
		if d.err != nil {
			return false, d.err
		}
		return d.ok, nil
	case <-ctx.Done():
		select {
		case d := <-done:
			if d.err == nil {
				return d.ok, nil
			}
		default:
		}
		if ctx.Err() == context.DeadlineExceeded {
			return false, ErrPolicyTimeout
		}
		return false, ErrClosed
	}
}
