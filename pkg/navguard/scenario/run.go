package scenario

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
	"github.com/BrandonKowalski/navguard/pkg/navguard/history"
)

// Record is the outcome of one step.
type Record struct {
	Step     int
	Action   Action
	Depth    int            // History depth after the step
	State    navguard.State // Guard state after the step
	Prompted bool           // The step raised a confirmation prompt
	Answer   bool           // The prompt's answer, when prompted
	Exited   bool           // The confirmed-exit callback fired
	Warned   bool           // A close attempt requested the native warning
	Allowed  *bool          // ConfirmExit result, for confirm-exit steps
	Err      error          // Error returned by the step's operation
}

// String renders the record as a single trace line.
func (r Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d %-12s depth=%d state=%s", r.Step, r.Action, r.Depth, r.State)
	if r.Prompted {
		fmt.Fprintf(&b, " prompt=%t", r.Answer)
	}
	if r.Allowed != nil {
		fmt.Fprintf(&b, " allowed=%t", *r.Allowed)
	}
	if r.Exited {
		b.WriteString(" exit")
	}
	if r.Warned {
		b.WriteString(" warn")
	}
	if r.Err != nil {
		fmt.Fprintf(&b, " err=%q", r.Err)
	}
	return b.String()
}

// Trace is the outcome of a run.
type Trace struct {
	Name    string
	Records []Record
	Depth   int // Final history depth
	Stats   navguard.Stats
}

// Run replays the scenario against a fresh history and guard.
func Run(s Scenario) (*Trace, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	session := history.NewSession(history.Location{Screen: 1})
	for screen := 2; screen <= s.Depth; screen++ {
		session.Navigate(history.Location{Screen: screen})
	}

	policy := &scriptedPolicy{}
	notifier := &navguard.UnloadNotifier{}
	exited := false

	var guard *navguard.Guard
	guard = navguard.New(session, navguard.Options{
		Message:  s.Message,
		Locale:   s.Locale,
		Policy:   policy,
		Unloader: notifier,
		OnConfirmedExit: func() {
			exited = true
			if s.DisableOnExit {
				guard.SetEnabled(false)
			}
		},
	})
	defer guard.Close()

	trace := &Trace{Name: s.Name}
	for i, step := range s.Steps {
		policy.script(step.Answer)
		exited = false

		rec := Record{Step: i + 1, Action: step.Action}
		switch step.Action {
		case ActionEnable:
			guard.SetEnabled(true)
		case ActionDisable:
			guard.SetEnabled(false)
		case ActionNavigate:
			session.Navigate(history.Location{Screen: session.Depth() + 1})
		case ActionBack:
			rec.Err = session.Back()
		case ActionForward:
			rec.Err = session.Forward()
		case ActionUIBack:
			rec.Err = guard.Back()
		case ActionConfirmExit:
			allowed := guard.ConfirmExit()
			rec.Allowed = &allowed
		case ActionClose:
			rec.Warned = notifier.Notify()
		}

		rec.Prompted, rec.Answer = policy.result()
		rec.Exited = exited
		rec.Depth = session.Depth()
		rec.State = guard.State()
		trace.Records = append(trace.Records, rec)
	}

	trace.Depth = session.Depth()
	trace.Stats = guard.Stats()
	return trace, nil
}

// scriptedPolicy answers at most one prompt per step.
type scriptedPolicy struct {
	mu       sync.Mutex
	answer   *bool
	prompted bool
	answered bool
}

func (p *scriptedPolicy) script(answer *bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answer = answer
	p.prompted = false
	p.answered = false
}

func (p *scriptedPolicy) result() (prompted, answer bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prompted, p.answered
}

func (p *scriptedPolicy) Confirm(context.Context, string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prompted = true
	if p.answer == nil {
		p.answered = false
		return false, navguard.ErrPromptUnavailable
	}
	p.answered = *p.answer
	p.answer = nil
	return p.answered, nil
}
