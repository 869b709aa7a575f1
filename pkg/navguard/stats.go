package navguard

import "go.uber.org/atomic"

// Stats is a snapshot of a guard's counters.
type Stats struct {
	Prompts         int64 // Confirmation prompts shown
	Confirmed       int64 // Exits the user approved
	Rejected        int64 // Exits the user rejected, including failed prompts
	PolicyFailures  int64 // Prompts that errored, panicked or timed out
	PolicyTimeouts  int64 // Prompts abandoned at the deadline; the policy may still be running
	CloseWarnings   int64 // Native close warnings requested
	SentinelsPushed int64 // Sentinel entries pushed (arming and re-arming)
}

type counters struct {
	prompts         atomic.Int64
	confirmed       atomic.Int64
	rejected        atomic.Int64
	policyFailures  atomic.Int64
	policyTimeouts  atomic.Int64
	closeWarnings   atomic.Int64
	sentinelsPushed atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Prompts:         c.prompts.Load(),
		Confirmed:       c.confirmed.Load(),
		Rejected:        c.rejected.Load(),
		PolicyFailures:  c.policyFailures.Load(),
		PolicyTimeouts:  c.policyTimeouts.Load(),
		CloseWarnings:   c.closeWarnings.Load(),
		SentinelsPushed: c.sentinelsPushed.Load(),
	}
}
