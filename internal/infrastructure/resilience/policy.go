package resilience

import "time"

// Policy bundles retry and circuit-breaker settings for one class of
// outbound calls.
type Policy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	DelayFactor  float64

	BreakerEnabled      bool
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenFor      time.Duration
	BreakerProbeCalls   uint32
}

// DefaultPolicy suits short outbound calls (queue publish, repository access).
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    400 * time.Millisecond,
		DelayFactor: 2.0,

		BreakerEnabled:      true,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.5,
		BreakerOpenFor:      30 * time.Second,
		BreakerProbeCalls:   2,
	}
}

// LLMPolicy suits model completions: few attempts, long delays, and a breaker
// that trips fast so degraded analysis results kick in instead of piling up
// requests against a dead provider.
func LLMPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
		DelayFactor: 2.0,

		BreakerEnabled:      true,
		BreakerMinRequests:  5,
		BreakerFailureRatio: 0.6,
		BreakerOpenFor:      60 * time.Second,
		BreakerProbeCalls:   1,
	}
}

func (p Policy) normalize() Policy {
	out := p
	def := DefaultPolicy()

	if out.MaxAttempts <= 0 {
		out.MaxAttempts = def.MaxAttempts
	}
	if out.BaseDelay <= 0 {
		out.BaseDelay = def.BaseDelay
	}
	if out.MaxDelay <= 0 {
		out.MaxDelay = def.MaxDelay
	}
	if out.MaxDelay < out.BaseDelay {
		out.MaxDelay = out.BaseDelay
	}
	if out.DelayFactor < 1.0 {
		out.DelayFactor = def.DelayFactor
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenFor <= 0 {
		out.BreakerOpenFor = def.BreakerOpenFor
	}
	if out.BreakerProbeCalls == 0 {
		out.BreakerProbeCalls = def.BreakerProbeCalls
	}

	return out
}
