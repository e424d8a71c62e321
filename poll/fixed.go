package poll

import (
	"context"
	"time"

	"github.com/teenjuna/lineq/internal"
)

var _ internal.PollPolicy = (*FixedPolicy)(nil)

// FixedPolicy re-checks the buffer after the same interval every time.
type FixedPolicy struct {
	jitter   float64
	interval time.Duration
}

func Fixed(interval time.Duration) *FixedPolicy {
	if interval < 0 {
		panic("interval can't be < 0")
	}
	return &FixedPolicy{
		interval: interval,
		jitter:   0.1,
	}
}

func (p *FixedPolicy) WithJitter(jitter float64) *FixedPolicy {
	if jitter < 0 {
		panic("jitter can't be < 0")
	}
	if jitter >= 1 {
		panic("jitter can't be >= 1")
	}
	p.jitter = jitter
	return p
}

func (p *FixedPolicy) Wait(ctx context.Context, wake <-chan struct{}) bool {
	return wait(ctx, wake, p.interval, p.jitter)
}

func (p *FixedPolicy) Derive() internal.PollPolicy {
	return Fixed(p.interval).WithJitter(p.jitter)
}
