package poll

import (
	"context"
	"math"
	"time"

	"github.com/teenjuna/lineq/internal"
)

var _ internal.PollPolicy = (*ExponentialPolicy)(nil)

// ExponentialPolicy multiplies the interval between checks by base after every wait, starting
// from minInterval and never exceeding maxInterval.
type ExponentialPolicy struct {
	waited      int
	jitter      float64
	base        float64
	minInterval time.Duration
	maxInterval time.Duration
	maxReached  bool
}

func Exponential(minInterval, maxInterval time.Duration) *ExponentialPolicy {
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}
	return &ExponentialPolicy{
		minInterval: minInterval,
		maxInterval: maxInterval,
		base:        2,
		jitter:      0.1,
	}
}

func (p *ExponentialPolicy) WithBase(base float64) *ExponentialPolicy {
	if base <= 1 {
		panic("base can't be <= 1")
	}
	p.base = base
	return p
}

func (p *ExponentialPolicy) WithJitter(jitter float64) *ExponentialPolicy {
	if jitter < 0 {
		panic("jitter can't be < 0")
	}
	if jitter >= 1 {
		panic("jitter can't be >= 1")
	}
	p.jitter = jitter
	return p
}

func (p *ExponentialPolicy) Wait(ctx context.Context, wake <-chan struct{}) bool {
	var interval time.Duration
	if p.maxReached {
		interval = p.maxInterval
	} else {
		next := float64(p.minInterval) * math.Pow(p.base, float64(p.waited))
		if next >= float64(p.maxInterval) {
			p.maxReached = true
			interval = p.maxInterval
		} else {
			interval = time.Duration(next)
		}
	}
	p.waited += 1

	return wait(ctx, wake, interval, p.jitter)
}

func (p *ExponentialPolicy) Derive() internal.PollPolicy {
	return Exponential(p.minInterval, p.maxInterval).
		WithBase(p.base).
		WithJitter(p.jitter)
}
