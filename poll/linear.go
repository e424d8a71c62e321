package poll

import (
	"context"
	"time"

	"github.com/teenjuna/lineq/internal"
)

var _ internal.PollPolicy = (*LinearPolicy)(nil)

// LinearPolicy grows the interval between checks by a fixed step, starting from minInterval and
// never exceeding maxInterval.
type LinearPolicy struct {
	waited      int
	jitter      float64
	step        time.Duration
	minInterval time.Duration
	maxInterval time.Duration
	maxReached  bool
}

func Linear(minInterval, maxInterval time.Duration) *LinearPolicy {
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}
	return &LinearPolicy{
		minInterval: minInterval,
		maxInterval: maxInterval,
		step:        minInterval,
		jitter:      0.1,
	}
}

func (p *LinearPolicy) WithStep(step time.Duration) *LinearPolicy {
	if step <= 0 {
		panic("step can't be <= 0")
	}
	p.step = step
	return p
}

func (p *LinearPolicy) WithJitter(jitter float64) *LinearPolicy {
	if jitter < 0 {
		panic("jitter can't be < 0")
	}
	if jitter >= 1 {
		panic("jitter can't be >= 1")
	}
	p.jitter = jitter
	return p
}

func (p *LinearPolicy) Wait(ctx context.Context, wake <-chan struct{}) bool {
	var interval time.Duration
	if p.maxReached {
		interval = p.maxInterval
	} else {
		interval = p.minInterval + p.step*time.Duration(p.waited)
		if interval >= p.maxInterval {
			p.maxReached = true
			interval = p.maxInterval
		}
	}
	p.waited += 1

	return wait(ctx, wake, interval, p.jitter)
}

func (p *LinearPolicy) Derive() internal.PollPolicy {
	return Linear(p.minInterval, p.maxInterval).
		WithStep(p.step).
		WithJitter(p.jitter)
}
