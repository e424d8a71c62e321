package poll

import (
	"context"
	"math/rand/v2"
	"time"
)

func wait(ctx context.Context, wake <-chan struct{}, interval time.Duration, jitter float64) bool {
	if jitter < 0 || jitter >= 1 {
		panic("invalid jitter")
	}
	if ctx.Err() != nil {
		return false
	}

	m := (rand.Float64() * 2) - 1
	j := m * jitter * float64(interval)
	d := interval + time.Duration(j)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-wake:
		return true
	case <-timer.C:
		return true
	}
}
