package poll_test

import (
	"context"
	"testing"
	"time"

	"github.com/teenjuna/lineq/internal/testing/require"
	"github.com/teenjuna/lineq/poll"
)

var _ poll.Policy = (*poll.FixedPolicy)(nil)

func TestFixed(t *testing.T) {
	run(t, "With jitter", func(t *testing.T) {
		p := poll.Fixed(time.Second).WithJitter(0.5)
		require.NotNil(t, p)
		require.NotNil(t, p.Derive())
	})

	run(t, "With invalid interval", func(t *testing.T) {
		require.PanicWithError(t, "interval can't be < 0", func() {
			_ = poll.Fixed(-1)
		})
	})

	run(t, "With invalid jitter", func(t *testing.T) {
		require.PanicWithError(t, "jitter can't be < 0", func() {
			_ = poll.Fixed(time.Second).WithJitter(-0.1)
		})
		require.PanicWithError(t, "jitter can't be >= 1", func() {
			_ = poll.Fixed(time.Second).WithJitter(1)
		})
	})
}

func TestFixedWait(t *testing.T) {
	run(t, "Immediate", func(t *testing.T) {
		p := poll.Fixed(0).WithJitter(0.1)
		f := delayFunc(t, 0.1)
		for range 3 {
			f(0, func() { require.Equal(t, p.Wait(t.Context(), nil), true) })
		}
	})

	run(t, "Interval", func(t *testing.T) {
		p := poll.Fixed(time.Millisecond * 50).WithJitter(0.1)
		f := delayFunc(t, 0.1)
		for range 1000 {
			f(time.Millisecond*50, func() { require.Equal(t, p.Wait(t.Context(), nil), true) })
		}
	})

	run(t, "Wake", func(t *testing.T) {
		p := poll.Fixed(time.Second).WithJitter(0)
		f := delayFunc(t, 0)
		wake := wakeAfter(time.Millisecond * 300)
		f(time.Millisecond*300, func() { require.Equal(t, p.Wait(t.Context(), wake), true) })
		f(time.Second, func() { require.Equal(t, p.Wait(t.Context(), wake), true) })
	})

	run(t, "Context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		p := poll.Fixed(time.Second).WithJitter(0.1)
		f := delayFunc(t, 0.1)
		f(time.Second, func() { require.Equal(t, p.Wait(ctx, nil), true) })
		go func() {
			time.Sleep(time.Millisecond * 500)
			cancel()
		}()
		f(time.Millisecond*500, func() { require.Equal(t, p.Wait(ctx, nil), false) })
		f(0, func() { require.Equal(t, p.Wait(ctx, nil), false) })
	})
}
