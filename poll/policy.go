// This package contains the [Policy] interface used by a reader's producer while its buffer is
// full, and several implementations.
package poll

import (
	"github.com/teenjuna/lineq/internal"
)

// Policy defines how the producer suspends while the buffer is at capacity.
//
// Implementations are not considered thread-safe. The producer derives a fresh instance for each
// suspension period.
//
// The interface has the following methods:
//
//	// Wait blocks until the next capacity check is due, the wake channel fires or the context
//	// is cancelled. Returns false only if the context is cancelled.
//	Wait(ctx context.Context, wake <-chan struct{}) bool
//	// Derive returns a new Policy instance for a single suspension period.
//	//
//	// The returned policy maintains its own internal state for tracking waits.
//	Derive() Policy
type Policy = internal.PollPolicy
