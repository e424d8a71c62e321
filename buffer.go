package lineq

import (
	"slices"
	"sync"

	"github.com/teenjuna/lineq/buffer"
)

// Buffer is the bounded queue shared by a reader's producer and its consumers.
//
// All methods are safe for concurrent use. Every size check and mutation happens under a single
// mutex, so the producer's check-then-suspend never races with a concurrent removal.
//
// The producer never removes lines from the buffer. Once [Reader.Capacity] lines are buffered it
// stays suspended until somebody removes them with [Buffer.Take] or [Buffer.Drain].
type Buffer struct {
	mu      sync.Mutex
	lines   buffer.Buffer[string]
	metrics *metrics

	// wake is signalled when there may be room for the producer again.
	wake chan struct{}
	// pushed is signalled when a line is appended.
	pushed chan struct{}
}

func newBuffer(metrics *metrics) *Buffer {
	return &Buffer{
		lines:   buffer.FIFO[string](),
		metrics: metrics,
		wake:    make(chan struct{}, 1),
		pushed:  make(chan struct{}, 1),
	}
}

// Len returns the number of buffered lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines.Size()
}

// Take removes and returns the oldest buffered line. The second return value is false if the
// buffer is empty. Take never blocks.
func (b *Buffer) Take() (string, bool) {
	b.mu.Lock()
	line, ok := b.lines.Pop()
	if ok {
		b.metrics.linesTaken.Inc()
		b.metrics.bufferedLines.Set(float64(b.lines.Size()))
	}
	b.mu.Unlock()

	if ok {
		notify(b.wake, struct{}{})
	}
	return line, ok
}

// Drain removes and returns all buffered lines, oldest first.
func (b *Buffer) Drain() []string {
	b.mu.Lock()
	lines := make([]string, 0, b.lines.Size())
	for {
		line, ok := b.lines.Pop()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	b.metrics.linesTaken.Add(float64(len(lines)))
	b.metrics.bufferedLines.Set(0)
	b.mu.Unlock()

	if len(lines) != 0 {
		notify(b.wake, struct{}{})
	}
	return lines
}

// Lines returns a copy of the buffered lines, oldest first, without removing them.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Collect(b.lines.Iter())
}

func (b *Buffer) push(line string) int {
	b.mu.Lock()
	b.lines.Push(line)
	size := b.lines.Size()
	b.metrics.bufferedLines.Set(float64(size))
	b.mu.Unlock()

	notify(b.pushed, struct{}{})
	return size
}

func notify[T any](ch chan T, v T) {
	if ch != nil {
		select {
		case ch <- v:
		default:
		}
	}
}
