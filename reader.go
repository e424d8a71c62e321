package lineq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teenjuna/lineq/internal"
	"github.com/teenjuna/lineq/source"
)

var (
	ErrClosed = errors.New("reader is closed")
)

// Source is a sequential line source consumed by a [Reader].
//
// Next returns the next line without its terminator, or [io.EOF] once the source is exhausted.
// Any other error is treated as an unrecoverable read failure. A source is used by a single
// goroutine and is never rewound.
type Source interface {
	Next() (string, error)
	Close() error
}

var _ internal.Source = (Source)(nil)

// State is the lifecycle state of a [Reader].
type State int32

const (
	// Idle readers were never started.
	Idle State = iota
	// Running readers have an active producer.
	Running
	// Stopped readers reached the end of the source, were stopped or failed to read. Stopped is
	// final.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Reader reads lines of a [Source] on a background goroutine into a bounded [Buffer].
//
// The producer appends lines in source order and suspends, according to the configured poll
// policy, whenever the buffer holds [Reader.Capacity] lines or more. Consumers remove lines with
// [Reader.Take], which never blocks.
type Reader struct {
	cfg      *Config
	logger   *zap.Logger
	metrics  *metrics
	source   Source
	buffer   *Buffer
	capacity capacity

	state    atomic.Int32
	stopping atomic.Bool
	closing  atomic.Bool

	errMu sync.Mutex
	err   error

	ctx    context.Context
	cancel func()
	group  errgroup.Group
	done   chan struct{}

	finishOnce sync.Once
	closeOnce  sync.Once
	closeErr   error
}

// New returns an idle reader bound to src. The reader owns src from now on and closes it once the
// producer exits or the reader is closed.
func New(src Source, configFuncs ...func(c *Config)) *Reader {
	if src == nil {
		panic("source can't be nil")
	}

	return newReader(src, newConfig(configFuncs...))
}

func newReader(src Source, cfg *Config) *Reader {
	metrics := cfg.prometheus.metrics()

	logger := cfg.logger.With(zap.String("reader", internal.GenerateID()))
	if named, ok := src.(interface{ Name() string }); ok {
		logger = logger.With(zap.String("source", named.Name()))
	}

	ctx, cancel := context.WithCancel(context.Background())

	reader := Reader{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		source:  src,
		buffer:  newBuffer(metrics),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	reader.capacity.store(cfg.capacity)

	return &reader
}

// Open opens the file at path with [source.Open] and returns an idle reader bound to it. Source
// options such as the maximum line size or the compression are passed with [Config.Source].
func Open(path string, configFuncs ...func(c *Config)) (*Reader, error) {
	cfg := newConfig(configFuncs...)
	src, err := source.Open(path, cfg.sourceFuncs...)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return newReader(src, cfg), nil
}

// Start launches the producer and returns immediately. It does nothing unless the reader is
// idle, so a reader runs at most one producer and can't be restarted.
func (r *Reader) Start() {
	if !r.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return
	}
	r.logger.Debug("reader started", zap.Int("capacity", r.Capacity()))
	r.group.Go(r.produce)
}

// Stop asks the producer to exit at its next opportunity. A read that is already in progress
// completes first. Buffered lines stay available. Stopping an idle reader makes it stopped right
// away.
func (r *Reader) Stop() {
	r.stopping.Store(true)
	r.cancel()
	if r.state.CompareAndSwap(int32(Idle), int32(Stopped)) {
		r.logger.Debug("reader stopped before start")
		r.finish()
	}
}

// Running reports whether the producer is active.
func (r *Reader) Running() bool {
	return r.State() == Running
}

// State returns the lifecycle state of the reader.
func (r *Reader) State() State {
	return State(r.state.Load())
}

// Take removes and returns the oldest buffered line. The second return value is false if the
// buffer is currently empty, which doesn't mean the source is exhausted: combine it with
// [Reader.Running] or use [Reader.Lines].
func (r *Reader) Take() (string, bool) {
	return r.buffer.Take()
}

// Buffer returns the buffer shared with the producer.
//
// Callers inspecting the buffer directly must keep removing lines from it, otherwise the producer
// stays suspended forever once the buffer reaches its capacity.
func (r *Reader) Buffer() *Buffer {
	return r.buffer
}

// Capacity returns the maximum number of buffered lines.
func (r *Reader) Capacity() int {
	return r.capacity.load()
}

// SetCapacity changes the maximum number of buffered lines. Values < 1 are clamped to 1.
// Shrinking never evicts buffered lines, it only keeps the producer suspended until consumers
// drain the buffer below the new capacity.
func (r *Reader) SetCapacity(capacity int) {
	r.capacity.store(capacity)
	notify(r.buffer.wake, struct{}{})
}

// Err returns the error that stopped the producer, or nil if the reader exhausted its source, was
// stopped or hasn't stopped yet.
func (r *Reader) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

// Done returns a channel that is closed once the reader is stopped.
func (r *Reader) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the reader is stopped and returns [Reader.Err], or returns the context error
// if ctx is done first.
func (r *Reader) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return r.Err()
	}
}

// Lines returns a sequence of lines taken from the buffer in source order. The sequence ends once
// the reader is stopped and its buffer is empty, or when ctx is done. It doesn't start the reader.
func (r *Reader) Lines(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if ctx.Err() != nil {
				return
			}
			if line, ok := r.Take(); ok {
				if !yield(line) {
					return
				}
				continue
			}

			switch r.State() {
			case Idle:
				return
			case Stopped:
				// The producer appends before it stops, so nothing can arrive anymore.
				if r.buffer.Len() == 0 {
					return
				}
				continue
			}

			select {
			case <-ctx.Done():
				return
			case <-r.buffer.pushed:
			case <-r.done:
			}
		}
	}
}

// Close stops the reader, waits for the producer to exit and closes the source.
//
// Returns [ErrClosed] if the reader has already been closed.
func (r *Reader) Close() error {
	if r.closing.Swap(true) {
		return ErrClosed
	}

	errs := make([]error, 0)

	r.Stop()
	if err := r.group.Wait(); err != nil {
		errs = append(errs, fmt.Errorf("producer: %w", err))
	}

	if err := r.closeSource(); err != nil {
		errs = append(errs, fmt.Errorf("close source: %w", err))
	}

	return errors.Join(errs...)
}

func (r *Reader) produce() error {
	defer r.finish()
	defer r.closeSource()

	for !r.stopping.Load() {
		line, err := r.source.Next()
		if errors.Is(err, io.EOF) {
			r.logger.Debug("source exhausted")
			return nil
		}
		if err != nil {
			r.fail(fmt.Errorf("read line: %w", err))
			return nil
		}

		r.metrics.linesRead.Inc()
		if size := r.buffer.push(line); size >= r.Capacity() && !r.suspend() {
			break
		}
	}

	r.logger.Debug("reader stopped")
	return nil
}

// suspend blocks while the buffer is at capacity. Returns false if the reader was stopped. Only
// suspensions that actually wait are counted as stalls.
func (r *Reader) suspend() bool {
	var (
		policy  = r.cfg.pollPolicy.Derive()
		started time.Time
	)
	defer func() {
		if !started.IsZero() {
			r.metrics.stallDuration.Observe(time.Since(started).Seconds())
		}
	}()

	for r.buffer.Len() >= r.Capacity() {
		if r.stopping.Load() {
			return false
		}
		if started.IsZero() {
			started = time.Now()
			r.metrics.stalls.Inc()
		}
		if !policy.Wait(r.ctx, r.buffer.wake) {
			return false
		}
	}

	return !r.stopping.Load()
}

func (r *Reader) fail(err error) {
	r.errMu.Lock()
	r.err = err
	r.errMu.Unlock()

	r.metrics.readErrors.Inc()
	r.logger.Error("read failed, stopping reader", zap.Error(err))
}

func (r *Reader) finish() {
	r.finishOnce.Do(func() {
		r.state.Store(int32(Stopped))
		close(r.done)
	})
}

func (r *Reader) closeSource() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.source.Close()
		if r.closeErr != nil {
			r.logger.Warn("failed to close source", zap.Error(r.closeErr))
		}
	})
	return r.closeErr
}
