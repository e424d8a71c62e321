package lineq

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teenjuna/lineq/internal"
	"github.com/teenjuna/lineq/poll"
	"github.com/teenjuna/lineq/source"
)

const (
	// DefaultCapacity is the number of lines a reader buffers when no capacity is configured.
	DefaultCapacity = 1000
	// DefaultPollInterval is the interval between capacity checks of the default poll policy.
	DefaultPollInterval = 50 * time.Millisecond
)

// Config is a config of the reader.
//
// It is passed to configuration functions of [New] and [Open] with defaults already applied.
type Config struct {
	capacity   int
	pollPolicy internal.PollPolicy
	logger     *zap.Logger
	prometheus *PrometheusConfig

	sourceFuncs []func(c *source.Config)
}

// Capacity sets the maximum number of buffered lines. Values < 1 are clamped to 1.
func (c *Config) Capacity(capacity int) {
	c.capacity = clampCapacity(capacity)
}

// PollPolicy sets the policy the producer uses to wait while the buffer is full.
func (c *Config) PollPolicy(policy poll.Policy) {
	if policy == nil {
		panic("policy can't be nil")
	}
	c.pollPolicy = policy
}

// Logger sets the logger of the reader.
func (c *Config) Logger(logger *zap.Logger) {
	if logger == nil {
		panic("logger can't be nil")
	}
	c.logger = logger
}

// Prometheus sets the metrics config of the reader. See [Prometheus].
func (c *Config) Prometheus(config *PrometheusConfig) {
	if config == nil {
		panic("prometheus config can't be nil")
	}
	c.prometheus = config
}

// Source adds configuration functions for the file source opened by [Open]. It has no effect on
// readers created with [New].
func (c *Config) Source(configFuncs ...func(c *source.Config)) {
	c.sourceFuncs = append(c.sourceFuncs, configFuncs...)
}

func newConfig(configFuncs ...func(c *Config)) *Config {
	cfg := Config{}
	cfg.Capacity(DefaultCapacity)
	cfg.PollPolicy(poll.Fixed(DefaultPollInterval))
	cfg.Logger(zap.NewNop())
	cfg.Prometheus(Prometheus(nil))
	for _, cf := range configFuncs {
		if cf != nil {
			cf(&cfg)
		}
	}
	return &cfg
}

func clampCapacity(capacity int) int {
	return max(capacity, 1)
}

type capacity struct {
	v atomic.Int64
}

func (c *capacity) load() int {
	return int(c.v.Load())
}

func (c *capacity) store(n int) {
	c.v.Store(int64(clampCapacity(n)))
}
