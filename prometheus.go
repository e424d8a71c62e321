package lineq

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the reader.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the buffered lines gauge.
	BufferedLines prometheus.GaugeOpts
	// Options for the read lines counter.
	LinesRead prometheus.CounterOpts
	// Options for the taken lines counter.
	LinesTaken prometheus.CounterOpts
	// Options for the read errors counter.
	ReadErrors prometheus.CounterOpts
	// Options for the producer stalls counter.
	Stalls prometheus.CounterOpts
	// Options for the stall duration histogram.
	StallDuration prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
//
// Each reader registers its own collectors, so readers sharing a registerer must use distinct
// namespaces or subsystems.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "lineq"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		BufferedLines: prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "buffered_lines",
			Help:      "Number of lines in reader's buffer",
		},
		LinesRead: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lines_read",
			Help:      "Number of lines read from the source",
		},
		LinesTaken: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lines_taken",
			Help:      "Number of lines taken from reader's buffer",
		},
		ReadErrors: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "read_errors",
			Help:      "Number of errors occurred while reading the source",
		},
		Stalls: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stalls",
			Help:      "Number of times the producer was suspended by a full buffer",
		},
		StallDuration: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stall_duration",
			Help:      "Duration of producer suspensions in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	// Namespace and Subsystem apply to every metric.
	c.BufferedLines.Namespace, c.BufferedLines.Subsystem = c.Namespace, c.Subsystem
	c.LinesRead.Namespace, c.LinesRead.Subsystem = c.Namespace, c.Subsystem
	c.LinesTaken.Namespace, c.LinesTaken.Subsystem = c.Namespace, c.Subsystem
	c.ReadErrors.Namespace, c.ReadErrors.Subsystem = c.Namespace, c.Subsystem
	c.Stalls.Namespace, c.Stalls.Subsystem = c.Namespace, c.Subsystem
	c.StallDuration.Namespace, c.StallDuration.Subsystem = c.Namespace, c.Subsystem

	m := metrics{
		bufferedLines: prometheus.NewGauge(c.BufferedLines),
		linesRead:     prometheus.NewCounter(c.LinesRead),
		linesTaken:    prometheus.NewCounter(c.LinesTaken),
		readErrors:    prometheus.NewCounter(c.ReadErrors),
		stalls:        prometheus.NewCounter(c.Stalls),
		stallDuration: prometheus.NewHistogram(c.StallDuration),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.bufferedLines,
			m.linesRead,
			m.linesTaken,
			m.readErrors,
			m.stalls,
			m.stallDuration,
		)
	}

	return &m
}

type metrics struct {
	bufferedLines prometheus.Gauge
	linesRead     prometheus.Counter
	linesTaken    prometheus.Counter
	readErrors    prometheus.Counter
	stalls        prometheus.Counter
	stallDuration prometheus.Histogram
}
