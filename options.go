package hypergo

import (
	"log/slog"

	"github.com/hupe1980/hypergo/artifact"
	"github.com/hupe1980/hypergo/cluster"
	"github.com/hupe1980/hypergo/codec"
	"github.com/hupe1980/hypergo/hypergraph"
)

type options struct {
	codec            codec.Codec
	compression      artifact.Compression
	metricsCollector MetricsCollector
	logger           *Logger
	clusterConfig    cluster.Config
	duplicatePolicy  hypergraph.DuplicatePolicy
	parallelism      int
}

// Option configures Pipeline behavior.
type Option func(*options)

// WithCodec configures the codec used for exported artifacts.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures compression for exported artifacts.
// Default is no compression.
func WithCompression(c artifact.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithClusterConfig replaces the community-detection configuration.
// The zero value of cluster.Config equals cluster.DefaultConfig().
func WithClusterConfig(cfg cluster.Config) Option {
	return func(o *options) {
		o.clusterConfig = cfg
	}
}

// WithDuplicatePolicy sets how exact-duplicate node sets from different
// rules are treated. Default hypergraph.PolicyMerge.
func WithDuplicatePolicy(p hypergraph.DuplicatePolicy) Option {
	return func(o *options) {
		o.duplicatePolicy = p
	}
}

// WithParallelism sets the worker count for candidate-gain evaluation in
// the clustering engine. Values <= 1 run serially; results are identical
// either way.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hypergo.BasicMetricsCollector{}
//	p := hypergo.New(hypergo.WithMetricsCollector(metrics))
//	// ... run the pipeline ...
//	stats := metrics.GetStats()
//	fmt.Printf("Edges: %d, Avg cluster latency: %dns\n",
//	    stats.SynthesizeEdges, stats.ClusterAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hypergo.NewJSONLogger(slog.LevelInfo)
//	p := hypergo.New(hypergo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      artifact.None,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		clusterConfig:    cluster.DefaultConfig(),
		duplicatePolicy:  hypergraph.PolicyMerge,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
