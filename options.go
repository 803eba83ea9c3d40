package zonescan

import (
	"log/slog"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/aggregate"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	store            blobstore.BlobStore
	reuseIndex       bool
	tieKey           aggregate.TieKey
	disablePruning   bool
}

// Option configures Open.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &zonescan.BasicMetricsCollector{}
//	eng, _ := zonescan.Open(ctx, cfg, zonescan.WithMetricsCollector(metrics))
//	// ... run queries ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, zones pruned: %d\n", stats.QueryCount, stats.ZonesPruned)
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
//	logger := zonescan.NewJSONLogger(slog.LevelInfo)
//	eng, _ := zonescan.Open(ctx, cfg, zonescan.WithLogger(logger))
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

// WithBlobStore sets the store holding the source table, shards, scratch
// files and results. It takes precedence over Config.Backend.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithIndexReuse makes Open load the persisted zone map instead of splitting
// the source again, when one exists for the same source and zone size.
func WithIndexReuse(reuse bool) Option {
	return func(o *options) {
		o.reuseIndex = reuse
	}
}

// WithTieResolution selects whether ties are told apart by full timestamp
// (the default) or by calendar day.
func WithTieResolution(key aggregate.TieKey) Option {
	return func(o *options) {
		o.tieKey = key
	}
}

// WithZonePruning enables or disables skipping Station zones by summary.
// Enabled by default.
func WithZonePruning(enabled bool) Option {
	return func(o *options) {
		o.disablePruning = !enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NewLogger(nil),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
