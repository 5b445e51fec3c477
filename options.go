package biodatasets

import (
	"log/slog"

	"github.com/hupe1980/biodatasets/blobstore"
)

type options struct {
	store            blobstore.Store
	bucket           string
	cacheDir         string
	rateLimit        int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Client.
type Option func(*options)

// WithStore sets the object store datasets are fetched from.
// Without it the public bucket is reached through DefaultEndpoint.
func WithStore(store blobstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithBucket names the bucket behind the store, for log fields, error
// messages and "gs://<bucket>/" key normalisation. Defaults to DefaultBucket.
func WithBucket(bucket string) Option {
	return func(o *options) {
		o.bucket = bucket
	}
}

// WithCacheDir sets the cache root. Defaults to DefaultCacheDir().
func WithCacheDir(dir string) Option {
	return func(o *options) {
		o.cacheDir = dir
	}
}

// WithRateLimit caps download throughput in bytes per second. Zero disables it.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.rateLimit = bytesPerSec
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
//	metrics := &biodatasets.BasicMetricsCollector{}
//	c, _ := biodatasets.NewClient(biodatasets.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
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
//	logger := biodatasets.NewJSONLogger(slog.LevelInfo)
//	c, _ := biodatasets.NewClient(biodatasets.WithLogger(logger))
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
		bucket:           DefaultBucket,
		metricsCollector: NoopMetricsCollector{},
		logger:           NewTextLogger(slog.LevelInfo),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
