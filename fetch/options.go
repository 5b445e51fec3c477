package fetch

import (
	"log/slog"

	"golang.org/x/time/rate"
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used for fetch progress. Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithBucket names the bucket backing the store. It is used in error
// messages and to strip "gs://<bucket>/" style prefixes from keys.
func WithBucket(bucket string) Option {
	return func(f *Fetcher) {
		f.bucket = bucket
	}
}

// WithRateLimit caps download throughput in bytes per second.
// Zero or negative disables throttling.
func WithRateLimit(bytesPerSec int) Option {
	return func(f *Fetcher) {
		if bytesPerSec <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
}

type downloadOptions struct {
	dest  string
	force bool
}

// DownloadOption configures a single-object Download.
type DownloadOption func(*downloadOptions)

// WithDestination writes the object to path instead of its mirrored cache path.
func WithDestination(path string) DownloadOption {
	return func(o *downloadOptions) { o.dest = path }
}

// WithForce re-downloads even if the destination already exists.
func WithForce(force bool) DownloadOption {
	return func(o *downloadOptions) { o.force = force }
}
