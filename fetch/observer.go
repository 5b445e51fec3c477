package fetch

import "time"

// Observer receives per-object fetch events. Implementations must be safe
// for concurrent use.
type Observer interface {
	// ObserveDownload is called after each download attempt.
	ObserveDownload(key string, bytes int64, duration time.Duration, err error)

	// ObserveCacheHit is called when a cached object is reused.
	ObserveCacheHit(key string)
}

type noopObserver struct{}

func (noopObserver) ObserveDownload(string, int64, time.Duration, error) {}
func (noopObserver) ObserveCacheHit(string)                              {}

// WithObserver registers an Observer for download and cache-hit events.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		if o != nil {
			f.observer = o
		}
	}
}
