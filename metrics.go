package biodatasets

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/biodatasets/fetch"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// It embeds fetch.Observer so per-object download events reach the same sink.
type MetricsCollector interface {
	fetch.Observer

	// RecordList is called after each dataset listing.
	RecordList(duration time.Duration, err error)

	// RecordLoad is called after each LoadDataset. found is false when the
	// name was not in the bucket.
	RecordLoad(duration time.Duration, found bool, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) ObserveDownload(string, int64, time.Duration, error) {}
func (NoopMetricsCollector) ObserveCacheHit(string)                              {}
func (NoopMetricsCollector) RecordList(time.Duration, error)                     {}
func (NoopMetricsCollector) RecordLoad(time.Duration, bool, error)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ListCount          atomic.Int64
	ListErrors         atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadUnknown        atomic.Int64
	LoadTotalNanos     atomic.Int64
	DownloadCount      atomic.Int64
	DownloadErrors     atomic.Int64
	DownloadBytes      atomic.Int64
	DownloadTotalNanos atomic.Int64
	CacheHits          atomic.Int64
}

// ObserveDownload implements fetch.Observer.
func (b *BasicMetricsCollector) ObserveDownload(_ string, bytes int64, duration time.Duration, err error) {
	b.DownloadCount.Add(1)
	b.DownloadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DownloadErrors.Add(1)
		return
	}
	b.DownloadBytes.Add(bytes)
}

// ObserveCacheHit implements fetch.Observer.
func (b *BasicMetricsCollector) ObserveCacheHit(string) {
	b.CacheHits.Add(1)
}

// RecordList implements MetricsCollector.
func (b *BasicMetricsCollector) RecordList(_ time.Duration, err error) {
	b.ListCount.Add(1)
	if err != nil {
		b.ListErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, found bool, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
	if !found {
		b.LoadUnknown.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ListCount:        b.ListCount.Load(),
		ListErrors:       b.ListErrors.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadUnknown:      b.LoadUnknown.Load(),
		LoadAvgNanos:     avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		DownloadCount:    b.DownloadCount.Load(),
		DownloadErrors:   b.DownloadErrors.Load(),
		DownloadBytes:    b.DownloadBytes.Load(),
		DownloadAvgNanos: avg(b.DownloadTotalNanos.Load(), b.DownloadCount.Load()),
		CacheHits:        b.CacheHits.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ListCount        int64
	ListErrors       int64
	LoadCount        int64
	LoadErrors       int64
	LoadUnknown      int64
	LoadAvgNanos     int64
	DownloadCount    int64
	DownloadErrors   int64
	DownloadBytes    int64
	DownloadAvgNanos int64
	CacheHits        int64
}
