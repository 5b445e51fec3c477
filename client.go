package biodatasets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/hupe1980/biodatasets/blobstore/minio"
	"github.com/hupe1980/biodatasets/fetch"
)

const (
	// DefaultBucket is the public bucket holding the datasets.
	DefaultBucket = "deepchain-datasets-public"

	// DefaultEndpoint is the S3-interoperable endpoint serving DefaultBucket.
	DefaultEndpoint = "storage.googleapis.com"

	// CacheDirEnv overrides the default cache root.
	CacheDirEnv = "BIODATASETS_CACHE_DIR"
)

// DefaultCacheDir returns $BIODATASETS_CACHE_DIR if set, otherwise
// "biodatasets" under the user cache directory.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("biodatasets: resolve cache dir: %w", err)
	}
	return filepath.Join(base, "biodatasets"), nil
}

// Client lists and loads datasets from one store into one cache root.
// It is safe for concurrent use.
type Client struct {
	fetcher *fetch.Fetcher
	bucket  string
	logger  *Logger
	metrics MetricsCollector
}

// NewClient creates a Client. Without WithStore it reads the public bucket
// anonymously through DefaultEndpoint.
func NewClient(optFns ...Option) (*Client, error) {
	o := applyOptions(optFns)

	if o.cacheDir == "" {
		dir, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		o.cacheDir = dir
	}

	if o.store == nil {
		store, err := minio.New(DefaultEndpoint, o.bucket)
		if err != nil {
			return nil, fmt.Errorf("biodatasets: create default store: %w", err)
		}
		o.store = store
	}

	f := fetch.New(o.store, o.cacheDir,
		fetch.WithBucket(o.bucket),
		fetch.WithLogger(o.logger.Logger),
		fetch.WithRateLimit(o.rateLimit),
		fetch.WithObserver(o.metricsCollector),
	)

	return &Client{
		fetcher: f,
		bucket:  o.bucket,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

// Fetcher returns the underlying cache and fetch layer, for single-object
// downloads and cache maintenance.
func (c *Client) Fetcher() *fetch.Fetcher {
	return c.fetcher
}

// CacheDir returns the cache root.
func (c *Client) CacheDir() string {
	return c.fetcher.CacheDir()
}

// ListDatasets returns the sorted names of all datasets in the bucket.
func (c *Client) ListDatasets(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := c.fetcher.ListNames(ctx)
	c.metrics.RecordList(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// LoadDataset fetches the named dataset into the cache and returns it.
//
// If name is not in the bucket the miss is logged and LoadDataset returns
// (nil, nil) without downloading anything. Errors are returned for listing
// and download failures; a remote object vanishing mid-fetch yields an error
// satisfying errors.Is(err, ErrNotFound).
func (c *Client) LoadDataset(ctx context.Context, name string, force bool) (*Dataset, error) {
	start := time.Now()

	names, err := c.ListDatasets(ctx)
	if err != nil {
		c.metrics.RecordLoad(time.Since(start), false, err)
		return nil, err
	}

	if !slices.Contains(names, name) {
		c.logger.LogUnknownDataset(ctx, name)
		c.metrics.RecordLoad(time.Since(start), false, nil)
		return nil, nil
	}

	ds, err := newDataset(ctx, c.fetcher, c.logger, name, force)
	c.metrics.RecordLoad(time.Since(start), true, err)
	return ds, err
}

// Purge removes the named dataset from the cache.
func (c *Client) Purge(ctx context.Context, name string) error {
	return c.fetcher.Purge(ctx, name)
}
