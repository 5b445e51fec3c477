package biodatasets

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/biodatasets/blobstore"
)

func TestClient_ListDatasets(t *testing.T) {
	c, _ := newTestClient(t, newTestStore(t))

	names, err := c.ListDatasets(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestClient_LoadDataset(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown", func(t *testing.T) {
		store := newTestStore(t)
		c, h := newTestClient(t, store)

		ds, err := c.LoadDataset(ctx, "gamma", false)
		require.NoError(t, err)
		assert.Nil(t, ds)
		assert.Equal(t, 0, store.total())
		assert.Contains(t, h.errors(), "dataset gamma does not exist")

		_, err = os.Stat(filepath.Join(c.CacheDir(), "gamma"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Known", func(t *testing.T) {
		store := newTestStore(t)
		c, h := newTestClient(t, store)

		ds, err := c.LoadDataset(ctx, "alpha", false)
		require.NoError(t, err)
		require.NotNil(t, ds)

		assert.Equal(t, "alpha", ds.Name())
		assert.Equal(t, filepath.Join(c.CacheDir(), "alpha"), ds.Path())

		files, err := ds.Files()
		require.NoError(t, err)
		assert.Equal(t, []string{"dataset.csv", "embeddings.npy"}, files)
		assert.Empty(t, h.errors())

		data, err := os.ReadFile(filepath.Join(ds.Path(), TableFile))
		require.NoError(t, err)
		assert.Equal(t, alphaCSV, string(data))
	})

	t.Run("Idempotent", func(t *testing.T) {
		store := newTestStore(t)
		c, _ := newTestClient(t, store)

		_, err := c.LoadDataset(ctx, "alpha", false)
		require.NoError(t, err)
		_, err = c.LoadDataset(ctx, "alpha", false)
		require.NoError(t, err)

		assert.Equal(t, 1, store.count("alpha/dataset.csv"))
		assert.Equal(t, 1, store.count("alpha/embeddings.npy"))
	})

	t.Run("Force", func(t *testing.T) {
		store := newTestStore(t)
		c, _ := newTestClient(t, store)

		_, err := c.LoadDataset(ctx, "alpha", false)
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "alpha/dataset.csv", []byte("colA\n9\n")))
		ds, err := c.LoadDataset(ctx, "alpha", true)
		require.NoError(t, err)

		assert.Equal(t, 2, store.count("alpha/dataset.csv"))
		assert.Equal(t, 2, store.count("alpha/embeddings.npy"))

		cols, err := ds.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"colA"}, cols)
	})

	t.Run("ListError", func(t *testing.T) {
		boom := errors.New("boom")
		c, _ := newTestClient(t, failingStore{err: boom})

		ds, err := c.LoadDataset(ctx, "alpha", false)
		require.ErrorIs(t, err, boom)
		assert.Nil(t, ds)
	})
}

func TestClient_Purge(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c, _ := newTestClient(t, store)

	ds, err := c.LoadDataset(ctx, "beta", false)
	require.NoError(t, err)

	require.NoError(t, c.Purge(ctx, "beta"))
	_, err = os.Stat(ds.Path())
	assert.True(t, os.IsNotExist(err))

	_, err = c.LoadDataset(ctx, "beta", false)
	require.NoError(t, err)
	assert.Equal(t, 2, store.count("beta/dataset.csv"))
}

func TestClient_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c, _ := newTestClient(t, store)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := c.LoadDataset(ctx, "alpha", false)
			assert.NoError(t, err)
			assert.NotNil(t, ds)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.count("alpha/dataset.csv"))
}

func TestClient_Metrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	c, err := NewClient(
		WithStore(newTestStore(t)),
		WithCacheDir(t.TempDir()),
		WithLogger(nil),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	_, err = c.LoadDataset(ctx, "alpha", false)
	require.NoError(t, err)
	_, err = c.LoadDataset(ctx, "alpha", false)
	require.NoError(t, err)
	_, err = c.LoadDataset(ctx, "gamma", false)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadUnknown)
	assert.Equal(t, int64(2), stats.DownloadCount)
	assert.Equal(t, int64(2), stats.CacheHits)
	assert.Equal(t, int64(3), stats.ListCount)
}

type failingStore struct {
	blobstore.Store
	err error
}

func (s failingStore) List(context.Context, string) ([]string, error) {
	return nil, s.err
}

func TestClient_WithLogLevel(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(
		WithStore(newTestStore(t)),
		WithCacheDir(t.TempDir()),
		WithLogLevel(slog.LevelWarn),
	)
	require.NoError(t, err)

	assert.True(t, c.logger.Enabled(ctx, slog.LevelError))
	assert.True(t, c.logger.Enabled(ctx, slog.LevelWarn))
	assert.False(t, c.logger.Enabled(ctx, slog.LevelInfo))

	// Later options win.
	c, err = NewClient(
		WithStore(newTestStore(t)),
		WithCacheDir(t.TempDir()),
		WithLogLevel(slog.LevelDebug),
		WithLogger(nil),
	)
	require.NoError(t, err)
	assert.False(t, c.logger.Enabled(ctx, slog.LevelError))
}
