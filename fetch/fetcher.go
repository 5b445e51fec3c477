package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/biodatasets/blobstore"
	"github.com/hupe1980/biodatasets/internal/flock"
	cachefs "github.com/hupe1980/biodatasets/internal/fs"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Fetcher mirrors datasets from a Store into a cache directory.
// It is safe for concurrent use.
type Fetcher struct {
	store    blobstore.Store
	cacheDir string
	bucket   string
	logger   *slog.Logger
	limiter  *rate.Limiter
	observer Observer
	fsys     cachefs.FileSystem
	group    singleflight.Group
}

// New creates a Fetcher caching objects of store under cacheDir.
func New(store blobstore.Store, cacheDir string, optFns ...Option) *Fetcher {
	f := &Fetcher{
		store:    store,
		cacheDir: cacheDir,
		logger:   slog.New(slog.DiscardHandler),
		observer: noopObserver{},
		fsys:     cachefs.Default,
	}
	for _, fn := range optFns {
		fn(f)
	}
	return f
}

// CacheDir returns the cache root.
func (f *Fetcher) CacheDir() string {
	return f.cacheDir
}

// DatasetDir returns the local directory for the named dataset.
func (f *Fetcher) DatasetDir(name string) string {
	return filepath.Join(f.cacheDir, name)
}

// LocalPath returns the mirrored cache path of an object key.
func (f *Fetcher) LocalPath(key string) string {
	return filepath.Join(f.cacheDir, filepath.FromSlash(f.normalizeKey(key)))
}

// ListNames returns the sorted, deduplicated top-level segments of every
// object in the store.
func (f *Fetcher) ListNames(ctx context.Context) ([]string, error) {
	keys, err := f.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch: list objects: %w", err)
	}

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, key := range keys {
		name := blobstore.TopLevel(key)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// EnsureLocal makes sure every object under "<name>/" exists in the cache
// and returns the dataset's local directory. Cached files are left alone
// unless force is set.
func (f *Fetcher) EnsureLocal(ctx context.Context, name string, force bool) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	v, err, _ := f.group.Do(name+"\x00"+strconv.FormatBool(force), func() (any, error) {
		return f.ensureLocal(ctx, name, force)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Fetcher) ensureLocal(ctx context.Context, name string, force bool) (string, error) {
	lock, err := flock.Acquire(ctx, f.lockPath(name))
	if err != nil {
		return "", err
	}
	defer lock.Release()

	dir := f.DatasetDir(name)

	keys, err := f.store.List(ctx, name+blobstore.Separator)
	if err != nil {
		return "", fmt.Errorf("fetch: list %s: %w", name, err)
	}

	f.logger.InfoContext(ctx, "fetching dataset",
		"dataset", name,
		"objects", len(keys),
		"dir", dir,
		"force", force,
	)

	for _, key := range keys {
		if !strings.HasPrefix(path.Clean(key), name+blobstore.Separator) {
			return "", fmt.Errorf("%w: %q is outside dataset %s", ErrInvalidKey, key, name)
		}
		if _, err := f.Download(ctx, key, WithForce(force)); err != nil {
			return "", err
		}
	}

	return dir, nil
}

// Download fetches a single object. By default it is written to its mirrored
// cache path; WithDestination overrides that. An existing destination is kept
// unless WithForce(true) is given. Returns the local path.
//
// If the object does not exist the returned error satisfies
// errors.Is(err, blobstore.ErrNotFound).
func (f *Fetcher) Download(ctx context.Context, key string, optFns ...DownloadOption) (string, error) {
	var o downloadOptions
	for _, fn := range optFns {
		fn(&o)
	}

	key = f.normalizeKey(key)

	if o.dest == "" && !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	ok, err := f.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch: stat %s: %w", key, err)
	}
	if !ok {
		return "", fmt.Errorf("fetch: object %s does not exist in bucket %q: %w", key, f.bucket, blobstore.ErrNotFound)
	}

	dest := o.dest
	if dest == "" {
		dest = f.LocalPath(key)
	} else if abs, err := filepath.Abs(dest); err == nil {
		dest = abs
	}

	if !o.force {
		_, err := f.fsys.Stat(dest)
		if err == nil {
			f.logger.DebugContext(ctx, "object cached", "key", key, "path", dest)
			f.observer.ObserveCacheHit(key)
			return dest, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("fetch: stat %s: %w", dest, err)
		}
	}

	start := time.Now()
	n, err := f.writeObject(ctx, key, dest)
	f.observer.ObserveDownload(key, n, time.Since(start), err)
	if err != nil {
		return "", err
	}

	f.logger.InfoContext(ctx, "object downloaded",
		"key", key,
		"bucket", f.bucket,
		"path", dest,
		"bytes", n,
	)
	return dest, nil
}

// writeObject downloads key into a temporary sibling of dest and renames it
// into place so readers never observe a partial file.
func (f *Fetcher) writeObject(ctx context.Context, key, dest string) (int64, error) {
	dir := filepath.Dir(dest)
	if err := f.fsys.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("fetch: create %s: %w", dir, err)
	}

	tmp, err := f.fsys.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("fetch: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := f.fill(ctx, key, tmp)
	if err != nil {
		_ = f.fsys.Remove(tmpName)
		return 0, err
	}
	if err := f.fsys.Rename(tmpName, dest); err != nil {
		_ = f.fsys.Remove(tmpName)
		return 0, fmt.Errorf("fetch: rename into %s: %w", dest, err)
	}
	return n, nil
}

// fill downloads key into tmp and closes it.
func (f *Fetcher) fill(ctx context.Context, key string, tmp cachefs.File) (int64, error) {
	var w io.WriterAt = tmp
	if f.limiter != nil {
		w = &throttledWriterAt{ctx: ctx, w: tmp, limiter: f.limiter}
	}

	n, err := f.store.Download(ctx, key, w)
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("fetch: download %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("fetch: sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("fetch: close %s: %w", tmp.Name(), err)
	}
	return n, nil
}

// Purge removes a dataset's cached directory.
func (f *Fetcher) Purge(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	lock, err := flock.Acquire(ctx, f.lockPath(name))
	if err != nil {
		return err
	}
	defer lock.Release()

	dir := f.DatasetDir(name)
	if err := f.fsys.RemoveAll(dir); err != nil {
		return fmt.Errorf("fetch: purge %s: %w", name, err)
	}
	f.logger.InfoContext(ctx, "dataset purged", "dataset", name, "dir", dir)
	return nil
}

func (f *Fetcher) lockPath(name string) string {
	return filepath.Join(f.cacheDir, "."+name+".lock")
}

// normalizeKey strips bucket URIs ("gs://bucket/", "s3://bucket/") and a
// leading "bucket/" so callers may pass fully qualified object paths.
func (f *Fetcher) normalizeKey(key string) string {
	for _, scheme := range []string{"gs://", "s3://"} {
		key = strings.TrimPrefix(key, scheme)
	}
	if f.bucket != "" {
		key = strings.TrimPrefix(key, f.bucket+blobstore.Separator)
	}
	return key
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
