package biodatasets

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/hupe1980/biodatasets/fetch"
	"github.com/hupe1980/biodatasets/internal/frame"
	"github.com/hupe1980/biodatasets/internal/mmap"
	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

const (
	// TableFile is the tabular artifact of a dataset.
	TableFile = "dataset.csv"
	// EmbeddingsFile is the precomputed embedding array of a dataset.
	EmbeddingsFile = "embeddings.npy"
)

// Dataset is a dataset mirrored into the local cache.
// It is immutable after construction.
type Dataset struct {
	name   string
	path   string
	logger *Logger
}

// newDataset fetches every object of the dataset into the cache.
// There is no existence pre-check: fetch errors are returned as-is.
func newDataset(ctx context.Context, f *fetch.Fetcher, logger *Logger, name string, force bool) (*Dataset, error) {
	path, err := f.EnsureLocal(ctx, name, force)
	logger.LogLoad(ctx, name, path, force, err)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		name:   name,
		path:   path,
		logger: logger.WithDataset(name),
	}, nil
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Path returns the dataset's local cache directory.
func (d *Dataset) Path() string {
	return d.path
}

// Files returns the cached files of the dataset as slash-separated paths
// relative to Path.
func (d *Dataset) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.path, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.path, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Columns returns the column names of the dataset table.
func (d *Dataset) Columns() ([]string, error) {
	fr, err := frame.ReadFile(filepath.Join(d.path, TableFile))
	if err != nil {
		return nil, err
	}
	return fr.Columns(), nil
}

// ToArrays loads the named input and target columns of the dataset table.
//
// Column validation failures are logged, not returned:
//   - inputs not all present: (nil, nil, nil)
//   - targets not all present: (inputs, nil, nil)
//
// A nil targets slice skips target extraction and returns (inputs, nil, nil).
// The error result is reserved for reading or parsing the table.
func (d *Dataset) ToArrays(inputs, targets []string) (*Array, *Array, error) {
	fr, err := frame.ReadFile(filepath.Join(d.path, TableFile))
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()

	if missing := fr.Missing(inputs); len(missing) > 0 {
		d.logger.LogMissingColumns(ctx, &ColumnsError{Dataset: d.name, Role: "inputs", Missing: missing})
		return nil, nil, nil
	}
	in, err := selectArray(fr, inputs)
	if err != nil {
		return nil, nil, err
	}

	if targets == nil {
		return in, nil, nil
	}

	if missing := fr.Missing(targets); len(missing) > 0 {
		d.logger.LogMissingColumns(ctx, &ColumnsError{Dataset: d.name, Role: "targets", Missing: missing})
		return in, nil, nil
	}
	out, err := selectArray(fr, targets)
	if err != nil {
		return nil, nil, err
	}

	return in, out, nil
}

func selectArray(fr *frame.Frame, columns []string) (*Array, error) {
	cells, err := fr.Select(columns)
	if err != nil {
		return nil, err
	}
	return newArray(fr.Len(), columns, cells), nil
}

// Embeddings loads the precomputed embedding array, one row per sequence.
// Float and integer dtypes are converted to float64; the array must be 2-D.
// If the dataset has no embeddings artifact the error satisfies
// errors.Is(err, fs.ErrNotExist).
func (d *Dataset) Embeddings() (*mat.Dense, error) {
	var m *mat.Dense
	err := d.readEmbeddings(func(r *npy.Reader) error {
		var err error
		m, err = decodeMatrix(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EmbeddingsInfo returns the header of the embedding array: dtype
// descriptor, shape and memory order.
func (d *Dataset) EmbeddingsInfo() (npy.Header, error) {
	var hdr npy.Header
	err := d.readEmbeddings(func(r *npy.Reader) error {
		hdr = r.Header
		return nil
	})
	return hdr, err
}

func (d *Dataset) readEmbeddings(fn func(r *npy.Reader) error) (err error) {
	path := filepath.Join(d.path, EmbeddingsFile)
	m, err := mmap.Open(path)
	if err != nil {
		return fmt.Errorf("biodatasets: %s embeddings: %w", d.name, err)
	}
	defer m.Close()

	_ = m.Advise(mmap.AccessSequential)

	data := m.Bytes()
	if err := checkNpyHeader(data); err != nil {
		return fmt.Errorf("biodatasets: decode %s: %w", path, err)
	}

	// npyio panics on some malformed header dictionaries.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("biodatasets: decode %s: %w: %v", path, ErrInvalidEmbeddings, r)
		}
	}()

	nr, err := npy.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("biodatasets: decode %s: %w: %w", path, ErrInvalidEmbeddings, err)
	}
	if err := fn(nr); err != nil {
		return fmt.Errorf("biodatasets: decode %s: %w", path, err)
	}
	return nil
}
