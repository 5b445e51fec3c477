package blobstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/biodatasets/internal/mmap"
)

// LocalStore implements Store using a directory on the local file system.
// Keys are slash-separated paths relative to the root.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// List walks the root and returns every regular file whose key has the prefix.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if hasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a regular file exists for the key.
func (s *LocalStore) Exists(_ context.Context, name string) (bool, error) {
	fi, err := os.Stat(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Download copies the file into w, streaming from a read-only mapping in
// chunks so the writer never sees one write the size of the whole object.
func (s *LocalStore) Download(ctx context.Context, name string, w io.WriterAt) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m, err := mmap.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	defer m.Close()

	if m.Size() == 0 {
		return 0, nil
	}
	_ = m.Advise(mmap.AccessSequential)

	src := io.NewSectionReader(m, 0, int64(m.Size()))
	buf := make([]byte, min(m.Size(), downloadChunkSize))
	return io.CopyBuffer(io.NewOffsetWriter(w, 0), &ctxReader{ctx: ctx, r: src}, buf)
}

const downloadChunkSize = 1 << 20

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
