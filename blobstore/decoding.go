package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Decoder turns a compressed stream into its plain contents.
type Decoder func(r io.Reader) (io.ReadCloser, error)

// DefaultDecoders maps object suffixes to the decoders DecodingStore applies.
var DefaultDecoders = map[string]Decoder{
	".zst": func(r io.Reader) (io.ReadCloser, error) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	},
	".lz4": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(lz4.NewReader(r)), nil
	},
}

// DecodingStore wraps a Store and exposes compressed objects under their
// plain names. An object "a/dataset.csv.zst" is listed as "a/dataset.csv"
// and decompressed on download. If both the plain and a compressed object
// exist, the plain object wins.
type DecodingStore struct {
	inner    Store
	decoders map[string]Decoder
	suffixes []string
}

// NewDecodingStore creates a DecodingStore. A nil decoders map uses DefaultDecoders.
func NewDecodingStore(inner Store, decoders map[string]Decoder) *DecodingStore {
	if decoders == nil {
		decoders = DefaultDecoders
	}
	suffixes := make([]string, 0, len(decoders))
	for s := range decoders {
		suffixes = append(suffixes, s)
	}
	sort.Strings(suffixes)
	return &DecodingStore{inner: inner, decoders: decoders, suffixes: suffixes}
}

func (s *DecodingStore) plain(key string) (string, string) {
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(key, suffix) {
			return strings.TrimSuffix(key, suffix), suffix
		}
	}
	return key, ""
}

// List returns the plain names of all objects under prefix.
func (s *DecodingStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(keys))
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		name, _ := s.plain(key)
		if !hasPrefix(name, prefix) {
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

// Exists reports whether the plain object or any compressed variant exists.
func (s *DecodingStore) Exists(ctx context.Context, name string) (bool, error) {
	_, _, err := s.resolve(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *DecodingStore) resolve(ctx context.Context, name string) (string, string, error) {
	ok, err := s.inner.Exists(ctx, name)
	if err != nil {
		return "", "", err
	}
	if ok {
		return name, "", nil
	}
	for _, suffix := range s.suffixes {
		ok, err := s.inner.Exists(ctx, name+suffix)
		if err != nil {
			return "", "", err
		}
		if ok {
			return name + suffix, suffix, nil
		}
	}
	return "", "", ErrNotFound
}

// Download writes the decompressed object into w.
func (s *DecodingStore) Download(ctx context.Context, name string, w io.WriterAt) (int64, error) {
	key, suffix, err := s.resolve(ctx, name)
	if err != nil {
		return 0, err
	}
	if suffix == "" {
		return s.inner.Download(ctx, key, w)
	}

	buf := manager.NewWriteAtBuffer(nil)
	if _, err := s.inner.Download(ctx, key, buf); err != nil {
		return 0, err
	}

	rc, err := s.decoders[suffix](bytes.NewReader(buf.Bytes()))
	if err != nil {
		return 0, fmt.Errorf("blobstore: decode %s: %w", key, err)
	}
	defer rc.Close()

	n, err := io.Copy(io.NewOffsetWriter(w, 0), rc)
	if err != nil {
		return n, fmt.Errorf("blobstore: decode %s: %w", key, err)
	}
	return n, nil
}
