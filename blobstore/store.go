package blobstore

import (
	"context"
	"io"
	"os"
	"strings"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Separator is the hierarchical separator used in object keys.
const Separator = "/"

// Store is an abstraction over a bucket of immutable objects.
type Store interface {
	// List returns the sorted keys of all objects starting with prefix.
	// An empty prefix lists the whole bucket.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether the object exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Download writes the object's bytes to w starting at offset 0 and
	// returns the number of bytes written. Returns ErrNotFound if the
	// object is absent.
	Download(ctx context.Context, name string, w io.WriterAt) (int64, error)
}

// TopLevel returns the first path segment of key (the text before the first separator).
func TopLevel(key string) string {
	head, _, _ := strings.Cut(key, Separator)
	return head
}

func hasPrefix(name, prefix string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix)
}
