package biodatasets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/biodatasets/blobstore"
)

var (
	// ErrNotFound is returned, wrapped, when a remote object is absent at
	// download time. It is blobstore.ErrNotFound (os.ErrNotExist).
	ErrNotFound = blobstore.ErrNotFound

	// ErrUnknownDataset marks a dataset name that is not in the bucket.
	// LoadDataset logs it and returns a nil *Dataset rather than failing.
	ErrUnknownDataset = errors.New("dataset does not exist")

	// ErrInvalidEmbeddings marks an embeddings.npy that cannot be decoded
	// into a 2-D matrix: corrupt header, unsupported dtype or wrong rank.
	ErrInvalidEmbeddings = errors.New("invalid embeddings array")
)

// ColumnsError describes requested columns that are absent from a dataset
// table. ToArrays logs it and returns nil arrays rather than failing.
type ColumnsError struct {
	Dataset string
	// Role is "inputs" or "targets".
	Role    string
	Missing []string
}

func (e *ColumnsError) Error() string {
	return fmt.Sprintf("%s: %s not in the dataset: %s", e.Dataset, e.Role, strings.Join(e.Missing, ", "))
}
