package fetch

import "errors"

// ErrInvalidName is returned for dataset names that cannot map to a single
// top-level directory (empty, containing a separator, "." or "..").
var ErrInvalidName = errors.New("fetch: invalid dataset name")

// ErrInvalidKey is returned for object keys whose mirrored path would leave
// the cache directory (absolute, empty, or containing ".." segments).
var ErrInvalidKey = errors.New("fetch: invalid object key")
