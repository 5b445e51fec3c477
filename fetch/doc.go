// Package fetch mirrors remote dataset objects into a local cache directory.
//
// A dataset is every object whose key starts with "<name>/". EnsureLocal
// downloads each such object to "<cacheDir>/<key>" unless it is already
// cached; passing force re-downloads everything.
//
//	f := fetch.New(store, "/var/cache/biodatasets")
//	dir, err := f.EnsureLocal(ctx, "alpha", false)
//
// Files are written to a temporary sibling and renamed into place, and an
// advisory lock per dataset serialises concurrent processes sharing a cache
// directory. There are no retries: the first failing object aborts the
// batch and objects downloaded before it stay on disk.
package fetch
