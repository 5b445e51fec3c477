// Package blobstore provides the object store abstraction datasets are fetched from.
//
// Store is the capability interface consumed by the fetch layer: list keys by
// prefix, check existence, download an object into an io.WriterAt.
// Implementations must be safe for concurrent use and must report absent
// objects with an error satisfying errors.Is(err, ErrNotFound).
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory objects, for tests and embedding
//   - LocalStore: a directory acting as a bucket, read through mmap
//   - DecodingStore: exposes ".zst"/".lz4" objects under their plain names
//   - s3.Store: Amazon S3 and S3-compatible endpoints (multipart downloads)
//   - minio.Store: MinIO client, also used for the GCS interoperability endpoint
//
// # Custom Implementations
//
//	type Store interface {
//	    List(ctx, prefix) ([]string, error)
//	    Exists(ctx, name) (bool, error)
//	    Download(ctx, name, w io.WriterAt) (int64, error)
//	}
package blobstore
