// Package biodatasets discovers, downloads and caches named biological
// datasets stored in an object-store bucket, and loads them as 2-D arrays.
//
// A dataset is every object under the "<name>/" prefix of the bucket,
// typically a dataset.csv table and an optional embeddings.npy array.
// Loading a dataset mirrors those objects into a local cache root and
// returns a Dataset bound to that directory:
//
//	ds, err := biodatasets.LoadDataset(ctx, "pfam-32.0", false)
//	if err != nil {
//		return err
//	}
//	if ds == nil {
//		// unknown name, already logged
//	}
//	inputs, targets, err := ds.ToArrays([]string{"sequence"}, []string{"family"})
//	emb, err := ds.Embeddings()
//
// The package-level functions use a default Client reading the public bucket
// anonymously through the Google Cloud Storage interoperability endpoint.
// Use NewClient or NewClientFromConfig to point at a different store
// (blobstore/s3, blobstore/minio, blobstore.LocalStore, blobstore.MemoryStore)
// or cache root.
//
// Cache writes are atomic (temp file + rename) and serialised across
// processes with an advisory lock per dataset.
package biodatasets
