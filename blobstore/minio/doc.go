// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// MinIO's client speaks the S3 API and works with any S3-compatible storage,
// including the Google Cloud Storage interoperability endpoint that serves the
// public dataset bucket.
//
// # Basic Usage
//
//	store, err := minio.New("storage.googleapis.com", "deepchain-datasets-public")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Private deployments pass credentials:
//
//	store, err := minio.New("localhost:9000", "datasets",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithInsecure(),
//	)
package minio
