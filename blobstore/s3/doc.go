// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	client, err := biodatasets.NewClient(biodatasets.WithStore(store))
//
// Any S3-compatible endpoint works through WithEndpoint, e.g. the Google
// Cloud Storage interoperability API for public buckets:
//
//	store, err := s3.New(ctx, "deepchain-datasets-public",
//	    s3.WithEndpoint("https://storage.googleapis.com"),
//	    s3.WithRegion("auto"),
//	    s3.WithAnonymous(),
//	)
//
// # Features
//
//   - Multipart ranged downloads straight into the destination file
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant buckets
package s3
