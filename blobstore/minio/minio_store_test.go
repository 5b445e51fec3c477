package minio

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/hupe1980/biodatasets/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Key(t *testing.T) {
	store := NewStore(nil, "bucket", "root/")
	assert.Equal(t, "root/alpha/dataset.csv", store.key("alpha/dataset.csv"))
	assert.Equal(t, "root/", store.key(""))
	assert.Equal(t, "bucket", store.Bucket())

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "alpha/", bare.key("alpha/"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{StatusCode: 404}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	ctx := context.Background()
	bucket := "test-biodatasets"

	store, err := New("localhost:9000", bucket,
		WithCredentials("minioadmin", "minioadmin"),
		WithInsecure(),
		WithPrefix("test-prefix/"),
	)
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("seq,label\nMKT,1\n")
	_, err = store.client.PutObject(ctx, bucket, store.key("alpha/dataset.csv"),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	require.NoError(t, err)
	defer func() {
		_ = store.client.RemoveObject(ctx, bucket, store.key("alpha/dataset.csv"), minio.RemoveObjectOptions{})
	}()

	names, err := store.List(ctx, "alpha/")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha/dataset.csv"}, names)

	ok, err := store.Exists(ctx, "alpha/dataset.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "alpha/embeddings.npy")
	require.NoError(t, err)
	assert.False(t, ok)

	buf := manager.NewWriteAtBuffer(nil)
	n, err := store.Download(ctx, "alpha/dataset.csv", buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, buf.Bytes())

	_, err = store.Download(ctx, "alpha/embeddings.npy", manager.NewWriteAtBuffer(nil))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
