package minio

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/hupe1980/biodatasets/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store implements blobstore.Store for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ blobstore.Store = (*Store)(nil)

type options struct {
	accessKey string
	secretKey string
	region    string
	prefix    string
	insecure  bool
}

// Option configures New.
type Option func(*options)

// WithCredentials sets static V4 credentials. Without it requests are anonymous.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithRegion sets the bucket region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithPrefix sets a root prefix prepended to all keys.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithInsecure uses plain HTTP instead of HTTPS.
func WithInsecure() Option {
	return func(o *options) { o.insecure = true }
}

// New dials endpoint (host[:port], no scheme) and returns a Store for bucket.
func New(endpoint, bucket string, optFns ...Option) (*Store, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	// Empty static keys make minio-go skip signing, which is what public
	// buckets on GCS interoperability expect.
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.accessKey, o.secretKey, ""),
		Secure: !o.insecure,
		Region: o.region,
	})
	if err != nil {
		return nil, err
	}
	return NewStore(client, bucket, o.prefix), nil
}

// NewStore creates a new MinIO object store.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "datasets/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.TrimSuffix(rootPrefix, "/"),
	}
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func isNotFound(err error) bool {
	errResp := minio.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" || errResp.StatusCode == 404
}

// List returns all object names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	// Stop the listing goroutine if we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := obj.Key
		if s.prefix != "" {
			name = strings.TrimPrefix(name, s.prefix+"/")
		}
		if name != "" && !strings.HasSuffix(name, "/") {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// Exists stats the object.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.key(name), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Download streams the object into w.
func (s *Store) Download(ctx context.Context, name string, w io.WriterAt) (int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return 0, blobstore.ErrNotFound
		}
		return 0, err
	}
	defer obj.Close()

	// GetObject is lazy; errors such as NoSuchKey surface on first read.
	n, err := io.Copy(io.NewOffsetWriter(w, 0), obj)
	if err != nil {
		if isNotFound(err) {
			return n, blobstore.ErrNotFound
		}
		return n, err
	}
	return n, nil
}
