package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type options struct {
	region      string
	endpoint    string
	prefix      string
	anonymous   bool
	accessKey   string
	secretKey   string
	partSize    int64
	concurrency int
}

// Option configures New.
type Option func(*options)

// WithRegion sets the AWS region. Defaults to the environment/shared config.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points the client at an S3-compatible endpoint.
// Path-style addressing is enabled when an endpoint is set.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithPrefix sets a root prefix prepended to all keys.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithAnonymous disables request signing (public buckets).
func WithAnonymous() Option {
	return func(o *options) { o.anonymous = true }
}

// WithCredentials sets static credentials instead of the default chain.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithPartSize sets the ranged download part size in bytes.
func WithPartSize(size int64) Option {
	return func(o *options) { o.partSize = size }
}

// WithConcurrency sets the number of parallel part downloads.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// New loads the default AWS configuration and returns a Store for bucket.
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	o := options{
		partSize:    manager.DefaultDownloadPartSize,
		concurrency: manager.DefaultDownloadConcurrency,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	switch {
	case o.anonymous:
		loadOpts = append(loadOpts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case o.accessKey != "":
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
			so.UsePathStyle = true
		}
	})

	return NewStore(client, bucket, o.prefix, func(d *manager.Downloader) {
		if o.partSize > 0 {
			d.PartSize = o.partSize
		}
		if o.concurrency > 0 {
			d.Concurrency = o.concurrency
		}
	}), nil
}
