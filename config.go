package biodatasets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/biodatasets/blobstore"
	"github.com/hupe1980/biodatasets/blobstore/minio"
	"github.com/hupe1980/biodatasets/blobstore/s3"
)

// Store backends understood by Config.
const (
	BackendMinio = "minio"
	BackendS3    = "s3"
	BackendLocal = "local"
)

// Config is the file-based configuration of a Client.
type Config struct {
	CacheDir  string      `yaml:"cache_dir"`  // empty: DefaultCacheDir()
	RateLimit int         `yaml:"rate_limit"` // bytes per second, 0 = unlimited
	LogLevel  string      `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string      `yaml:"log_format"` // text, json
	Store     StoreConfig `yaml:"store"`
}

// StoreConfig selects and configures the object store backend.
type StoreConfig struct {
	Backend    string `yaml:"backend"`
	Bucket     string `yaml:"bucket"`
	Endpoint   string `yaml:"endpoint"`
	Region     string `yaml:"region"`
	Prefix     string `yaml:"prefix"`
	Insecure   bool   `yaml:"insecure"`
	Anonymous  bool   `yaml:"anonymous"` // s3 only; minio is anonymous without keys
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Root       string `yaml:"root"`       // local backend directory
	Compressed bool   `yaml:"compressed"` // expose .zst/.lz4 objects under plain names
}

// DefaultConfig returns the configuration used by NewClient without options.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Store: StoreConfig{
			Backend:  BackendMinio,
			Bucket:   DefaultBucket,
			Endpoint: DefaultEndpoint,
		},
	}
}

// LoadConfig reads a YAML config file. ${VAR} references are expanded from
// the environment and unset fields keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the caller
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// Validate checks the configuration for inconsistent settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMinio, BackendS3:
		if c.Store.Bucket == "" {
			errs = append(errs, fmt.Errorf("store.bucket is required for backend %q", c.Store.Backend))
		}
		if c.Store.Backend == BackendMinio && c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store.endpoint is required for backend \"minio\""))
		}
	case BackendLocal:
		if c.Store.Root == "" {
			errs = append(errs, errors.New("store.root is required for backend \"local\""))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}

	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must not be negative"))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// Logger builds the Logger described by LogLevel and LogFormat.
func (c *Config) Logger() (*Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	if c.LogFormat == "json" {
		return NewJSONLogger(lvl), nil
	}
	return NewTextLogger(lvl), nil
}

// NewStore builds the configured object store.
func (c *Config) NewStore(ctx context.Context) (blobstore.Store, error) {
	sc := c.Store

	var (
		store blobstore.Store
		err   error
	)
	switch sc.Backend {
	case BackendMinio:
		endpoint, secure := splitScheme(sc.Endpoint, !sc.Insecure)
		opts := []minio.Option{minio.WithPrefix(sc.Prefix), minio.WithRegion(sc.Region)}
		if sc.AccessKey != "" {
			opts = append(opts, minio.WithCredentials(sc.AccessKey, sc.SecretKey))
		}
		if !secure {
			opts = append(opts, minio.WithInsecure())
		}
		store, err = minio.New(endpoint, sc.Bucket, opts...)
	case BackendS3:
		opts := []s3.Option{s3.WithPrefix(sc.Prefix), s3.WithRegion(sc.Region)}
		if sc.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(withScheme(sc.Endpoint, sc.Insecure)))
		}
		switch {
		case sc.Anonymous:
			opts = append(opts, s3.WithAnonymous())
		case sc.AccessKey != "":
			opts = append(opts, s3.WithCredentials(sc.AccessKey, sc.SecretKey))
		}
		store, err = s3.New(ctx, sc.Bucket, opts...)
	case BackendLocal:
		store = blobstore.NewLocalStore(sc.Root)
	default:
		err = fmt.Errorf("unknown store backend %q", sc.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("biodatasets: create %s store: %w", sc.Backend, err)
	}

	if sc.Compressed {
		store = blobstore.NewDecodingStore(store, nil)
	}
	return store, nil
}

// NewClientFromConfig builds a Client from cfg. optFns are applied after
// the options derived from cfg and may override them.
func NewClientFromConfig(ctx context.Context, cfg *Config, optFns ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cfg.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	bucket := cfg.Store.Bucket
	if cfg.Store.Backend == BackendLocal && bucket == "" {
		bucket = cfg.Store.Root
	}

	opts := []Option{
		WithStore(store),
		WithBucket(bucket),
		WithCacheDir(cfg.CacheDir),
		WithRateLimit(cfg.RateLimit),
		WithLogger(logger),
	}
	return NewClient(append(opts, optFns...)...)
}

// splitScheme strips an http(s):// scheme from endpoint. The returned bool
// reports whether TLS should be used.
func splitScheme(endpoint string, secure bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	}
	return endpoint, secure
}

func withScheme(endpoint string, insecure bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if insecure {
		return "http://" + endpoint
	}
	return "https://" + endpoint
}
