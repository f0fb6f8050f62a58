// Package minio reads dataset objects from MinIO or any S3-compatible store.
package minio

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/pkg/errors"
)

// ObjectAPI is the subset of *minio.Client used here.
type ObjectAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// MinIOConfig holds connection settings for the object store.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	// MaxObjectSize rejects larger objects before download.  Zero means 64 MiB.
	MaxObjectSize int64 `mapstructure:"max_object_size"`
}

// Enabled reports whether an endpoint is configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// MinIOClient opens dataset objects.
type MinIOClient struct {
	client ObjectAPI
	config MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// clientAdapter narrows *minio.Client.GetObject to an io.ReadCloser.
type clientAdapter struct {
	*minio.Client
}

func (a clientAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucketName, objectName, opts)
}

// NewMinIOClient builds a client for cfg.  No request is made until the first
// object is opened.
func NewMinIOClient(cfg MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	if !cfg.Enabled() {
		return nil, errors.New(errors.ErrCodeValidation, "minio endpoint is required")
	}
	applyDefaults(&cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	log.Info("MinIO client configured", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return NewMinIOClientWithAPI(clientAdapter{client}, cfg, log), nil
}

// NewMinIOClientWithAPI wraps an existing ObjectAPI.
func NewMinIOClientWithAPI(api ObjectAPI, cfg MinIOConfig, log logging.Logger) *MinIOClient {
	applyDefaults(&cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.MaxObjectSize == 0 {
		cfg.MaxObjectSize = 64 << 20
	}
}

// Open returns a reader over bucket/key.  Missing objects map to
// ErrCodeNotFound and oversized ones to ErrCodeInvalidData.
func (c *MinIOClient) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "minio client closed")
	}

	info, err := c.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, bucket, key)
	}
	if info.Size > c.config.MaxObjectSize {
		return nil, errors.New(errors.ErrCodeInvalidData, "object too large").
			WithDetailf("bucket=%s key=%s size=%d limit=%d", bucket, key, info.Size, c.config.MaxObjectSize)
	}

	obj, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, bucket, key)
	}
	c.logger.Debug("opened object",
		logging.String("bucket", bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size),
	)
	return obj, nil
}

func mapError(err error, bucket, key string) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound:
		return errors.Wrap(err, errors.ErrCodeNotFound, "object not found").
			WithDetailf("bucket=%s key=%s", bucket, key)
	default:
		return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "object store request failed").
			WithDetailf("bucket=%s key=%s", bucket, key)
	}
}

// HealthStatus is the result of HealthCheck.
type HealthStatus struct {
	Healthy bool
	Latency time.Duration
	Error   string
}

// HealthCheck lists buckets to verify credentials and connectivity.
func (c *MinIOClient) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	_, err := c.client.ListBuckets(ctx)
	status := &HealthStatus{Healthy: err == nil, Latency: time.Since(start)}
	if err != nil {
		status.Error = err.Error()
		return status, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	return status, nil
}

// Close marks the client closed.  minio-go holds no resources to release.
func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Info("MinIO client closed")
	return nil
}
