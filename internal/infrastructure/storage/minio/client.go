// Package minio archives the raw standard-contract source documents.  The
// archive is an audit trail: every ingestion run keeps the bytes it parsed,
// keyed by contract type and run id.  Nothing on the search path reads it.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// MinIOAPI abstracts the minio-go client for testing.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// ClientConfig holds MinIO connection parameters.
type ClientConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	Region        string
	PresignExpiry time.Duration
}

// ValidateConfig checks the required fields.
func ValidateConfig(cfg *ClientConfig) error {
	if cfg == nil {
		return errors.New(errors.ErrCodeValidation, "minio config is required")
	}
	if cfg.Endpoint == "" {
		return errors.New(errors.ErrCodeValidation, "minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return errors.New(errors.ErrCodeValidation, "minio bucket is required")
	}
	return nil
}

// Client wraps the minio-go SDK with bucket bootstrap and health checking.
type Client struct {
	api    MinIOAPI
	config *ClientConfig
	logger logging.Logger
}

// NewClient connects to MinIO and makes sure the archive bucket exists.
func NewClient(cfg *ClientConfig, logger logging.Logger) (*Client, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = time.Hour
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{api: api, config: cfg, logger: logger.Named("minio")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal,
			fmt.Sprintf("failed to create bucket %s", c.config.Bucket))
	}
	c.logger.Info("bucket created", logging.String("bucket", c.config.Bucket))
	return nil
}

// Bucket returns the archive bucket name.
func (c *Client) Bucket() string {
	return c.config.Bucket
}

// API returns the underlying SDK handle.
func (c *Client) API() MinIOAPI {
	return c.api
}

// CheckHealth verifies the connection and the archive bucket.
func (c *Client) CheckHealth(ctx context.Context) error {
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio unreachable")
	}
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "bucket check failed")
	}
	if !exists {
		return errors.New(errors.ErrCodeServiceUnavailable,
			fmt.Sprintf("bucket %s missing", c.config.Bucket))
	}
	return nil
}

//Personal.AI order the ending
