package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
	"dealerfeeds/pkg/metadata"
)

const (
	defaultS3Region = "us-east-1"
	// digestMetadataKey stores the timestamp independent feed digest.
	digestMetadataKey = "content-sha256"
)

// ErrMissingBucket is returned when an S3 publisher has no bucket.
var ErrMissingBucket = errors.New("s3 bucket is required")

// S3API is the subset of the S3 client used for publishing.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Ensure the SDK client satisfies S3API.
var _ S3API = (*s3.Client)(nil)

// S3Publisher uploads feeds to S3-compatible object storage.
type S3Publisher struct {
	client  S3API
	cfg     config.S3Config
	baseURL string
	logger  *logger.Logger
}

// S3Option is a functional option for configuring S3Publisher.
type S3Option func(*S3Publisher)

// WithS3Logger sets the logger.
func WithS3Logger(log *logger.Logger) S3Option {
	return func(p *S3Publisher) {
		p.logger = log
	}
}

// WithS3Client replaces the SDK client.
func WithS3Client(client S3API) S3Option {
	return func(p *S3Publisher) {
		p.client = client
	}
}

// NewS3Publisher creates an S3 publisher. Static credentials are used when
// both keys are configured, otherwise the default AWS credential chain.
func NewS3Publisher(cfg config.S3Config, baseURL string, opts ...S3Option) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}

	if cfg.Region == "" {
		cfg.Region = defaultS3Region
	}

	p := &S3Publisher{
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		client, err := newS3Client(cfg)
		if err != nil {
			return nil, err
		}

		p.client = client
	}

	return p, nil
}

func newS3Client(cfg config.S3Config) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Target implements Publisher.
func (p *S3Publisher) Target() string {
	return "s3"
}

// Key returns the object key for a feed name.
func (p *S3Publisher) Key(name string) string {
	prefix := strings.Trim(p.cfg.Prefix, "/")
	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

// Publish uploads data under the configured prefix.
func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	key := p.Key(name)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			digestMetadataKey: metadata.CalculateHash(data),
		},
	}

	if p.cfg.CacheControl != "" {
		input.CacheControl = aws.String(p.cfg.CacheControl)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", p.cfg.Bucket, key, err)
	}

	p.logger.Debug("Feed uploaded", "bucket", p.cfg.Bucket, "key", key, "bytes", len(data))

	return p.ObjectURL(key), nil
}

// ObjectURL returns the public URL of key.
func (p *S3Publisher) ObjectURL(key string) string {
	if url := joinURL(p.baseURL, key); url != "" {
		return url
	}

	if p.cfg.Endpoint != "" {
		return strings.TrimRight(p.cfg.Endpoint, "/") + "/" + p.cfg.Bucket + "/" + key
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}
