// Package imagehost stores uploaded profile images in an S3-compatible
// object store and hands back the key plus a retrievable URL.
package imagehost

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Asset identifies a stored object: the key inside the bucket and the URL
// clients fetch it from.
type Asset struct {
	PublicID string
	URL      string
}

// Uploader is the image-host contract consumed by the auth flow.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, size int64, contentType, folder string) (*Asset, error)
}

type Config struct {
	Region        string
	Endpoint      string // base endpoint, e.g. a MinIO address; empty for AWS
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string // overrides the endpoint/bucket URL when serving via CDN
}

// putObject is a seam for tests; swapped out to avoid a live object store.
var putObject = func(ctx context.Context, c *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	return c.PutObject(ctx, in)
}

type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &S3Uploader{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload writes the object under folder/<uuid> and returns its key and URL.
func (u *S3Uploader) Upload(ctx context.Context, body io.Reader, size int64, contentType, folder string) (*Asset, error) {
	key := folder + "/" + uuid.NewString()

	_, err := putObject(ctx, u.client, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Asset{PublicID: key, URL: u.baseURL + "/" + key}, nil
}
