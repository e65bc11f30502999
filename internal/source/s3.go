package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetObjectAPI is the part of the S3 client the source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads a single object from a bucket.
type S3 struct {
	client GetObjectAPI
	bucket string
	key    string
}

// NewS3 returns an S3 source using client.
func NewS3(client GetObjectAPI, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

// OpenS3 builds a client from the default AWS credential chain and returns
// the source for an s3://bucket/key URL.
func OpenS3(ctx context.Context, u *url.URL, opts Options) (*S3, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("source: s3 location needs bucket and key, got %q", u.String())
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.S3Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.S3Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3Endpoint)
		}
		o.UsePathStyle = opts.S3UsePathStyle
	})

	return NewS3(client, bucket, key), nil
}

// Fetch downloads the object body. The caller closes it.
func (s *S3) Fetch(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", s.Location(), err)
	}
	return out.Body, nil
}

// Location returns the s3:// URL of the object.
func (s *S3) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}
