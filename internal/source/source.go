// Package source fetches the raw dataset and map resources.
//
// A location is either a local path, a file:// URL, an http(s):// URL or an
// s3://bucket/key URL. Every implementation satisfies core.Source.
package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/sigem/internal/core"
)

// Options tunes the clients behind remote locations.
type Options struct {
	// HTTPTimeout bounds a whole http(s) fetch, body included.
	HTTPTimeout time.Duration

	// S3Region overrides the region from the AWS shared config.
	S3Region string

	// S3Endpoint points the S3 client at a compatible store (MinIO, LocalStack).
	S3Endpoint string

	// S3UsePathStyle forces bucket-in-path addressing.
	S3UsePathStyle bool
}

// Open returns the Source for location.
func Open(ctx context.Context, location string, opts Options) (core.Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("source: empty location")
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return NewFile(location), nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return NewFile(u.Path), nil
	case "http", "https":
		return NewHTTP(location, opts.HTTPTimeout), nil
	case "s3":
		return OpenS3(ctx, u, opts)
	default:
		return nil, fmt.Errorf("source: unsupported scheme %q in %q", u.Scheme, location)
	}
}
