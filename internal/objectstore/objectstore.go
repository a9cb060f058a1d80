// Package objectstore turns stored media references into URLs a client can load.
package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Resolver maps a storage path to a download URL. Absolute URLs are returned unchanged.
type Resolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// IsAbsoluteURL reports whether ref already carries a scheme and host, or is a data URI.
func IsAbsoluteURL(ref string) bool {
	if strings.HasPrefix(ref, "data:") {
		return true
	}
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Passthrough returns every reference as is.
type Passthrough struct{}

func (Passthrough) ResolveURL(ctx context.Context, ref string) (string, error) {
	return ref, nil
}

// PublicResolver serves objects from a public bucket or CDN prefix.
type PublicResolver struct {
	BaseURL string
}

func (r PublicResolver) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || IsAbsoluteURL(ref) || r.BaseURL == "" {
		return ref, nil
	}
	base, err := url.Parse(strings.TrimRight(r.BaseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	rel := &url.URL{Path: strings.TrimLeft(ref, "/")}
	return base.ResolveReference(rel).String(), nil
}

// S3Resolver issues short-lived presigned GET URLs for objects in one bucket.
type S3Resolver struct {
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
}

func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func NewS3Resolver(client *s3.Client, bucket string, expiry time.Duration) *S3Resolver {
	return &S3Resolver{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		expiry:    expiry,
	}
}

func (r *S3Resolver) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || IsAbsoluteURL(ref) {
		return ref, nil
	}
	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimLeft(ref, "/")),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", ref, err)
	}
	return req.URL, nil
}
