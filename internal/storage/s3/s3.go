// Package s3 stores book cover images in an S3-compatible bucket (R2 in
// production).
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/5w1tchy/locallibrary/internal/config"
)

var ErrDisabled = errors.New("s3: cover storage is not configured")

type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	URLTTL          time.Duration
}

// FromConfig lifts the storage section of the app config.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		PathStyle:       cfg.Storage.PathStyle,
	}
}

// Enabled reports whether a bucket was configured at all.
func (o Options) Enabled() bool { return o.Bucket != "" }

// PublicOrigin is the scheme://host presigned URLs point at, for the CSP.
func (o Options) PublicOrigin() string {
	if !o.Enabled() {
		return ""
	}
	if o.Endpoint == "" {
		region := o.Region
		if region == "" || region == "auto" {
			region = "us-east-1"
		}
		return "https://" + o.Bucket + ".s3." + region + ".amazonaws.com"
	}
	u, err := url.Parse(o.Endpoint)
	if err != nil || u.Host == "" {
		return ""
	}
	if o.PathStyle {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + o.Bucket + "." + u.Host
}

type Client struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
	urlTTL    time.Duration
}

// New builds a client for opts; ErrDisabled when no bucket is set.
func New(ctx context.Context, opts Options) (*Client, error) {
	if !opts.Enabled() {
		return nil, ErrDisabled
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if opts.URLTTL <= 0 {
		opts.URLTTL = 15 * time.Minute
	}

	creds := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return &Client{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    opts.Bucket,
		urlTTL:    opts.URLTTL,
	}, nil
}

// PresignGet returns a short-lived download URL for key.
func (c *Client) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := c.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = c.urlTTL
	})
	if err != nil {
		return "", fmt.Errorf("s3: presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Upload stores body under key. body should be seekable (an *os.File) so the
// SDK can sign the payload.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := c.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.Bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}
