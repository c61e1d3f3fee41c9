// Package storage uploads payment attachments to an S3-compatible bucket
// (Cloudflare R2 in production). A nil client degrades to rejecting
// uploads rather than failing startup.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	appconfig "admission-backend/internal/config"
	"admission-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Client struct {
	s3     *s3.Client
	bucket string
}

// New builds the attachment store. Returns nil (not an error) when the
// bucket is unconfigured so the app runs without attachment support.
func New(ctx context.Context, cfg *appconfig.Config) (*Client, error) {
	if cfg.Storage.Endpoint == "" || cfg.Storage.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
	})
	return &Client{s3: client, bucket: cfg.Storage.Bucket}, nil
}

// Upload stores an attachment under attachments/YYYY/MM/ and returns the
// object key.
func (c *Client) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if c == nil {
		return "", fmt.Errorf("attachment storage is not configured")
	}

	now := timeutil.Now()
	key := fmt.Sprintf("attachments/%04d/%02d/%d_%s",
		now.Year(), now.Month(), now.UnixNano(), sanitizeFilename(filename))

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}
	return key, nil
}

// Download streams a stored attachment. The caller closes the reader.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if c == nil {
		return nil, "", fmt.Errorf("attachment storage is not configured")
	}

	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch attachment: %w", err)
	}
	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return result.Body, contentType, nil
}

// Delete removes a stored attachment.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
