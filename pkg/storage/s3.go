package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

// S3Config describes an S3 compatible bucket (AWS, R2, MinIO)
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	BasePath        string
	ForcePathStyle  bool
}

// publicBase is the URL prefix under which objects of cfg are served
func (cfg S3Config) publicBase() string {
	if cfg.CDNURL != "" {
		return strings.TrimRight(cfg.CDNURL, "/") + "/"
	}
	if cfg.Endpoint != "" && cfg.ForcePathStyle {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/"
	}
	return "https://" + cfg.Bucket + ".s3.amazonaws.com/"
}

// S3Client uploads media objects and maps them to public URLs
type S3Client struct {
	api    *s3.Client
	bucket string
	prefix string
	base   string
}

// Object is a stored upload
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// NewS3Client configures a client for cfg. No request is made.
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	api := s3.New(s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.ForcePathStyle,
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	c := &S3Client{
		api:    api,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.BasePath, "/"),
		base:   cfg.publicBase(),
	}
	pkglogger.GetLogger().Info().
		Str("bucket", c.bucket).
		Str("public_base", c.base).
		Msg("object storage configured")
	return c, nil
}

func (c *S3Client) objectKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + "/" + key
}

// Upload stores body under key. Uploaded media never changes, so it is
// served with a long immutable cache lifetime.
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*Object, error) {
	full := c.objectKey(key)
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(full),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: put %s: %w", full, err)
	}
	return &Object{Key: full, URL: c.PublicURL(full), ContentType: contentType, Size: size}, nil
}

// Delete removes the object stored under the full key
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (c *S3Client) PublicURL(key string) string {
	return c.base + key
}

// KeyFromURL maps a URL from PublicURL back to its key, or "" for any
// other URL
func (c *S3Client) KeyFromURL(url string) string {
	key, ok := strings.CutPrefix(url, c.base)
	if !ok {
		return ""
	}
	return key
}

// GenerateKey returns a fresh key for filename under folder/yyyy/mm/
func GenerateKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
}
