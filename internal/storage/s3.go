// Package storage is the CV object store: S3 for the objects themselves plus
// plain HTTP for presigned downloads handed out earlier.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"multitalent/internal/config"
	"multitalent/internal/scoring"
)

const downloadTimeout = 60 * time.Second

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	http    *http.Client
	bucket  string
	folder  string
	log     *zap.Logger
}

func New(ctx context.Context, cfg config.AWS, log *zap.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &Client{
		s3:      client,
		presign: s3.NewPresignClient(client),
		http:    &http.Client{Timeout: downloadTimeout},
		bucket:  cfg.Bucket,
		folder:  cfg.Folder,
		log:     log,
	}, nil
}

// FetchToFile materializes the referenced CV at dst: presigned URL first,
// bucket/key second. A reference carrying neither is a descriptive error.
func (c *Client) FetchToFile(ctx context.Context, ref scoring.CVReference, dst string) error {
	if ref.PresignedURL != "" {
		return c.downloadURL(ctx, ref.PresignedURL, dst)
	}
	if ref.S3Key != "" {
		bucket := ref.S3Bucket
		if bucket == "" {
			bucket = c.bucket
		}
		if bucket == "" {
			return fmt.Errorf("fetch cv: no bucket for key %q", ref.S3Key)
		}
		return c.downloadObject(ctx, bucket, ref.S3Key, dst)
	}
	return scoring.ErrNoCVReference
}

func (c *Client) downloadURL(ctx context.Context, rawURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build cv download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download cv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download cv: unexpected status %d", resp.StatusCode)
	}
	return writeFile(dst, resp.Body)
}

func (c *Client) downloadObject(ctx context.Context, bucket, key, dst string) error {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return writeFile(dst, out.Body)
}

// PresignGet returns a temporary signed download URL for the given key.
func (c *Client) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// DeleteObject removes the stored CV; a missing object is not an error worth
// surfacing to withdrawal flows, so failures are logged and swallowed.
func (c *Client) DeleteObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.log.Warn("delete cv object failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Client) Bucket() string {
	return c.bucket
}

// KeyForCV builds the canonical object key for an uploaded CV.
func (c *Client) KeyForCV(vacancyID, applicantID uint, filename string) string {
	if filename == "" {
		filename = "cv.pdf"
	}
	safe := unsafeKeyChars.ReplaceAllString(filename, "_")
	return fmt.Sprintf("%s/vacancy_%d/applicant_%d_%d_%s",
		c.folder, vacancyID, applicantID, time.Now().Unix(), safe)
}

// ExtractKeyFromPath accepts a bare key or a full object URL and returns the
// key, or "" when there is nothing usable.
func ExtractKeyFromPath(cvPath string) string {
	if cvPath == "" {
		return ""
	}
	if strings.HasPrefix(cvPath, "http://") || strings.HasPrefix(cvPath, "https://") {
		u, err := url.Parse(cvPath)
		if err != nil {
			return ""
		}
		return strings.TrimPrefix(u.Path, "/")
	}
	return cvPath
}

func writeFile(dst string, r io.Reader) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
