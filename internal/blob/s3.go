// Package blob stores chat image uploads in S3-compatible object storage.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tbourn/go-sparky-backend/internal/llm"
)

// ObjectPutter is the part of *s3.Client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes images under chat-images/<user>/<yyyy>/<mm>/<dd>/<uuid>.<ext>.
type S3Store struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Store builds a store from static credentials. A non-empty endpoint
// targets an S3-compatible service (MinIO, R2, Yandex) with path-style URLs.
func NewS3Store(ctx context.Context, endpoint, region, bucket, accessKeyID, secretKey string) (*S3Store, error) {
	if bucket == "" || accessKeyID == "" || secretKey == "" {
		return nil, errors.New("s3 configuration incomplete: bucket, access key and secret are required")
	}
	if strings.TrimSpace(region) == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, bucket), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client ObjectPutter, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: "chat-images", now: time.Now}
}

// PutImage uploads img and returns its object key.
func (s *S3Store) PutImage(ctx context.Context, userID string, img *llm.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", errors.New("empty image")
	}
	key := fmt.Sprintf("%s/%s/%s/%s%s", s.prefix, safeSegment(userID), s.now().UTC().Format("2006/01/02"), uuid.NewString(), extFor(img.MIMEType))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.MIMEType),
		ContentLength: aws.Int64(int64(len(img.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

func extFor(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	}
	return ""
}

// safeSegment keeps user ids from escaping their key prefix.
func safeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
	if s == "" {
		return "anonymous"
	}
	return s
}
