package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the flag as a "true" or "false" object in S3.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := demo.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "flags/developer-mode")
type S3Store struct {
	client S3API
	bucket string
	key    string
}

// NewS3Store creates a store for the object at bucket/key.
func NewS3Store(client S3API, bucket, key string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

// Load reads the flag. A missing object reads as false.
func (s *S3Store) Load(ctx context.Context) (bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return false, nil
		}
		return false, fmt.Errorf("demo: s3 get %s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	// The object is a single word; anything larger is not ours.
	data, err := io.ReadAll(io.LimitReader(out.Body, 16))
	if err != nil {
		return false, fmt.Errorf("demo: s3 read %s/%s: %w", s.bucket, s.key, err)
	}
	v, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		return false, fmt.Errorf("demo: s3 object %s/%s: %w", s.bucket, s.key, err)
	}
	return v, nil
}

// Save writes the flag.
func (s *S3Store) Save(ctx context.Context, v bool) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        strings.NewReader(strconv.FormatBool(v)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("demo: s3 put %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
