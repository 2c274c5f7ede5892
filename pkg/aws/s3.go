package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore wraps the S3 operations the portal needs: object get/put for
// CSV sources and result artifacts, plus presigned PUT/GET URL generation.
type ObjectStore struct {
	client   *s3.Client
	presign  *s3.PresignClient
	pathOnly bool
}

// NewObjectStore creates an ObjectStore from AWS config. Path-style
// addressing is switched on when a custom endpoint (LocalStack) is in use.
func NewObjectStore(cfg sdkaws.Config) *ObjectStore {
	pathOnly := os.Getenv("AWS_S3_ENDPOINT") != "" || os.Getenv("AWS_ENDPOINT") != ""
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathOnly
	})
	return &ObjectStore{
		client:   client,
		presign:  s3.NewPresignClient(client),
		pathOnly: pathOnly,
	}
}

// GetObject downloads the full object body.
func (s *ObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// PutObject uploads body under bucket/key with the given content type.
func (s *ObjectStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// PresignPut generates a presigned PUT URL for a direct client upload.
func (s *ObjectStore) PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	presigned, err := s.presign.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return presigned.URL, nil
}

// PresignGet generates a time-limited download URL for a stored object.
func (s *ObjectStore) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	presigned, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign get object: %w", err)
	}
	return presigned.URL, nil
}
