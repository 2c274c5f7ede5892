package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
)

// UploadPresigner generates presigned PUT URLs for direct client uploads.
type UploadPresigner interface {
	PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error)
}

// UploadConfig carries the upload bucket coordinates.
type UploadConfig struct {
	Bucket    string
	KeyPrefix string
	URLExpiry time.Duration
}

// UploadService hands out presigned upload URLs so CSV files go straight to
// object storage without transiting the API.
type UploadService struct {
	presigner UploadPresigner
	cfg       UploadConfig
}

// NewUploadService creates a new upload service.
func NewUploadService(presigner UploadPresigner, cfg UploadConfig) *UploadService {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "user-uploads/"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = time.Hour
	}
	return &UploadService{presigner: presigner, cfg: cfg}
}

// Presign returns an upload URL plus the object key the client must report
// back when initiating processing. Each upload gets its own key under a
// generated token so concurrent uploads of the same file name never collide.
func (s *UploadService) Presign(ctx context.Context, fileName, contentType string) (string, string, error) {
	if fileName == "" {
		return "", "", apperrors.Validation("Missing required parameter: 'fileName'")
	}
	if s.cfg.Bucket == "" {
		return "", "", apperrors.New(500, "Server configuration error: Missing bucket name configuration.", nil)
	}

	key := fmt.Sprintf("%s/%s/%s",
		strings.TrimSuffix(s.cfg.KeyPrefix, "/"),
		uuid.New().String(),
		SanitizeFileName(fileName),
	)

	url, err := s.presigner.PresignPut(ctx, s.cfg.Bucket, key, contentType, s.cfg.URLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}
	return url, key, nil
}

// SanitizeFileName keeps alphanumerics, dots, hyphens and underscores and
// replaces everything else with an underscore.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
