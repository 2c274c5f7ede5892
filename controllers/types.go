package controllers

import (
	"context"
	"time"

	"github.com/ksivaceg/product-management-portal-backend/models"
	"github.com/ksivaceg/product-management-portal-backend/services"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
)

// AttributeServiceAPI defines the interface for attribute schema operations.
type AttributeServiceAPI interface {
	Create(ctx context.Context, req *models.CreateAttributeRequest) (*models.AttributeDefinition, error)
	List(ctx context.Context) ([]models.AttributeDefinition, error)
	Update(ctx context.Context, id string, req *models.UpdateAttributeRequest) (*models.AttributeDefinition, error)
	Delete(ctx context.Context, id string) error
}

// ProductServiceAPI defines the interface for product operations.
type ProductServiceAPI interface {
	List(ctx context.Context, query *services.ProductQuery) (*services.ProductPage, error)
	ApproveSave(ctx context.Context, products []models.Product, importSource string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// JobServiceAPI defines the interface for ingestion job operations.
type JobServiceAPI interface {
	Initiate(ctx context.Context, s3Key, s3Bucket string, maxPreviewRows int) (string, error)
	Status(ctx context.Context, jobID string) (*models.ProcessingJob, error)
}

// UploadServiceAPI defines the interface for presigned upload generation.
type UploadServiceAPI interface {
	Presign(ctx context.Context, fileName, contentType string) (string, string, error)
}

// EnrichmentServiceAPI defines the interface for enrichment previews.
type EnrichmentServiceAPI interface {
	Preview(ctx context.Context, productIDs []string) (*services.EnrichmentResult, error)
}
