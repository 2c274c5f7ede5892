package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

// ProductStore is the repository surface the product service needs.
type ProductStore interface {
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	BulkUpsert(ctx context.Context, products []models.Product) (int64, int64, error)
	DeleteByID(ctx context.Context, id string) error
}

// ProductQuery is a parsed, validated product listing request.
type ProductQuery struct {
	Filter         bson.M
	Page           int
	Limit          int
	SortBy         string
	SortDescending bool
}

// Pagination describes the page window of a product listing.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// ProductPage is one page of products plus its pagination envelope.
type ProductPage struct {
	Products   []models.Product
	Pagination Pagination
}

// ProductService implements product querying and approval.
type ProductService struct {
	repo       ProductStore
	attributes AttributeSource
}

// NewProductService creates a new product service.
func NewProductService(repo ProductStore, attributes AttributeSource) *ProductService {
	return &ProductService{repo: repo, attributes: attributes}
}

// List returns one page of products matching the query. The count runs
// against the same filter so pagination stays consistent with the data.
func (s *ProductService) List(ctx context.Context, query *ProductQuery) (*ProductPage, error) {
	skip := int64((query.Page - 1) * query.Limit)
	findOpts := options.Find().SetSkip(skip).SetLimit(int64(query.Limit))
	if query.SortBy != "" {
		order := 1
		if query.SortDescending {
			order = -1
		}
		findOpts.SetSort(bson.D{{Key: query.SortBy, Value: order}})
	}

	products, err := s.repo.Find(ctx, query.Filter, findOpts)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, query.Filter)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if query.Limit > 0 {
		totalPages = int((total + int64(query.Limit) - 1) / int64(query.Limit))
	}

	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			CurrentPage:  query.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: query.Limit,
			HasNextPage:  query.Page < totalPages,
			HasPrevPage:  query.Page > 1,
		},
	}, nil
}

// ApproveSave persists reviewed products from a finished import. Each
// product gets a stable _id (Barcode, then ProductName, then generated),
// measure Value/Unit pairs folded into nested documents, and numeric-looking
// strings coerced. Returns the number of saved or updated documents.
func (s *ProductService) ApproveSave(ctx context.Context, products []models.Product, importSource string) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}
	if importSource == "" {
		importSource = "unknown_source_csv"
	}

	attrs, err := s.attributes.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	var measureDefs []models.AttributeDefinition
	for _, a := range attrs {
		if a.Type == models.TypeMeasure {
			measureDefs = append(measureDefs, a)
		}
	}

	prepared := make([]models.Product, 0, len(products))
	for _, p := range products {
		doc := models.Product{}
		for k, v := range p {
			doc[k] = v
		}
		doc[models.FieldID] = models.DeriveProductID(doc)
		doc[models.FieldImportSource] = importSource

		models.ConsolidateMeasures(doc, measureDefs)
		models.CoerceStringFields(doc)
		prepared = append(prepared, doc)
	}

	upserted, modified, err := s.repo.BulkUpsert(ctx, prepared)
	if err != nil {
		return 0, err
	}
	return upserted + modified, nil
}

// Delete removes one product by id.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound(fmt.Sprintf("Product with ID '%s' not found.", id))
		}
		return err
	}
	return nil
}
