package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
	"github.com/ksivaceg/product-management-portal-backend/repository"
)

// AttributeStore is the repository surface the attribute service needs.
type AttributeStore interface {
	Create(ctx context.Context, attr *models.AttributeDefinition) error
	FindAll(ctx context.Context) ([]models.AttributeDefinition, error)
	FindByID(ctx context.Context, id string) (*models.AttributeDefinition, error)
	Update(ctx context.Context, id string, updates bson.M) (*models.AttributeDefinition, error)
	Delete(ctx context.Context, id string) error
}

// AttributeService implements attribute schema management.
type AttributeService struct {
	repo AttributeStore
}

// NewAttributeService creates a new attribute service.
func NewAttributeService(repo AttributeStore) *AttributeService {
	return &AttributeService{repo: repo}
}

// Create validates and persists a new attribute definition. The _id is
// derived from the name, so two names that sanitize identically conflict.
func (s *AttributeService) Create(ctx context.Context, req *models.CreateAttributeRequest) (*models.AttributeDefinition, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Type == "" {
		return nil, apperrors.Validation("Missing required fields: 'name' and 'type'.")
	}
	if !models.IsValidAttributeType(req.Type) {
		return nil, apperrors.Validation(fmt.Sprintf("Invalid attribute type '%s'. Allowed types: %s.",
			req.Type, strings.Join(models.AllowedAttributeTypes, ", ")))
	}

	id := models.SanitizeAttributeID(name)
	if id == "" {
		return nil, apperrors.Validation("Attribute name must contain at least one alphanumeric character.")
	}

	now := time.Now().UTC()
	attr := &models.AttributeDefinition{
		ID:           id,
		Name:         name,
		Type:         req.Type,
		Description:  strings.TrimSpace(req.Description),
		IsFilterable: boolOrDefault(req.IsFilterable, true),
		IsSortable:   boolOrDefault(req.IsSortable, true),
		IsRequired:   boolOrDefault(req.IsRequired, false),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if attr.IsSelect() {
		options := trimOptions(req.Options)
		if len(options) == 0 {
			return nil, apperrors.Validation(fmt.Sprintf("For type '%s', 'options' must be an array of strings.", req.Type))
		}
		attr.Options = options
	}
	if attr.Type == models.TypeMeasure {
		unit := strings.TrimSpace(req.Unit)
		if unit == "" {
			return nil, apperrors.Validation("For type 'measure', 'unit' string is required.")
		}
		attr.Unit = unit
	}

	if err := s.repo.Create(ctx, attr); err != nil {
		if errors.Is(err, repository.ErrDuplicateAttribute) {
			return nil, apperrors.Conflict(fmt.Sprintf("An attribute with the name '%s' (or its sanitized version for ID) already exists.", name))
		}
		return nil, err
	}
	return attr, nil
}

// List returns every attribute definition.
func (s *AttributeService) List(ctx context.Context) ([]models.AttributeDefinition, error) {
	return s.repo.FindAll(ctx)
}

// Update applies a partial update. Name and type stay immutable; options and
// unit are only accepted for the matching attribute types.
func (s *AttributeService) Update(ctx context.Context, id string, req *models.UpdateAttributeRequest) (*models.AttributeDefinition, error) {
	if !req.HasUpdates() {
		return nil, apperrors.Validation("No updatable fields provided.")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound(fmt.Sprintf("Attribute with ID '%s' not found.", id))
		}
		return nil, err
	}

	updates := bson.M{"updatedAt": time.Now().UTC()}

	if req.Options != nil {
		if !existing.IsSelect() {
			return nil, apperrors.Validation(fmt.Sprintf("'options' field is not applicable for attribute type '%s'.", existing.Type))
		}
		options := trimOptions(*req.Options)
		if len(options) == 0 {
			return nil, apperrors.Validation("'options' must be an array of strings.")
		}
		updates["options"] = options
	}
	if req.Unit != nil {
		if existing.Type != models.TypeMeasure {
			return nil, apperrors.Validation(fmt.Sprintf("'unit' field is not applicable for attribute type '%s'.", existing.Type))
		}
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return nil, apperrors.Validation("'unit' must be a non-empty string.")
		}
		updates["unit"] = unit
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsFilterable != nil {
		updates["isFilterable"] = *req.IsFilterable
	}
	if req.IsSortable != nil {
		updates["isSortable"] = *req.IsSortable
	}
	if req.IsRequired != nil {
		updates["isRequired"] = *req.IsRequired
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound(fmt.Sprintf("Attribute with ID '%s' not found.", id))
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an attribute definition by id.
func (s *AttributeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound(fmt.Sprintf("Attribute with ID '%s' not found.", id))
		}
		return err
	}
	return nil
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func trimOptions(options []string) []string {
	trimmed := make([]string, 0, len(options))
	for _, o := range options {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return trimmed
}
