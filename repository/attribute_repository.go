package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ksivaceg/product-management-portal-backend/database"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

// ErrDuplicateAttribute is returned when an attribute with the same id
// already exists.
var ErrDuplicateAttribute = fmt.Errorf("attribute already exists")

// AttributeRepository handles attribute definition persistence.
type AttributeRepository struct {
	db         *database.Mongo
	collection string
}

// NewAttributeRepository creates a new attribute repository.
func NewAttributeRepository(db *database.Mongo, collection string) *AttributeRepository {
	return &AttributeRepository{db: db, collection: collection}
}

// Create inserts a new attribute definition. A duplicate id maps to
// ErrDuplicateAttribute so callers can translate it to a conflict.
func (r *AttributeRepository) Create(ctx context.Context, attr *models.AttributeDefinition) error {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, attr)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateAttribute
		}
		return fmt.Errorf("failed to insert attribute: %w", err)
	}
	return nil
}

// FindAll returns every attribute definition sorted by name.
func (r *AttributeRepository) FindAll(ctx context.Context) ([]models.AttributeDefinition, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find attributes: %w", err)
	}
	defer cursor.Close(ctx)

	attributes := []models.AttributeDefinition{}
	if err := cursor.All(ctx, &attributes); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return attributes, nil
}

// FindByID returns the attribute with the given id, or mongo.ErrNoDocuments.
func (r *AttributeRepository) FindByID(ctx context.Context, id string) (*models.AttributeDefinition, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	var attr models.AttributeDefinition
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&attr); err != nil {
		return nil, err
	}
	return &attr, nil
}

// Update applies the given field updates to an attribute and returns the
// updated document. Returns mongo.ErrNoDocuments when the id is unknown.
func (r *AttributeRepository) Update(ctx context.Context, id string, updates bson.M) (*models.AttributeDefinition, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	var updated models.AttributeDefinition
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an attribute definition. Returns mongo.ErrNoDocuments when
// the id is unknown.
func (r *AttributeRepository) Delete(ctx context.Context, id string) error {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete attribute: %w", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
