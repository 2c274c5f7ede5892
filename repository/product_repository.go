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

// ProductRepository handles product document persistence. Products are
// schemaless documents so the filter surface is an opaque bson.M built by
// the query layer.
type ProductRepository struct {
	db         *database.Mongo
	collection string
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *database.Mongo, collection string) *ProductRepository {
	return &ProductRepository{db: db, collection: collection}
}

// Find returns the products matching filter under the given find options
// (sort, skip, limit).
func (r *ProductRepository) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching filter.
func (r *ProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// FindByID returns the product with the given id, or mongo.ErrNoDocuments.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return product, nil
}

// BulkUpsert saves a batch of products keyed by _id. Existing documents are
// updated in place, new ones inserted; createdAt is preserved on update.
// Returns (upserted, modified) counts.
func (r *ProductRepository) BulkUpsert(ctx context.Context, products []models.Product) (int64, int64, error) {
	if len(products) == 0 {
		return 0, 0, nil
	}

	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return 0, 0, err
	}

	now := models.NowISO()
	writes := make([]mongo.WriteModel, 0, len(products))
	for _, p := range products {
		id, _ := p[models.FieldID].(string)
		if id == "" {
			return 0, 0, fmt.Errorf("product missing _id")
		}

		set := bson.M{models.FieldUpdatedAt: now}
		for k, v := range p {
			if k == models.FieldID || k == models.FieldCreatedAt || k == models.FieldUpdatedAt {
				continue
			}
			set[k] = v
		}

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{models.FieldCreatedAt: now},
			}).
			SetUpsert(true))
	}

	result, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to bulk upsert products: %w", err)
	}
	return result.UpsertedCount, result.ModifiedCount, nil
}

// DeleteByID removes a product. Returns mongo.ErrNoDocuments when the id is
// unknown.
func (r *ProductRepository) DeleteByID(ctx context.Context, id string) error {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
