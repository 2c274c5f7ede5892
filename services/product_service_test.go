package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

type fakeProductStore struct {
	docs       map[string]models.Product
	findResult []models.Product
	lastFilter bson.M
	lastOpts   *options.FindOptions
	saved      []models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{docs: map[string]models.Product{}}
}

func (f *fakeProductStore) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	f.lastFilter = filter
	f.lastOpts = opts
	return f.findResult, nil
}

func (f *fakeProductStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(f.findResult)) + 15, nil
}

func (f *fakeProductStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return doc, nil
}

func (f *fakeProductStore) BulkUpsert(ctx context.Context, products []models.Product) (int64, int64, error) {
	f.saved = append(f.saved, products...)
	return int64(len(products)), 0, nil
}

func (f *fakeProductStore) DeleteByID(ctx context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.docs, id)
	return nil
}

func measureSchema() *fakeAttributeSource {
	weight := attrDef("ItemWeight", models.TypeMeasure, false)
	weight.Unit = "kg"
	spaced := attrDef("Screen Size", models.TypeMeasure, false)
	spaced.Unit = "in"
	return &fakeAttributeSource{attrs: []models.AttributeDefinition{*weight, *spaced}}
}

func TestListBuildsPagination(t *testing.T) {
	store := newFakeProductStore()
	store.findResult = []models.Product{{"_id": "p1"}, {"_id": "p2"}}
	svc := NewProductService(store, measureSchema())

	page, err := svc.List(context.Background(), &ProductQuery{
		Filter: bson.M{"Brand": "Acme"},
		Page:   2,
		Limit:  10,
		SortBy: "Price",
	})
	assert.NoError(t, err)

	assert.Equal(t, bson.M{"Brand": "Acme"}, store.lastFilter)
	assert.Equal(t, int64(10), *store.lastOpts.Skip)
	assert.Equal(t, int64(10), *store.lastOpts.Limit)

	// 17 total items at limit 10 is 2 pages
	assert.Equal(t, int64(17), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.False(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPrevPage)
}

func TestApproveSavePreparesDocuments(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, measureSchema())

	saved, err := svc.ApproveSave(context.Background(), []models.Product{
		{
			"Barcode":         "123456",
			"ProductName":     "Widget",
			"Stock":           "42",
			"Price":           "19.99",
			"ItemWeightValue": "2",
			"ItemWeightUnit":  "kg",
			"ScreenSizeValue": "15.6",
			"ScreenSizeUnit":  "in",
		},
	}, "user-uploads/abc/products.csv")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), saved)

	doc := store.saved[0]
	assert.Equal(t, "123456", doc[models.FieldID])
	assert.Equal(t, "user-uploads/abc/products.csv", doc[models.FieldImportSource])

	// numeric-looking strings are coerced int-first
	assert.Equal(t, int64(42), doc["Stock"])
	assert.Equal(t, 19.99, doc["Price"])

	// measure pairs fold into nested documents under the display name;
	// nested values keep their raw CSV form
	assert.Equal(t, map[string]interface{}{"value": "2", "unit": "kg"}, doc["ItemWeight"])
	assert.Equal(t, map[string]interface{}{"value": "15.6", "unit": "in"}, doc["Screen Size"])
	assert.NotContains(t, doc, "ItemWeightValue")
	assert.NotContains(t, doc, "ScreenSizeUnit")
}

func TestApproveSaveIDFallbacks(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, &fakeAttributeSource{attrs: testSchema()})

	saved, err := svc.ApproveSave(context.Background(), []models.Product{
		{"ProductName": "No Barcode"},
		{"Notes": "neither barcode nor name"},
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), saved)

	assert.Equal(t, "No Barcode", store.saved[0][models.FieldID])
	assert.NotEmpty(t, store.saved[1][models.FieldID], "products without identifiers get a generated id")
	assert.Equal(t, "unknown_source_csv", store.saved[0][models.FieldImportSource])
}

func TestApproveSaveEmptyList(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, measureSchema())

	saved, err := svc.ApproveSave(context.Background(), nil, "src")
	assert.NoError(t, err)
	assert.Zero(t, saved)
	assert.Empty(t, store.saved)
}

func TestDeleteProductNotFound(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, measureSchema())

	err := svc.Delete(context.Background(), "ghost")
	appErr, ok := err.(*apperrors.Error)
	assert.True(t, ok)
	assert.Equal(t, 404, appErr.Code)

	store.docs["p1"] = models.Product{"_id": "p1"}
	assert.NoError(t, svc.Delete(context.Background(), "p1"))
}
