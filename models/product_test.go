package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveProductID(t *testing.T) {
	assert.Equal(t, "123456", DeriveProductID(Product{"Barcode": "123456", "ProductName": "Widget"}))
	assert.Equal(t, "Widget", DeriveProductID(Product{"Barcode": "  ", "ProductName": "Widget"}))

	generated := DeriveProductID(Product{"Notes": "nothing usable"})
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, generated, DeriveProductID(Product{}))
}

func TestConsolidateMeasures(t *testing.T) {
	defs := []AttributeDefinition{
		{ID: "item_weight", Name: "ItemWeight", Type: TypeMeasure, Unit: "kg"},
		{ID: "screen_size", Name: "Screen Size", Type: TypeMeasure, Unit: "in"},
	}

	p := Product{
		"ItemWeightValue": "2",
		"ItemWeightUnit":  "kg",
		"ScreenSizeValue": "15.6",
		"ScreenSizeUnit":  "in",
		"WidthValue":      "10",
	}
	ConsolidateMeasures(p, defs)

	assert.Equal(t, map[string]interface{}{"value": "2", "unit": "kg"}, p["ItemWeight"])
	assert.NotContains(t, p, "ItemWeightValue")
	assert.NotContains(t, p, "ItemWeightUnit")

	// a spaced display name matches its collapsed column pair
	assert.Equal(t, map[string]interface{}{"value": "15.6", "unit": "in"}, p["Screen Size"])

	// a value without its unit pair is left alone
	assert.Equal(t, "10", p["WidthValue"])
}

func TestCoerceStringFields(t *testing.T) {
	p := Product{
		"_id":          "should stay",
		"importSource": "file.csv",
		"Stock":        "42",
		"Price":        "19.99",
		"Brand":        "Acme",
		"Count":        int64(3),
	}
	CoerceStringFields(p)

	assert.Equal(t, "should stay", p["_id"])
	assert.Equal(t, "file.csv", p["importSource"])
	assert.Equal(t, int64(42), p["Stock"])
	assert.Equal(t, 19.99, p["Price"])
	assert.Equal(t, "Acme", p["Brand"])
	assert.Equal(t, int64(3), p["Count"])
}
