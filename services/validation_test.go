package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksivaceg/product-management-portal-backend/models"
)

func attrDef(name, attrType string, required bool, options ...string) *models.AttributeDefinition {
	return &models.AttributeDefinition{
		ID:         models.SanitizeAttributeID(name),
		Name:       name,
		Type:       attrType,
		IsRequired: required,
		Options:    options,
	}
}

func TestValidateCellEmptyValues(t *testing.T) {
	v := NewCellValidator(0)

	valid, value, msg := v.ValidateCell("   ", attrDef("Color", models.TypeShortText, false), 1)
	assert.True(t, valid)
	assert.Nil(t, value.Value())
	assert.Empty(t, msg)

	valid, value, msg = v.ValidateCell("", attrDef("Color", models.TypeShortText, true), 3)
	assert.False(t, valid)
	assert.Nil(t, value.Value())
	assert.Equal(t, "Row 3, Column 'Color': Value is required but is empty.", msg)
}

func TestValidateCellShortText(t *testing.T) {
	v := NewCellValidator(10)

	valid, value, msg := v.ValidateCell("  Blue  ", attrDef("Color", models.TypeShortText, false), 1)
	assert.True(t, valid)
	assert.Equal(t, "Blue", value.Value())
	assert.Empty(t, msg)

	valid, value, msg = v.ValidateCell("a very long value", attrDef("Color", models.TypeShortText, false), 2)
	assert.False(t, valid)
	assert.Equal(t, "a very long value", value.Value())
	assert.Equal(t, "Row 2, Column 'Color': Value exceeds max length of 10.", msg)

	// the bound counts characters, not bytes: ten two-byte runes fit
	valid, value, msg = v.ValidateCell(strings.Repeat("é", 10), attrDef("Color", models.TypeShortText, false), 3)
	assert.True(t, valid)
	assert.Equal(t, strings.Repeat("é", 10), value.Value())
	assert.Empty(t, msg)

	valid, _, msg = v.ValidateCell(strings.Repeat("é", 11), attrDef("Color", models.TypeShortText, false), 4)
	assert.False(t, valid)
	assert.Equal(t, "Row 4, Column 'Color': Value exceeds max length of 10.", msg)
}

func TestValidateCellNumber(t *testing.T) {
	v := NewCellValidator(0)
	def := attrDef("Price", models.TypeNumber, false)

	valid, value, _ := v.ValidateCell("42", def, 1)
	assert.True(t, valid)
	assert.Equal(t, int64(42), value.Value())

	valid, value, _ = v.ValidateCell("42.0", def, 1)
	assert.True(t, valid)
	assert.Equal(t, int64(42), value.Value())

	valid, value, _ = v.ValidateCell("19.99", def, 1)
	assert.True(t, valid)
	assert.Equal(t, 19.99, value.Value())

	valid, value, msg := v.ValidateCell("abc", def, 4)
	assert.False(t, valid)
	assert.Equal(t, "abc", value.Value())
	assert.Equal(t, "Row 4, Column 'Price': Value 'abc' is not a valid number.", msg)
}

func TestValidateCellSingleSelect(t *testing.T) {
	v := NewCellValidator(0)

	def := attrDef("Size", models.TypeSingleSelect, false, "S", "M", "L")
	valid, value, _ := v.ValidateCell("M", def, 1)
	assert.True(t, valid)
	assert.Equal(t, "M", value.Value())

	valid, _, msg := v.ValidateCell("XL", def, 2)
	assert.False(t, valid)
	assert.Equal(t, "Row 2, Column 'Size': Value 'XL' not in allowed options: ['S', 'M', 'L'].", msg)

	noOpts := attrDef("Size", models.TypeSingleSelect, false)
	valid, _, msg = v.ValidateCell("M", noOpts, 1)
	assert.False(t, valid)
	assert.Equal(t, "Row 1, Column 'Size': No options defined.", msg)
}

func TestValidateCellMultipleSelect(t *testing.T) {
	v := NewCellValidator(0)
	def := attrDef("Tags", models.TypeMultipleSelect, false, "new", "sale", "eco")

	valid, value, _ := v.ValidateCell("new; eco ;", def, 1)
	assert.True(t, valid)
	assert.Equal(t, []string{"new", "eco"}, value.Value())

	valid, value, msg := v.ValidateCell("new;bogus;fake", def, 5)
	assert.False(t, valid)
	assert.Equal(t, []string{"new", "bogus", "fake"}, value.Value())
	assert.Equal(t, "Row 5, Column 'Tags': Values ['bogus', 'fake'] are not in allowed options: ['new', 'sale', 'eco'].", msg)

	// Semicolons around only whitespace leave nothing selected.
	required := attrDef("Tags", models.TypeMultipleSelect, true, "new")
	valid, _, msg = v.ValidateCell(" ; ; ", required, 2)
	assert.False(t, valid)
	assert.Equal(t, "Row 2, Column 'Tags': Value is required.", msg)
}

func TestValidateCellMeasureAndLongText(t *testing.T) {
	v := NewCellValidator(5)

	valid, value, msg := v.ValidateCell("12 kg", attrDef("Weight", models.TypeMeasure, false), 1)
	assert.True(t, valid)
	assert.Equal(t, "12 kg", value.Value())
	assert.Empty(t, msg)

	long := "this text is much longer than five characters"
	valid, value, _ = v.ValidateCell(long, attrDef("Details", models.TypeLongText, false), 1)
	assert.True(t, valid)
	assert.Equal(t, long, value.Value())
}
