package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeAttributeID(t *testing.T) {
	assert.Equal(t, "product_name", SanitizeAttributeID("Product Name"))
	assert.Equal(t, "product_name", SanitizeAttributeID("  Product Name  "))
	assert.Equal(t, "item_weight", SanitizeAttributeID("Item-Weight"))
	assert.Equal(t, "color2", SanitizeAttributeID("Color#2!"))
	assert.Equal(t, "", SanitizeAttributeID("???"))
}

func TestIsValidAttributeType(t *testing.T) {
	for _, valid := range AllowedAttributeTypes {
		assert.True(t, IsValidAttributeType(valid))
	}
	assert.False(t, IsValidAttributeType("rainbow"))
	assert.False(t, IsValidAttributeType(""))
}

func TestAttributeTypePredicates(t *testing.T) {
	assert.True(t, (&AttributeDefinition{Type: TypeSingleSelect}).IsSelect())
	assert.True(t, (&AttributeDefinition{Type: TypeMultipleSelect}).IsSelect())
	assert.False(t, (&AttributeDefinition{Type: TypeShortText}).IsSelect())

	assert.True(t, (&AttributeDefinition{Type: TypeShortText}).IsTextual())
	assert.True(t, (&AttributeDefinition{Type: TypeRichText}).IsTextual())
	assert.False(t, (&AttributeDefinition{Type: TypeNumber}).IsTextual())
	assert.False(t, (&AttributeDefinition{Type: TypeMeasure}).IsTextual())
}

func TestHasUpdates(t *testing.T) {
	assert.False(t, (&UpdateAttributeRequest{}).HasUpdates())

	desc := "a description"
	assert.True(t, (&UpdateAttributeRequest{Description: &desc}).HasUpdates())

	required := false
	assert.True(t, (&UpdateAttributeRequest{IsRequired: &required}).HasUpdates())
}
