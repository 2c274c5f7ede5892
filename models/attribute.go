package models

import (
	"strings"
	"time"
)

// Attribute types supported by the catalog schema.
const (
	TypeShortText      = "short_text"
	TypeLongText       = "long_text"
	TypeRichText       = "rich_text"
	TypeNumber         = "number"
	TypeSingleSelect   = "single_select"
	TypeMultipleSelect = "multiple_select"
	TypeMeasure        = "measure"
)

// AllowedAttributeTypes lists every valid attribute type, in display order.
var AllowedAttributeTypes = []string{
	TypeShortText, TypeLongText, TypeRichText, TypeNumber,
	TypeSingleSelect, TypeMultipleSelect, TypeMeasure,
}

// AttributeDefinition is one schema entry describing a product field.
// The _id is derived from the display name and doubles as the uniqueness key.
type AttributeDefinition struct {
	ID           string    `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Type         string    `json:"type" bson:"type"`
	Description  string    `json:"description" bson:"description"`
	Options      []string  `json:"options,omitempty" bson:"options,omitempty"`
	Unit         string    `json:"unit,omitempty" bson:"unit,omitempty"`
	IsFilterable bool      `json:"isFilterable" bson:"isFilterable"`
	IsSortable   bool      `json:"isSortable" bson:"isSortable"`
	IsRequired   bool      `json:"isRequired" bson:"isRequired"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CreateAttributeRequest is the payload for defining a new attribute.
type CreateAttributeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Type         string   `json:"type" binding:"required"`
	Description  string   `json:"description"`
	Options      []string `json:"options"`
	Unit         string   `json:"unit"`
	IsFilterable *bool    `json:"isFilterable"`
	IsSortable   *bool    `json:"isSortable"`
	IsRequired   *bool    `json:"isRequired"`
}

// UpdateAttributeRequest is the partial-update payload. Name and type are
// immutable after creation; only the fields below can change.
type UpdateAttributeRequest struct {
	Options      *[]string `json:"options"`
	Unit         *string   `json:"unit"`
	IsFilterable *bool     `json:"isFilterable"`
	IsSortable   *bool     `json:"isSortable"`
	IsRequired   *bool     `json:"isRequired"`
	Description  *string   `json:"description"`
}

// HasUpdates reports whether any updatable field is present.
func (r *UpdateAttributeRequest) HasUpdates() bool {
	return r.Options != nil || r.Unit != nil || r.IsFilterable != nil ||
		r.IsSortable != nil || r.IsRequired != nil || r.Description != nil
}

// IsSelect reports whether the definition carries an option list.
func (d *AttributeDefinition) IsSelect() bool {
	return d.Type == TypeSingleSelect || d.Type == TypeMultipleSelect
}

// IsTextual reports whether the definition holds free text (the enrichment
// preview only targets these).
func (d *AttributeDefinition) IsTextual() bool {
	switch d.Type {
	case TypeShortText, TypeLongText, TypeRichText:
		return true
	}
	return false
}

// IsValidAttributeType reports whether t is one of the allowed types.
func IsValidAttributeType(t string) bool {
	for _, allowed := range AllowedAttributeTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// SanitizeAttributeID derives the stable identifier from a display name:
// lowercase, spaces and hyphens become underscores, everything else
// non-alphanumeric is stripped. "Product Name" -> "product_name".
func SanitizeAttributeID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")

	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
