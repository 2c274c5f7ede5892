package models

import (
	"strings"

	"github.com/google/uuid"
)

// Reserved product document fields maintained by the portal rather than the
// attribute schema.
const (
	FieldID           = "_id"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"
	FieldImportSource = "importSource"
)

// Product is a schema-less catalog document: attribute display names mapped
// to values typed per their AttributeDefinition, plus the reserved metadata
// fields above.
type Product map[string]interface{}

// SaveProductsRequest is the payload approving reviewed products for
// persistence. S3Key records which import the products came from.
type SaveProductsRequest struct {
	Products []Product `json:"products"`
	S3Key    string    `json:"s3Key"`
}

// EnrichmentPreviewRequest asks for mock suggestions on the given products.
type EnrichmentPreviewRequest struct {
	ProductIDs []string `json:"productIds"`
}

// DeriveProductID picks a stable identifier for a product document:
// Barcode, then ProductName, then a generated token.
func DeriveProductID(p Product) string {
	if v, ok := p["Barcode"].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := p["ProductName"].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return uuid.New().String()
}

// ConsolidateMeasures folds paired "<Name>Value"/"<Name>Unit" fields into a
// single nested {value, unit} document, driven by the measure attribute
// definitions. Display names with spaces also match their collapsed form
// ("Item Weight" pairs with "ItemWeightValue").
func ConsolidateMeasures(p Product, measureDefs []AttributeDefinition) {
	for _, def := range measureDefs {
		for _, base := range []string{def.Name, strings.ReplaceAll(def.Name, " ", "")} {
			valKey, unitKey := base+"Value", base+"Unit"
			val, hasVal := p[valKey]
			unit, hasUnit := p[unitKey]
			if !hasVal || !hasUnit {
				continue
			}
			p[def.Name] = map[string]interface{}{"value": val, "unit": unit}
			delete(p, valKey)
			delete(p, unitKey)
			break
		}
	}
}

// CoerceStringFields applies the shared scalar coercion to every plain string
// attribute value, leaving reserved metadata fields untouched.
func CoerceStringFields(p Product) {
	for key, value := range p {
		switch key {
		case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldImportSource:
			continue
		}
		if s, ok := value.(string); ok {
			p[key] = Coerce(s).Value()
		}
	}
}
