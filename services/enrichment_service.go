package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/models"
)

// MockSuggestionMaxLength bounds short_text suggestions, truncated at a word
// boundary.
const MockSuggestionMaxLength = 100

// EnrichedProduct is one product's enrichment preview: the full product with
// suggestions applied, plus just the suggested fields.
type EnrichedProduct struct {
	ID                  string            `json:"_id"`
	OriginalProductName string            `json:"originalProductName"`
	EnrichedProductData models.Product    `json:"enrichedProductData"`
	AISuggestions       map[string]string `json:"aiSuggestions"`
}

// EnrichmentResult is the full preview response.
type EnrichmentResult struct {
	Message  string            `json:"message"`
	Previews []EnrichedProduct `json:"enrichedProductsPreview"`
}

// EnrichmentService generates preview suggestions for empty text attributes.
// Suggestions are mocked and never persisted; the client decides what to
// keep via the approval flow.
type EnrichmentService struct {
	products   ProductStore
	attributes AttributeSource
}

// NewEnrichmentService creates a new enrichment service.
func NewEnrichmentService(products ProductStore, attributes AttributeSource) *EnrichmentService {
	return &EnrichmentService{products: products, attributes: attributes}
}

// Preview generates suggestions for every requested product. Unknown ids
// and duplicates are skipped; only products that received at least one
// suggestion appear in the result.
func (s *EnrichmentService) Preview(ctx context.Context, productIDs []string) (*EnrichmentResult, error) {
	attrs, err := s.attributes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("no attribute definitions available for enrichment")
	}

	previews := []EnrichedProduct{}
	seen := map[string]bool{}

	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				zap.L().Warn("Skipping enrichment for unknown product", zap.String("productId", id))
				continue
			}
			return nil, err
		}

		enriched := models.Product{}
		for k, v := range product {
			enriched[k] = v
		}

		suggestions := map[string]string{}
		for i := range attrs {
			attr := &attrs[i]
			if !attr.IsTextual() {
				continue
			}
			if !needsEnrichment(product[attr.Name]) {
				continue
			}
			suggestion := MockSuggestion(attr.Name, attr.Type)
			enriched[attr.Name] = suggestion
			suggestions[attr.Name] = suggestion
		}

		if len(suggestions) == 0 {
			continue
		}
		previews = append(previews, EnrichedProduct{
			ID:                  id,
			OriginalProductName: displayName(product),
			EnrichedProductData: enriched,
			AISuggestions:       suggestions,
		})
	}

	return &EnrichmentResult{
		Message:  fmt.Sprintf("Enrichment preview (MOCKED AI) generated for %d out of %d requested products.", len(previews), len(productIDs)),
		Previews: previews,
	}, nil
}

// MockSuggestion produces a deterministic placeholder value for an empty
// text attribute. Keyword matches on the attribute name pick a themed value;
// short_text results are truncated at a word boundary.
func MockSuggestion(attributeName, attributeType string) string {
	value := fmt.Sprintf("[MOCK] This is a suggested %s for %s.", attributeType, attributeName)

	nameLower := strings.ToLower(attributeName)
	switch {
	case strings.Contains(nameLower, "description"):
		value = fmt.Sprintf("[MOCK] An excellent, engaging, and detailed mock description for '%s', perfect for attracting customers and boosting sales. It highlights unique selling points.", attributeName)
	case strings.Contains(nameLower, "color"):
		value = "[MOCK] Mystic Teal"
	case strings.Contains(nameLower, "material"):
		value = "[MOCK] Eco-Friendly Bamboo Composite"
	case strings.Contains(nameLower, "key features"):
		value = "[MOCK] Feature A: High Durability; Feature B: User-Friendly Interface; Feature C: Extended Warranty."
	}

	if attributeType == models.TypeShortText && len(value) > MockSuggestionMaxLength {
		head := value[:MockSuggestionMaxLength]
		if idx := strings.LastIndex(head, " "); idx > 0 {
			value = head[:idx] + "..."
		} else {
			value = head
		}
	}
	return strings.TrimSpace(value)
}

func needsEnrichment(current interface{}) bool {
	switch v := current.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func displayName(p models.Product) string {
	if v, ok := p["name"].(string); ok && v != "" {
		return v
	}
	if v, ok := p["ProductName"].(string); ok && v != "" {
		return v
	}
	return "N/A"
}
