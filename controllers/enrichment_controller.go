package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

// EnrichmentController exposes the mock enrichment preview.
type EnrichmentController struct {
	service EnrichmentServiceAPI
}

// NewEnrichmentController creates a new enrichment controller.
func NewEnrichmentController(service EnrichmentServiceAPI) *EnrichmentController {
	return &EnrichmentController{service: service}
}

// PreviewEnrichment handles POST /enrichment/preview. Suggestions are never
// persisted; the client routes accepted ones through the approval flow.
func (ec *EnrichmentController) PreviewEnrichment(c *gin.Context) {
	var req models.EnrichmentPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a 'productIds' array."})
		return
	}
	if len(req.ProductIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":                 "No product IDs provided for enrichment.",
			"enrichedProductsPreview": []interface{}{},
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := ec.service.Preview(ctx, req.ProductIDs)
	if err != nil {
		zap.L().Error("Enrichment preview failed", zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
