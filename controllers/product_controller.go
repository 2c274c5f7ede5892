package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
	"github.com/ksivaceg/product-management-portal-backend/pkg/aws"
)

// ProductController exposes product querying, approval and deletion.
type ProductController struct {
	service ProductServiceAPI
	cache   *CacheManager
	metrics *aws.MetricsClient
}

// NewProductController creates a new product controller. cache and metrics
// may be nil.
func NewProductController(service ProductServiceAPI, cache *CacheManager, metrics *aws.MetricsClient) *ProductController {
	return &ProductController{service: service, cache: cache, metrics: metrics}
}

// GetProducts handles GET /products with filtering, sorting and pagination.
func (pc *ProductController) GetProducts(c *gin.Context) {
	query := ParseProductQuery(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if cached, ok := pc.cache.GetProductList(ctx, query); ok {
		pc.recordCacheMetric(aws.MetricCacheHits)
		c.JSON(http.StatusOK, cached)
		return
	}
	pc.recordCacheMetric(aws.MetricCacheMisses)

	page, err := pc.service.List(ctx, query)
	if err != nil {
		zap.L().Error("Failed to list products", zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	response := map[string]interface{}{
		"message":    "Products retrieved successfully",
		"data":       page.Products,
		"pagination": page.Pagination,
	}
	pc.cache.SetProductListAsync(query, response)

	zap.L().Info("Products fetched",
		zap.Int("page", query.Page),
		zap.Int("limit", query.Limit),
		zap.Int64("total", page.Pagination.TotalItems),
	)
	c.JSON(http.StatusOK, response)
}

// ApproveProducts handles POST /products/approve: it persists reviewed
// products from a finished import.
func (pc *ProductController) ApproveProducts(c *gin.Context) {
	var req models.SaveProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a 'products' array."})
		return
	}
	if req.Products == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a 'products' array."})
		return
	}
	if len(req.Products) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No products provided to save.", "productsSaved": 0})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	saved, err := pc.service.ApproveSave(ctx, req.Products, req.S3Key)
	if err != nil {
		zap.L().Error("Failed to save approved products", zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	if err := pc.cache.Invalidate(ctx); err != nil {
		zap.L().Error("Failed to invalidate product cache after save", zap.Error(err))
	}

	zap.L().Info("Approved products saved", zap.Int64("saved", saved))
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully saved/updated %d products.", saved),
		"productsSaved": saved,
	})
}

// DeleteProduct handles DELETE /products/:productId.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("productId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'productId' in path."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := pc.service.Delete(ctx, id); err != nil {
		zap.L().Warn("Product deletion rejected", zap.String("id", id), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	if err := pc.cache.Invalidate(ctx); err != nil {
		zap.L().Error("Failed to invalidate product cache after delete", zap.Error(err))
	}

	zap.L().Info("Product deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Product '%s' deleted successfully.", id)})
}

func (pc *ProductController) recordCacheMetric(name string) {
	if pc.metrics == nil || !pc.metrics.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), aws.PublishTimeout)
		defer cancel()
		if err := pc.metrics.RecordCount(ctx, name, nil); err != nil {
			zap.L().Warn("Failed to record cache metric", zap.Error(err))
		}
	}()
}
