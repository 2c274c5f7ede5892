package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ksivaceg/product-management-portal-backend/controllers"
)

// RegisterRoutes wires every portal endpoint onto the engine.
func RegisterRoutes(
	r *gin.Engine,
	attributes *controllers.AttributeController,
	products *controllers.ProductController,
	uploads *controllers.UploadController,
	jobs *controllers.JobController,
	enrichment *controllers.EnrichmentController,
) {
	attributeRoutes := r.Group("/attributes")
	{
		attributeRoutes.POST("", attributes.CreateAttribute)
		attributeRoutes.GET("", attributes.GetAttributes)
		attributeRoutes.PUT("/:attributeId", attributes.UpdateAttribute)
		attributeRoutes.DELETE("/:attributeId", attributes.DeleteAttribute)
	}

	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", products.GetProducts)
		productRoutes.POST("/approve", products.ApproveProducts)
		productRoutes.DELETE("/:productId", products.DeleteProduct)
	}

	r.POST("/uploads/presign", uploads.PresignUpload)
	r.POST("/process", jobs.InitiateProcessing)
	r.GET("/jobs/:jobId", jobs.GetJobStatus)
	r.POST("/enrichment/preview", enrichment.PreviewEnrichment)
}
