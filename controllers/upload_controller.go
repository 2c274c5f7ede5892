package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
)

// PresignUploadRequest is the payload for requesting an upload URL.
type PresignUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType"`
}

// UploadController hands out presigned S3 upload URLs.
type UploadController struct {
	service UploadServiceAPI
}

// NewUploadController creates a new upload controller.
func NewUploadController(service UploadServiceAPI) *UploadController {
	return &UploadController{service: service}
}

// PresignUpload handles POST /uploads/presign.
func (uc *UploadController) PresignUpload(c *gin.Context) {
	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Rejected presign request", zap.Strings("fields", bindingErrorFields(err)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter: 'fileName'"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	url, key, err := uc.service.Presign(ctx, req.FileName, req.ContentType)
	if err != nil {
		zap.L().Error("Failed to generate presigned upload URL",
			zap.String("fileName", req.FileName), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	zap.L().Info("Presigned upload URL generated", zap.String("s3Key", key))
	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": url,
		"s3Key":     key,
	})
}
