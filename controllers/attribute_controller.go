package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

// AttributeController exposes attribute schema management over HTTP.
type AttributeController struct {
	service AttributeServiceAPI
}

// NewAttributeController creates a new attribute controller.
func NewAttributeController(service AttributeServiceAPI) *AttributeController {
	return &AttributeController{service: service}
}

// CreateAttribute handles POST /attributes.
func (ac *AttributeController) CreateAttribute(c *gin.Context) {
	var req models.CreateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Rejected attribute payload", zap.Strings("fields", bindingErrorFields(err)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: 'name' and 'type'."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	attr, err := ac.service.Create(ctx, &req)
	if err != nil {
		zap.L().Warn("Attribute creation rejected", zap.String("name", req.Name), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	zap.L().Info("Attribute definition created", zap.String("id", attr.ID), zap.String("type", attr.Type))
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Attribute definition created successfully.",
		"attribute": attr,
	})
}

// GetAttributes handles GET /attributes.
func (ac *AttributeController) GetAttributes(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	attrs, err := ac.service.List(ctx)
	if err != nil {
		zap.L().Error("Failed to list attributes", zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attribute definitions retrieved successfully.",
		"data":    attrs,
	})
}

// UpdateAttribute handles PUT /attributes/:attributeId.
func (ac *AttributeController) UpdateAttribute(c *gin.Context) {
	id := c.Param("attributeId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'attributeId' in path."})
		return
	}

	var req models.UpdateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: Must be valid JSON."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	attr, err := ac.service.Update(ctx, id, &req)
	if err != nil {
		zap.L().Warn("Attribute update rejected", zap.String("id", id), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	zap.L().Info("Attribute definition updated", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{
		"message":   "Attribute definition updated successfully.",
		"attribute": attr,
	})
}

// DeleteAttribute handles DELETE /attributes/:attributeId.
func (ac *AttributeController) DeleteAttribute(c *gin.Context) {
	id := c.Param("attributeId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'attributeId' in path."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ac.service.Delete(ctx, id); err != nil {
		zap.L().Warn("Attribute deletion rejected", zap.String("id", id), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	zap.L().Info("Attribute definition deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{
		"message": "Attribute definition '" + id + "' deleted successfully.",
	})
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
}
