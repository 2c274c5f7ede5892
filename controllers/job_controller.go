package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
)

// InitiateProcessingRequest is the payload for queuing an ingestion job.
type InitiateProcessingRequest struct {
	S3Key          string `json:"s3Key" binding:"required"`
	S3Bucket       string `json:"s3Bucket"`
	MaxPreviewRows int    `json:"maxPreviewRows"`
}

// JobController exposes ingestion job initiation and status polling.
type JobController struct {
	service JobServiceAPI
}

// NewJobController creates a new job controller.
func NewJobController(service JobServiceAPI) *JobController {
	return &JobController{service: service}
}

// InitiateProcessing handles POST /process. It queues the job and returns
// 202 immediately; the client polls GET /jobs/:jobId for progress.
func (jc *JobController) InitiateProcessing(c *gin.Context) {
	var req InitiateProcessingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Rejected processing request", zap.Strings("fields", bindingErrorFields(err)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter: 's3Key'"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	jobID, err := jc.service.Initiate(ctx, req.S3Key, req.S3Bucket, req.MaxPreviewRows)
	if err != nil {
		zap.L().Error("Failed to initiate processing", zap.String("s3Key", req.S3Key), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "File processing request accepted and queued successfully. Checking status...",
		"jobId":   jobID,
	})
}

// GetJobStatus handles GET /jobs/:jobId.
func (jc *JobController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'jobId' in path."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	job, err := jc.service.Status(ctx, jobID)
	if err != nil {
		zap.L().Warn("Job status lookup failed", zap.String("jobId", jobID), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}
