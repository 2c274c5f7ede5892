package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

type fakeJobService struct {
	jobID       string
	initiateErr error
	job         *models.ProcessingJob
	statusErr   error
	lastS3Key   string
	lastBucket  string
	lastRows    int
}

func (f *fakeJobService) Initiate(ctx context.Context, s3Key, s3Bucket string, maxPreviewRows int) (string, error) {
	f.lastS3Key, f.lastBucket, f.lastRows = s3Key, s3Bucket, maxPreviewRows
	return f.jobID, f.initiateErr
}

func (f *fakeJobService) Status(ctx context.Context, jobID string) (*models.ProcessingJob, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.job, nil
}

func jobRouter(service JobServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewJobController(service)
	r := gin.New()
	r.POST("/process", controller.InitiateProcessing)
	r.GET("/jobs/:jobId", controller.GetJobStatus)
	return r
}

func TestInitiateProcessingAccepted(t *testing.T) {
	fake := &fakeJobService{jobID: "job-1"}
	router := jobRouter(fake)

	body := `{"s3Key":"user-uploads/abc/products.csv","maxPreviewRows":25}`
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "File processing request accepted and queued successfully. Checking status...")
	assert.Contains(t, rec.Body.String(), `"jobId":"job-1"`)
	assert.Equal(t, "user-uploads/abc/products.csv", fake.lastS3Key)
	assert.Equal(t, 25, fake.lastRows)
}

func TestInitiateProcessingMissingKey(t *testing.T) {
	router := jobRouter(&fakeJobService{})

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required parameter: 's3Key'")
}

func TestGetJobStatusEndpoint(t *testing.T) {
	fake := &fakeJobService{job: &models.ProcessingJob{
		ID:                "job-1",
		Status:            models.JobStatusCompleted,
		ResultS3Key:       "processed-files/job-1-result.json",
		ResultDownloadURL: "https://example.com/signed",
	}}
	router := jobRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/jobs/job-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"COMPLETED"`)
	assert.Contains(t, rec.Body.String(), `"resultDownloadUrl":"https://example.com/signed"`)
}

func TestGetJobStatusNotFound(t *testing.T) {
	fake := &fakeJobService{statusErr: apperrors.NotFound("Job with ID 'ghost' not found.")}
	router := jobRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/jobs/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Job with ID 'ghost' not found.")
}
