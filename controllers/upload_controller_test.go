package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeUploadService struct {
	url      string
	key      string
	err      error
	lastName string
	lastType string
}

func (f *fakeUploadService) Presign(ctx context.Context, fileName, contentType string) (string, string, error) {
	f.lastName, f.lastType = fileName, contentType
	return f.url, f.key, f.err
}

func uploadRouter(service UploadServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewUploadController(service)
	r := gin.New()
	r.POST("/uploads/presign", controller.PresignUpload)
	return r
}

func TestPresignUploadEndpoint(t *testing.T) {
	fake := &fakeUploadService{url: "https://example.com/upload", key: "user-uploads/token/products.csv"}
	router := uploadRouter(fake)

	body := `{"fileName":"products.csv","contentType":"text/csv"}`
	req := httptest.NewRequest(http.MethodPost, "/uploads/presign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uploadUrl":"https://example.com/upload"`)
	assert.Contains(t, rec.Body.String(), `"s3Key":"user-uploads/token/products.csv"`)
	assert.Equal(t, "products.csv", fake.lastName)
	assert.Equal(t, "text/csv", fake.lastType)
}

func TestPresignUploadMissingFileName(t *testing.T) {
	router := uploadRouter(&fakeUploadService{})

	req := httptest.NewRequest(http.MethodPost, "/uploads/presign", strings.NewReader(`{"contentType":"text/csv"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required parameter: 'fileName'")
}
