package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksivaceg/product-management-portal-backend/models"
)

type fakeObjectStore struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, puts: map[string][]byte{}}
}

func (f *fakeObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("no such object %s/%s", bucket, key)
	}
	return data, nil
}

func (f *fakeObjectStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[bucket+"/"+key] = body
	return nil
}

type jobUpdate struct {
	status  string
	message string
	result  string
}

type fakeJobTracker struct {
	startErr    error
	startCalls  int
	submittedAt []string
	updates     map[string][]jobUpdate
}

func newFakeJobTracker() *fakeJobTracker {
	return &fakeJobTracker{updates: map[string][]jobUpdate{}}
}

func (f *fakeJobTracker) StartProcessing(ctx context.Context, jobID, s3Bucket, s3Key, originalFileName, submittedAt string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.startCalls++
	f.submittedAt = append(f.submittedAt, submittedAt)
	f.updates[jobID] = append(f.updates[jobID], jobUpdate{status: models.JobStatusProcessing})
	return nil
}

func (f *fakeJobTracker) MarkCompleted(ctx context.Context, jobID, status, message, resultS3Key string) error {
	f.updates[jobID] = append(f.updates[jobID], jobUpdate{status: status, message: message, result: resultS3Key})
	return nil
}

func (f *fakeJobTracker) MarkFailed(ctx context.Context, jobID, message string, errorDetails interface{}) error {
	f.updates[jobID] = append(f.updates[jobID], jobUpdate{status: models.JobStatusFailed, message: message})
	return nil
}

func (f *fakeJobTracker) lastStatus(jobID string) string {
	updates := f.updates[jobID]
	if len(updates) == 0 {
		return ""
	}
	return updates[len(updates)-1].status
}

type fakeAttributeSource struct {
	attrs []models.AttributeDefinition
	err   error
}

func (f *fakeAttributeSource) FindAll(ctx context.Context) ([]models.AttributeDefinition, error) {
	return f.attrs, f.err
}

func newTestIngestion(store *fakeObjectStore, jobs *fakeJobTracker, attrs *fakeAttributeSource) *IngestionService {
	return NewIngestionService(store, jobs, attrs,
		NewRowProcessor(NewCellValidator(50)), nil, nil,
		IngestionConfig{ResultsBucket: "results", ResultsPrefix: "processed-files/"})
}

func queuedMessage(jobID string) string {
	msg := models.ProcessingMessage{
		JobID:       jobID,
		S3Bucket:    "uploads",
		S3Key:       "user-uploads/abc/products.csv",
		SubmittedAt: "2026-08-20T10:00:00Z",
	}
	body, _ := json.Marshal(msg)
	return string(body)
}

func testSchema() []models.AttributeDefinition {
	return []models.AttributeDefinition{
		*attrDef("ProductName", models.TypeShortText, true),
		*attrDef("Price", models.TypeNumber, false),
	}
}

func TestHandleMessageCleanRun(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["uploads/user-uploads/abc/products.csv"] = []byte("ProductName,Price\nWidget,10\n")
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{attrs: testSchema()})
	err := svc.HandleMessage(context.Background(), queuedMessage("job-1"))
	assert.NoError(t, err)

	assert.Equal(t, models.JobStatusCompleted, jobs.lastStatus("job-1"))
	assert.Equal(t, []string{"2026-08-20T10:00:00Z"}, jobs.submittedAt)

	artifact, ok := store.puts["results/processed-files/job-1-result.json"]
	assert.True(t, ok, "result artifact should be stored under the job id")

	var result models.ProcessingResult
	assert.NoError(t, json.Unmarshal(artifact, &result))
	assert.Equal(t, "job-1", result.JobID)
	assert.Len(t, result.Products, 1)
	assert.Empty(t, result.ValidationErrors)
}

func TestHandleMessageValidationIssues(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["uploads/user-uploads/abc/products.csv"] = []byte("ProductName,Price,Extra\nWidget,ten,x\n")
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{attrs: testSchema()})
	err := svc.HandleMessage(context.Background(), queuedMessage("job-2"))
	assert.NoError(t, err)

	assert.Equal(t, models.JobStatusCompletedWithIssues, jobs.lastStatus("job-2"))

	var result models.ProcessingResult
	assert.NoError(t, json.Unmarshal(store.puts["results/processed-files/job-2-result.json"], &result))
	assert.Equal(t, []string{"Extra"}, result.IgnoredHeaders)
	assert.Empty(t, result.Products)
	assert.Len(t, result.ValidationErrors, 1)
}

func TestHandleMessageMalformedPayloadDropped(t *testing.T) {
	jobs := newFakeJobTracker()
	svc := newTestIngestion(newFakeObjectStore(), jobs, &fakeAttributeSource{attrs: testSchema()})

	assert.NoError(t, svc.HandleMessage(context.Background(), "{not json"))
	assert.Empty(t, jobs.updates)
}

func TestHandleMessageIncompletePayloadFailsJob(t *testing.T) {
	jobs := newFakeJobTracker()
	svc := newTestIngestion(newFakeObjectStore(), jobs, &fakeAttributeSource{attrs: testSchema()})

	body, _ := json.Marshal(models.ProcessingMessage{JobID: "job-3"})
	assert.NoError(t, svc.HandleMessage(context.Background(), string(body)))
	assert.Equal(t, models.JobStatusFailed, jobs.lastStatus("job-3"))
	assert.Equal(t, 0, jobs.startCalls)
}

func TestHandleMessageEmptySchemaFailsJob(t *testing.T) {
	store := newFakeObjectStore()
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{})
	err := svc.HandleMessage(context.Background(), queuedMessage("job-4"))
	assert.NoError(t, err, "missing schema is terminal, not retryable")
	assert.Equal(t, models.JobStatusFailed, jobs.lastStatus("job-4"))
}

func TestHandleMessageDownloadErrorRetries(t *testing.T) {
	store := newFakeObjectStore()
	store.getErr = errors.New("s3 unavailable")
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{attrs: testSchema()})
	err := svc.HandleMessage(context.Background(), queuedMessage("job-5"))
	assert.Error(t, err, "download failures must leave the message for redelivery")
	assert.Equal(t, models.JobStatusFailed, jobs.lastStatus("job-5"))
}

func TestHandleMessageResultUploadErrorRetries(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["uploads/user-uploads/abc/products.csv"] = []byte("ProductName\nWidget\n")
	store.putErr = errors.New("s3 write failed")
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{attrs: testSchema()})
	err := svc.HandleMessage(context.Background(), queuedMessage("job-6"))
	assert.Error(t, err)
	assert.Equal(t, models.JobStatusFailed, jobs.lastStatus("job-6"))
}

func TestHandleMessageMalformedCSVIsTerminal(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["uploads/user-uploads/abc/products.csv"] = []byte("ProductName\n\"broken\n")
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{attrs: testSchema()})
	err := svc.HandleMessage(context.Background(), queuedMessage("job-7"))
	assert.NoError(t, err, "unparseable CSV is a data problem, not retryable")
	assert.Equal(t, models.JobStatusFailed, jobs.lastStatus("job-7"))
}

func TestHandleMessageRedeliveryKeepsSubmittedAt(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["uploads/user-uploads/abc/products.csv"] = []byte("ProductName\nWidget\n")
	jobs := newFakeJobTracker()

	svc := newTestIngestion(store, jobs, &fakeAttributeSource{attrs: testSchema()})
	assert.NoError(t, svc.HandleMessage(context.Background(), queuedMessage("job-8")))
	assert.NoError(t, svc.HandleMessage(context.Background(), queuedMessage("job-8")))

	// Both deliveries carry the original submission time into the upsert, so
	// the stored submittedAt never drifts on redelivery.
	assert.Equal(t, 2, jobs.startCalls)
	assert.Equal(t, []string{"2026-08-20T10:00:00Z", "2026-08-20T10:00:00Z"}, jobs.submittedAt)
	assert.Equal(t, models.JobStatusCompleted, jobs.lastStatus("job-8"))
}
