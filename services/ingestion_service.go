package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/models"
	"github.com/ksivaceg/product-management-portal-backend/pkg/aws"
)

// ResultObjectStore is the slice of S3 the ingestion pipeline needs.
type ResultObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// JobTracker records job lifecycle transitions.
type JobTracker interface {
	StartProcessing(ctx context.Context, jobID, s3Bucket, s3Key, originalFileName, submittedAt string) error
	MarkCompleted(ctx context.Context, jobID, status, message, resultS3Key string) error
	MarkFailed(ctx context.Context, jobID, message string, errorDetails interface{}) error
}

// AttributeSource provides the attribute schema used for validation.
type AttributeSource interface {
	FindAll(ctx context.Context) ([]models.AttributeDefinition, error)
}

// IngestionConfig carries the pipeline's fixed coordinates.
type IngestionConfig struct {
	ResultsBucket string
	ResultsPrefix string
	EventsTopic   string
}

// IngestionService drives one CSV validation job from queued message to
// stored result artifact. HandleMessage's error contract decides retries:
// a non-nil return means the message must be redelivered, a nil return
// (including terminal FAILED outcomes) means the message is done.
type IngestionService struct {
	store      ResultObjectStore
	jobs       JobTracker
	attributes AttributeSource
	processor  *RowProcessor
	publisher  aws.SNSPublisher
	metrics    *aws.MetricsClient
	cfg        IngestionConfig
}

// NewIngestionService wires the pipeline. publisher and metrics may be nil
// when job events or CloudWatch are not configured.
func NewIngestionService(store ResultObjectStore, jobs JobTracker, attributes AttributeSource, processor *RowProcessor, publisher aws.SNSPublisher, metrics *aws.MetricsClient, cfg IngestionConfig) *IngestionService {
	return &IngestionService{
		store:      store,
		jobs:       jobs,
		attributes: attributes,
		processor:  processor,
		publisher:  publisher,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// HandleMessage processes one queued ingestion request end to end.
func (s *IngestionService) HandleMessage(ctx context.Context, body string) error {
	var msg models.ProcessingMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		zap.L().Error("Dropping malformed ingestion message", zap.Error(err))
		return nil
	}

	if msg.JobID == "" || msg.S3Bucket == "" || msg.S3Key == "" {
		errMsg := "Missing jobId, s3Bucket, or s3Key in message payload."
		zap.L().Error("Dropping incomplete ingestion message",
			zap.String("jobId", msg.JobID), zap.String("s3Key", msg.S3Key))
		if msg.JobID != "" {
			_ = s.jobs.MarkFailed(ctx, msg.JobID, errMsg, map[string]string{"error": errMsg})
		}
		return nil
	}

	if msg.OriginalFileName == "" {
		msg.OriginalFileName = baseName(msg.S3Key)
	}

	if err := s.jobs.StartProcessing(ctx, msg.JobID, msg.S3Bucket, msg.S3Key, msg.OriginalFileName, msg.SubmittedAt); err != nil {
		return fmt.Errorf("job %s: failed to record PROCESSING status: %w", msg.JobID, err)
	}

	if s.cfg.ResultsBucket == "" {
		return s.fail(ctx, msg.JobID, "Results bucket is not configured.", nil)
	}

	attrs, err := s.attributes.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("job %s: failed to load attribute definitions: %w", msg.JobID, err)
	}
	if len(attrs) == 0 {
		return s.fail(ctx, msg.JobID, "Could not retrieve attribute definitions for validation.", nil)
	}
	attrMap := make(map[string]*models.AttributeDefinition, len(attrs))
	for i := range attrs {
		attrMap[attrs[i].Name] = &attrs[i]
	}

	content, err := s.store.GetObject(ctx, msg.S3Bucket, msg.S3Key)
	if err != nil {
		_ = s.jobs.MarkFailed(ctx, msg.JobID, "Error downloading file from S3.", map[string]string{"error": err.Error()})
		return fmt.Errorf("job %s: failed to download s3://%s/%s: %w", msg.JobID, msg.S3Bucket, msg.S3Key, err)
	}

	report, err := s.processor.Process(string(content), attrMap)
	if err != nil {
		return s.fail(ctx, msg.JobID, fmt.Sprintf("Failed to parse CSV file structure: %v", err), nil)
	}

	result := models.ProcessingResult{
		JobID:               msg.JobID,
		S3Key:               msg.S3Key,
		ProcessingTimestamp: models.NowISO(),
		Message:             report.Message,
		FileName:            msg.OriginalFileName,
		Headers:             report.Headers,
		Products:            report.Products,
		OriginalHeaders:     report.OriginalHeaders,
		IgnoredHeaders:      report.IgnoredHeaders,
		ValidationErrors:    report.ValidationErrors,
	}

	resultKey := s.resultKey(msg.JobID)
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return s.fail(ctx, msg.JobID, "Failed to encode processing results.", map[string]string{"error": err.Error()})
	}

	if err := s.store.PutObject(ctx, s.cfg.ResultsBucket, resultKey, resultJSON, "application/json"); err != nil {
		_ = s.jobs.MarkFailed(ctx, msg.JobID, "Failed to save results to S3.", map[string]string{"error": err.Error()})
		return fmt.Errorf("job %s: failed to store result artifact: %w", msg.JobID, err)
	}

	if err := s.jobs.MarkCompleted(ctx, msg.JobID, report.Status, report.Message, resultKey); err != nil {
		return fmt.Errorf("job %s: failed to record %s status: %w", msg.JobID, report.Status, err)
	}

	zap.L().Info("Ingestion job finished",
		zap.String("jobId", msg.JobID),
		zap.String("status", report.Status),
		zap.Int("rows", report.TotalRows),
		zap.Int("validProducts", len(report.Products)),
		zap.Int("validationErrors", len(report.ValidationErrors)),
	)

	s.recordMetric(aws.MetricJobsCompleted, report.Status)
	s.publishEvent(msg.JobID, report.Status, report.Message, resultKey)
	return nil
}

// fail records a terminal FAILED state. These are data problems, not
// transient faults, so the message is considered handled.
func (s *IngestionService) fail(ctx context.Context, jobID, message string, details interface{}) error {
	zap.L().Error("Ingestion job failed", zap.String("jobId", jobID), zap.String("reason", message))
	if err := s.jobs.MarkFailed(ctx, jobID, message, details); err != nil {
		zap.L().Error("Failed to record FAILED status", zap.String("jobId", jobID), zap.Error(err))
	}
	s.recordMetric(aws.MetricJobsFailed, models.JobStatusFailed)
	s.publishEvent(jobID, models.JobStatusFailed, message, "")
	return nil
}

// resultKey builds the stable artifact key for a job.
func (s *IngestionService) resultKey(jobID string) string {
	prefix := strings.TrimSuffix(s.cfg.ResultsPrefix, "/")
	if prefix == "" {
		prefix = "processed-files"
	}
	return fmt.Sprintf("%s/%s-result.json", prefix, jobID)
}

// publishEvent pushes a job lifecycle event to SNS. Best effort only;
// failures are logged and never affect the job outcome.
func (s *IngestionService) publishEvent(jobID, status, message, resultKey string) {
	if s.publisher == nil || s.cfg.EventsTopic == "" {
		return
	}
	event := map[string]string{
		"jobId":   jobID,
		"status":  status,
		"message": message,
	}
	if resultKey != "" {
		event["resultS3Key"] = resultKey
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), aws.PublishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, s.cfg.EventsTopic, payload); err != nil {
		zap.L().Warn("Failed to publish job event", zap.String("jobId", jobID), zap.Error(err))
	}
}

func (s *IngestionService) recordMetric(name, status string) {
	if s.metrics == nil || !s.metrics.IsEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), aws.PublishTimeout)
	defer cancel()
	if err := s.metrics.RecordCount(ctx, name, map[string]string{"Status": status}); err != nil {
		zap.L().Warn("Failed to record job metric", zap.Error(err))
	}
}

func baseName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
