package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apperrors "github.com/ksivaceg/product-management-portal-backend/common/errors"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

// QueueSender is the slice of SQS the job service needs.
type QueueSender interface {
	SendMessage(ctx context.Context, body string) error
}

// JobReader reads job records for status polling.
type JobReader interface {
	FindByID(ctx context.Context, jobID string) (*models.ProcessingJob, error)
}

// Presigner generates time-limited download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// JobServiceConfig carries the job API's fixed coordinates.
type JobServiceConfig struct {
	UploadBucket    string
	ResultsBucket   string
	ResultURLExpiry time.Duration
	MaxPreviewRows  int
}

// JobService initiates ingestion jobs and answers status polls.
type JobService struct {
	queue     QueueSender
	jobs      JobReader
	presigner Presigner
	cfg       JobServiceConfig
}

// NewJobService creates a new job service.
func NewJobService(queue QueueSender, jobs JobReader, presigner Presigner, cfg JobServiceConfig) *JobService {
	if cfg.ResultURLExpiry <= 0 {
		cfg.ResultURLExpiry = 5 * time.Minute
	}
	if cfg.MaxPreviewRows <= 0 {
		cfg.MaxPreviewRows = 50
	}
	return &JobService{queue: queue, jobs: jobs, presigner: presigner, cfg: cfg}
}

// Initiate queues a new ingestion job for an uploaded file and returns its
// job id. The job record itself is created by the worker when the message is
// first consumed.
func (s *JobService) Initiate(ctx context.Context, s3Key, s3Bucket string, maxPreviewRows int) (string, error) {
	if s3Key == "" {
		return "", apperrors.Validation("Missing required parameter: 's3Key'")
	}
	bucket := s.cfg.UploadBucket
	if bucket == "" {
		bucket = s3Bucket
	}
	if bucket == "" {
		return "", apperrors.Validation("Missing S3 bucket information.")
	}
	if maxPreviewRows <= 0 {
		maxPreviewRows = s.cfg.MaxPreviewRows
	}

	jobID := uuid.New().String()
	msg := models.ProcessingMessage{
		JobID:            jobID,
		S3Bucket:         bucket,
		S3Key:            s3Key,
		OriginalFileName: baseName(s3Key),
		MaxPreviewRows:   maxPreviewRows,
		SubmittedAt:      models.NowISO(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode processing message: %w", err)
	}
	if err := s.queue.SendMessage(ctx, string(payload)); err != nil {
		return "", fmt.Errorf("failed to queue processing request: %w", err)
	}

	zap.L().Info("Queued ingestion job",
		zap.String("jobId", jobID),
		zap.String("s3Key", s3Key),
		zap.String("s3Bucket", bucket),
	)
	return jobID, nil
}

// Status returns the job record for polling. Finished jobs with a stored
// result artifact get a presigned download URL attached; a presign failure
// degrades to the bare record rather than failing the poll.
func (s *JobService) Status(ctx context.Context, jobID string) (*models.ProcessingJob, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound(fmt.Sprintf("Job with ID '%s' not found.", jobID))
		}
		return nil, err
	}

	if job.IsComplete() && job.ResultS3Key != "" && s.cfg.ResultsBucket != "" {
		url, err := s.presigner.PresignGet(ctx, s.cfg.ResultsBucket, job.ResultS3Key, s.cfg.ResultURLExpiry)
		if err != nil {
			zap.L().Warn("Failed to presign result download",
				zap.String("jobId", jobID), zap.Error(err))
		} else {
			job.ResultDownloadURL = url
		}
	}
	return job, nil
}
