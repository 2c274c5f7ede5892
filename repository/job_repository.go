package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/database"
	"github.com/ksivaceg/product-management-portal-backend/models"
)

// JobRepository tracks the lifecycle of ingestion jobs.
type JobRepository struct {
	db         *database.Mongo
	collection string
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *database.Mongo, collection string) *JobRepository {
	return &JobRepository{db: db, collection: collection}
}

// StartProcessing upserts the job record into the PROCESSING state. The
// upsert keeps the operation idempotent across message redeliveries:
// submittedAt is only written on first insert, while status and the file
// coordinates are refreshed on every delivery.
func (r *JobRepository) StartProcessing(ctx context.Context, jobID, s3Bucket, s3Key, originalFileName, submittedAt string) error {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return err
	}

	now := models.NowISO()
	if submittedAt == "" {
		submittedAt = now
	}
	update := bson.M{
		"$set": bson.M{
			"status":              models.JobStatusProcessing,
			"s3Bucket":            s3Bucket,
			"s3Key":               s3Key,
			"originalFileName":    originalFileName,
			"processingStartedAt": now,
			"updatedAt":           now,
		},
		"$setOnInsert": bson.M{
			"_id":         jobID,
			"submittedAt": submittedAt,
		},
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": jobID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", jobID, err)
	}
	return nil
}

// MarkCompleted records a terminal success state (COMPLETED or
// COMPLETED_WITH_ISSUES) together with the result artifact location.
func (r *JobRepository) MarkCompleted(ctx context.Context, jobID, status, message, resultS3Key string) error {
	return r.finish(ctx, jobID, bson.M{
		"status":      status,
		"message":     message,
		"resultS3Key": resultS3Key,
		"completedAt": models.NowISO(),
		"updatedAt":   models.NowISO(),
	})
}

// MarkFailed records a terminal FAILED state with optional error details.
func (r *JobRepository) MarkFailed(ctx context.Context, jobID, message string, errorDetails interface{}) error {
	updates := bson.M{
		"status":      models.JobStatusFailed,
		"message":     message,
		"completedAt": models.NowISO(),
		"updatedAt":   models.NowISO(),
	}
	if errorDetails != nil {
		updates["errorDetails"] = errorDetails
	}
	return r.finish(ctx, jobID, updates)
}

// finish applies a terminal update. An unknown jobId is logged and ignored
// rather than failing the pipeline, since the status record is advisory.
func (r *JobRepository) finish(ctx context.Context, jobID string, updates bson.M) error {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return err
	}

	result, err := coll.UpdateOne(ctx, bson.M{"_id": jobID}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", jobID, err)
	}
	if result.MatchedCount == 0 {
		zap.L().Warn("Status update for unknown job", zap.String("jobId", jobID))
	}
	return nil
}

// FindByID returns the job record, or mongo.ErrNoDocuments.
func (r *JobRepository) FindByID(ctx context.Context, jobID string) (*models.ProcessingJob, error) {
	coll, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	var job models.ProcessingJob
	if err := coll.FindOne(ctx, bson.M{"_id": jobID}).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}
