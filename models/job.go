package models

import "time"

// Job lifecycle states. Transitions are monotonic: once a job leaves
// PROCESSING it never returns to it.
const (
	JobStatusProcessing          = "PROCESSING"
	JobStatusCompleted           = "COMPLETED"
	JobStatusCompletedWithIssues = "COMPLETED_WITH_ISSUES"
	JobStatusFailed              = "FAILED"
)

// ProcessingJob tracks one asynchronous CSV ingestion request.
type ProcessingJob struct {
	ID                  string      `json:"_id" bson:"_id"`
	S3Bucket            string      `json:"s3Bucket" bson:"s3Bucket"`
	S3Key               string      `json:"s3Key" bson:"s3Key"`
	OriginalFileName    string      `json:"originalFileName" bson:"originalFileName"`
	Status              string      `json:"status" bson:"status"`
	SubmittedAt         string      `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	ProcessingStartedAt string      `json:"processingStartedAt,omitempty" bson:"processingStartedAt,omitempty"`
	UpdatedAt           string      `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	CompletedAt         string      `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Message             string      `json:"message,omitempty" bson:"message,omitempty"`
	ResultS3Key         string      `json:"resultS3Key,omitempty" bson:"resultS3Key,omitempty"`
	ErrorDetails        interface{} `json:"errorDetails,omitempty" bson:"errorDetails,omitempty"`

	// ResultDownloadURL is attached on status reads for finished jobs; it is
	// never persisted.
	ResultDownloadURL string `json:"resultDownloadUrl,omitempty" bson:"-"`
}

// IsComplete reports whether the job finished with a usable result artifact.
func (j *ProcessingJob) IsComplete() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusCompletedWithIssues
}

// ProcessingMessage is the SQS payload that drives one ingestion job.
type ProcessingMessage struct {
	JobID            string `json:"jobId"`
	S3Bucket         string `json:"s3Bucket"`
	S3Key            string `json:"s3Key"`
	OriginalFileName string `json:"originalFileName"`
	MaxPreviewRows   int    `json:"maxPreviewRows"`
	SubmittedAt      string `json:"submittedAt"`
}

// ProcessingResult is the artifact written to S3 for a finished job,
// at {prefix}/{jobId}-result.json.
type ProcessingResult struct {
	JobID               string                   `json:"jobId"`
	S3Key               string                   `json:"s3Key"`
	ProcessingTimestamp string                   `json:"processingTimestamp"`
	Message             string                   `json:"message"`
	FileName            string                   `json:"fileName"`
	Headers             []string                 `json:"headers"`
	Products            []map[string]interface{} `json:"products"`
	OriginalHeaders     []string                 `json:"originalHeaders"`
	IgnoredHeaders      []string                 `json:"ignoredHeaders"`
	ValidationErrors    []string                 `json:"validationErrors"`
}

// NowISO returns the current UTC time in RFC3339, the timestamp format every
// job and product document uses.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
