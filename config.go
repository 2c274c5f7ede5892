package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ksivaceg/product-management-portal-backend/pkg/aws"
)

// Config holds all environment variables for the portal backend.
type Config struct {
	Port        string
	Environment string

	MongoURI             string
	MongoDatabase        string
	AttributesCollection string
	JobsCollection       string
	ProductsCollection   string

	UploadBucket    string
	UploadPrefix    string
	UploadURLExpiry time.Duration

	ResultsBucket   string
	ResultsPrefix   string
	ResultURLExpiry time.Duration

	QueueURL       string
	EventsTopicARN string
	RedisURL       string

	ShortTextMaxLength int
	MaxPreviewRows     int
}

// LoadConfig loads environment variables into a Config and validates them.
// If AWS_USE_SECRETS=true the Mongo URI is read from Secrets Manager with
// the env var as fallback.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		Environment: envOr("APP_ENV", "development"),

		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDatabase:        envOr("MONGO_DATABASE", "product_portal"),
		AttributesCollection: envOr("MONGO_ATTRIBUTES_COLLECTION", "attribute_definitions"),
		JobsCollection:       envOr("MONGO_JOBS_COLLECTION", "processing_jobs"),
		ProductsCollection:   envOr("MONGO_PRODUCTS_COLLECTION", "products"),

		UploadBucket:    os.Getenv("UPLOAD_BUCKET_NAME"),
		UploadPrefix:    envOr("S3_KEY_PREFIX", "user-uploads/"),
		UploadURLExpiry: secondsOr("URL_EXPIRATION_SECONDS", 3600),

		ResultsBucket:   os.Getenv("PROCESSED_RESULTS_BUCKET"),
		ResultsPrefix:   envOr("PROCESSED_RESULTS_PREFIX", "processed-files/"),
		ResultURLExpiry: secondsOr("URL_EXPIRATION_SECONDS_GET_RESULT", 300),

		QueueURL:       os.Getenv("SQS_QUEUE_URL"),
		EventsTopicARN: os.Getenv("SNS_JOB_EVENTS_TOPIC_ARN"),
		RedisURL:       os.Getenv("REDIS_URL"),

		ShortTextMaxLength: intOr("SHORT_TEXT_MAX_LENGTH", 50),
		MaxPreviewRows:     intOr("MAX_PREVIEW_ROWS", 50),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws.LoadAWSConfig(context.Background()); err == nil {
			sm := aws.NewSecretsClient(awsCfg)
			if uri, err := sm.Lookup(context.Background(), "MONGO_URI"); err == nil && uri != "" {
				cfg.MongoURI = uri
			}
		}
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("SQS_QUEUE_URL is required")
	}
	if cfg.UploadBucket == "" {
		return nil, fmt.Errorf("UPLOAD_BUCKET_NAME is required")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func secondsOr(key string, def int) time.Duration {
	return time.Duration(intOr(key, def)) * time.Second
}
