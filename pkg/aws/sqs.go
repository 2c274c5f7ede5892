package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Queue wraps send/receive/delete on one SQS queue.
type Queue struct {
	client   *sqs.Client
	queueURL string
}

// NewQueue creates a Queue bound to the given queue URL.
func NewQueue(cfg sdkaws.Config, queueURL string) *Queue {
	return &Queue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}
}

// URL returns the bound queue URL.
func (q *Queue) URL() string { return q.queueURL }

// SendMessage sends a single message body to the queue.
func (q *Queue) SendMessage(ctx context.Context, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &q.queueURL,
		MessageBody: &body,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Receive long-polls the queue for up to max messages.
func (q *Queue) Receive(ctx context.Context, max int32, waitSeconds int32) ([]types.Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            sdkaws.String(q.queueURL),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     waitSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}
	return out.Messages, nil
}

// Delete removes a processed message from the queue.
func (q *Queue) Delete(ctx context.Context, receiptHandle *string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      sdkaws.String(q.queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
