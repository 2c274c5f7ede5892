package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/pkg/aws"
)

const (
	maxMessagesPerPoll = 10
	pollWaitSeconds    = 20
	receiveBackoff     = 5 * time.Second
)

// MessageHandler processes one queue message. A nil return means the
// message is done and will be deleted; an error leaves it on the queue for
// redelivery.
type MessageHandler interface {
	HandleMessage(ctx context.Context, body string) error
}

// Consumer long-polls an SQS queue and dispatches messages to a handler.
// One failing message never blocks the rest of the batch.
type Consumer struct {
	queue   *aws.Queue
	handler MessageHandler
	metrics *aws.MetricsClient
}

// New creates a consumer bound to the given queue and handler. metrics may
// be nil.
func New(queue *aws.Queue, handler MessageHandler, metrics *aws.MetricsClient) *Consumer {
	return &Consumer{queue: queue, handler: handler, metrics: metrics}
}

// Start polls until the context is cancelled. Intended to run in its own
// goroutine.
func (c *Consumer) Start(ctx context.Context) {
	zap.L().Info("SQS consumer started", zap.String("queueUrl", c.queue.URL()))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("SQS consumer stopping")
			return
		default:
		}

		messages, err := c.queue.Receive(ctx, maxMessagesPerPoll, pollWaitSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Error("Failed to receive messages", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(receiveBackoff):
			}
			continue
		}

		for _, msg := range messages {
			body := ""
			if msg.Body != nil {
				body = *msg.Body
			}

			if err := c.handler.HandleMessage(ctx, body); err != nil {
				zap.L().Error("Message handling failed, leaving for redelivery", zap.Error(err))
				continue
			}

			if err := c.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
				zap.L().Error("Failed to delete processed message", zap.Error(err))
				continue
			}
			c.recordProcessed()
		}
	}
}

func (c *Consumer) recordProcessed() {
	if c.metrics == nil || !c.metrics.IsEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), aws.PublishTimeout)
	defer cancel()
	if err := c.metrics.RecordCount(ctx, aws.MetricSQSMessages, nil); err != nil {
		zap.L().Warn("Failed to record SQS metric", zap.Error(err))
	}
}
