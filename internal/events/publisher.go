package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskTypeAuthEvent is the task type carrying a serialized Event.
	TaskTypeAuthEvent = "auth:event"
	// QueueEvents is the queue auth lifecycle events are delivered on.
	QueueEvents = "events"
)

// NewAuthEventTask builds the queue task for an event. Events are delivered
// at most once, so the task carries no retry budget.
func NewAuthEventTask(event Event) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEvent, data, asynq.Queue(QueueEvents), asynq.MaxRetry(0)), nil
}

// AsynqPublisher publishes events onto the Redis-backed bus.
type AsynqPublisher struct {
	client *asynq.Client
}

// NewAsynqPublisher constructs a publisher for the given Redis address.
func NewAsynqPublisher(redisAddr string) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// Publish enqueues the event. Errors are returned for the caller to log and
// discard; nothing is retried here.
func (p *AsynqPublisher) Publish(ctx context.Context, event Event) error {
	task, err := NewAuthEventTask(event)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", event.Type, err)
	}
	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("events: enqueue %s: %w", event.Type, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}

var _ Publisher = (*AsynqPublisher)(nil)
