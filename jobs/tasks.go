package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/passgate/passgate/internal/events"
)

const (
	// QueueEvents carries auth lifecycle events.
	QueueEvents = events.QueueEvents
	// TaskEventsPrune is the task type for pruning recorded events.
	TaskEventsPrune = "events:prune"
)

// EventRecorder persists consumed lifecycle events.
type EventRecorder interface {
	Record(ctx context.Context, event events.Event) error
	Prune(ctx context.Context, retainDays int) (int64, error)
}

// AuthEventJob consumes auth lifecycle events off the bus and records them.
type AuthEventJob struct {
	recorder EventRecorder
	logger   *slog.Logger
}

// NewAuthEventJob constructs the consumer job.
func NewAuthEventJob(recorder EventRecorder, logger *slog.Logger) *AuthEventJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthEventJob{recorder: recorder, logger: logger}
}

// Handle processes a single auth event task. Malformed payloads are dropped
// rather than retried.
func (j *AuthEventJob) Handle(ctx context.Context, t *asynq.Task) error {
	var event events.Event
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		j.logger.Warn("drop malformed auth event", slog.Any("error", err))
		return asynq.SkipRetry
	}
	if err := j.recorder.Record(ctx, event); err != nil {
		j.logger.Error("record auth event",
			slog.String("event_type", event.Type),
			slog.Any("error", err))
		return err
	}
	j.logger.Info("auth event recorded",
		slog.String("event_type", event.Type),
		slog.String("user_id", event.UserID))
	return nil
}

type eventsPrunePayload struct {
	RetainDays int `json:"retain_days"`
}

// NewEventsPruneTask constructs the scheduled prune task.
func NewEventsPruneTask(retainDays int) (*asynq.Task, error) {
	data, err := json.Marshal(eventsPrunePayload{RetainDays: retainDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEventsPrune, data, asynq.Queue(QueueEvents)), nil
}

// EventsPruneJob removes recorded events past their retention window.
type EventsPruneJob struct {
	recorder EventRecorder
	logger   *slog.Logger
}

// NewEventsPruneJob constructs the prune job.
func NewEventsPruneJob(recorder EventRecorder, logger *slog.Logger) *EventsPruneJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsPruneJob{recorder: recorder, logger: logger}
}

// Handle processes a prune task.
func (j *EventsPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload eventsPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	removed, err := j.recorder.Prune(ctx, payload.RetainDays)
	if err != nil {
		j.logger.Error("prune auth events", slog.Any("error", err))
		return err
	}
	j.logger.Info("auth events pruned", slog.Int64("removed", removed))
	return nil
}
