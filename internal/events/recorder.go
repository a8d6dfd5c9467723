package events

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder persists consumed lifecycle events into auth_events for auditing.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record inserts the event. Events without a type are rejected.
func (r *Recorder) Record(ctx context.Context, event Event) error {
	if r == nil || r.pool == nil {
		return errors.New("events: recorder not initialised")
	}
	if event.Type == "" {
		return errors.New("events: event type required")
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auth_events (event_type, user_id, email, name, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.Type, event.UserID, event.Email, event.Name, occurredAt,
	)
	return err
}

// Prune deletes recorded events older than the retention window, returning
// the number of rows removed.
func (r *Recorder) Prune(ctx context.Context, retainDays int) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("events: recorder not initialised")
	}
	if retainDays <= 0 {
		return 0, errors.New("events: retention must be positive")
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM auth_events WHERE occurred_at < NOW() - ($1 * INTERVAL '1 day')`,
		retainDays,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
