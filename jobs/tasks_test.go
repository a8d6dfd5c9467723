package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passgate/passgate/internal/events"
	"github.com/passgate/passgate/jobs"
	_ "github.com/passgate/passgate/testing"
)

type mockRecorder struct {
	recorded  []events.Event
	recordErr error
	pruned    []int
	pruneErr  error
}

func (m *mockRecorder) Record(ctx context.Context, event events.Event) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, event)
	return nil
}

func (m *mockRecorder) Prune(ctx context.Context, retainDays int) (int64, error) {
	if m.pruneErr != nil {
		return 0, m.pruneErr
	}
	m.pruned = append(m.pruned, retainDays)
	return 3, nil
}

func TestAuthEventJobRecordsEvent(t *testing.T) {
	recorder := &mockRecorder{}
	job := jobs.NewAuthEventJob(recorder, nil)

	event := events.Event{
		Type:       events.TypeUserLoggedIn,
		UserID:     "user-1",
		Email:      "a@b.com",
		OccurredAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	task, err := events.NewAuthEventTask(event)
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, event, recorder.recorded[0])
}

func TestAuthEventJobDropsMalformedPayload(t *testing.T) {
	recorder := &mockRecorder{}
	job := jobs.NewAuthEventJob(recorder, nil)

	task := asynq.NewTask(events.TaskTypeAuthEvent, []byte("not json"))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, recorder.recorded)
}

func TestAuthEventJobPropagatesRecordError(t *testing.T) {
	recorder := &mockRecorder{recordErr: errors.New("db down")}
	job := jobs.NewAuthEventJob(recorder, nil)

	task, err := events.NewAuthEventTask(events.Event{Type: events.TypeUserCreated})
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	assert.EqualError(t, err, "db down")
}

func TestEventsPruneJob(t *testing.T) {
	recorder := &mockRecorder{}
	job := jobs.NewEventsPruneJob(recorder, nil)

	task, err := jobs.NewEventsPruneTask(90)
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []int{90}, recorder.pruned)
}

func TestEventsPruneJobDropsMalformedPayload(t *testing.T) {
	recorder := &mockRecorder{}
	job := jobs.NewEventsPruneJob(recorder, nil)

	task := asynq.NewTask(jobs.TaskEventsPrune, []byte("{"))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, recorder.pruned)
}
