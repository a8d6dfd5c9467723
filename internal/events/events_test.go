package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passgate/passgate/internal/events"
	_ "github.com/passgate/passgate/testing"
)

func TestAuthEventTaskPayload(t *testing.T) {
	occurred := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	task, err := events.NewAuthEventTask(events.Event{
		Type:       events.TypeUserCreated,
		UserID:     "user-1",
		Email:      "a@b.com",
		Name:       "A",
		OccurredAt: occurred,
	})
	require.NoError(t, err)
	assert.Equal(t, events.TaskTypeAuthEvent, task.Type())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "user_created", payload["event_type"])
	assert.Equal(t, "user-1", payload["user_id"])
	assert.Equal(t, "a@b.com", payload["email"])
	assert.Equal(t, "A", payload["name"])
	assert.Equal(t, occurred.Format(time.RFC3339), payload["timestamp"])
}

func TestAuthEventTaskOmitsEmptyFields(t *testing.T) {
	task, err := events.NewAuthEventTask(events.Event{
		Type:       events.TypeUserLoggedOut,
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.NotContains(t, payload, "email")
	assert.NotContains(t, payload, "name")
}

func TestEventRoundtrip(t *testing.T) {
	original := events.Event{
		Type:       events.TypeTokenRefreshed,
		UserID:     "user-2",
		Email:      "b@c.com",
		OccurredAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
