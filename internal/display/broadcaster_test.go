package display

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/testutil"
)

func receive(t *testing.T, client *Client) (string, string) {
	t.Helper()
	select {
	case msg := <-client.send:
		lines := strings.Split(strings.TrimSpace(string(msg)), "\n")
		require.Len(t, lines, 2)
		return strings.TrimPrefix(lines[0], "event: "), strings.TrimPrefix(lines[1], "data: ")
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return "", ""
	}
}

func setupBroadcaster(t *testing.T) (*Broadcaster, *Client) {
	t.Helper()
	hub := newRunningHub(t)
	client := NewClient("display")
	hub.Register(client)
	return NewBroadcaster(hub, testutil.NopLogger()), client
}

func TestBroadcasterSessionUpdated(t *testing.T) {
	broadcaster, client := setupBroadcaster(t)
	updated := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	broadcaster.SessionUpdated(&model.Session{
		SessionID: "session_1",
		Status:    model.SessionStatusInProgress,
		UpdatedAt: updated,
	})

	event, data := receive(t, client)
	assert.Equal(t, EventSessionUpdated, event)

	var payload SessionEvent
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, "session_1", payload.SessionID)
	assert.Equal(t, "in_progress", payload.Status)
	assert.True(t, updated.Equal(payload.UpdatedAt))
}

func TestBroadcasterQueueUpdated(t *testing.T) {
	broadcaster, client := setupBroadcaster(t)

	broadcaster.QueueUpdated("session_1", []model.ParticipantID{"a", "c"})

	event, data := receive(t, client)
	assert.Equal(t, EventQueueUpdated, event)
	assert.JSONEq(t, `{"sessionId":"session_1","waitingQueue":["a","c"]}`, data)
}

func TestBroadcasterQueueUpdatedEmpty(t *testing.T) {
	broadcaster, client := setupBroadcaster(t)

	broadcaster.QueueUpdated("session_1", nil)

	_, data := receive(t, client)
	assert.JSONEq(t, `{"sessionId":"session_1","waitingQueue":[]}`, data)
}

func TestBroadcasterParticipantUpdated(t *testing.T) {
	broadcaster, client := setupBroadcaster(t)

	broadcaster.ParticipantUpdated(&model.Participant{
		ID:      "p1",
		Name:    "Ana",
		Surname: "Lopez",
		Status:  model.ParticipantStatusPlaying,
	})

	event, data := receive(t, client)
	assert.Equal(t, EventParticipantUpdated, event)
	assert.JSONEq(t, `{"participantId":"p1","name":"Ana","surname":"Lopez","status":"playing"}`, data)
}
