package display

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/roulettegame/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "session-updated",
			data:      `{"status":"in_progress"}`,
			expected:  "event: session-updated\ndata: {\"status\":\"in_progress\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "queue-updated",
			data:      "line1\nline2",
			expected:  "event: queue-updated\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "carriage returns and trailing newline",
			eventName: "test",
			data:      "line1\r\nline2\n",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := newRunningHub(t)
	client := NewClient("test")

	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed on unregister")
}

func TestHubPublishReachesAllClients(t *testing.T) {
	hub := newRunningHub(t)
	first := NewClient("first")
	second := NewClient("second")
	hub.Register(first)
	hub.Register(second)

	hub.Publish("session-updated", "hello")

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.Equal(t, "event: session-updated\ndata: hello\n\n", string(msg))
		case <-time.After(time.Second):
			t.Fatal("client did not receive message")
		}
	}
}

func TestHubDropsMessagesForFullClients(t *testing.T) {
	hub := newRunningHub(t)
	slow := NewClient("slow")
	hub.Register(slow)

	for range sendBufferSize + 10 {
		hub.Publish("tick", "x")
	}

	assert.Eventually(t, func() bool { return len(slow.send) == sendBufferSize }, time.Second, 5*time.Millisecond)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	client := NewClient("test")
	hub.Register(client)

	hub.Close()
	hub.Close() // second close is a no-op

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client channel was not closed")
	}

	assert.False(t, hub.Register(NewClient("late")))
}

func TestServeSSEStreamsEvents(t *testing.T) {
	hub := newRunningHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: connected\n", readLine(t, reader))
	assert.Equal(t, "data: {\"status\":\"connected\"}\n", readLine(t, reader))
	assert.Equal(t, "\n", readLine(t, reader))

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish("queue-updated", "payload")

	assert.Equal(t, "event: queue-updated\n", readLine(t, reader))
	assert.Equal(t, "data: payload\n", readLine(t, reader))
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{""}, splitLines(""))
	assert.True(t, strings.HasPrefix(string(formatSSEMessage("e", "")), "event: e\n"))
}
