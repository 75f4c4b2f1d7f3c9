package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/roulettegame/internal/api"
	"github.com/mcoot/roulettegame/internal/cli"
	"github.com/mcoot/roulettegame/internal/factory"
	"github.com/mcoot/roulettegame/internal/model"
)

const (
	adminEmail    = "host@example.com"
	adminPassword = "correct-horse"
)

// cliRunner runs CLI commands in-process against a test server
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runContext(context.Background(), args...)
}

func (r *cliRunner) runContext(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app   *factory.App
	admin *model.Admin
	url   string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(context.Background(), factory.Config{Logger: logger})
	require.NoError(t, err)

	admin, err := app.AuthService.CreateAdmin(context.Background(), adminEmail, "Host", adminPassword)
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		SessionController:  app.SessionController,
		QueueService:       app.QueueService,
		ParticipantService: app.ParticipantService,
		DisplayHub:         app.DisplayHub,
		Broadcaster:        app.Broadcaster,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		// Close the hub first so open display streams end
		_ = app.Close()
		server.Close()
	})

	return &testServer{app: app, admin: admin, url: server.URL}
}

// Response types for JSON parsing
type loginResponse struct {
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"admin"`
}

type sessionResponse struct {
	Session struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
	} `json:"session"`
}

type createSessionResponse struct {
	SessionID      string `json:"sessionId"`
	SessionDetails *struct {
		SessionID string `json:"session_id"`
	} `json:"sessionDetails"`
}

type sessionListResponse struct {
	Sessions []struct {
		SessionID string `json:"session_id"`
	} `json:"sessions"`
}

type activeSessionResponse struct {
	HasActiveSession bool `json:"hasActiveSession"`
	Session          *struct {
		SessionID string `json:"session_id"`
	} `json:"session"`
}

type participantResponse struct {
	Participant struct {
		ID               string  `json:"id"`
		Status           string  `json:"status"`
		StartedPlayingAt *string `json:"started_playing_at"`
	} `json:"participant"`
}

type queueResponse struct {
	WaitingQueue []string `json:"waitingQueue"`
}

type eventLine struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	output, err := runner.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.JSONEq(t, `{"status":"ok"}`, output)
}

func TestCLI_LoginSavesToken(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	output, err := runner.run("login", "--email", adminEmail, "--password", adminPassword)
	require.NoError(t, err, "output: %s", output)

	var resp loginResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, adminEmail, resp.Admin.Email)

	token, err := os.ReadFile(runner.tokenFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(token), resp.Admin.ID+":"))

	// Logout removes the token and later admin calls fail
	output, err = runner.run("logout")
	require.NoError(t, err, "output: %s", output)
	assert.NoFileExists(t, runner.tokenFile)

	output, err = runner.run("session", "list")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_BadLogin(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	output, err := runner.run("login", "--email", adminEmail, "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
	assert.NoFileExists(t, runner.tokenFile)
}

func TestCLI_SessionFlow(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	_, err := runner.run("login", "--email", adminEmail, "--password", adminPassword)
	require.NoError(t, err)

	// Create a session
	output, err := runner.run("session", "create")
	require.NoError(t, err, "output: %s", output)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	require.NotEmpty(t, created.SessionID)
	require.NotNil(t, created.SessionDetails)
	sessionID := created.SessionID

	// It shows up in the list and as active, for the admin and the display
	output, err = runner.run("session", "list")
	require.NoError(t, err, "output: %s", output)
	var list sessionListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, sessionID, list.Sessions[0].SessionID)

	for _, args := range [][]string{{"session", "active"}, {"display", "active"}} {
		output, err = runner.run(args...)
		require.NoError(t, err, "output: %s", output)
		var active activeSessionResponse
		require.NoError(t, json.Unmarshal([]byte(output), &active))
		assert.True(t, active.HasActiveSession)
		require.NotNil(t, active.Session)
		assert.Equal(t, sessionID, active.Session.SessionID)
	}

	// Register three participants
	ids := make([]string, 0, 3)
	for _, name := range []string{"ana", "ben", "cho"} {
		output, err = runner.run("participant", "register",
			"--name", name,
			"--surname", "Tester",
			"--email", name+"@example.com",
			"--specialty", "Cardiology",
			"--session", sessionID,
		)
		require.NoError(t, err, "output: %s", output)

		var p participantResponse
		require.NoError(t, json.Unmarshal([]byte(output), &p))
		assert.Equal(t, "registered", p.Participant.Status)
		ids = append(ids, p.Participant.ID)
	}

	output, err = runner.run("session", "get", sessionID)
	require.NoError(t, err, "output: %s", output)
	var got sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "player_registered", got.Session.Status)

	// Queue everyone up
	output, err = runner.run(append([]string{"queue", "set", sessionID}, ids...)...)
	require.NoError(t, err, "output: %s", output)
	var queue queueResponse
	require.NoError(t, json.Unmarshal([]byte(output), &queue))
	assert.Equal(t, ids, queue.WaitingQueue)

	// Ana plays through; the public route refuses disqualification
	output, err = runner.run("participant", "status", ids[0], "playing")
	require.NoError(t, err, "output: %s", output)
	var playing participantResponse
	require.NoError(t, json.Unmarshal([]byte(output), &playing))
	assert.NotNil(t, playing.Participant.StartedPlayingAt)

	_, err = runner.run("participant", "status", ids[0], "completed")
	require.NoError(t, err)

	_, err = runner.run("participant", "status", ids[1], "disqualified")
	require.Error(t, err)

	output, err = runner.run("participant", "status", "--admin", ids[1], "disqualified")
	require.NoError(t, err, "output: %s", output)

	// Only Cho is still waiting
	output, err = runner.run("queue", "get", sessionID)
	require.NoError(t, err, "output: %s", output)
	queue = queueResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &queue))
	assert.Equal(t, []string{ids[2]}, queue.WaitingQueue)

	// Export goes to stdout as CSV
	output, err = runner.run("participant", "export", "--session", sessionID)
	require.NoError(t, err, "output: %s", output)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id,"))

	// Close, then closing again fails
	output, err = runner.run("session", "close", sessionID)
	require.NoError(t, err, "output: %s", output)
	var closed sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &closed))
	assert.Equal(t, "archived", closed.Session.Status)

	output, err = runner.run("session", "close", sessionID)
	require.Error(t, err)
	assert.Contains(t, output, "BAD_REQUEST")
}

func TestCLI_DisplayEvents(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type result struct {
		output string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		output, err := runner.runContext(ctx, "display", "events", "--json", "--limit", "2")
		done <- result{output, err}
	}()

	// Wait for the stream to register before triggering an event
	require.Eventually(t, func() bool {
		return ts.app.DisplayHub.ClientCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Publish straight from the services; the CLI's globals belong to the
	// streaming command while it runs
	created, err := ts.app.SessionController.Create(context.Background(), ts.admin.ID)
	require.NoError(t, err)
	ts.app.Broadcaster.SessionUpdated(created)

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		t.Fatal("display stream did not deliver events in time")
	}
	require.NoError(t, res.err, "output: %s", res.output)

	lines := strings.Split(strings.TrimSpace(res.output), "\n")
	require.Len(t, lines, 2)

	var first, second eventLine
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "connected", first.Event)
	assert.Equal(t, "session-updated", second.Event)
	assert.Contains(t, second.Data, "pending_player_registration")
}
