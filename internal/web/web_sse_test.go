package web_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicbingo/internal/model"
)

// TestSSE_EndpointHeaders verifies the SSE endpoint returns correct headers
func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 1, false)
	sessionID := ts.startSession(gameID)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+sessionID+"/events", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))

	body := rr.Body.String()
	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `data: {"status":"connected"}`)
}

// TestSSE_UnknownSession verifies a missing session is a 404, not a stream
func TestSSE_UnknownSession(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/sessions/missing/events")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, ts.app.HubManager.HubCount())
}

// TestSSE_ToggleBroadcastsStats verifies a toggle reaches a live watcher
func TestSSE_ToggleBroadcastsStats(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 2, false)
	sessionID := ts.startSession(gameID)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+sessionID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	hub := ts.app.HubManager.GetHub(model.SessionID(sessionID))
	require.NotNil(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	g, err := ts.app.GameController.GetGame(t.Context(), model.GameID(gameID))
	require.NoError(t, err)
	rr := ts.post("/sessions/"+sessionID+"/toggle", url.Values{"artist": {g.Artists[0]}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	reader := bufio.NewReader(resp.Body)
	seen := map[string]string{}
	current := ""
	for len(seen) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			current = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && (current == "stats-update" || current == "stats"):
			seen[current] += strings.TrimPrefix(line, "data: ")
		case line == "":
			current = ""
		}
	}

	assert.Contains(t, seen["stats-update"], `id="stats-board" hx-swap-oob="true"`)
	assert.Contains(t, seen["stats"], `"called":["`+g.Artists[0]+`"]`)
}
