package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicbingo/internal/model"
)

func TestPlayPage_Renders(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 3, false)
	sessionID := ts.startSession(gameID)

	rr := ts.get("/sessions/" + sessionID)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assert.Equal(t, 40, doc.Find("#artist-board button.artist").Length())
	assertNotContainsElement(t, doc, "#artist-board button.called")
	assertContainsText(t, doc, "#stats-board .stats-summary", "3 cards in play")
	assert.Equal(t, 3, doc.Find("#stats-board li.card-stat").Length())
	assert.Equal(t, "/sessions/"+sessionID+"/events", doc.Find("[sse-connect]").AttrOr("sse-connect", ""))
	assertContainsElement(t, doc, "form#exclusions")
}

func TestPlay_ToggleArtist(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 2, false)
	sessionID := ts.startSession(gameID)

	g, err := ts.app.GameController.GetGame(t.Context(), model.GameID(gameID))
	require.NoError(t, err)
	artist := g.Artists[0]

	rr := ts.post("/sessions/"+sessionID+"/toggle", url.Values{"artist": {artist}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	called := doc.Find("#artist-board button.called")
	require.Equal(t, 1, called.Length())
	assert.Equal(t, artist, called.Text())

	// Toggling again uncalls
	ts.post("/sessions/"+sessionID+"/toggle", url.Values{"artist": {artist}})
	doc = parseHTML(ts.get("/sessions/" + sessionID).Body)
	assertNotContainsElement(t, doc, "#artist-board button.called")
}

func TestPlay_ToggleUnknownArtist(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 2, false)
	sessionID := ts.startSession(gameID)

	rr := ts.post("/sessions/"+sessionID+"/toggle", url.Values{"artist": {"Nobody"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "not in this game")
}

func TestPlay_CallWholeCardShowsWinner(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 3, true)
	sessionID := ts.startSession(gameID)

	card, err := ts.app.GameController.GetCard(t.Context(), model.GameID(gameID), 2)
	require.NoError(t, err)
	for _, name := range card.Grid.Names() {
		ts.postHTMX("/sessions/"+sessionID+"/toggle", url.Values{"artist": {name}})
	}

	doc := parseHTML(ts.get("/sessions/" + sessionID).Body)
	assertContainsText(t, doc, "#stats-board .winners", "#2")
	first := doc.Find("#stats-board li.card-stat").First()
	assert.True(t, first.HasClass("complete"))
	assert.Equal(t, "0", first.AttrOr("data-remaining", ""))
}

func TestPlay_Exclude(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 3, false)
	sessionID := ts.startSession(gameID)

	rr := ts.post("/sessions/"+sessionID+"/exclude", url.Values{"cards": {"3, 1 3"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#stats-board .stats-summary", "1 cards in play")
	assert.Equal(t, "1, 3", doc.Find("form#exclusions input[name='cards']").AttrOr("value", ""))

	// Clearing the field restores every card
	ts.post("/sessions/"+sessionID+"/exclude", url.Values{"cards": {""}})
	doc = parseHTML(ts.get("/sessions/" + sessionID).Body)
	assertContainsText(t, doc, "#stats-board .stats-summary", "3 cards in play")
}

func TestPlay_ExcludeInvalid(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 3, false)
	sessionID := ts.startSession(gameID)

	rr := ts.post("/sessions/"+sessionID+"/exclude", url.Values{"cards": {"two"}})
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "positive whole numbers")
}

func TestPlay_EndSession(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 1, false)
	sessionID := ts.startSession(gameID)

	rr := ts.post("/sessions/"+sessionID+"/end", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/games/"+gameID, rr.Header().Get("Location"))

	rr = ts.get("/sessions/" + sessionID)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Session not found")
}

func TestPlay_GamePageListsSessions(t *testing.T) {
	ts := newWebTestServer(t)
	gameID := ts.createGame("Quiz", 1, false)
	sessionID := ts.startSession(gameID)

	doc := parseHTML(ts.get("/games/" + gameID).Body)
	assertContainsElement(t, doc, "ul.sessions a[href='/sessions/"+sessionID+"']")
}

func TestPlay_StartSessionUnknownGame(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/games/missing/play", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/games/missing", rr.Header().Get("Location"))
}
