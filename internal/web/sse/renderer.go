package sse

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mcoot/musicbingo/internal/api/response"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/web/templates/components"
)

// Event names pushed to session watchers
const (
	EventStatsUpdate  = "stats-update"
	EventStats        = "stats"
	EventSessionEnded = "session-ended"
)

// EventData represents SSE event data
type EventData struct {
	EventName string
	Data      string
}

// RenderStatsBoard renders the stats board component as HTML
func RenderStatsBoard(ctx context.Context, snap model.StatsSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := components.StatsBoard(snap).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

// RenderSessionUpdate converts a session's fresh snapshot into the events
// sent to watchers: the swappable board HTML, then the raw JSON
func RenderSessionUpdate(ctx context.Context, session *model.PlaySession, snap model.StatsSnapshot) ([]EventData, error) {
	html, err := RenderStatsBoard(ctx, snap)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(response.SessionStateFromModel(session, snap))
	if err != nil {
		return nil, err
	}
	return []EventData{
		{EventName: EventStatsUpdate, Data: WrapForOOBSwap(components.StatsBoardID, html)},
		{EventName: EventStats, Data: string(payload)},
	}, nil
}
