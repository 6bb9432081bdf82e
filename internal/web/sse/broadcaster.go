package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/play"
)

var _ play.Notifier = (*Broadcaster)(nil)

// Broadcaster pushes session changes to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// SessionUpdated broadcasts the new stats to everyone watching the session.
// Sessions nobody is watching have no hub and are skipped.
func (b *Broadcaster) SessionUpdated(session *model.PlaySession, snapshot model.StatsSnapshot) {
	hub := b.hubManager.GetHub(session.ID)
	if hub == nil {
		return
	}

	events, err := RenderSessionUpdate(context.Background(), session, snapshot)
	if err != nil {
		b.logger.Error("sse failed to render session update",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()))
		return
	}
	for _, e := range events {
		hub.BroadcastEvent(e.EventName, e.Data)
	}
}

// SessionEnded tells watchers the session is over and closes its hub
func (b *Broadcaster) SessionEnded(sessionID model.SessionID) {
	hub := b.hubManager.GetHub(sessionID)
	if hub == nil {
		return
	}
	hub.BroadcastEvent(EventSessionEnded, string(sessionID))
	b.hubManager.RemoveHub(sessionID)
}
