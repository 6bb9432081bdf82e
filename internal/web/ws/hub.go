// Package ws fans out card archive progress to websocket clients.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mcoot/musicbingo/internal/services/archive"
)

// MessageTypeCardGeneration tags archive progress messages
const MessageTypeCardGeneration = "cardGeneration"

const (
	writeTimeout   = 5 * time.Second
	sendBufferSize = 64
)

// Message is the JSON frame sent to clients
type Message struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// MessageFromProgress converts an archive progress update
func MessageFromProgress(p archive.Progress) Message {
	return Message{
		Type:     MessageTypeCardGeneration,
		GameID:   string(p.GameID),
		Progress: p.Percent,
		Status:   p.Status,
		Error:    p.Error,
	}
}

type client struct {
	send chan Message
}

// Hub tracks connected clients and broadcasts progress to all of them
type Hub struct {
	clients        map[*client]struct{}
	mu             sync.RWMutex
	originPatterns []string
	logger         *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a Hub. originPatterns are host patterns allowed to connect
// cross-origin; same-origin requests are always accepted.
func NewHub(originPatterns []string, logger *slog.Logger) *Hub {
	return &Hub{
		clients:        make(map[*client]struct{}),
		originPatterns: originPatterns,
		logger:         logger.With(slog.String("component", "ws")),
		done:           make(chan struct{}),
	}
}

// Close disconnects every client with a going-away status. Connections
// arriving afterwards are closed immediately.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ServeHTTP upgrades the request and streams messages until the client goes
// away
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow()

	c := &client{send: make(chan Message, sendBufferSize)}
	h.add(c)
	defer h.remove(c)

	// Clients never send; CloseRead handles control frames and cancels ctx
	// once the peer closes.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case msg := <-c.send:
			if err := h.write(ctx, conn, msg); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.logger.Debug("websocket write failed", slog.String("error", err.Error()))
				}
				return
			}
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-h.done:
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket client connected", slog.Int("total_clients", count))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket client disconnected", slog.Int("total_clients", count))
}

// Broadcast queues msg for every client. Slow clients drop messages rather
// than stall the sender.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("websocket messages dropped", slog.Int("dropped", dropped))
	}
}

// Publish is an archive.ProgressFunc that broadcasts each update
func (h *Hub) Publish(p archive.Progress) {
	h.Broadcast(MessageFromProgress(p))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
