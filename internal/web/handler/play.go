package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/services/play"
	"github.com/mcoot/musicbingo/internal/web/middleware"
	"github.com/mcoot/musicbingo/internal/web/sse"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
	"github.com/mcoot/musicbingo/internal/web/templates/pages"
)

// PlayHandler handles the live play page and its actions
type PlayHandler struct {
	gameController *game.Controller
	playController *play.Controller
	hubManager     *sse.HubManager
}

// NewPlayHandler creates a new PlayHandler
func NewPlayHandler(gameController *game.Controller, playController *play.Controller, hubManager *sse.HubManager) *PlayHandler {
	return &PlayHandler{
		gameController: gameController,
		playController: playController,
		hubManager:     hubManager,
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["sid"])
}

func sessionURL(id model.SessionID) string {
	return "/sessions/" + string(id)
}

// View renders the play page
func (h *PlayHandler) View(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	session, err := h.playController.GetSession(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, "/")
		return
	}
	g, err := h.gameController.GetGame(r.Context(), session.GameID)
	if err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, "/")
		return
	}
	snap, err := h.playController.Snapshot(r.Context(), id)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, http.StatusOK, pages.Play(pages.PlayData{
		PageData: layout.PageData{
			Title: g.Name,
			Flash: middleware.GetFlash(r.Context()),
		},
		Game:    g,
		Session: session,
		Stats:   snap,
	}))
}

// Toggle calls or uncalls an artist
func (h *PlayHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		redirect(w, r, sessionURL(id))
		return
	}

	if _, _, err := h.playController.ToggleArtist(r.Context(), id, r.FormValue("artist")); err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
	}
	redirect(w, r, sessionURL(id))
}

// Exclude replaces the set of cards not in play. The field takes card
// numbers separated by commas or spaces.
func (h *PlayHandler) Exclude(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		redirect(w, r, sessionURL(id))
		return
	}

	cards, err := ParseCardNumbers(r.FormValue("cards"))
	if err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, sessionURL(id))
		return
	}
	if _, _, err := h.playController.SetExcluded(r.Context(), id, cards); err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
	}
	redirect(w, r, sessionURL(id))
}

// End closes the session and returns to its game
func (h *PlayHandler) End(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	session, err := h.playController.GetSession(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, "/")
		return
	}
	if err := h.playController.EndSession(r.Context(), id); err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, sessionURL(id))
		return
	}

	middleware.SetFlash(w, "info", "Session ended")
	redirect(w, r, "/games/"+string(session.GameID))
}

// Events streams live stats for a session
func (h *PlayHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.playController.GetSession(r.Context(), id); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id))
}

// ParseCardNumbers reads a list of card numbers separated by commas or
// whitespace. Anything that is not a positive integer is rejected.
func ParseCardNumbers(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, model.ErrInvalidCardNumber
		}
		out = append(out, n)
	}
	return out, nil
}
