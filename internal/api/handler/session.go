package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/musicbingo/internal/api/request"
	"github.com/mcoot/musicbingo/internal/api/response"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/play"
)

// SessionHandler handles live play session endpoints
type SessionHandler struct {
	playController *play.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(playController *play.Controller) *SessionHandler {
	return &SessionHandler{playController: playController}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["sid"])
}

// Start handles POST /api/v1/games/{id}/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.playController.StartSession(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	snap, err := h.playController.Snapshot(r.Context(), session.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SessionStateFromModel(session, snap))
}

// Get handles GET /api/v1/sessions/{sid}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.playController.GetSession(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// End handles DELETE /api/v1/sessions/{sid}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.playController.EndSession(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Toggle handles POST /api/v1/sessions/{sid}/toggle
func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Artist == "" {
		WriteError(w, NewInvalidRequestError("artist is required"))
		return
	}

	session, snap, err := h.playController.ToggleArtist(r.Context(), sessionID(r), req.Artist)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionStateFromModel(session, snap))
}

// SetExcluded handles PUT /api/v1/sessions/{sid}/excluded
func (h *SessionHandler) SetExcluded(w http.ResponseWriter, r *http.Request) {
	var req request.SetExcludedRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, snap, err := h.playController.SetExcluded(r.Context(), sessionID(r), req.Cards)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionStateFromModel(session, snap))
}

// ToggleExcluded handles POST /api/v1/sessions/{sid}/excluded/{number}
func (h *SessionHandler) ToggleExcluded(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Invalid card number"))
		return
	}

	session, snap, err := h.playController.ToggleExcluded(r.Context(), sessionID(r), number)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionStateFromModel(session, snap))
}

// Stats handles GET /api/v1/sessions/{sid}/stats
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.playController.Snapshot(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromModel(snap))
}
