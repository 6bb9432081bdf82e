package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/services/play"
	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/web/middleware"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
	"github.com/mcoot/musicbingo/internal/web/templates/pages"
)

// GameHandler handles game pages and actions
type GameHandler struct {
	gameController *game.Controller
	playController *play.Controller
	storage        storage.Storage
	logger         *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, playController *play.Controller, store storage.Storage, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		playController: playController,
		storage:        store,
		logger:         logger,
	}
}

// View renders the game page with every card
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, "/")
		return
	}

	cards, err := h.gameController.GetCards(r.Context(), gameID)
	if err != nil && !errors.Is(err, model.ErrCardsNotFound) {
		h.logger.Error("failed to load cards",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sessions, err := h.storage.GetSessionsForGame(r.Context(), gameID)
	if err != nil {
		h.logger.Warn("failed to load sessions",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()))
	}

	render(w, r, http.StatusOK, pages.Game(pages.GameData{
		PageData: layout.PageData{
			Title: g.Name,
			Flash: middleware.GetFlash(r.Context()),
		},
		Game:     g,
		Cards:    cards,
		Sessions: sessions,
	}))
}

// Delete removes a game and everything attached to it
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	if err := h.gameController.DeleteGame(r.Context(), gameID); err != nil {
		middleware.SetFlash(w, "error", userMessage(err))
		redirect(w, r, "/")
		return
	}

	middleware.SetFlash(w, "success", "Game deleted")
	redirect(w, r, "/")
}

// StartSession opens a new live play session for the game
func (h *GameHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	session, err := h.playController.StartSession(r.Context(), gameID)
	if err != nil {
		middleware.SetFlash(w, "error", "Could not start session: "+userMessage(err))
		redirect(w, r, "/games/"+string(gameID))
		return
	}

	redirect(w, r, "/sessions/"+string(session.ID))
}
