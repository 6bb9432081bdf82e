package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/musicbingo/internal/api/request"
	"github.com/mcoot/musicbingo/internal/api/response"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/archive"
	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/services/render"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	renderer       render.Renderer
	packager       *archive.Packager
	progress       archive.ProgressFunc
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler. progress receives archive
// updates and may be nil.
func NewGameHandler(
	gameController *game.Controller,
	renderer render.Renderer,
	packager *archive.Packager,
	progress archive.ProgressFunc,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		renderer:       renderer,
		packager:       packager,
		progress:       progress,
		logger:         logger,
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	artists := model.ParseArtistPool(req.Artists)
	if len(req.ArtistList) > 0 {
		artists = model.NormalizeArtistPool(req.ArtistList)
	}

	g, err := h.gameController.CreateGame(r.Context(), game.CreateGameParams{
		Name:      req.Name,
		Artists:   artists,
		CardCount: req.CardCount,
		HasMarker: req.HasMarker,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	if err := h.gameController.DeleteGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	if c, ok := h.renderer.(*render.CachedRenderer); ok {
		c.Forget(id)
	}
	response.NoContent(w)
}

// Cards handles GET /api/v1/games/{id}/cards
func (h *GameHandler) Cards(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	cards, err := h.gameController.GetCards(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CardListFromModel(id, cards))
}

// CardImage handles GET /api/v1/games/{id}/cards/{number}.png
func (h *GameHandler) CardImage(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Invalid card number"))
		return
	}

	card, err := h.gameController.GetCard(r.Context(), gameID(r), number)
	if err != nil {
		WriteError(w, err)
		return
	}

	data, err := h.renderer.Render(r.Context(), *card)
	if err != nil {
		h.logger.Error("failed to render card",
			slog.String("game_id", string(card.GameID)),
			slog.Int("card", card.Number),
			slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	response.Image(w, "image/png", data)
}

// Archive handles GET /api/v1/games/{id}/archive. Progress is published while
// the cards render; the zip is only sent once complete so failures can still
// be reported as JSON errors.
func (h *GameHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	cards, err := h.gameController.GetCards(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.packager.Write(r.Context(), &buf, g, cards, h.progress); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.gameController.MarkArchived(r.Context(), id); err != nil {
		h.logger.Warn("failed to mark game archived",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()))
	}

	response.Attachment(w, "application/zip", archive.ArchiveName(id), buf.Bytes())
}

// Stats handles POST /api/v1/games/{id}/stats. It is stateless: the caller
// supplies the called artists and excluded cards.
func (h *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var req request.StatsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	snap, err := h.gameController.ComputeStats(r.Context(), gameID(r), req.SelectedArtists, req.ExcludedCards)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromModel(snap))
}
