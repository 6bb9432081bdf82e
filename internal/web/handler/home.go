package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/web/middleware"
	"github.com/mcoot/musicbingo/internal/web/templates/components"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
	"github.com/mcoot/musicbingo/internal/web/templates/pages"
)

// HomeHandler handles the home page and game creation
type HomeHandler struct {
	gameController *game.Controller
	logger         *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(gameController *game.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		gameController: gameController,
		logger:         logger,
	}
}

// Home renders the game list and create form
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, middleware.GetFlash(r.Context()), components.CreateGameValues{})
}

// CreateGame handles the create form. Validation failures re-render the form
// with the submitted values so the artist list is not lost.
func (h *HomeHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		redirect(w, r, "/")
		return
	}

	values := components.CreateGameValues{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Artists:   r.FormValue("artists"),
		HasMarker: r.FormValue("has_marker") == "true",
	}
	count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("card_count")))
	if err != nil {
		h.renderHome(w, r, http.StatusUnprocessableEntity,
			&layout.FlashMessage{Type: "error", Message: "Card count must be a number"}, values)
		return
	}
	values.CardCount = count

	g, err := h.gameController.CreateGame(r.Context(), game.CreateGameParams{
		Name:      values.Name,
		Artists:   model.ParseArtistPool(values.Artists),
		CardCount: count,
		HasMarker: values.HasMarker,
	})
	if err != nil {
		h.renderHome(w, r, http.StatusUnprocessableEntity,
			&layout.FlashMessage{Type: "error", Message: userMessage(err)}, values)
		return
	}

	middleware.SetFlash(w, "success", "Created "+strconv.Itoa(g.CardCount)+" cards")
	redirect(w, r, "/games/"+string(g.ID))
}

func (h *HomeHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, flash *layout.FlashMessage, form components.CreateGameValues) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		h.logger.Error("failed to list games", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, status, pages.Home(pages.HomeData{
		PageData: layout.PageData{
			Title: "Games",
			Flash: flash,
		},
		Games: games,
		Form:  form,
	}))
}
