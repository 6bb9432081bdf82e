package handler

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/musicbingo/internal/model"
)

// redirect sends the browser to url. htmx requests get HX-Redirect so the
// navigation happens client-side.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// render writes a page with the given status
func render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// userMessage turns a domain error into text fit for a flash message
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientArtists):
		return "Need at least 36 artists for a 6x6 grid"
	case errors.Is(err, model.ErrExhaustedUniqueGrids):
		return "Not enough distinct artist combinations for that many cards"
	case errors.Is(err, model.ErrInvalidGameName):
		return "Game name is required"
	case errors.Is(err, model.ErrInvalidCardCount):
		return "Card count must be at least 1"
	case errors.Is(err, model.ErrInvalidCardNumber):
		return "Card numbers must be positive whole numbers"
	case errors.Is(err, model.ErrGameNotFound):
		return "Game not found"
	case errors.Is(err, model.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, model.ErrArtistNotInGame):
		return "That artist is not in this game"
	default:
		return "Something went wrong"
	}
}
