package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/musicbingo/internal/middleware"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
)

// Recovery creates panic recovery middleware for the web interface.
// It renders the error inside the normal page chrome.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	page := layout.Base(layout.PageData{
		Title: "Error",
		Flash: &layout.FlashMessage{Type: "error", Message: "Something went wrong. Please try again."},
	}, layout.ServerError())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = page.Render(r.Context(), w)
}
