package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mcoot/musicbingo/internal/api/apierr"
	"github.com/mcoot/musicbingo/internal/middleware"
)

// Recovery turns handler panics into the JSON error envelope. The message
// carries the request ID that the panic log line was tagged with.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError(chimw.GetReqID(r.Context())))
	})
}
