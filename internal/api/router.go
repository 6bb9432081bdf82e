package api

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/mcoot/musicbingo/internal/api/handler"
	"github.com/mcoot/musicbingo/internal/api/middleware"
	"github.com/mcoot/musicbingo/internal/api/response"
	"github.com/mcoot/musicbingo/internal/services/archive"
	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/services/play"
	"github.com/mcoot/musicbingo/internal/services/render"
	"github.com/mcoot/musicbingo/internal/web/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	PlayController *play.Controller
	Renderer       render.Renderer
	Packager       *archive.Packager
	ProgressHub    *ws.Hub
	StorageType    string
	// CORSOrigins lists allowed browser origins; empty allows any
	CORSOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	var progress archive.ProgressFunc
	if cfg.ProgressHub != nil {
		progress = cfg.ProgressHub.Publish
	}

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Renderer, cfg.Packager, progress, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.PlayController)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(chimw.RequestID)
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler(cfg.StorageType)).Methods(http.MethodGet)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/cards", gameHandler.Cards).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/cards/{number:[0-9]+}.png", gameHandler.CardImage).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/archive", gameHandler.Archive).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/stats", gameHandler.Stats).Methods(http.MethodPost)

	// Session routes
	api.HandleFunc("/games/{id}/sessions", sessionHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sid}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sid}", sessionHandler.End).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sid}/toggle", sessionHandler.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sid}/excluded", sessionHandler.SetExcluded).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sid}/excluded/{number:[0-9]+}", sessionHandler.ToggleExcluded).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sid}/stats", sessionHandler.Stats).Methods(http.MethodGet)

	if cfg.ProgressHub != nil {
		api.Handle("/ws/progress", cfg.ProgressHub).Methods(http.MethodGet)
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	})(r)
}

func healthHandler(storageType string) http.HandlerFunc {
	if storageType == "" {
		storageType = "memory"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: storageType})
	}
}
