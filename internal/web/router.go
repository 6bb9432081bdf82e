package web

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/services/play"
	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/web/handler"
	"github.com/mcoot/musicbingo/internal/web/middleware"
	"github.com/mcoot/musicbingo/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	Storage        storage.Storage
	GameController *game.Controller
	PlayController *play.Controller
	HubManager     *sse.HubManager
	StaticDir      string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.GameController, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.PlayController, cfg.Storage, cfg.Logger)
	playHandler := handler.NewPlayHandler(cfg.GameController, cfg.PlayController, hubManager)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Event stream sits outside the flash middleware so it never eats a
	// flash meant for the page
	r.HandleFunc("/sessions/{sid}/events", playHandler.Events).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/games", homeHandler.CreateGame).Methods(http.MethodPost)

	pages.HandleFunc("/games/{id}", gameHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/games/{id}/delete", gameHandler.Delete).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/play", gameHandler.StartSession).Methods(http.MethodPost)

	pages.HandleFunc("/sessions/{sid}", playHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/sessions/{sid}/toggle", playHandler.Toggle).Methods(http.MethodPost)
	pages.HandleFunc("/sessions/{sid}/exclude", playHandler.Exclude).Methods(http.MethodPost)
	pages.HandleFunc("/sessions/{sid}/end", playHandler.End).Methods(http.MethodPost)

	return r
}
