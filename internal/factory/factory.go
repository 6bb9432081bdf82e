package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/musicbingo/internal/dependencies/clock"
	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/services/archive"
	"github.com/mcoot/musicbingo/internal/services/game"
	"github.com/mcoot/musicbingo/internal/services/generator"
	"github.com/mcoot/musicbingo/internal/services/play"
	"github.com/mcoot/musicbingo/internal/services/render"
	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/storage/boltdb"
	"github.com/mcoot/musicbingo/internal/storage/memory"
	"github.com/mcoot/musicbingo/internal/storage/postgres"
	redisstorage "github.com/mcoot/musicbingo/internal/storage/redis"
	"github.com/mcoot/musicbingo/internal/web/sse"
	"github.com/mcoot/musicbingo/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeBolt     = "bolt"
	StorageTypePostgres = "postgres"
)

// DefaultRenderCacheSize is the number of rendered cards kept in memory
const DefaultRenderCacheSize = 256

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Generator      *generator.Generator
	GameController *game.Controller
	PlayController *play.Controller
	Renderer       *render.CachedRenderer
	Packager       *archive.Packager

	// Live updates
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
	ProgressHub *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend (memory, redis, bolt or postgres)
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BoltPath is the database file for the bolt backend
	BoltPath string
	// PostgresDSN is the connection string for the postgres backend
	PostgresDSN string

	// TemplatePath is the card background image. Empty uses a plain template.
	TemplatePath string
	// RenderCacheSize bounds the rendered card cache; zero uses the default
	RenderCacheSize int
	// ArchiveConcurrency bounds parallel rendering when building archives
	ArchiveConcurrency int
	// MaxGenerationAttempts bounds draws per card before giving up
	MaxGenerationAttempts int
	// WSOriginPatterns are extra origins allowed to open the progress websocket
	WSOriginPatterns []string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	var tmplRenderer *render.PNGRenderer
	tmplRenderer, err = render.NewPNGRenderer(cfg.TemplatePath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	rnd := random.New()
	return newWithDependencies(store, clock.New(), rnd, rnd, tmplRenderer, cfg, logger)
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeBolt:
		if cfg.BoltPath == "" {
			return nil, errors.New("BoltPath required when StorageType is bolt")
		}
		return boltdb.New(cfg.BoltPath)
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		return postgres.New(context.Background(), cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, bolt or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing).
// idRandom produces game IDs; genRandom drives card generation.
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	idRandom random.Random,
	genRandom random.Random,
	renderer render.Renderer,
	cfg Config,
	logger *slog.Logger,
) (*App, error) {
	var genOpts []generator.Option
	if cfg.MaxGenerationAttempts > 0 {
		genOpts = append(genOpts, generator.WithMaxAttempts(cfg.MaxGenerationAttempts))
	}
	gen := generator.New(genRandom, genOpts...)

	cacheSize := cfg.RenderCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultRenderCacheSize
	}
	cached, err := render.NewCachedRenderer(renderer, cacheSize)
	if err != nil {
		return nil, err
	}

	gameController := game.NewController(store, gen, clk, idRandom, logger)
	playController := play.NewController(store, clk, logger)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	playController.SetNotifier(broadcaster)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         idRandom,
		Generator:      gen,
		GameController: gameController,
		PlayController: playController,
		Renderer:       cached,
		Packager:       archive.NewPackager(cached, cfg.ArchiveConcurrency, clk, logger),
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		ProgressHub:    ws.NewHub(cfg.WSOriginPatterns, logger),
	}, nil
}

// Close stops live hubs and releases storage
func (a *App) Close() error {
	a.HubManager.Close()
	a.ProgressHub.Close()
	return a.Storage.Close()
}
