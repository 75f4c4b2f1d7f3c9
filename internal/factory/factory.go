package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/roulettegame/internal/dependencies/clock"
	"github.com/mcoot/roulettegame/internal/dependencies/random"
	"github.com/mcoot/roulettegame/internal/display"
	"github.com/mcoot/roulettegame/internal/services/auth"
	"github.com/mcoot/roulettegame/internal/services/participant"
	"github.com/mcoot/roulettegame/internal/services/queue"
	"github.com/mcoot/roulettegame/internal/services/session"
	"github.com/mcoot/roulettegame/internal/storage"
	"github.com/mcoot/roulettegame/internal/storage/memory"
	pgstorage "github.com/mcoot/roulettegame/internal/storage/postgres"
	redisstorage "github.com/mcoot/roulettegame/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService        *auth.Service
	SessionController  *session.Controller
	QueueService       *queue.Service
	ParticipantService *participant.Service

	// Display
	DisplayHub  *display.Hub
	Broadcaster *display.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
}

// New creates a new application with all dependencies wired.
// The display hub is started; call Close to stop it and release storage.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authCfg := cfg.AuthConfig
	if authCfg.TokenTTL == 0 {
		authCfg.TokenTTL = auth.DefaultConfig().TokenTTL
	}

	app := newWithDependencies(store, clock.New(), random.New(), authCfg, logger)
	go app.DisplayHub.Run()
	return app, nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
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
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return store, nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		store, err := pgstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, rnd, logger, authCfg)
	sessionController := session.NewController(store, clk, rnd, logger)
	queueService := queue.New(store, clk, logger)
	participantService := participant.New(store, sessionController, clk, rnd, logger)
	hub := display.NewHub(logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		AuthService:        authService,
		SessionController:  sessionController,
		QueueService:       queueService,
		ParticipantService: participantService,
		DisplayHub:         hub,
		Broadcaster:        display.NewBroadcaster(hub, logger),
	}
}

// Close stops the display hub and closes the storage connection if it has one
func (a *App) Close() error {
	a.DisplayHub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
