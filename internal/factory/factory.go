// Package factory wires the application together: storage backends, the
// room controller, session manager, recorder, event hubs, and janitor.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/avolosh/tankarena-go/internal/api/sse"
	"github.com/avolosh/tankarena-go/internal/dependencies/clock"
	"github.com/avolosh/tankarena-go/internal/dependencies/random"
	"github.com/avolosh/tankarena-go/internal/janitor"
	"github.com/avolosh/tankarena-go/internal/recorder"
	"github.com/avolosh/tankarena-go/internal/services/room"
	"github.com/avolosh/tankarena-go/internal/session"
	"github.com/avolosh/tankarena-go/internal/storage"
	"github.com/avolosh/tankarena-go/internal/storage/memory"
	"github.com/avolosh/tankarena-go/internal/storage/postgres"
	redisstorage "github.com/avolosh/tankarena-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Records storage.RecordStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Recorder       *recorder.Recorder
	Sessions       *session.Manager
	RoomController *room.Controller
	HubManager     *sse.HubManager
	Janitor        *janitor.Janitor
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN, when set, moves match history and statistics to Postgres
	// while rooms stay in the primary backend
	PostgresDSN string
	// RoomConfig holds room lifecycle settings
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// SessionConfig holds session timing settings
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// JanitorConfig holds background sweep settings
	// If zero value, defaults to janitor.DefaultConfig()
	JanitorConfig janitor.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Match history defaults to the room backend; a Postgres DSN moves it
	// to a relational store
	var records storage.RecordStore = store
	if cfg.PostgresDSN != "" {
		pgStore, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		records = pgStore
	}

	clk := clock.New()
	rnd := random.New()

	if cfg.RoomConfig.CreateTimeout == 0 {
		cfg.RoomConfig = room.DefaultConfig()
	}
	if cfg.SessionConfig.TickInterval == 0 {
		cfg.SessionConfig = session.DefaultConfig()
	}
	if cfg.JanitorConfig.Interval == 0 {
		cfg.JanitorConfig = janitor.DefaultConfig()
	}

	return newWithDependencies(store, records, clk, rnd, cfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	records storage.RecordStore,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) (*App, error) {
	hubManager := sse.NewHubManager(logger)
	rec := recorder.New(records, clk, logger)
	sessions := session.NewManager(store, rec, hubManager, clk, cfg.SessionConfig, logger)
	roomController := room.NewController(store, sessions, hubManager, clk, rnd, cfg.RoomConfig, logger)

	jan, err := janitor.New(store, hubManager, clk, cfg.JanitorConfig, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:        store,
		Records:        records,
		Clock:          clk,
		Random:         rnd,
		Recorder:       rec,
		Sessions:       sessions,
		RoomController: roomController,
		HubManager:     hubManager,
		Janitor:        jan,
	}, nil
}
