// Package janitor runs periodic background sweeps: dropping event hubs
// nobody listens to and deleting lobbies that were abandoned before ever
// starting a game.
package janitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/avolosh/tankarena-go/internal/dependencies/clock"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// Hubs is the slice of the hub manager the janitor needs
type Hubs interface {
	CleanupEmptyHubs()
	CloseRoom(roomID model.RoomID)
}

// Config holds janitor settings
type Config struct {
	// Interval is how often a sweep runs
	Interval time.Duration
	// IdleRoomTTL is how long an unstarted room may go without activity
	// before it is considered abandoned
	IdleRoomTTL time.Duration
	// SweepTimeout bounds a single sweep
	SweepTimeout time.Duration
}

// DefaultConfig returns the default janitor configuration
func DefaultConfig() Config {
	return Config{
		Interval:     time.Minute,
		IdleRoomTTL:  30 * time.Minute,
		SweepTimeout: 30 * time.Second,
	}
}

// Janitor owns the sweep schedule
type Janitor struct {
	store     storage.RoomStore
	hubs      Hubs
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config
	scheduler gocron.Scheduler
}

// New creates a janitor with its scheduler ready to start
func New(store storage.RoomStore, hubs Hubs, clk clock.Clock, cfg Config, logger *slog.Logger) (*Janitor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	j := &Janitor{
		store:     store,
		hubs:      hubs,
		clock:     clk,
		logger:    logger.With(slog.String("component", "janitor")),
		cfg:       cfg,
		scheduler: scheduler,
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(j.Sweep),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// Start begins the sweep schedule
func (j *Janitor) Start() {
	j.scheduler.Start()
	j.logger.Info("janitor started", slog.Duration("interval", j.cfg.Interval))
}

// Stop shuts the scheduler down, waiting for a running sweep to finish
func (j *Janitor) Stop() error {
	return j.scheduler.Shutdown()
}

// Sweep runs one cleanup pass. Exported so tests and operators can trigger
// it outside the schedule.
func (j *Janitor) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.SweepTimeout)
	defer cancel()

	j.hubs.CleanupEmptyHubs()

	ids, err := j.store.ListRoomIDs(ctx)
	if err != nil {
		j.logger.Warn("sweep failed to list rooms", slog.String("error", err.Error()))
		return
	}

	removed := 0
	for _, id := range ids {
		room, err := j.store.GetRoom(ctx, id)
		if errors.Is(err, model.ErrRoomNotFound) {
			continue
		}
		if err != nil {
			j.logger.Warn("sweep failed to read room",
				slog.String("room", string(id)),
				slog.String("error", err.Error()),
			)
			continue
		}

		if room.GameStarted {
			continue
		}
		if j.clock.Now().Sub(room.UpdatedAt) < j.cfg.IdleRoomTTL {
			continue
		}

		if err := j.store.DeleteRoom(ctx, id); err != nil {
			j.logger.Warn("sweep failed to delete room",
				slog.String("room", string(id)),
				slog.String("error", err.Error()),
			)
			continue
		}
		j.hubs.CloseRoom(id)
		removed++
	}

	if removed > 0 {
		j.logger.Info("swept abandoned rooms", slog.Int("removed", removed))
	}
}
