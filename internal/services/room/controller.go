// Package room implements the lobby half of the session lifecycle: creating
// rooms, managing membership, and handing started rooms to the session actor.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avolosh/tankarena-go/internal/dependencies/clock"
	"github.com/avolosh/tankarena-go/internal/dependencies/random"
	"github.com/avolosh/tankarena-go/internal/mapgen"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// roomIDLength is the number of uuid characters kept for a room id. Short
// ids are shareable; uniqueness is re-checked against the store.
const roomIDLength = 6

// mapPollInterval is how often a snapshot request re-reads a started room
// while waiting for its map
const mapPollInterval = 100 * time.Millisecond

// Sessions is the slice of the session manager the controller needs
type Sessions interface {
	Begin(roomID model.RoomID)
	Stop(roomID model.RoomID)
}

// Notifier fans room state changes out to subscribers
type Notifier interface {
	BroadcastSnapshot(roomID model.RoomID, snap *model.Snapshot)
	CloseRoom(roomID model.RoomID)
}

// Config holds room lifecycle settings
type Config struct {
	// CreateTimeout bounds room creation end to end
	CreateTimeout time.Duration
	// MapWaitTimeout bounds how long a snapshot request waits for the map
	// of a started room to appear
	MapWaitTimeout time.Duration
	// GridSize is the side length of generated battle grids
	GridSize int
	// ObstacleProbability is the per-cell obstacle chance
	ObstacleProbability float64
	// DefaultDurationSeconds applies when a create request omits duration
	DefaultDurationSeconds int
}

// DefaultConfig returns the default room lifecycle configuration
func DefaultConfig() Config {
	return Config{
		CreateTimeout:          5 * time.Second,
		MapWaitTimeout:         2 * time.Second,
		GridSize:               mapgen.DefaultGridSize,
		ObstacleProbability:    mapgen.DefaultObstacleProbability,
		DefaultDurationSeconds: 120,
	}
}

// CreateConfig is the caller-supplied shape of a new room
type CreateConfig struct {
	Type            model.RoomType
	Capacity        model.Capacity
	DurationSeconds int
}

// Controller manages room lifecycle
type Controller struct {
	store    storage.RoomStore
	sessions Sessions
	notifier Notifier
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
}

// NewController creates a room controller
func NewController(
	store storage.RoomStore,
	sessions Sessions,
	notifier Notifier,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:    store,
		sessions: sessions,
		notifier: notifier,
		clock:    clk,
		random:   rnd,
		logger:   logger,
		cfg:      cfg,
	}
}

// CreateRoom creates a room with a fresh short id and the creator as its
// first member. For tournament rooms the creator joins the first team.
func (c *Controller) CreateRoom(ctx context.Context, cfg CreateConfig, creator model.PlayerID) (*model.Room, error) {
	if cfg.DurationSeconds == 0 {
		cfg.DurationSeconds = c.cfg.DefaultDurationSeconds
	}
	if err := validateCreateConfig(cfg, creator); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CreateTimeout)
	defer cancel()

	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, model.ErrCreateTimeout
			}
			return nil, err
		}

		room := c.buildRoom(cfg, creator)
		err := c.store.CreateRoom(ctx, room)
		if err == nil {
			c.logger.Info("room created",
				slog.String("room", string(room.ID)),
				slog.String("type", string(room.Type)),
				slog.String("host", string(creator)),
			)
			return room, nil
		}
		if errors.Is(err, model.ErrRoomExists) {
			// Short id collided, roll a new one
			continue
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, model.ErrCreateTimeout
		}
		return nil, err
	}
}

func (c *Controller) buildRoom(cfg CreateConfig, creator model.PlayerID) *model.Room {
	now := c.clock.Now()
	room := &model.Room{
		ID:                  model.RoomID(uuid.NewString()[:roomIDLength]),
		Type:                cfg.Type,
		Capacity:            cfg.Capacity,
		Players:             []model.PlayerID{},
		GameDurationSeconds: cfg.DurationSeconds,
		Directions:          make(map[model.PlayerID]model.Direction),
		Alive:               make(map[model.PlayerID]bool),
		Positions:           make(map[model.PlayerID]model.Position),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if cfg.Type == model.RoomTypeTournament {
		room.Teams = make(map[model.TeamName][]model.PlayerID, cfg.Capacity.TeamsCount)
		room.TeamOrder = make([]model.TeamName, 0, cfg.Capacity.TeamsCount)
		for i := 0; i < cfg.Capacity.TeamsCount; i++ {
			name := model.TeamName(fmt.Sprintf("team-%d", i+1))
			room.Teams[name] = []model.PlayerID{}
			room.TeamOrder = append(room.TeamOrder, name)
		}
		room.Teams[room.TeamOrder[0]] = append(room.Teams[room.TeamOrder[0]], creator)
	} else {
		room.Players = append(room.Players, creator)
	}

	return room
}

func validateCreateConfig(cfg CreateConfig, creator model.PlayerID) error {
	if creator == "" {
		return fmt.Errorf("%w: creator required", model.ErrInvalidConfig)
	}
	if cfg.DurationSeconds < 1 {
		return fmt.Errorf("%w: duration must be at least one second", model.ErrInvalidConfig)
	}
	switch cfg.Type {
	case model.RoomTypeFree:
		if cfg.Capacity.PlayersCount < 2 {
			return fmt.Errorf("%w: free-for-all rooms need at least two players", model.ErrInvalidConfig)
		}
	case model.RoomTypeTournament:
		if cfg.Capacity.TeamsCount < 2 {
			return fmt.Errorf("%w: tournament rooms need at least two teams", model.ErrInvalidConfig)
		}
		if cfg.Capacity.PlayersPerTeam < 1 {
			return fmt.Errorf("%w: teams need room for at least one player", model.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown room type %q", model.ErrInvalidConfig, cfg.Type)
	}
	return nil
}

// GetRoom fetches a room by id
func (c *Controller) GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	return c.store.GetRoom(ctx, roomID)
}

// Snapshot returns the room's current client-facing state. For a started
// room whose map has not landed yet it waits briefly, then reports
// ErrMapNotReady so clients can poll again.
func (c *Controller) Snapshot(ctx context.Context, roomID model.RoomID) (*model.Snapshot, error) {
	deadline := c.clock.Now().Add(c.cfg.MapWaitTimeout)
	for {
		room, err := c.store.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !room.GameStarted || room.Map != nil {
			return model.SnapshotFromRoom(room, c.remainingSeconds(room)), nil
		}
		if c.clock.Now().After(deadline) {
			return nil, model.ErrMapNotReady
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(mapPollInterval):
		}
	}
}

// JoinRoom adds a player to a room. Joining a room you are already in is a
// success and mutates nothing.
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, team model.TeamName) (*model.Room, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id required", model.ErrInvalidConfig)
	}

	room, err := c.store.UpdateRoom(ctx, roomID, func(room *model.Room) error {
		if room.IsMember(playerID) {
			return nil
		}
		if room.GameStarted {
			return model.ErrGameInProgress
		}

		switch room.Type {
		case model.RoomTypeTournament:
			members, ok := room.Teams[team]
			if !ok {
				return model.ErrTeamNotFound
			}
			if len(members) >= room.Capacity.PlayersPerTeam {
				return model.ErrTeamFull
			}
			room.Teams[team] = append(members, playerID)
		default:
			if room.IsFull() {
				return model.ErrRoomFull
			}
			room.Players = append(room.Players, playerID)
		}

		room.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.notifier.BroadcastSnapshot(roomID, model.SnapshotFromRoom(room, c.remainingSeconds(room)))
	return room, nil
}

// LeaveRoom removes a player from a room. The last member to leave deletes
// the room. Leaving mid-game removes the player from play, which the next
// tick's win evaluation will see.
func (c *Controller) LeaveRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	room, err := c.store.UpdateRoom(ctx, roomID, func(room *model.Room) error {
		if !room.IsMember(playerID) {
			return model.ErrNotInRoom
		}

		if room.Type == model.RoomTypeTournament {
			if team, ok := room.TeamOf(playerID); ok {
				room.Teams[team] = removePlayer(room.Teams[team], playerID)
			}
		} else {
			room.Players = removePlayer(room.Players, playerID)
		}

		delete(room.Positions, playerID)
		delete(room.Directions, playerID)
		delete(room.Alive, playerID)
		room.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return err
	}

	if room.MemberCount() == 0 {
		if err := c.store.DeleteRoom(ctx, roomID); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
			return err
		}
		c.sessions.Stop(roomID)
		c.notifier.CloseRoom(roomID)
		c.logger.Info("room deleted, last member left", slog.String("room", string(roomID)))
		return nil
	}

	c.notifier.BroadcastSnapshot(roomID, model.SnapshotFromRoom(room, c.remainingSeconds(room)))
	return nil
}

// StartGame moves a room into the active phase: generates the map, places
// every member on a free cell, and starts the session actor. Host only.
func (c *Controller) StartGame(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	room, err := c.store.UpdateRoom(ctx, roomID, func(room *model.Room) error {
		if !room.IsMember(playerID) {
			return model.ErrNotInRoom
		}
		if room.Host() != playerID {
			return model.ErrNotHost
		}
		if room.GameStarted {
			return model.ErrGameInProgress
		}
		if err := checkRoster(room); err != nil {
			return err
		}
		return c.arm(room)
	})
	if err != nil {
		return nil, err
	}

	c.sessions.Begin(roomID)
	c.notifier.BroadcastSnapshot(roomID, model.SnapshotFromRoom(room, c.remainingSeconds(room)))
	c.logger.Info("game started",
		slog.String("room", string(roomID)),
		slog.Int("players", room.MemberCount()),
		slog.Int64("seed", room.MapSeed),
	)
	return room, nil
}

func checkRoster(room *model.Room) error {
	if room.Type == model.RoomTypeTournament {
		for _, team := range room.TeamOrder {
			if len(room.Teams[team]) == 0 {
				return model.ErrTeamEmpty
			}
		}
		return nil
	}
	if room.MemberCount() < 2 {
		return model.ErrNotEnoughPlayers
	}
	return nil
}

// arm seeds the session state on the room: map, spawns, facing, liveness.
// Called inside the start transaction so the map is generated exactly once
// no matter how many instances race the start.
func (c *Controller) arm(room *model.Room) error {
	members := room.Members()

	seed := c.random.Int63()
	grid := mapgen.Generate(c.cfg.GridSize, c.cfg.ObstacleProbability, seed)
	free := freeCells(grid)
	if len(free) < len(members) {
		// Vanishingly unlikely at the default obstacle probability
		return fmt.Errorf("%w: grid has %d free cells for %d players", model.ErrInvalidConfig, len(free), len(members))
	}

	room.MapSeed = seed
	room.Map = grid
	room.Positions = make(map[model.PlayerID]model.Position, len(members))
	room.Directions = make(map[model.PlayerID]model.Direction, len(members))
	room.Alive = make(map[model.PlayerID]bool, len(members))
	room.Bullets = nil
	room.Concluded = false

	for _, player := range members {
		idx := c.random.Intn(len(free))
		room.Positions[player] = free[idx]
		free[idx] = free[len(free)-1]
		free = free[:len(free)-1]

		room.Directions[player] = model.DirectionUp
		room.Alive[player] = true
	}

	now := c.clock.Now()
	room.GameStarted = true
	room.StartedAt = now
	room.UpdatedAt = now
	return nil
}

func (c *Controller) remainingSeconds(room *model.Room) int {
	if !room.GameStarted {
		return room.GameDurationSeconds
	}
	remaining := room.GameDurationSeconds - int(c.clock.Now().Sub(room.StartedAt)/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func freeCells(grid *model.Grid) []model.Position {
	cells := make([]model.Position, 0, grid.Size*grid.Size)
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			pos := model.Position{X: x, Y: y}
			if !grid.Obstacle(pos) {
				cells = append(cells, pos)
			}
		}
	}
	return cells
}

func removePlayer(players []model.PlayerID, target model.PlayerID) []model.PlayerID {
	out := players[:0]
	for _, p := range players {
		if p != target {
			out = append(out, p)
		}
	}
	return out
}
