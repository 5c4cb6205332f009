// Package session runs the active phase of a room: one goroutine per started
// room owns every mutation (moves, shots, bullet ticks, win detection), which
// restores the invariants the optimistic multi-writer design could not keep.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avolosh/tankarena-go/internal/dependencies/clock"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/recorder"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// Notifier fans room state changes out to subscribers
type Notifier interface {
	BroadcastSnapshot(roomID model.RoomID, snap *model.Snapshot)
	CloseRoom(roomID model.RoomID)
}

// Config holds session timing settings
type Config struct {
	// TickInterval is the fixed interval between bullet ticks
	TickInterval time.Duration
}

// DefaultConfig returns the default session configuration
func DefaultConfig() Config {
	return Config{
		TickInterval: 300 * time.Millisecond,
	}
}

// errSkipTick aborts a tick transaction that has nothing to do
var errSkipTick = errors.New("tick skipped")

type commandKind int

const (
	commandMove commandKind = iota
	commandShoot
)

type command struct {
	kind      commandKind
	player    model.PlayerID
	direction model.Direction
	reply     chan error
}

// Session is the authoritative actor for one active room
type Session struct {
	roomID   model.RoomID
	store    storage.RoomStore
	recorder *recorder.Recorder
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	commands chan command
	stop     chan struct{}
	stopped  chan struct{}

	// kills is the per-session in-memory counter; it is only committed to
	// durable statistics when the match concludes
	kills map[model.PlayerID]int
}

func newSession(
	roomID model.RoomID,
	store storage.RoomStore,
	rec *recorder.Recorder,
	notifier Notifier,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Session {
	return &Session{
		roomID:   roomID,
		store:    store,
		recorder: rec,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With(slog.String("room", string(roomID))),
		cfg:      cfg,
		commands: make(chan command),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
		kills:    make(map[model.PlayerID]int),
	}
}

// Run drives the session until the room concludes, the room is deleted, or
// the context is cancelled. All mutations are serialized through this loop.
func (s *Session) Run(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.logger.Info("session started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case cmd := <-s.commands:
			cmd.reply <- s.handle(ctx, cmd)
		case <-ticker.C:
			if done := s.tick(ctx); done {
				return
			}
		}
	}
}

// Stop ends the session loop
func (s *Session) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// Done returns a channel closed when the session loop has exited
func (s *Session) Done() <-chan struct{} {
	return s.stopped
}

// Move requests a one-cell move for the player
func (s *Session) Move(ctx context.Context, player model.PlayerID, direction model.Direction) error {
	return s.send(ctx, command{kind: commandMove, player: player, direction: direction})
}

// Shoot spawns a bullet at the player's cell in their facing direction
func (s *Session) Shoot(ctx context.Context, player model.PlayerID) error {
	return s.send(ctx, command{kind: commandShoot, player: player})
}

func (s *Session) send(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case s.commands <- cmd:
	case <-s.stopped:
		return model.ErrGameNotStarted
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) handle(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case commandMove:
		return s.applyMove(ctx, cmd.player, cmd.direction)
	case commandShoot:
		return s.applyShoot(ctx, cmd.player)
	}
	return nil
}

// applyMove shifts the player one cell, clamped to grid bounds. Obstacle or
// occupied destinations block the move silently; facing always updates.
func (s *Session) applyMove(ctx context.Context, player model.PlayerID, direction model.Direction) error {
	room, err := s.store.UpdateRoom(ctx, s.roomID, func(room *model.Room) error {
		if !room.GameStarted || room.Map == nil {
			return model.ErrGameNotStarted
		}
		if !room.IsMember(player) {
			return model.ErrNotInRoom
		}
		if !room.Alive[player] {
			return errSkipTick
		}
		pos, ok := room.Positions[player]
		if !ok {
			return errSkipTick
		}

		room.Directions[player] = direction
		room.UpdatedAt = s.clock.Now()

		dest := clampToGrid(direction.Step(pos), room.Map.Size)
		if dest == pos {
			// Moving off-grid is a facing change, not an error
			return nil
		}
		if room.Map.Obstacle(dest) {
			return nil
		}
		if _, occupied := room.OccupantAt(dest); occupied {
			return nil
		}

		room.Positions[player] = dest
		return nil
	})
	if errors.Is(err, errSkipTick) {
		// Dead or unplaced players' moves are ignored, not failed
		return nil
	}
	if err != nil {
		return err
	}

	s.broadcast(room)
	return nil
}

func (s *Session) applyShoot(ctx context.Context, player model.PlayerID) error {
	room, err := s.store.UpdateRoom(ctx, s.roomID, func(room *model.Room) error {
		if !room.GameStarted || room.Map == nil {
			return model.ErrGameNotStarted
		}
		if !room.IsMember(player) {
			return model.ErrNotInRoom
		}
		if !room.Alive[player] {
			return errSkipTick
		}
		pos, ok := room.Positions[player]
		if !ok {
			return errSkipTick
		}

		direction, ok := room.Directions[player]
		if !ok {
			direction = model.DirectionUp
		}

		room.Bullets = append(room.Bullets, model.Bullet{
			Owner:     player,
			Position:  pos,
			Direction: direction,
		})
		room.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, errSkipTick) {
		return nil
	}
	if err != nil {
		return err
	}

	s.broadcast(room)
	return nil
}

// tick advances every bullet one cell, resolves hits, and evaluates the win
// condition. It reports true when the session has concluded and the loop
// should exit. A failed tick is logged and retried at the next interval.
func (s *Session) tick(ctx context.Context) bool {
	var killed []killEvent

	room, err := s.store.UpdateRoom(ctx, s.roomID, func(room *model.Room) error {
		killed = nil
		if !room.GameStarted || room.Concluded || room.Map == nil {
			return errSkipTick
		}
		killed = advanceBullets(room)
		room.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, errSkipTick) {
		return false
	}
	if errors.Is(err, model.ErrRoomNotFound) {
		// Room was deleted out from under the session
		s.logger.Info("room gone, stopping session")
		return true
	}
	if err != nil {
		s.logger.Warn("tick failed, will retry", slog.String("error", err.Error()))
		return false
	}

	for _, kill := range killed {
		s.kills[kill.killer]++
		s.logger.Info("kill",
			slog.String("killer", string(kill.killer)),
			slog.String("victim", string(kill.victim)),
		)
	}

	s.broadcast(room)

	if winner, winners, terminal := evaluateWinner(room); terminal {
		return s.conclude(ctx, room, winner, winners)
	}
	if s.remainingSeconds(room) <= 0 {
		// Countdown expired with no winner: the match is a draw
		return s.conclude(ctx, room, "", nil)
	}
	return false
}

// conclude records the match outcome exactly once and resets the room to the
// lobby phase for the play-again flow. The Concluded flag is flipped with a
// compare-and-set so a racing concluder loses cleanly.
func (s *Session) conclude(ctx context.Context, room *model.Room, winner string, winnerPlayers []model.PlayerID) bool {
	_, err := s.store.UpdateRoom(ctx, s.roomID, func(r *model.Room) error {
		if r.Concluded || !r.GameStarted {
			return model.ErrAlreadyConcluded
		}
		r.Concluded = true
		r.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, model.ErrAlreadyConcluded) {
		// Another writer already took the conclusion path
		return true
	}
	if err != nil {
		s.logger.Error("failed to mark session concluded", slog.String("error", err.Error()))
		return false
	}

	outcome := recorder.Outcome{
		Winner:          winner,
		WinnerPlayers:   winnerPlayers,
		Kills:           s.kills,
		DurationSeconds: int(s.clock.Now().Sub(room.StartedAt) / time.Second),
	}
	if _, err := s.recorder.RecordMatch(ctx, room, outcome); err != nil {
		// History is best-effort once concluded; the session still resets
		s.logger.Error("failed to record match", slog.String("error", err.Error()))
	}

	reset, err := s.store.UpdateRoom(ctx, s.roomID, func(r *model.Room) error {
		r.ResetSession()
		r.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		s.logger.Error("failed to reset room", slog.String("error", err.Error()))
	} else {
		s.broadcast(reset)
	}

	s.logger.Info("session concluded", slog.String("winner", winner))
	return true
}

func (s *Session) broadcast(room *model.Room) {
	s.notifier.BroadcastSnapshot(s.roomID, model.SnapshotFromRoom(room, s.remainingSeconds(room)))
}

func (s *Session) remainingSeconds(room *model.Room) int {
	if !room.GameStarted {
		return room.GameDurationSeconds
	}
	elapsed := int(s.clock.Now().Sub(room.StartedAt) / time.Second)
	remaining := room.GameDurationSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func clampToGrid(pos model.Position, size int) model.Position {
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.X >= size {
		pos.X = size - 1
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	if pos.Y >= size {
		pos.Y = size - 1
	}
	return pos
}
