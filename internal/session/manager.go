package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avolosh/tankarena-go/internal/dependencies/clock"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/recorder"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// Manager owns the session actors, one per active room
type Manager struct {
	store    storage.RoomStore
	recorder *recorder.Recorder
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	mu       sync.RWMutex
	sessions map[model.RoomID]*Session
}

// NewManager creates a session manager
func NewManager(
	store storage.RoomStore,
	rec *recorder.Recorder,
	notifier Notifier,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		store:    store,
		recorder: rec,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[model.RoomID]*Session),
	}
}

// Begin starts a session actor for the room if one is not already running.
// The actor outlives the request that started it; it stops itself when the
// match concludes and is stopped externally on room deletion or shutdown.
func (m *Manager) Begin(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, running := m.sessions[roomID]; running {
		return
	}

	s := newSession(roomID, m.store, m.recorder, m.notifier, m.clock, m.cfg, m.logger)
	m.sessions[roomID] = s

	go func() {
		s.Run(context.Background())
		m.remove(roomID, s)
	}()
}

// Move forwards a move command to the room's session actor
func (m *Manager) Move(ctx context.Context, roomID model.RoomID, player model.PlayerID, direction model.Direction) error {
	s := m.get(roomID)
	if s == nil {
		return model.ErrGameNotStarted
	}
	return s.Move(ctx, player, direction)
}

// Shoot forwards a shoot command to the room's session actor
func (m *Manager) Shoot(ctx context.Context, roomID model.RoomID, player model.PlayerID) error {
	s := m.get(roomID)
	if s == nil {
		return model.ErrGameNotStarted
	}
	return s.Shoot(ctx, player)
}

// Running reports whether a session actor exists for the room
func (m *Manager) Running(roomID model.RoomID) bool {
	return m.get(roomID) != nil
}

// Stop ends the room's session actor, if any, without concluding the match
func (m *Manager) Stop(roomID model.RoomID) {
	if s := m.get(roomID); s != nil {
		s.Stop()
	}
}

// StopAll ends every session actor and waits for them to exit
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
		<-s.Done()
	}
}

func (m *Manager) get(roomID model.RoomID) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[roomID]
}

// remove drops the entry only if it still points at the exited session, so
// a replacement started by a play-again flow is never reaped by mistake
func (m *Manager) remove(roomID model.RoomID, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[roomID] == s {
		delete(m.sessions, roomID)
	}
}
