package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/avolosh/tankarena-go/internal/dependencies/mocks"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage/memory"
	"github.com/avolosh/tankarena-go/internal/testutil"
)

type fakeSessions struct {
	begun   []model.RoomID
	stopped []model.RoomID
}

func (f *fakeSessions) Begin(roomID model.RoomID) { f.begun = append(f.begun, roomID) }
func (f *fakeSessions) Stop(roomID model.RoomID)  { f.stopped = append(f.stopped, roomID) }

type fakeNotifier struct {
	snapshots []*model.Snapshot
	closed    []model.RoomID
}

func (f *fakeNotifier) BroadcastSnapshot(roomID model.RoomID, snap *model.Snapshot) {
	f.snapshots = append(f.snapshots, snap)
}

func (f *fakeNotifier) CloseRoom(roomID model.RoomID) { f.closed = append(f.closed, roomID) }

// collidingStore reports every room id as taken
type collidingStore struct {
	*memory.Storage
	attempts int
}

func (c *collidingStore) CreateRoom(ctx context.Context, room *model.Room) error {
	c.attempts++
	return model.ErrRoomExists
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	sessions   *fakeSessions
	notifier   *fakeNotifier
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.sessions = &fakeSessions{}
	s.notifier = &fakeNotifier{}
	s.controller = NewController(
		s.storage, s.sessions, s.notifier,
		s.clock, s.random, DefaultConfig(), testutil.NopLogger(),
	)
	s.ctx = context.Background()
}

func (s *ControllerSuite) createFreeRoom(players int) *model.Room {
	room, err := s.controller.CreateRoom(s.ctx, CreateConfig{
		Type:     model.RoomTypeFree,
		Capacity: model.Capacity{PlayersCount: players},
	}, "alice")
	s.Require().NoError(err)
	return room
}

func (s *ControllerSuite) createTournamentRoom() *model.Room {
	room, err := s.controller.CreateRoom(s.ctx, CreateConfig{
		Type:     model.RoomTypeTournament,
		Capacity: model.Capacity{TeamsCount: 2, PlayersPerTeam: 2},
	}, "alice")
	s.Require().NoError(err)
	return room
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateFreeRoom() {
	room := s.createFreeRoom(4)

	s.Len(string(room.ID), roomIDLength)
	s.Equal(model.RoomTypeFree, room.Type)
	s.Equal([]model.PlayerID{"alice"}, room.Players)
	s.Equal(model.PlayerID("alice"), room.Host())
	s.Equal(120, room.GameDurationSeconds)

	stored, err := s.storage.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, stored.ID)
}

func (s *ControllerSuite) TestCreateTournamentRoomSeedsTeams() {
	room := s.createTournamentRoom()

	s.Equal([]model.TeamName{"team-1", "team-2"}, room.TeamOrder)
	s.Equal([]model.PlayerID{"alice"}, room.Teams["team-1"])
	s.Empty(room.Teams["team-2"])
	s.Equal(model.PlayerID("alice"), room.Host())
}

func (s *ControllerSuite) TestCreateRoomCustomDuration() {
	room, err := s.controller.CreateRoom(s.ctx, CreateConfig{
		Type:            model.RoomTypeFree,
		Capacity:        model.Capacity{PlayersCount: 2},
		DurationSeconds: 45,
	}, "alice")
	s.Require().NoError(err)
	s.Equal(45, room.GameDurationSeconds)
}

func (s *ControllerSuite) TestCreateRoomValidation() {
	cases := []struct {
		name    string
		cfg     CreateConfig
		creator model.PlayerID
	}{
		{"no creator", CreateConfig{Type: model.RoomTypeFree, Capacity: model.Capacity{PlayersCount: 2}}, ""},
		{"unknown type", CreateConfig{Type: "ranked", Capacity: model.Capacity{PlayersCount: 2}}, "alice"},
		{"free too small", CreateConfig{Type: model.RoomTypeFree, Capacity: model.Capacity{PlayersCount: 1}}, "alice"},
		{"single team", CreateConfig{Type: model.RoomTypeTournament, Capacity: model.Capacity{TeamsCount: 1, PlayersPerTeam: 2}}, "alice"},
		{"empty teams", CreateConfig{Type: model.RoomTypeTournament, Capacity: model.Capacity{TeamsCount: 2}}, "alice"},
		{"negative duration", CreateConfig{Type: model.RoomTypeFree, Capacity: model.Capacity{PlayersCount: 2}, DurationSeconds: -5}, "alice"},
	}

	for _, tc := range cases {
		_, err := s.controller.CreateRoom(s.ctx, tc.cfg, tc.creator)
		s.ErrorIs(err, model.ErrInvalidConfig, tc.name)
	}
}

func (s *ControllerSuite) TestCreateRoomExpiredContext() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := s.controller.CreateRoom(ctx, CreateConfig{
		Type:     model.RoomTypeFree,
		Capacity: model.Capacity{PlayersCount: 2},
	}, "alice")
	s.ErrorIs(err, model.ErrCreateTimeout)
}

func (s *ControllerSuite) TestCreateRoomCollisionStormHitsDeadline() {
	store := &collidingStore{Storage: memory.New()}
	cfg := DefaultConfig()
	cfg.CreateTimeout = 20 * time.Millisecond
	ctrl := NewController(store, s.sessions, s.notifier, s.clock, s.random, cfg, testutil.NopLogger())

	_, err := ctrl.CreateRoom(s.ctx, CreateConfig{
		Type:     model.RoomTypeFree,
		Capacity: model.Capacity{PlayersCount: 2},
	}, "alice")
	s.ErrorIs(err, model.ErrCreateTimeout)
	s.Greater(store.attempts, 1)
}

// JoinRoom tests

func (s *ControllerSuite) TestJoinRoom() {
	room := s.createFreeRoom(4)

	joined, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice", "bob"}, joined.Players)
	s.NotEmpty(s.notifier.snapshots)
}

func (s *ControllerSuite) TestJoinRoomIdempotent() {
	room := s.createFreeRoom(2)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)

	joined, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice", "bob"}, joined.Players)
}

func (s *ControllerSuite) TestJoinRoomFull() {
	room := s.createFreeRoom(2)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "carol", "")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ControllerSuite) TestJoinRoomNotFound() {
	_, err := s.controller.JoinRoom(s.ctx, "nonexistent", "bob", "")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestJoinTournamentTeam() {
	room := s.createTournamentRoom()

	joined, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "team-2")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"bob"}, joined.Teams["team-2"])
}

func (s *ControllerSuite) TestJoinTournamentTeamNotFound() {
	room := s.createTournamentRoom()

	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "team-9")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

func (s *ControllerSuite) TestJoinTournamentTeamFull() {
	room := s.createTournamentRoom()
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "team-1")
	s.Require().NoError(err)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "carol", "team-1")
	s.ErrorIs(err, model.ErrTeamFull)
}

func (s *ControllerSuite) TestJoinRoomGameInProgress() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, room.ID, "alice")
	s.Require().NoError(err)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "carol", "")
	s.ErrorIs(err, model.ErrGameInProgress)

	// Members can still re-join idempotently mid-game
	_, err = s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.NoError(err)
}

// LeaveRoom tests

func (s *ControllerSuite) TestLeaveRoom() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveRoom(s.ctx, room.ID, "alice"))

	stored, err := s.storage.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"bob"}, stored.Players)
	// Host role passes to the next earliest member
	s.Equal(model.PlayerID("bob"), stored.Host())
}

func (s *ControllerSuite) TestLeaveRoomNotMember() {
	room := s.createFreeRoom(4)

	err := s.controller.LeaveRoom(s.ctx, room.ID, "mallory")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ControllerSuite) TestLeaveLastMemberDeletesRoom() {
	room := s.createFreeRoom(4)

	s.Require().NoError(s.controller.LeaveRoom(s.ctx, room.ID, "alice"))

	exists, err := s.storage.RoomExists(s.ctx, room.ID)
	s.Require().NoError(err)
	s.False(exists)
	s.Equal([]model.RoomID{room.ID}, s.sessions.stopped)
	s.Equal([]model.RoomID{room.ID}, s.notifier.closed)
}

func (s *ControllerSuite) TestLeaveDuringGameRemovesFromPlay() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, room.ID, "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveRoom(s.ctx, room.ID, "bob"))

	stored, err := s.storage.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.False(stored.IsMember("bob"))
	s.NotContains(stored.Positions, model.PlayerID("bob"))
	s.NotContains(stored.Alive, model.PlayerID("bob"))
}

// StartGame tests

func (s *ControllerSuite) TestStartGame() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)

	started, err := s.controller.StartGame(s.ctx, room.ID, "alice")
	s.Require().NoError(err)

	s.True(started.GameStarted)
	s.Require().NotNil(started.Map)
	s.Equal(DefaultConfig().GridSize, started.Map.Size)
	s.Equal(s.clock.Now(), started.StartedAt)
	s.Equal([]model.RoomID{room.ID}, s.sessions.begun)

	// Every member gets a distinct free spawn cell, facing up, alive
	seen := make(map[model.Position]bool)
	for _, p := range started.Members() {
		s.True(started.Alive[p])
		s.Equal(model.DirectionUp, started.Directions[p])

		pos, ok := started.Positions[p]
		s.Require().True(ok)
		s.False(started.Map.Obstacle(pos))
		s.False(seen[pos], "spawn cell reused")
		seen[pos] = true
	}
}

func (s *ControllerSuite) TestStartGameNotHost() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, room.ID, "bob")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestStartGameNotMember() {
	room := s.createFreeRoom(4)

	_, err := s.controller.StartGame(s.ctx, room.ID, "mallory")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ControllerSuite) TestStartGameNotEnoughPlayers() {
	room := s.createFreeRoom(4)

	_, err := s.controller.StartGame(s.ctx, room.ID, "alice")
	s.ErrorIs(err, model.ErrNotEnoughPlayers)
}

func (s *ControllerSuite) TestStartGameTeamEmpty() {
	room := s.createTournamentRoom()

	_, err := s.controller.StartGame(s.ctx, room.ID, "alice")
	s.ErrorIs(err, model.ErrTeamEmpty)
}

func (s *ControllerSuite) TestStartGameAlreadyStarted() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, room.ID, "alice")
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, room.ID, "alice")
	s.ErrorIs(err, model.ErrGameInProgress)
}

// Snapshot tests

func (s *ControllerSuite) TestSnapshotLobby() {
	room := s.createFreeRoom(4)

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.PhaseLobby, snap.Phase)
	s.Equal(room.GameDurationSeconds, snap.RemainingSeconds)
}

func (s *ControllerSuite) TestSnapshotActiveCountdown() {
	room := s.createFreeRoom(4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "bob", "")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, room.ID, "alice")
	s.Require().NoError(err)

	s.clock.Advance(30 * time.Second)

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.PhaseActive, snap.Phase)
	s.Equal(90, snap.RemainingSeconds)
	s.NotNil(snap.Map)
}

func (s *ControllerSuite) TestSnapshotMapWaitUsesInjectedClock() {
	now := s.clock.Now()
	err := s.storage.CreateRoom(s.ctx, &model.Room{
		ID:                  "battle",
		Type:                model.RoomTypeFree,
		Players:             []model.PlayerID{"alice", "bob"},
		GameDurationSeconds: 120,
		GameStarted:         true,
		StartedAt:           now,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	s.Require().NoError(err)

	// No map ever lands, so the wait runs to its deadline. Each poll
	// advances the mock clock, which proves the wait reads injected time.
	_, err = s.controller.Snapshot(s.ctx, "battle")
	s.ErrorIs(err, model.ErrMapNotReady)
	s.True(s.clock.Now().After(now.Add(DefaultConfig().MapWaitTimeout)))
}
