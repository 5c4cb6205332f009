package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/avolosh/tankarena-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newRoom(id model.RoomID) *model.Room {
	return &model.Room{
		ID:                  id,
		Type:                model.RoomTypeFree,
		Capacity:            model.Capacity{PlayersCount: 4},
		Players:             []model.PlayerID{"alice"},
		Directions:          make(map[model.PlayerID]model.Direction),
		Alive:               make(map[model.PlayerID]bool),
		Positions:           make(map[model.PlayerID]model.Position),
		GameDurationSeconds: 120,
		CreatedAt:           time.Now().UTC(),
	}
}

// Room tests

func (s *StorageSuite) TestCreateAndGetRoom() {
	room := s.newRoom("abc123")

	err := s.storage.CreateRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Players, retrieved.Players)
}

func (s *StorageSuite) TestCreateRoomExists() {
	room := s.newRoom("abc123")
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))

	err := s.storage.CreateRoom(s.ctx, s.newRoom("abc123"))
	s.ErrorIs(err, model.ErrRoomExists)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomReturnsCopy() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("abc123")))

	first, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	first.Players = append(first.Players, "mallory")

	second, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice"}, second.Players)
}

func (s *StorageSuite) TestUpdateRoom() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("abc123")))

	updated, err := s.storage.UpdateRoom(s.ctx, "abc123", func(room *model.Room) error {
		room.Players = append(room.Players, "bob")
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice", "bob"}, updated.Players)

	retrieved, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice", "bob"}, retrieved.Players)
}

func (s *StorageSuite) TestUpdateRoomAbortsOnError() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("abc123")))

	boom := errors.New("boom")
	_, err := s.storage.UpdateRoom(s.ctx, "abc123", func(room *model.Room) error {
		room.Players = append(room.Players, "bob")
		return boom
	})
	s.ErrorIs(err, boom)

	retrieved, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice"}, retrieved.Players)
}

func (s *StorageSuite) TestUpdateRoomNotFound() {
	_, err := s.storage.UpdateRoom(s.ctx, "nonexistent", func(room *model.Room) error {
		return nil
	})
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestUpdateRoomConcurrentJoins() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("abc123")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.storage.UpdateRoom(s.ctx, "abc123", func(room *model.Room) error {
				room.Players = append(room.Players, "p")
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	retrieved, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Len(retrieved.Players, 21)
}

func (s *StorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("abc123")))

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "abc123"))

	exists, err := s.storage.RoomExists(s.ctx, "abc123")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestListRoomIDs() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("room-a")))
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.newRoom("room-b")))

	ids, err := s.storage.ListRoomIDs(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.RoomID{"room-a", "room-b"}, ids)
}

// Record tests

func (s *StorageSuite) TestNextMatchIDMonotonic() {
	first, err := s.storage.NextMatchID(s.ctx)
	s.Require().NoError(err)
	second, err := s.storage.NextMatchID(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.MatchID(1), first)
	s.Equal(model.MatchID(2), second)
}

func (s *StorageSuite) TestNextMatchIDConcurrentDistinct() {
	const n = 50

	ids := make(chan model.MatchID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.storage.NextMatchID(s.ctx)
			s.NoError(err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[model.MatchID]bool)
	for id := range ids {
		s.False(seen[id], "duplicate match id %d", id)
		seen[id] = true
	}
	s.Len(seen, n)
}

func (s *StorageSuite) TestSaveAndGetMatchRecord() {
	record := &model.MatchRecord{
		ID:              1,
		PlayedAt:        time.Now().UTC(),
		DurationSeconds: 95,
		Type:            model.RoomTypeFree,
		Winner:          "alice",
		Participants:    []model.PlayerID{"alice", "bob"},
	}

	s.Require().NoError(s.storage.SaveMatchRecord(s.ctx, record))

	retrieved, err := s.storage.GetMatchRecord(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Winner)
	s.Equal(record.Participants, retrieved.Participants)
}

func (s *StorageSuite) TestGetMatchRecordNotFound() {
	_, err := s.storage.GetMatchRecord(s.ctx, 99)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListMatchesForPlayerNewestFirst() {
	for i := 1; i <= 5; i++ {
		record := &model.MatchRecord{
			ID:           model.MatchID(i),
			Type:         model.RoomTypeFree,
			Participants: []model.PlayerID{"alice", "bob"},
		}
		s.Require().NoError(s.storage.SaveMatchRecord(s.ctx, record))
	}

	matches, err := s.storage.ListMatchesForPlayer(s.ctx, "alice", 3)
	s.Require().NoError(err)
	s.Require().Len(matches, 3)
	s.Equal(model.MatchID(5), matches[0].ID)
	s.Equal(model.MatchID(4), matches[1].ID)
	s.Equal(model.MatchID(3), matches[2].ID)

	none, err := s.storage.ListMatchesForPlayer(s.ctx, "mallory", 3)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StorageSuite) TestIncrementStats() {
	err := s.storage.IncrementStats(s.ctx, "alice", model.StatsDelta{Wins: 1, Kills: 3, Matches: 1})
	s.Require().NoError(err)
	err = s.storage.IncrementStats(s.ctx, "alice", model.StatsDelta{Kills: 2, Matches: 1})
	s.Require().NoError(err)

	stats, err := s.storage.GetStats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(1), stats.Wins)
	s.Equal(int64(5), stats.Kills)
	s.Equal(int64(2), stats.Matches)
}

func (s *StorageSuite) TestIncrementStatsConcurrentSums() {
	const n = 40

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.storage.IncrementStats(s.ctx, "alice", model.StatsDelta{Kills: 1, Matches: 1}))
		}()
	}
	wg.Wait()

	stats, err := s.storage.GetStats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(n), stats.Kills)
	s.Equal(int64(n), stats.Matches)
}

func (s *StorageSuite) TestGetStatsZeroForUnknownPlayer() {
	stats, err := s.storage.GetStats(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("nobody"), stats.PlayerID)
	s.Zero(stats.Wins)
	s.Zero(stats.Kills)
	s.Zero(stats.Matches)
}
