package recorder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolosh/tankarena-go/internal/dependencies/mocks"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage/memory"
	"github.com/avolosh/tankarena-go/internal/testutil"
)

func newRecorder(t *testing.T) (*Recorder, *memory.Storage, *mocks.MockClock) {
	t.Helper()
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(store, clk, testutil.NopLogger()), store, clk
}

func freeRoom(players ...model.PlayerID) *model.Room {
	return &model.Room{
		ID:      "battle",
		Type:    model.RoomTypeFree,
		Players: players,
	}
}

func TestRecordMatch(t *testing.T) {
	rec, store, clk := newRecorder(t)
	ctx := context.Background()

	id, err := rec.RecordMatch(ctx, freeRoom("alice", "bob", "carol"), Outcome{
		Winner:          "alice",
		WinnerPlayers:   []model.PlayerID{"alice"},
		Kills:           map[model.PlayerID]int{"alice": 2},
		DurationSeconds: 73,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MatchID(1), id)

	match, err := store.GetMatchRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", match.Winner)
	assert.Equal(t, 73, match.DurationSeconds)
	assert.Equal(t, clk.Now(), match.PlayedAt)
	assert.Equal(t, []model.PlayerID{"alice", "bob", "carol"}, match.Participants)
	assert.Nil(t, match.Teams)

	alice, err := store.GetStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.Wins)
	assert.Equal(t, int64(2), alice.Kills)
	assert.Equal(t, int64(1), alice.Matches)

	bob, err := store.GetStats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bob.Wins)
	assert.Equal(t, int64(1), bob.Matches)
}

func TestRecordMatchTournamentTeams(t *testing.T) {
	rec, store, _ := newRecorder(t)
	ctx := context.Background()

	room := &model.Room{
		ID:   "battle",
		Type: model.RoomTypeTournament,
		Teams: map[model.TeamName][]model.PlayerID{
			"team-1": {"alice", "bob"},
			"team-2": {"carol", "dave"},
		},
		TeamOrder: []model.TeamName{"team-1", "team-2"},
	}

	id, err := rec.RecordMatch(ctx, room, Outcome{
		Winner:        "team-1",
		WinnerPlayers: []model.PlayerID{"alice", "bob"},
	})
	require.NoError(t, err)

	match, err := store.GetMatchRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RoomTypeTournament, match.Type)
	assert.Equal(t, room.Teams, match.Teams)

	for _, p := range []model.PlayerID{"alice", "bob"} {
		stats, err := store.GetStats(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Wins, string(p))
	}
	for _, p := range []model.PlayerID{"carol", "dave"} {
		stats, err := store.GetStats(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Wins, string(p))
		assert.Equal(t, int64(1), stats.Matches, string(p))
	}
}

func TestRecordMatchDraw(t *testing.T) {
	rec, store, _ := newRecorder(t)
	ctx := context.Background()

	_, err := rec.RecordMatch(ctx, freeRoom("alice", "bob"), Outcome{DurationSeconds: 120})
	require.NoError(t, err)

	for _, p := range []model.PlayerID{"alice", "bob"} {
		stats, err := store.GetStats(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Wins, string(p))
		assert.Equal(t, int64(1), stats.Matches, string(p))
	}
}

func TestRecordMatchConcurrentDistinctIDs(t *testing.T) {
	rec, store, _ := newRecorder(t)
	ctx := context.Background()

	const n = 25
	ids := make(chan model.MatchID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := rec.RecordMatch(ctx, freeRoom("alice", "bob"), Outcome{
				Winner:        "alice",
				WinnerPlayers: []model.PlayerID{"alice"},
			})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[model.MatchID]bool)
	for id := range ids {
		assert.False(t, seen[id], "match id reused")
		seen[id] = true
	}
	assert.Len(t, seen, n)

	stats, err := store.GetStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(n), stats.Wins)
	assert.Equal(t, int64(n), stats.Matches)
}

func TestRecordMatchHistoryListing(t *testing.T) {
	rec, store, _ := newRecorder(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := rec.RecordMatch(ctx, freeRoom("alice", "bob"), Outcome{
			Winner:        "bob",
			WinnerPlayers: []model.PlayerID{"bob"},
		})
		require.NoError(t, err)
	}

	matches, err := store.ListMatchesForPlayer(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, model.MatchID(3), matches[0].ID)
	assert.Equal(t, model.MatchID(2), matches[1].ID)
}
