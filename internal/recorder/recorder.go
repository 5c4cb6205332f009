// Package recorder persists the outcome of concluded matches: one immutable
// history record plus cumulative statistics increments for every participant.
package recorder

import (
	"context"
	"log/slog"

	"github.com/avolosh/tankarena-go/internal/dependencies/clock"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// Outcome describes how a session ended. Winner is a player id (free), a
// team name (tournament), or empty for a draw. WinnerPlayers lists everyone
// credited with a win; it is empty for draws.
type Outcome struct {
	Winner          string
	WinnerPlayers   []model.PlayerID
	Kills           map[model.PlayerID]int
	DurationSeconds int
}

// Recorder writes match history and player statistics
type Recorder struct {
	records storage.RecordStore
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new Recorder
func New(records storage.RecordStore, clock clock.Clock, logger *slog.Logger) *Recorder {
	return &Recorder{
		records: records,
		clock:   clock,
		logger:  logger.With(slog.String("component", "recorder")),
	}
}

// RecordMatch allocates a fresh match id, writes the history record once,
// and applies atomic statistics increments for every participant. The match
// id counter and the per-player increments are atomic in the store, so
// simultaneously concluding sessions get distinct ids and overlapping
// participants keep both sets of increments.
func (r *Recorder) RecordMatch(ctx context.Context, room *model.Room, outcome Outcome) (model.MatchID, error) {
	id, err := r.records.NextMatchID(ctx)
	if err != nil {
		return 0, err
	}

	record := &model.MatchRecord{
		ID:              id,
		PlayedAt:        r.clock.Now(),
		DurationSeconds: outcome.DurationSeconds,
		Type:            room.Type,
		Winner:          outcome.Winner,
		Participants:    room.Members(),
	}
	if room.Type == model.RoomTypeTournament {
		record.Teams = make(map[model.TeamName][]model.PlayerID, len(room.Teams))
		for name, players := range room.Teams {
			record.Teams[name] = append([]model.PlayerID(nil), players...)
		}
	}

	if err := r.records.SaveMatchRecord(ctx, record); err != nil {
		return 0, err
	}

	winners := make(map[model.PlayerID]bool, len(outcome.WinnerPlayers))
	for _, p := range outcome.WinnerPlayers {
		winners[p] = true
	}

	for _, playerID := range record.Participants {
		delta := model.StatsDelta{
			Kills:   int64(outcome.Kills[playerID]),
			Matches: 1,
		}
		if winners[playerID] {
			delta.Wins = 1
		}
		// A failed increment for one player should not lose the others'
		if err := r.records.IncrementStats(ctx, playerID, delta); err != nil {
			r.logger.Error("failed to increment player stats",
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
		}
	}

	r.logger.Info("match recorded",
		slog.Int64("match_id", int64(id)),
		slog.String("type", string(room.Type)),
		slog.String("winner", outcome.Winner),
		slog.Int("participants", len(record.Participants)),
	)

	return id, nil
}
