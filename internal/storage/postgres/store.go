// Package postgres provides a GORM-backed RecordStore for deployments that
// want match history and player statistics in a relational database while
// room state stays in Redis or memory.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// Store is a PostgreSQL-backed implementation of storage.RecordStore
type Store struct {
	db *gorm.DB
}

// Ensure Store implements the interface
var _ storage.RecordStore = (*Store)(nil)

// New connects to PostgreSQL and migrates the record schema
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing GORM handle (for testing)
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&matchRow{}, &matchParticipantRow{}, &playerStatsRow{}, &counterRow{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) NextMatchID(ctx context.Context) (model.MatchID, error) {
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter counterRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", matchCounterName).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = counterRow{Name: matchCounterName}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		counter.LastID++
		next = counter.LastID
		return tx.Model(&counterRow{}).
			Where("name = ?", matchCounterName).
			Update("last_id", counter.LastID).Error
	})
	if err != nil {
		return 0, err
	}
	return model.MatchID(next), nil
}

func (s *Store) SaveMatchRecord(ctx context.Context, record *model.MatchRecord) error {
	participants, err := json.Marshal(record.Participants)
	if err != nil {
		return err
	}
	var teams []byte
	if record.Teams != nil {
		teams, err = json.Marshal(record.Teams)
		if err != nil {
			return err
		}
	}

	row := matchRow{
		ID:              int64(record.ID),
		PlayedAt:        record.PlayedAt,
		DurationSeconds: record.DurationSeconds,
		Type:            string(record.Type),
		Winner:          record.Winner,
		Participants:    participants,
		Teams:           teams,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, playerID := range record.Participants {
			idx := matchParticipantRow{MatchID: row.ID, PlayerID: string(playerID)}
			if err := tx.Create(&idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetMatchRecord(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	var row matchRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", int64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return recordFromRow(&row)
}

func (s *Store) ListMatchesForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.MatchRecord, error) {
	query := s.db.WithContext(ctx).
		Joins("JOIN match_participants ON match_participants.match_id = matches.id").
		Where("match_participants.player_id = ?", string(playerID)).
		Order("matches.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []matchRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]*model.MatchRecord, 0, len(rows))
	for i := range rows {
		record, err := recordFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// IncrementStats applies an atomic additive update so concurrent session
// conclusions for the same player both land.
func (s *Store) IncrementStats(ctx context.Context, playerID model.PlayerID, delta model.StatsDelta) error {
	row := playerStatsRow{
		PlayerID: string(playerID),
		Wins:     delta.Wins,
		Kills:    delta.Kills,
		Matches:  delta.Matches,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"wins":    gorm.Expr("player_stats.wins + ?", delta.Wins),
			"kills":   gorm.Expr("player_stats.kills + ?", delta.Kills),
			"matches": gorm.Expr("player_stats.matches + ?", delta.Matches),
		}),
	}).Create(&row).Error
}

func (s *Store) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	var row playerStatsRow
	err := s.db.WithContext(ctx).First(&row, "player_id = ?", string(playerID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.PlayerStats{PlayerID: playerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.PlayerStats{
		PlayerID: playerID,
		Wins:     row.Wins,
		Kills:    row.Kills,
		Matches:  row.Matches,
	}, nil
}

func recordFromRow(row *matchRow) (*model.MatchRecord, error) {
	record := &model.MatchRecord{
		ID:              model.MatchID(row.ID),
		PlayedAt:        row.PlayedAt,
		DurationSeconds: row.DurationSeconds,
		Type:            model.RoomType(row.Type),
		Winner:          row.Winner,
	}
	if len(row.Participants) > 0 {
		if err := json.Unmarshal(row.Participants, &record.Participants); err != nil {
			return nil, err
		}
	}
	if len(row.Teams) > 0 {
		if err := json.Unmarshal(row.Teams, &record.Teams); err != nil {
			return nil, err
		}
	}
	return record, nil
}
