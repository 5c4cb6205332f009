package postgres

import (
	"time"
)

// matchRow is the persisted form of a match history record. Participants and
// teams are stored as JSON since they are only ever read back whole.
type matchRow struct {
	ID              int64 `gorm:"primaryKey"`
	PlayedAt        time.Time
	DurationSeconds int
	Type            string `gorm:"size:16;not null"`
	Winner          string `gorm:"size:128"`
	Participants    []byte `gorm:"type:jsonb"`
	Teams           []byte `gorm:"type:jsonb"`
}

func (matchRow) TableName() string { return "matches" }

// matchParticipantRow indexes matches by participant for history lookups
type matchParticipantRow struct {
	MatchID  int64  `gorm:"primaryKey;autoIncrement:false"`
	PlayerID string `gorm:"primaryKey;size:128;index"`
}

func (matchParticipantRow) TableName() string { return "match_participants" }

// playerStatsRow is the durable per-player aggregate
type playerStatsRow struct {
	PlayerID string `gorm:"primaryKey;size:128"`
	Wins     int64  `gorm:"not null;default:0"`
	Kills    int64  `gorm:"not null;default:0"`
	Matches  int64  `gorm:"not null;default:0"`
}

func (playerStatsRow) TableName() string { return "player_stats" }

// counterRow backs the global match id counter
type counterRow struct {
	Name   string `gorm:"primaryKey;size:32"`
	LastID int64  `gorm:"not null;default:0"`
}

func (counterRow) TableName() string { return "counters" }

const matchCounterName = "match_id"
