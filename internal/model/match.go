package model

import "time"

// MatchID is a strictly increasing global match identifier
type MatchID int64

// MatchRecord is the immutable record of a concluded match.
// Winner is a player id for free rooms, a team name for tournament rooms,
// and empty when the match ended in a draw.
type MatchRecord struct {
	ID              MatchID
	PlayedAt        time.Time
	DurationSeconds int
	Type            RoomType
	Winner          string
	Participants    []PlayerID
	Teams           map[TeamName][]PlayerID // tournament rooms only
}

// PlayerStats is the durable cumulative aggregate for one player
type PlayerStats struct {
	PlayerID PlayerID
	Wins     int64
	Kills    int64
	Matches  int64
}

// StatsDelta is an atomic increment applied to a player's statistics at
// session end
type StatsDelta struct {
	Wins    int64
	Kills   int64
	Matches int64
}
