// Package request defines the JSON request bodies accepted by the API
package request

// CreateRoomRequest is the body for POST /rooms
type CreateRoomRequest struct {
	PlayerID        string `json:"player_id"`
	Type            string `json:"type"`
	PlayersCount    int    `json:"players_count,omitempty"`
	TeamsCount      int    `json:"teams_count,omitempty"`
	PlayersPerTeam  int    `json:"players_per_team,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// JoinRoomRequest is the body for POST /rooms/{id}/join
type JoinRoomRequest struct {
	PlayerID string `json:"player_id"`
	Team     string `json:"team,omitempty"`
}

// PlayerRequest is the body for endpoints that only identify the actor
// (leave, start, shoot)
type PlayerRequest struct {
	PlayerID string `json:"player_id"`
}

// MoveRequest is the body for POST /rooms/{id}/move
type MoveRequest struct {
	PlayerID  string `json:"player_id"`
	Direction string `json:"direction"`
}
