package response

import (
	"time"

	"github.com/avolosh/tankarena-go/internal/model"
)

// Room represents a room in API responses
type Room struct {
	ID              string              `json:"id"`
	Type            string              `json:"type"`
	Host            string              `json:"host"`
	Players         []string            `json:"players"`
	Teams           map[string][]string `json:"teams,omitempty"`
	PlayersCount    int                 `json:"players_count,omitempty"`
	TeamsCount      int                 `json:"teams_count,omitempty"`
	PlayersPerTeam  int                 `json:"players_per_team,omitempty"`
	DurationSeconds int                 `json:"duration_seconds"`
	GameStarted     bool                `json:"game_started"`
	CreatedAt       time.Time           `json:"created_at"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	out := Room{
		ID:              string(r.ID),
		Type:            string(r.Type),
		Host:            string(r.Host()),
		Players:         make([]string, 0, r.MemberCount()),
		PlayersCount:    r.Capacity.PlayersCount,
		TeamsCount:      r.Capacity.TeamsCount,
		PlayersPerTeam:  r.Capacity.PlayersPerTeam,
		DurationSeconds: r.GameDurationSeconds,
		GameStarted:     r.GameStarted,
		CreatedAt:       r.CreatedAt,
	}
	for _, p := range r.Members() {
		out.Players = append(out.Players, string(p))
	}
	if r.Type == model.RoomTypeTournament {
		out.Teams = make(map[string][]string, len(r.Teams))
		for _, team := range r.TeamOrder {
			members := make([]string, 0, len(r.Teams[team]))
			for _, p := range r.Teams[team] {
				members = append(members, string(p))
			}
			out.Teams[string(team)] = members
		}
	}
	return out
}

// Match represents a finished match in API responses
type Match struct {
	ID              int64               `json:"id"`
	PlayedAt        time.Time           `json:"played_at"`
	DurationSeconds int                 `json:"duration_seconds"`
	Type            string              `json:"type"`
	Winner          string              `json:"winner"`
	Draw            bool                `json:"draw"`
	Participants    []string            `json:"participants"`
	Teams           map[string][]string `json:"teams,omitempty"`
}

// MatchFromModel converts a model.MatchRecord to a response Match
func MatchFromModel(m *model.MatchRecord) Match {
	out := Match{
		ID:              int64(m.ID),
		PlayedAt:        m.PlayedAt,
		DurationSeconds: m.DurationSeconds,
		Type:            string(m.Type),
		Winner:          m.Winner,
		Draw:            m.Winner == "",
		Participants:    make([]string, 0, len(m.Participants)),
	}
	for _, p := range m.Participants {
		out.Participants = append(out.Participants, string(p))
	}
	if len(m.Teams) > 0 {
		out.Teams = make(map[string][]string, len(m.Teams))
		for team, members := range m.Teams {
			names := make([]string, 0, len(members))
			for _, p := range members {
				names = append(names, string(p))
			}
			out.Teams[string(team)] = names
		}
	}
	return out
}

// MatchList wraps a page of match records
type MatchList struct {
	Matches []Match `json:"matches"`
}

// MatchListFromModels converts match records to a response MatchList
func MatchListFromModels(records []*model.MatchRecord) MatchList {
	out := MatchList{Matches: make([]Match, 0, len(records))}
	for _, m := range records {
		out.Matches = append(out.Matches, MatchFromModel(m))
	}
	return out
}

// Stats represents cumulative player statistics in API responses
type Stats struct {
	PlayerID string `json:"player_id"`
	Wins     int64  `json:"wins"`
	Kills    int64  `json:"kills"`
	Matches  int64  `json:"matches"`
}

// StatsFromModel converts model.PlayerStats to a response Stats
func StatsFromModel(s *model.PlayerStats) Stats {
	return Stats{
		PlayerID: string(s.PlayerID),
		Wins:     s.Wins,
		Kills:    s.Kills,
		Matches:  s.Matches,
	}
}
