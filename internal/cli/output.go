package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case Snapshot:
		o.printSnapshot(v)
	case Match:
		o.printMatch(v)
	case MatchList:
		o.printMatchList(v)
	case Stats:
		o.printStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		o.printJSON(data)
	}
}

// Room mirrors the API's room response
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
}

// Position mirrors a grid coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid mirrors the obstacle grid
type Grid struct {
	Size      int    `json:"size"`
	Obstacles []bool `json:"obstacles"`
}

// Bullet mirrors an in-flight bullet
type Bullet struct {
	Owner     string   `json:"owner"`
	Position  Position `json:"position"`
	Direction string   `json:"direction"`
}

// Snapshot mirrors the API's room snapshot
type Snapshot struct {
	RoomID           string              `json:"room_id"`
	Type             string              `json:"type"`
	Phase            string              `json:"phase"`
	Host             string              `json:"host"`
	Players          []string            `json:"players"`
	Teams            map[string][]string `json:"teams,omitempty"`
	Map              *Grid               `json:"map,omitempty"`
	Positions        map[string]Position `json:"positions,omitempty"`
	Directions       map[string]string   `json:"directions,omitempty"`
	Alive            map[string]bool     `json:"alive,omitempty"`
	Bullets          []Bullet            `json:"bullets,omitempty"`
	GameStarted      bool                `json:"game_started"`
	RemainingSeconds int                 `json:"remaining_seconds"`
}

// Match mirrors the API's match record response
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

// MatchList mirrors the API's match list response
type MatchList struct {
	Matches []Match `json:"matches"`
}

// Stats mirrors the API's player statistics response
type Stats struct {
	PlayerID string `json:"player_id"`
	Wins     int64  `json:"wins"`
	Kills    int64  `json:"kills"`
	Matches  int64  `json:"matches"`
}

// HealthResult mirrors the API's health response
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s (%s)\n", r.ID, r.Type)
	fmt.Printf("Host: %s\n", r.Host)
	fmt.Printf("Duration: %ds\n", r.DurationSeconds)
	if r.GameStarted {
		fmt.Println("Game: in progress")
	} else {
		fmt.Println("Game: waiting in lobby")
	}

	if len(r.Teams) > 0 {
		fmt.Println("Teams:")
		for _, team := range sortedKeys(r.Teams) {
			fmt.Printf("  %s (%d/%d): %s\n", team, len(r.Teams[team]), r.PlayersPerTeam, strings.Join(r.Teams[team], ", "))
		}
	} else {
		fmt.Printf("Players (%d/%d): %s\n", len(r.Players), r.PlayersCount, strings.Join(r.Players, ", "))
	}
}

func (o *Output) printSnapshot(s Snapshot) {
	fmt.Printf("Room: %s (%s, %s)\n", s.RoomID, s.Type, s.Phase)
	fmt.Printf("Host: %s\n", s.Host)

	if len(s.Teams) > 0 {
		fmt.Println("Teams:")
		for _, team := range sortedKeys(s.Teams) {
			fmt.Printf("  %s: %s\n", team, strings.Join(s.Teams[team], ", "))
		}
	} else {
		fmt.Printf("Players: %s\n", strings.Join(s.Players, ", "))
	}

	if !s.GameStarted {
		return
	}

	fmt.Printf("Time remaining: %ds\n", s.RemainingSeconds)
	for _, p := range s.Players {
		status := "alive"
		if !s.Alive[p] {
			status = "dead"
			fmt.Printf("  %s: %s\n", p, status)
			continue
		}
		pos := s.Positions[p]
		fmt.Printf("  %s: %s at (%d,%d) facing %s\n", p, status, pos.X, pos.Y, s.Directions[p])
	}

	if s.Map != nil {
		fmt.Println()
		o.printGrid(s)
	}
}

// printGrid renders the battle grid: '#' obstacle, '*' bullet, first letter
// of a player's id for a tank, '.' empty.
func (o *Output) printGrid(s Snapshot) {
	size := s.Map.Size

	occupants := make(map[Position]rune)
	for p, pos := range s.Positions {
		label := '?'
		if p != "" {
			label = rune(p[0])
		}
		occupants[pos] = label
	}
	for _, b := range s.Bullets {
		if _, taken := occupants[b.Position]; !taken {
			occupants[b.Position] = '*'
		}
	}

	for y := 0; y < size; y++ {
		var row strings.Builder
		for x := 0; x < size; x++ {
			pos := Position{X: x, Y: y}
			switch {
			case occupants[pos] != 0:
				row.WriteRune(occupants[pos])
			case s.Map.Obstacles[y*size+x]:
				row.WriteRune('#')
			default:
				row.WriteRune('.')
			}
			row.WriteRune(' ')
		}
		fmt.Println(row.String())
	}
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match #%d (%s)\n", m.ID, m.Type)
	fmt.Printf("Played: %s\n", m.PlayedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %ds\n", m.DurationSeconds)
	if m.Draw {
		fmt.Println("Result: draw")
	} else {
		fmt.Printf("Winner: %s\n", m.Winner)
	}
	fmt.Printf("Participants: %s\n", strings.Join(m.Participants, ", "))
	for _, team := range sortedKeys(m.Teams) {
		fmt.Printf("  %s: %s\n", team, strings.Join(m.Teams[team], ", "))
	}
}

func (o *Output) printMatchList(l MatchList) {
	if len(l.Matches) == 0 {
		fmt.Println("No matches recorded")
		return
	}
	for i, m := range l.Matches {
		if i > 0 {
			fmt.Println()
		}
		o.printMatch(m)
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Player: %s\n", s.PlayerID)
	fmt.Printf("Matches: %d\n", s.Matches)
	fmt.Printf("Wins: %d\n", s.Wins)
	fmt.Printf("Kills: %d\n", s.Kills)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
