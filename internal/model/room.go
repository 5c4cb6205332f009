package model

import "time"

// RoomID is a short opaque identifier for a room, unique among active rooms
type RoomID string

// PlayerID uniquely identifies a player across the system
type PlayerID string

// TeamName identifies a team within a tournament room
type TeamName string

// RoomType distinguishes all-vs-all rooms from team-vs-team rooms
type RoomType string

const (
	RoomTypeFree       RoomType = "free"
	RoomTypeTournament RoomType = "tournament"
)

// Capacity holds the configured roster limits for a room.
// Free rooms use PlayersCount; tournament rooms use TeamsCount and
// PlayersPerTeam.
type Capacity struct {
	PlayersCount   int
	TeamsCount     int
	PlayersPerTeam int
}

// Room is the aggregate root for one game session
type Room struct {
	ID       RoomID
	Type     RoomType
	Capacity Capacity

	// Membership. Free rooms use Players; tournament rooms use Teams with
	// TeamOrder preserving creation order. Slices preserve join order, so
	// the first member overall is the implicit host.
	Players   []PlayerID
	Teams     map[TeamName][]PlayerID
	TeamOrder []TeamName

	// Session state. Map is nil until generated; generation happens at most
	// once per session.
	Map        *Grid
	MapSeed    int64
	Positions  map[PlayerID]Position
	Directions map[PlayerID]Direction
	Alive      map[PlayerID]bool
	Bullets    []Bullet

	GameStarted         bool
	GameDurationSeconds int
	Concluded           bool // set once when a session's outcome has been recorded

	CreatedAt time.Time
	UpdatedAt time.Time
	StartedAt time.Time
}

// Members returns all player ids in join order. For tournament rooms teams
// are walked in creation order.
func (r *Room) Members() []PlayerID {
	if r.Type == RoomTypeTournament {
		var members []PlayerID
		for _, team := range r.TeamOrder {
			members = append(members, r.Teams[team]...)
		}
		return members
	}
	members := make([]PlayerID, len(r.Players))
	copy(members, r.Players)
	return members
}

// Host returns the first-joined member, who holds start-game privilege.
// Returns empty id for an empty room.
func (r *Room) Host() PlayerID {
	members := r.Members()
	if len(members) == 0 {
		return ""
	}
	return members[0]
}

// IsMember returns true if the player belongs to the room
func (r *Room) IsMember(id PlayerID) bool {
	for _, m := range r.Members() {
		if m == id {
			return true
		}
	}
	return false
}

// TeamOf returns the team a player belongs to
func (r *Room) TeamOf(id PlayerID) (TeamName, bool) {
	for team, players := range r.Teams {
		for _, p := range players {
			if p == id {
				return team, true
			}
		}
	}
	return "", false
}

// IsFull reports whether the room has reached its configured capacity
func (r *Room) IsFull() bool {
	if r.Type == RoomTypeTournament {
		if len(r.Teams) < r.Capacity.TeamsCount {
			return false
		}
		for _, players := range r.Teams {
			if len(players) < r.Capacity.PlayersPerTeam {
				return false
			}
		}
		return true
	}
	return len(r.Players) >= r.Capacity.PlayersCount
}

// MemberCount returns the number of players currently in the room
func (r *Room) MemberCount() int {
	return len(r.Members())
}

// AliveMembers returns the ids of members still alive, in join order
func (r *Room) AliveMembers() []PlayerID {
	var alive []PlayerID
	for _, m := range r.Members() {
		if r.Alive[m] {
			alive = append(alive, m)
		}
	}
	return alive
}

// AliveTeams returns the teams that retain at least one living member,
// in creation order
func (r *Room) AliveTeams() []TeamName {
	var alive []TeamName
	for _, team := range r.TeamOrder {
		for _, p := range r.Teams[team] {
			if r.Alive[p] {
				alive = append(alive, team)
				break
			}
		}
	}
	return alive
}

// OccupantAt returns the living player occupying the given cell, if any
func (r *Room) OccupantAt(pos Position) (PlayerID, bool) {
	for _, m := range r.Members() {
		if !r.Alive[m] {
			continue
		}
		if p, ok := r.Positions[m]; ok && p == pos {
			return m, true
		}
	}
	return "", false
}

// ResetSession clears session-scoped state, returning the room to the lobby
// phase so it can be played again. Membership and configuration survive.
func (r *Room) ResetSession() {
	r.Positions = make(map[PlayerID]Position)
	r.Directions = make(map[PlayerID]Direction)
	r.Alive = make(map[PlayerID]bool)
	r.Bullets = nil
	r.Map = nil
	r.MapSeed = 0
	r.GameStarted = false
	r.Concluded = false
	r.StartedAt = time.Time{}
}
