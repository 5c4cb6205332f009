package model

// RoomPhase is the lifecycle phase reported in snapshots
type RoomPhase string

const (
	PhaseLobby  RoomPhase = "lobby"
	PhaseActive RoomPhase = "active"
)

// Event names used on the room event stream
const (
	EventSnapshot   = "snapshot"
	EventRoomClosed = "room_closed"
)

// Snapshot is the broadcast view of a room, emitted to every subscriber
// whenever room state changes
type Snapshot struct {
	RoomID           RoomID                  `json:"room_id"`
	Type             RoomType                `json:"type"`
	Phase            RoomPhase               `json:"phase"`
	Host             PlayerID                `json:"host"`
	Players          []PlayerID              `json:"players"`
	Teams            map[TeamName][]PlayerID `json:"teams,omitempty"`
	Map              *Grid                   `json:"map,omitempty"`
	Positions        map[PlayerID]Position   `json:"positions,omitempty"`
	Directions       map[PlayerID]Direction  `json:"directions,omitempty"`
	Alive            map[PlayerID]bool       `json:"alive,omitempty"`
	Bullets          []Bullet                `json:"bullets,omitempty"`
	GameStarted      bool                    `json:"game_started"`
	RemainingSeconds int                     `json:"remaining_seconds"`
}

// SnapshotFromRoom builds the broadcast view of a room. remainingSeconds is
// supplied by the session, which owns the countdown.
func SnapshotFromRoom(r *Room, remainingSeconds int) *Snapshot {
	phase := PhaseLobby
	if r.GameStarted {
		phase = PhaseActive
	}

	snap := &Snapshot{
		RoomID:           r.ID,
		Type:             r.Type,
		Phase:            phase,
		Host:             r.Host(),
		Players:          r.Members(),
		Map:              r.Map,
		GameStarted:      r.GameStarted,
		RemainingSeconds: remainingSeconds,
	}

	if r.Type == RoomTypeTournament {
		teams := make(map[TeamName][]PlayerID, len(r.Teams))
		for name, players := range r.Teams {
			teams[name] = append([]PlayerID(nil), players...)
		}
		snap.Teams = teams
	}

	if len(r.Positions) > 0 {
		positions := make(map[PlayerID]Position, len(r.Positions))
		for id, pos := range r.Positions {
			positions[id] = pos
		}
		snap.Positions = positions
	}
	if len(r.Directions) > 0 {
		directions := make(map[PlayerID]Direction, len(r.Directions))
		for id, dir := range r.Directions {
			directions[id] = dir
		}
		snap.Directions = directions
	}
	if len(r.Alive) > 0 {
		alive := make(map[PlayerID]bool, len(r.Alive))
		for id, a := range r.Alive {
			alive[id] = a
		}
		snap.Alive = alive
	}
	if len(r.Bullets) > 0 {
		snap.Bullets = append([]Bullet(nil), r.Bullets...)
	}

	return snap
}
