package session

import (
	"github.com/avolosh/tankarena-go/internal/model"
)

type killEvent struct {
	killer model.PlayerID
	victim model.PlayerID
}

// advanceBullets moves every bullet one cell and resolves the result in
// order: off-grid bullets drop, then obstacle hits drop, then tank hits are
// checked. A hit removes the victim from play immediately, so a later bullet
// in the same tick passes through the vacated cell.
func advanceBullets(room *model.Room) []killEvent {
	var kills []killEvent
	surviving := room.Bullets[:0]

	for _, bullet := range room.Bullets {
		bullet.Position = bullet.Direction.Step(bullet.Position)

		if !room.Map.Contains(bullet.Position) {
			continue
		}
		if room.Map.Obstacle(bullet.Position) {
			continue
		}

		victim, hit := room.OccupantAt(bullet.Position)
		if hit && canHit(room, bullet.Owner, victim) {
			room.Alive[victim] = false
			delete(room.Positions, victim)
			kills = append(kills, killEvent{killer: bullet.Owner, victim: victim})
			continue
		}

		// A cell holding only the shooter, or a teammate in tournament
		// mode, absorbs nothing; the bullet flies on
		surviving = append(surviving, bullet)
	}

	room.Bullets = surviving
	return kills
}

// canHit reports whether a bullet from owner may kill victim. Self hits
// never land. Teammate hits are blocked in tournament rooms only.
func canHit(room *model.Room, owner, victim model.PlayerID) bool {
	if owner == victim {
		return false
	}
	if room.Type == model.RoomTypeTournament {
		ownerTeam, ownerOK := room.TeamOf(owner)
		victimTeam, victimOK := room.TeamOf(victim)
		if ownerOK && victimOK && ownerTeam == victimTeam {
			return false
		}
	}
	return true
}

// evaluateWinner inspects the living roster and reports whether the match
// has reached a terminal state. An empty winner with terminal true is a
// draw, which can only happen through simultaneous eliminations.
func evaluateWinner(room *model.Room) (winner string, winnerPlayers []model.PlayerID, terminal bool) {
	if room.Type == model.RoomTypeTournament {
		teams := room.AliveTeams()
		switch len(teams) {
		case 0:
			return "", nil, true
		case 1:
			team := teams[0]
			return string(team), append([]model.PlayerID(nil), room.Teams[team]...), true
		default:
			return "", nil, false
		}
	}

	alive := room.AliveMembers()
	switch len(alive) {
	case 0:
		return "", nil, true
	case 1:
		return string(alive[0]), alive, true
	default:
		return "", nil, false
	}
}
