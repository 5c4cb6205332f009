package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeRoom(players ...PlayerID) *Room {
	return &Room{
		ID:       "abc123",
		Type:     RoomTypeFree,
		Capacity: Capacity{PlayersCount: 4},
		Players:  players,
		Alive:    make(map[PlayerID]bool),
	}
}

func tournamentRoom() *Room {
	return &Room{
		ID:       "abc123",
		Type:     RoomTypeTournament,
		Capacity: Capacity{TeamsCount: 2, PlayersPerTeam: 2},
		Teams: map[TeamName][]PlayerID{
			"team-1": {"alice", "bob"},
			"team-2": {"carol", "dave"},
		},
		TeamOrder: []TeamName{"team-1", "team-2"},
		Alive:     make(map[PlayerID]bool),
	}
}

func TestMembersJoinOrder(t *testing.T) {
	room := freeRoom("alice", "bob", "carol")
	assert.Equal(t, []PlayerID{"alice", "bob", "carol"}, room.Members())
	assert.Equal(t, PlayerID("alice"), room.Host())
}

func TestMembersTournamentTeamOrder(t *testing.T) {
	room := tournamentRoom()
	assert.Equal(t, []PlayerID{"alice", "bob", "carol", "dave"}, room.Members())
	assert.Equal(t, PlayerID("alice"), room.Host())
}

func TestIsMember(t *testing.T) {
	room := tournamentRoom()
	assert.True(t, room.IsMember("carol"))
	assert.False(t, room.IsMember("mallory"))
}

func TestTeamOf(t *testing.T) {
	room := tournamentRoom()

	team, ok := room.TeamOf("dave")
	require.True(t, ok)
	assert.Equal(t, TeamName("team-2"), team)

	_, ok = room.TeamOf("mallory")
	assert.False(t, ok)
}

func TestIsFull(t *testing.T) {
	room := freeRoom("alice", "bob")
	assert.False(t, room.IsFull())

	room.Players = append(room.Players, "carol", "dave")
	assert.True(t, room.IsFull())
}

func TestIsFullTournament(t *testing.T) {
	room := tournamentRoom()
	assert.True(t, room.IsFull())

	room.Teams["team-2"] = []PlayerID{"carol"}
	assert.False(t, room.IsFull())
}

func TestAliveMembers(t *testing.T) {
	room := freeRoom("alice", "bob", "carol")
	room.Alive = map[PlayerID]bool{"alice": true, "bob": false, "carol": true}

	assert.Equal(t, []PlayerID{"alice", "carol"}, room.AliveMembers())
}

func TestAliveTeamsCreationOrder(t *testing.T) {
	room := tournamentRoom()
	room.Alive = map[PlayerID]bool{"alice": false, "bob": true, "carol": true, "dave": false}
	assert.Equal(t, []TeamName{"team-1", "team-2"}, room.AliveTeams())

	room.Alive["bob"] = false
	assert.Equal(t, []TeamName{"team-2"}, room.AliveTeams())
}

func TestOccupantAtSkipsDead(t *testing.T) {
	room := freeRoom("alice", "bob")
	room.Alive = map[PlayerID]bool{"alice": false, "bob": true}
	room.Positions = map[PlayerID]Position{
		"alice": {X: 3, Y: 3},
		"bob":   {X: 3, Y: 3},
	}

	occupant, ok := room.OccupantAt(Position{X: 3, Y: 3})
	require.True(t, ok)
	assert.Equal(t, PlayerID("bob"), occupant)

	_, ok = room.OccupantAt(Position{X: 0, Y: 0})
	assert.False(t, ok)
}

func TestResetSessionKeepsMembership(t *testing.T) {
	room := freeRoom("alice", "bob")
	room.GameStarted = true
	room.Concluded = true
	room.Map = NewGrid(10)
	room.MapSeed = 42
	room.Positions = map[PlayerID]Position{"alice": {X: 1, Y: 1}}
	room.Directions = map[PlayerID]Direction{"alice": DirectionLeft}
	room.Alive = map[PlayerID]bool{"alice": true, "bob": false}
	room.Bullets = []Bullet{{Owner: "alice", Position: Position{X: 1, Y: 2}, Direction: DirectionDown}}

	room.ResetSession()

	assert.Equal(t, []PlayerID{"alice", "bob"}, room.Members())
	assert.False(t, room.GameStarted)
	assert.False(t, room.Concluded)
	assert.Nil(t, room.Map)
	assert.Zero(t, room.MapSeed)
	assert.Empty(t, room.Positions)
	assert.Empty(t, room.Directions)
	assert.Empty(t, room.Alive)
	assert.Empty(t, room.Bullets)
	assert.True(t, room.StartedAt.IsZero())
}

func TestDirectionStep(t *testing.T) {
	origin := Position{X: 5, Y: 5}

	assert.Equal(t, Position{X: 5, Y: 4}, DirectionUp.Step(origin))
	assert.Equal(t, Position{X: 5, Y: 6}, DirectionDown.Step(origin))
	assert.Equal(t, Position{X: 4, Y: 5}, DirectionLeft.Step(origin))
	assert.Equal(t, Position{X: 6, Y: 5}, DirectionRight.Step(origin))
}

func TestDirectionValid(t *testing.T) {
	assert.True(t, DirectionUp.Valid())
	assert.True(t, DirectionRight.Valid())
	assert.False(t, Direction("north").Valid())
	assert.False(t, Direction("").Valid())
}

func TestGridObstacleOutOfBounds(t *testing.T) {
	grid := NewGrid(10)
	grid.SetObstacle(Position{X: 2, Y: 3}, true)

	assert.True(t, grid.Obstacle(Position{X: 2, Y: 3}))
	assert.False(t, grid.Obstacle(Position{X: 2, Y: 4}))
	assert.False(t, grid.Obstacle(Position{X: -1, Y: 0}))
	assert.False(t, grid.Obstacle(Position{X: 10, Y: 0}))

	assert.True(t, grid.Contains(Position{X: 0, Y: 0}))
	assert.True(t, grid.Contains(Position{X: 9, Y: 9}))
	assert.False(t, grid.Contains(Position{X: 0, Y: 10}))
}

func TestSnapshotFromRoomDeepCopies(t *testing.T) {
	room := freeRoom("alice", "bob")
	room.GameStarted = true
	room.Map = NewGrid(10)
	room.Positions = map[PlayerID]Position{"alice": {X: 1, Y: 1}, "bob": {X: 2, Y: 2}}
	room.Directions = map[PlayerID]Direction{"alice": DirectionUp, "bob": DirectionLeft}
	room.Alive = map[PlayerID]bool{"alice": true, "bob": true}

	snap := SnapshotFromRoom(room, 90)

	require.Equal(t, PhaseActive, snap.Phase)
	assert.Equal(t, 90, snap.RemainingSeconds)
	assert.Equal(t, PlayerID("alice"), snap.Host)

	// Mutating the room must not leak into the snapshot
	room.Positions["alice"] = Position{X: 9, Y: 9}
	room.Alive["bob"] = false
	assert.Equal(t, Position{X: 1, Y: 1}, snap.Positions["alice"])
	assert.True(t, snap.Alive["bob"])
}

func TestSnapshotLobbyPhase(t *testing.T) {
	room := freeRoom("alice")
	snap := SnapshotFromRoom(room, 120)

	assert.Equal(t, PhaseLobby, snap.Phase)
	assert.Nil(t, snap.Map)
	assert.False(t, snap.GameStarted)
}
