package storage

import (
	"context"

	"github.com/avolosh/tankarena-go/internal/model"
)

// RoomStore is durable keyed storage for room documents. A room is the unit
// of mutation: all writes to an existing room go through UpdateRoom so that
// concurrent writers (or a second server instance) cannot interleave partial
// field updates.
type RoomStore interface {
	// CreateRoom stores a new room, failing with model.ErrRoomExists if the
	// id is already taken
	CreateRoom(ctx context.Context, room *model.Room) error

	// GetRoom retrieves a room by id
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)

	// UpdateRoom applies fn to the current room state atomically
	// (read-modify-write) and returns the stored result. An error returned
	// by fn aborts the update and is returned unchanged.
	UpdateRoom(ctx context.Context, id model.RoomID, fn func(*model.Room) error) (*model.Room, error)

	// DeleteRoom removes a room
	DeleteRoom(ctx context.Context, id model.RoomID) error

	// RoomExists reports whether a room with the given id exists
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)

	// ListRoomIDs returns the ids of all stored rooms, in no particular order
	ListRoomIDs(ctx context.Context) ([]model.RoomID, error)
}

// RecordStore persists match history and cumulative player statistics.
// NextMatchID and IncrementStats must be atomic under concurrent callers:
// two simultaneously concluding sessions must receive distinct match ids,
// and concurrent stat increments for the same player must both apply.
type RecordStore interface {
	// NextMatchID returns the next value of the global match counter
	NextMatchID(ctx context.Context) (model.MatchID, error)

	// SaveMatchRecord writes an immutable match history record
	SaveMatchRecord(ctx context.Context, record *model.MatchRecord) error

	// GetMatchRecord retrieves one match record by id
	GetMatchRecord(ctx context.Context, id model.MatchID) (*model.MatchRecord, error)

	// ListMatchesForPlayer returns the player's most recent match records,
	// newest first
	ListMatchesForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.MatchRecord, error)

	// IncrementStats atomically adds the delta to the player's statistics,
	// creating the aggregate if absent
	IncrementStats(ctx context.Context, playerID model.PlayerID, delta model.StatsDelta) error

	// GetStats retrieves a player's cumulative statistics. Players with no
	// recorded matches get a zero aggregate.
	GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
}

// Storage combines room and record storage
type Storage interface {
	RoomStore
	RecordStore
}
