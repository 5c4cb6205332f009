package redis

import (
	"fmt"

	"github.com/avolosh/tankarena-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tankarena"

// roomKey returns the Redis key for a Room document
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// matchKey returns the Redis key for a MatchRecord
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%d", keyPrefix, id)
}

// matchCounterKey returns the Redis key for the global match id counter
func matchCounterKey() string {
	return fmt.Sprintf("%s:match_counter", keyPrefix)
}

// playerMatchesKey returns the Redis key for a player's match index,
// a list of match ids with the most recent first
func playerMatchesKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_matches:%s", keyPrefix, playerID)
}

// statsKey returns the Redis key for a player's statistics hash
func statsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}
