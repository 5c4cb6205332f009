package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms       map[model.RoomID]*model.Room
	matches     map[model.MatchID]*model.MatchRecord
	stats       map[model.PlayerID]*model.PlayerStats
	lastMatchID model.MatchID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:   make(map[model.RoomID]*model.Room),
		matches: make(map[model.MatchID]*model.MatchRecord),
		stats:   make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return model.ErrRoomExists
	}
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (s *Storage) UpdateRoom(ctx context.Context, id model.RoomID, fn func(*model.Room) error) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	updated := copyRoom(room)
	if err := fn(updated); err != nil {
		return nil, err
	}
	s.rooms[id] = updated
	return copyRoom(updated), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

func (s *Storage) ListRoomIDs(ctx context.Context) ([]model.RoomID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.RoomID, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids, nil
}

// Record operations

func (s *Storage) NextMatchID(ctx context.Context) (model.MatchID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMatchID++
	return s.lastMatchID, nil
}

func (s *Storage) SaveMatchRecord(ctx context.Context, record *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[record.ID] = copyRecord(record)
	return nil
}

func (s *Storage) GetMatchRecord(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return copyRecord(record), nil
}

func (s *Storage) ListMatchesForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*model.MatchRecord
	for _, record := range s.matches {
		for _, p := range record.Participants {
			if p == playerID {
				records = append(records, copyRecord(record))
				break
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Storage) IncrementStats(ctx context.Context, playerID model.PlayerID, delta model.StatsDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[playerID]
	if !ok {
		stats = &model.PlayerStats{PlayerID: playerID}
		s.stats[playerID] = stats
	}
	stats.Wins += delta.Wins
	stats.Kills += delta.Kills
	stats.Matches += delta.Matches
	return nil
}

func (s *Storage) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[playerID]
	if !ok {
		return &model.PlayerStats{PlayerID: playerID}, nil
	}
	copied := *stats
	return &copied, nil
}

// copyRoom deep-copies a room so callers never share mutable state with the
// stored document
func copyRoom(room *model.Room) *model.Room {
	data, err := json.Marshal(room)
	if err != nil {
		// Rooms are plain data; marshalling cannot fail
		panic(err)
	}
	var copied model.Room
	if err := json.Unmarshal(data, &copied); err != nil {
		panic(err)
	}
	return &copied
}

func copyRecord(record *model.MatchRecord) *model.MatchRecord {
	copied := *record
	copied.Participants = append([]model.PlayerID(nil), record.Participants...)
	if record.Teams != nil {
		copied.Teams = make(map[model.TeamName][]model.PlayerID, len(record.Teams))
		for name, players := range record.Teams {
			copied.Teams[name] = append([]model.PlayerID(nil), players...)
		}
	}
	return &copied
}
