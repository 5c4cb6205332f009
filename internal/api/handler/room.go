package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avolosh/tankarena-go/internal/api/request"
	"github.com/avolosh/tankarena-go/internal/api/response"
	"github.com/avolosh/tankarena-go/internal/api/sse"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/services/room"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	rooms      *room.Controller
	hubManager *sse.HubManager
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller, hubManager *sse.HubManager) *RoomHandler {
	return &RoomHandler{
		rooms:      rooms,
		hubManager: hubManager,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	cfg := room.CreateConfig{
		Type: model.RoomType(req.Type),
		Capacity: model.Capacity{
			PlayersCount:   req.PlayersCount,
			TeamsCount:     req.TeamsCount,
			PlayersPerTeam: req.PlayersPerTeam,
		},
		DurationSeconds: req.DurationSeconds,
	}

	created, err := h.rooms.CreateRoom(r.Context(), cfg, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{id}
// Returns the client-facing snapshot, which covers both phases.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	snap, err := h.rooms.Snapshot(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snap)
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	joined, err := h.rooms.JoinRoom(r.Context(), roomID, model.PlayerID(req.PlayerID), model.TeamName(req.Team))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(joined))
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	var req request.PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.rooms.LeaveRoom(r.Context(), roomID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/rooms/{id}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	var req request.PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	started, err := h.rooms.StartGame(r.Context(), roomID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(started))
}

// Events handles GET /api/v1/rooms/{id}/events
// Streams room snapshots over SSE until the client disconnects or the room
// closes.
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))

	if _, err := h.rooms.GetRoom(r.Context(), roomID); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(roomID)
	sse.ServeSSE(w, r, hub, playerID)
}
