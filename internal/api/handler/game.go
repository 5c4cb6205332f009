package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avolosh/tankarena-go/internal/api/request"
	"github.com/avolosh/tankarena-go/internal/api/response"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/session"
)

// GameHandler handles in-game commands for active rooms
type GameHandler struct {
	sessions *session.Manager
}

// NewGameHandler creates a new game handler
func NewGameHandler(sessions *session.Manager) *GameHandler {
	return &GameHandler{sessions: sessions}
}

// Move handles POST /api/v1/rooms/{id}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	direction := model.Direction(req.Direction)
	if !direction.Valid() {
		WriteError(w, NewInvalidDirectionError(req.Direction))
		return
	}

	if err := h.sessions.Move(r.Context(), roomID, model.PlayerID(req.PlayerID), direction); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Shoot handles POST /api/v1/rooms/{id}/shoot
func (h *GameHandler) Shoot(w http.ResponseWriter, r *http.Request) {
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

	if err := h.sessions.Shoot(r.Context(), roomID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
