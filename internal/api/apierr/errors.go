package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolosh/tankarena-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeInvalidDirection = "INVALID_DIRECTION"
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeRoomFull         = "ROOM_FULL"
	CodeTeamNotFound     = "TEAM_NOT_FOUND"
	CodeTeamFull         = "TEAM_FULL"
	CodeTeamEmpty        = "TEAM_EMPTY"
	CodeNotHost          = "NOT_HOST"
	CodeNotInRoom        = "NOT_IN_ROOM"
	CodeGameInProgress   = "GAME_IN_PROGRESS"
	CodeGameNotStarted   = "GAME_NOT_STARTED"
	CodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	CodeAlreadyConcluded = "ALREADY_CONCLUDED"
	CodeMatchNotFound    = "MATCH_NOT_FOUND"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeCreateTimeout    = "CREATE_TIMEOUT"
	CodeMapNotReady      = "MAP_NOT_READY"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrTeamNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTeamNotFound, "No such team in this room"}}
	case errors.Is(err, model.ErrInvalidConfig):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, err.Error()}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrTeamFull):
		return &httpError{http.StatusConflict, APIError{CodeTeamFull, "Team is full"}}
	case errors.Is(err, model.ErrTeamEmpty):
		return &httpError{http.StatusConflict, APIError{CodeTeamEmpty, "Every team needs at least one player"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusForbidden, APIError{CodeNotInRoom, "Not a member of this room"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game has not started"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNotEnoughPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrAlreadyConcluded):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyConcluded, "Match already concluded"}}
	case errors.Is(err, model.ErrCreateTimeout):
		return &httpError{http.StatusGatewayTimeout, APIError{CodeCreateTimeout, "Room creation timed out"}}
	case errors.Is(err, model.ErrMapNotReady):
		return &httpError{http.StatusGatewayTimeout, APIError{CodeMapNotReady, "Battle map is not ready yet"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInvalidDirectionError creates an error for an unrecognized direction
func NewInvalidDirectionError(direction string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidDirection, "Unknown direction: " + direction}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
