package model

import "errors"

// Common errors used across the application
var (
	// Room lifecycle errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrRoomFull      = errors.New("room is full")
	ErrInvalidConfig = errors.New("invalid room configuration")
	ErrCreateTimeout = errors.New("room creation timed out")

	// Membership errors
	ErrNotInRoom    = errors.New("player is not in room")
	ErrNotHost      = errors.New("player is not the host")
	ErrTeamNotFound = errors.New("team not found")
	ErrTeamFull     = errors.New("team is full")

	// Session errors
	ErrGameInProgress   = errors.New("game is in progress")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrNotEnoughPlayers = errors.New("at least two players are required")
	ErrTeamEmpty        = errors.New("every team needs at least one player")
	ErrAlreadyConcluded = errors.New("session already concluded")
	ErrMapNotReady      = errors.New("map has not been generated yet")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match errors
	ErrMatchNotFound = errors.New("match not found")
)
