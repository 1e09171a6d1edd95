package domain

import "errors"

var (
	// ErrRoomNotFound is returned when an event names an unknown room id.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNoQuestions means the selection policy produced nothing for the requested filters.
	ErrNoQuestions = errors.New("no questions matched the requested filters")
	// ErrNameTaken is returned when a joining player's name is already in use in the room.
	ErrNameTaken = errors.New("name already taken in this room")
	// ErrRoomInProgress is returned when a player tries to join after the game started.
	ErrRoomInProgress = errors.New("room is no longer accepting players")
	// ErrReplenishInFlight rejects a hostNext that overlaps a pending replenishment.
	ErrReplenishInFlight = errors.New("question replenishment already in progress")
)
