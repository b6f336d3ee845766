package game

import "errors"

// Sentinel errors surfaced to the transport layer, which maps them to HTTP
// status codes and ack payloads.
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameFull      = errors.New("game is full")
	ErrNameTaken     = errors.New("player name already taken")
	ErrNotInLobby    = errors.New("game has already started")
	ErrLobbyNotFull  = errors.New("not enough players to start")
	ErrNotHost       = errors.New("only the host can start the game")
	ErrGamePaused    = errors.New("game is paused")
	ErrUnknownPlayer = errors.New("player is not part of this game")
	ErrBadDifficulty = errors.New("unknown AI difficulty")
	ErrBadConfig     = errors.New("invalid game configuration")
)
