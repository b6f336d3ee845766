package model

import (
	"encoding/json"
	"time"
)

// Session binds an opaque bearer token to a seat in one game.
type Session struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// GameEvent is one row of a game's append-only event log.
type GameEvent struct {
	GameID    string          `json:"game_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Snapshot is the latest persisted full state of a game, versioned for
// optimistic concurrency.
type Snapshot struct {
	GameID    string          `json:"game_id"`
	State     json.RawMessage `json:"state"`
	Version   int64           `json:"version"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PlayerSummary is the public slice of a player shown in lobby listings.
type PlayerSummary struct {
	Name string `json:"name"`
}

// GameSummary is one entry of the lobby game list.
type GameSummary struct {
	GameID      string          `json:"gameId"`
	Status      string          `json:"status"`
	PlayerCount int             `json:"playerCount"`
	MaxPlayers  int             `json:"maxPlayers"`
	Players     []PlayerSummary `json:"players"`
}
