package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSEvent is the envelope for all server-to-client messages.
type WSEvent struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Data   any    `json:"data"`
}

// WSConn wraps a WebSocket connection with the per-socket binding
// established by joinGame. gameID and playerID are written only from the
// connection's read pump.
type WSConn struct {
	conn     *websocket.Conn
	gameID   string
	playerID string
	send     chan []byte
}

// Hub manages WebSocket connections and per-game rooms. It satisfies the
// game package's Broadcaster interface.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	rooms       map[string]map[*WSConn]bool // gameID -> members
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		rooms:       make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub and its room.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	for gameID, conns := range h.rooms {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, gameID)
		}
	}
	close(c.send)
}

// Join adds a connection to a game's room.
func (h *Hub) Join(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[gameID] == nil {
		h.rooms[gameID] = make(map[*WSConn]bool)
	}
	h.rooms[gameID][c] = true
}

// Leave removes a connection from a game's room.
func (h *Hub) Leave(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[gameID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, gameID)
		}
	}
}

// BroadcastToGame sends an event to every member of a game's room. A member
// with a full send buffer loses the message rather than stalling the rest of
// the room.
func (h *Hub) BroadcastToGame(gameID, eventType string, data any) {
	payload, err := json.Marshal(WSEvent{Type: eventType, GameID: gameID, Data: data})
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Str("type", eventType).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[gameID] {
		select {
		case c.send <- payload:
		default:
			log.Warn().Str("playerId", c.playerID).Str("gameId", gameID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// RoomSize returns the number of connections in a game's room.
func (h *Hub) RoomSize(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}
