package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/throneofjarls/api/internal/game"
	"github.com/freeeve/throneofjarls/api/internal/repository"
	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256

	sessionOpTimeout = 3 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware; tighten in production
	},
}

// clientMessage is the envelope for messages sent from the client.
type clientMessage struct {
	Type         string             `json:"type"`
	GameID       string             `json:"gameId"`
	SessionToken string             `json:"sessionToken,omitempty"`
	Command      *jarls.MoveCommand `json:"command,omitempty"`
	PieceID      string             `json:"pieceId,omitempty"`
}

// ackPayload acknowledges one client message.
type ackPayload struct {
	For     string    `json:"for"`
	Success bool      `json:"success"`
	Error   *ackError `json:"error,omitempty"`
}

type ackError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub      *Hub
	manager  *game.Manager
	sessions repository.SessionStore
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *Hub, manager *game.Manager, sessions repository.SessionStore) *WSHandler {
	return &WSHandler{hub: hub, manager: manager, sessions: sessions}
}

// ServeWS handles GET /ws — upgrades to WebSocket. The socket starts
// unauthenticated; joinGame binds it to a (gameId, playerId) pair from a
// validated session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads client messages and dispatches them. It owns the socket's
// gameID/playerID binding.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		if c.gameID != "" {
			if a, err := h.manager.Get(c.gameID); err == nil {
				if derr := a.OnDisconnect(c.playerID); derr != nil {
					log.Warn().Err(derr).Str("gameId", c.gameID).Msg("Disconnect notification failed")
				}
			}
		}
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("playerId", c.playerID).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("playerId", c.playerID).Msg("WebSocket unexpected close")
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		h.dispatch(c, msg)
	}
}

func (h *WSHandler) dispatch(c *WSConn, msg clientMessage) {
	var err error
	switch msg.Type {
	case "joinGame":
		err = h.handleJoinGame(c, msg)
	case "startGame":
		err = h.withBinding(c, msg.GameID, func(a *game.Actor) error {
			return a.Start(c.playerID)
		})
	case "playTurn":
		err = h.withBinding(c, msg.GameID, func(a *game.Actor) error {
			if msg.Command == nil {
				return &jarls.RuleError{Code: jarls.ErrPieceNotFound, Message: "missing move command"}
			}
			// The socket's bound playerId is authoritative; any playerId in
			// the payload is ignored.
			return a.MakeMove(c.playerID, *msg.Command)
		})
	case "submitStarvationChoice":
		err = h.withBinding(c, msg.GameID, func(a *game.Actor) error {
			return a.SubmitStarvationChoice(c.playerID, msg.PieceID)
		})
	default:
		err = errBadMessage
	}
	h.ack(c, msg.Type, err)
}

var (
	errBadMessage   = errors.New("unknown message type")
	errNotJoined    = errors.New("socket has not joined this game")
	errBadSession   = errors.New("invalid or expired session")
	errWrongGame    = errors.New("session does not belong to this game")
	errMissingToken = errors.New("missing session token")
)

func (h *WSHandler) handleJoinGame(c *WSConn, msg clientMessage) error {
	if msg.SessionToken == "" {
		return errMissingToken
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
	defer cancel()

	sess, err := h.sessions.ValidateSession(ctx, msg.SessionToken)
	if err != nil {
		return err
	}
	if sess == nil {
		return errBadSession
	}
	if sess.GameID != msg.GameID {
		return errWrongGame
	}

	a, err := h.manager.Get(sess.GameID)
	if err != nil {
		return err
	}

	if c.gameID != "" && c.gameID != sess.GameID {
		h.hub.Leave(c, c.gameID)
	}
	// Announce before the socket enters the room; playerJoined goes to the
	// other members, not back to the joiner.
	if err := a.OnConnect(sess.PlayerID); err != nil {
		return err
	}
	c.gameID = sess.GameID
	c.playerID = sess.PlayerID
	h.hub.Join(c, sess.GameID)

	if err := h.sessions.ExtendSession(ctx, msg.SessionToken); err != nil {
		log.Warn().Err(err).Msg("Session extend failed")
	}
	return nil
}

// withBinding runs fn against the actor the socket is bound to, rejecting
// commands before joinGame or for a different game.
func (h *WSHandler) withBinding(c *WSConn, gameID string, fn func(a *game.Actor) error) error {
	if c.gameID == "" || (gameID != "" && gameID != c.gameID) {
		return errNotJoined
	}
	a, err := h.manager.Get(c.gameID)
	if err != nil {
		return err
	}
	return fn(a)
}

func (h *WSHandler) ack(c *WSConn, msgType string, err error) {
	p := ackPayload{For: msgType, Success: err == nil}
	if err != nil {
		p.Error = &ackError{Code: errorCode(err), Message: err.Error()}
	}
	payload, merr := json.Marshal(WSEvent{Type: "ack", GameID: c.gameID, Data: p})
	if merr != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// errorCode maps an error to a stable wire code shared by REST and socket
// surfaces.
func errorCode(err error) string {
	var re *jarls.RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return "GAME_NOT_FOUND"
	case errors.Is(err, game.ErrNotHost), errors.Is(err, game.ErrUnknownPlayer),
		errors.Is(err, errBadSession), errors.Is(err, errWrongGame),
		errors.Is(err, errMissingToken), errors.Is(err, errNotJoined):
		return "UNAUTHORIZED"
	case errors.Is(err, game.ErrGameFull), errors.Is(err, game.ErrNameTaken),
		errors.Is(err, game.ErrNotInLobby),
		errors.Is(err, game.ErrLobbyNotFull), errors.Is(err, game.ErrGamePaused),
		errors.Is(err, game.ErrBadDifficulty), errors.Is(err, game.ErrBadConfig),
		errors.Is(err, errBadMessage):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// writePump writes messages to the WebSocket connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
