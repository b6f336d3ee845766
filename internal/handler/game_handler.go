package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/throneofjarls/api/internal/game"
	"github.com/freeeve/throneofjarls/api/internal/model"
	"github.com/freeeve/throneofjarls/api/internal/repository"
	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

const maxPlayerNameLen = 30

// GameHandler handles the REST game endpoints.
type GameHandler struct {
	manager  *game.Manager
	sessions repository.SessionStore
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(manager *game.Manager, sessions repository.SessionStore) *GameHandler {
	return &GameHandler{manager: manager, sessions: sessions}
}

// writeGameError maps a game/rule error to the REST error body.
func writeGameError(w http.ResponseWriter, err error) {
	code := errorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case "GAME_NOT_FOUND":
		status = http.StatusNotFound
	case "UNAUTHORIZED":
		status = http.StatusUnauthorized
	case "INTERNAL_ERROR":
	default:
		// Rule codes and validation failures are client errors.
		status = http.StatusBadRequest
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Internal error")
		msg = "internal error"
		code = "INTERNAL_ERROR"
	}
	writeError(w, status, code, msg)
}

// bearerSession authenticates a request against the session store and checks
// the session belongs to the addressed game.
func (h *GameHandler) bearerSession(w http.ResponseWriter, r *http.Request, gameID string) *model.Session {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return nil
	}
	sess, err := h.sessions.ValidateSession(r.Context(), token)
	if err != nil {
		writeGameError(w, err)
		return nil
	}
	if sess == nil || sess.GameID != gameID {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session for this game")
		return nil
	}
	if err := h.sessions.ExtendSession(r.Context(), token); err != nil {
		log.Warn().Err(err).Msg("Session extend failed")
	}
	return sess
}

// CreateGame handles POST /api/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerCount      int    `json:"playerCount,omitempty"`
		TurnTimerMs      *int64 `json:"turnTimerMs,omitempty"`
		TimeoutSacrifice bool   `json:"timeoutSacrifice,omitempty"`
		Terrain          string `json:"terrain,omitempty"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
			return
		}
	}
	if req.PlayerCount == 0 {
		req.PlayerCount = 2
	}

	gameID, err := h.manager.Create(game.CreateParams{
		PlayerCount:      req.PlayerCount,
		TurnTimerMs:      req.TurnTimerMs,
		TimeoutSacrifice: req.TimeoutSacrifice,
		Terrain:          req.Terrain,
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"gameId": gameID})
}

// ListGames handles GET /api/games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	games := h.manager.ListGames(status)
	if games == nil {
		games = []model.GameSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

// JoinGame handles POST /api/games/{id}/join
func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	var req struct {
		PlayerName string `json:"playerName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" || len(name) > maxPlayerNameLen {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "playerName must be 1-30 characters")
		return
	}

	a, err := h.manager.Get(gameID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	playerID, err := a.Join(name)
	if err != nil {
		writeGameError(w, err)
		return
	}

	token, err := h.sessions.CreateSession(r.Context(), model.Session{
		GameID:     gameID,
		PlayerID:   playerID,
		PlayerName: name,
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"playerId":     playerID,
		"sessionToken": token,
	})
}

// GetGame handles GET /api/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if h.bearerSession(w, r, gameID) == nil {
		return
	}
	a, err := h.manager.Get(gameID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	state, err := a.State()
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state})
}

// StartGame handles POST /api/games/{id}/start
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	sess := h.bearerSession(w, r, gameID)
	if sess == nil {
		return
	}
	a, err := h.manager.Get(gameID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := a.Start(sess.PlayerID); err != nil {
		if errors.Is(err, game.ErrNotHost) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "only the host can start the game")
			return
		}
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AddAI handles POST /api/games/{id}/ai
func (h *GameHandler) AddAI(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if h.bearerSession(w, r, gameID) == nil {
		return
	}
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	a, err := h.manager.Get(gameID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	aiPlayerID, err := a.AddAI(req.Difficulty)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"aiPlayerId": aiPlayerID})
}

// ValidMoves handles GET /api/games/{id}/valid-moves/{pieceId}
func (h *GameHandler) ValidMoves(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if h.bearerSession(w, r, gameID) == nil {
		return
	}
	a, err := h.manager.Get(gameID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	moves, err := a.ValidMoves(r.PathValue("pieceId"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	if moves == nil {
		moves = []jarls.ValidMove{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": moves})
}
