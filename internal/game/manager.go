package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/throneofjarls/api/internal/model"
	"github.com/freeeve/throneofjarls/api/internal/repository"
	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

// CreateParams are the client-supplied knobs for a new game. Anything not
// listed here is derived from the player count.
type CreateParams struct {
	PlayerCount      int
	TurnTimerMs      *int64
	TimeoutSacrifice bool
	Terrain          string
}

// Manager is the registry of live game actors. It routes lookups, creates
// and recovers games, and tears everything down on shutdown.
type Manager struct {
	mu     sync.RWMutex
	actors map[string]*Actor

	events      repository.EventRepository
	snapshots   repository.SnapshotRepository
	broadcaster Broadcaster
}

func NewManager(events repository.EventRepository, snapshots repository.SnapshotRepository, b Broadcaster) *Manager {
	if b == nil {
		b = NopBroadcaster{}
	}
	return &Manager{
		actors:      make(map[string]*Actor),
		events:      events,
		snapshots:   snapshots,
		broadcaster: b,
	}
}

func newGameID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("game id entropy: %v", err))
	}
	return hex.EncodeToString(b)
}

// Create spins up a lobby-phase actor and persists its first snapshot so the
// game survives a restart before anyone joins.
func (m *Manager) Create(params CreateParams) (string, error) {
	if params.PlayerCount < 2 || params.PlayerCount > 6 {
		return "", fmt.Errorf("%w: playerCount must be between 2 and 6", ErrBadConfig)
	}
	terrain := jarls.Terrain(params.Terrain)
	switch terrain {
	case "":
		terrain = jarls.TerrainOpen
	case jarls.TerrainOpen, jarls.TerrainRavine:
	default:
		return "", fmt.Errorf("%w: unknown terrain %q", ErrBadConfig, params.Terrain)
	}
	if params.TurnTimerMs != nil && *params.TurnTimerMs <= 0 {
		return "", fmt.Errorf("%w: turnTimerMs must be positive", ErrBadConfig)
	}

	radius := jarls.BoardRadiusForPlayers(params.PlayerCount)
	cfg := jarls.GameConfig{
		PlayerCount:      params.PlayerCount,
		BoardRadius:      radius,
		WarriorCount:     jarls.DefaultWarriorCount(radius),
		TurnTimerMs:      params.TurnTimerMs,
		TimeoutSacrifice: params.TimeoutSacrifice,
		Terrain:          terrain,
	}

	gameID := newGameID()
	gs := &jarls.GameState{Config: cfg, Phase: jarls.PhaseLobby}

	a := newActor(gameID, gs, 0, m.events, m.snapshots, m.broadcaster)
	if err := a.do(func() { a.persist(nil) }); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.actors[gameID] = a
	m.mu.Unlock()

	log.Info().Str("gameId", gameID).Int("playerCount", params.PlayerCount).Msg("Game created")
	return gameID, nil
}

// Get returns the actor for a game, or ErrGameNotFound.
func (m *Manager) Get(gameID string) (*Actor, error) {
	m.mu.RLock()
	a, ok := m.actors[gameID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return a, nil
}

// ListGames summarizes every registered game, optionally filtered by status.
func (m *Manager) ListGames(statusFilter string) []model.GameSummary {
	m.mu.RLock()
	actors := make([]*Actor, 0, len(m.actors))
	for _, a := range m.actors {
		actors = append(actors, a)
	}
	m.mu.RUnlock()

	summaries := make([]model.GameSummary, 0, len(actors))
	for _, a := range actors {
		s, err := a.Summary()
		if err != nil {
			continue
		}
		if statusFilter != "" && s.Status != statusFilter {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// Recover reloads every non-ended snapshot into a live actor. Games already
// registered are left alone; snapshots that fail to decode are logged and
// skipped rather than blocking boot. Returns the number of games brought
// back.
func (m *Manager) Recover(ctx context.Context) (int, error) {
	snaps, err := m.snapshots.LoadActiveSnapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active snapshots: %w", err)
	}

	recovered := 0
	for _, snap := range snaps {
		m.mu.RLock()
		_, exists := m.actors[snap.GameID]
		m.mu.RUnlock()
		if exists {
			continue
		}

		var gs jarls.GameState
		if err := json.Unmarshal(snap.State, &gs); err != nil {
			log.Error().Err(err).Str("gameId", snap.GameID).Msg("Corrupt snapshot, skipping")
			continue
		}

		a := newActor(snap.GameID, &gs, snap.Version, m.events, m.snapshots, m.broadcaster)
		// Re-arm the turn timer and schedule AI movers; a recovered game
		// whose current player is an AI must keep playing on its own.
		a.post(func() { a.afterTurn() })
		m.mu.Lock()
		m.actors[snap.GameID] = a
		m.mu.Unlock()
		recovered++
	}

	if recovered > 0 {
		log.Info().Int("games", recovered).Msg("Recovered active games")
	}
	return recovered, nil
}

// Remove stops a game's actor and drops it from the registry.
func (m *Manager) Remove(gameID string) {
	m.mu.Lock()
	a, ok := m.actors[gameID]
	delete(m.actors, gameID)
	m.mu.Unlock()
	if ok {
		a.Stop()
	}
}

// Shutdown stops every actor. Commands already accepted are flushed before
// each goroutine exits; the latest snapshot for each game is durable, so
// recovery picks up from there.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	actors := m.actors
	m.actors = make(map[string]*Actor)
	m.mu.Unlock()
	for _, a := range actors {
		a.Stop()
	}
}
