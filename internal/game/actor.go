package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/throneofjarls/api/internal/logger"
	"github.com/freeeve/throneofjarls/api/internal/model"
	"github.com/freeeve/throneofjarls/api/internal/repository"
	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

// Server-to-client event names.
const (
	WSPlayerJoined = "playerJoined"
	WSPlayerLeft   = "playerLeft"
	WSTurnPlayed   = "turnPlayed"
	WSGameState    = "gameState"
)

const (
	mailboxSize    = 64
	persistTimeout = 5 * time.Second
)

// Actor owns one game's mutable state. All reads and writes happen on its
// goroutine; callers enqueue closures into the FIFO mailbox and wait for the
// reply. Commands for the same game are therefore totally ordered, and
// broadcasts fire in command order.
type Actor struct {
	gameID  string
	mailbox chan func()
	quit    chan struct{}
	stop    sync.Once

	// Everything below is touched only on the actor goroutine.
	gs           *jarls.GameState
	version      int64
	hostID       string
	ai           map[string]Strategy
	disconnected map[string]bool
	halted       bool
	timer        *time.Timer
	timerGen     int

	events      repository.EventRepository
	snapshots   repository.SnapshotRepository
	broadcaster Broadcaster
	log         zerolog.Logger
}

func newActor(gameID string, gs *jarls.GameState, version int64, events repository.EventRepository, snapshots repository.SnapshotRepository, b Broadcaster) *Actor {
	a := &Actor{
		gameID:       gameID,
		mailbox:      make(chan func(), mailboxSize),
		quit:         make(chan struct{}),
		gs:           gs,
		version:      version,
		ai:           make(map[string]Strategy),
		disconnected: make(map[string]bool),
		events:       events,
		snapshots:    snapshots,
		broadcaster:  b,
		log:          logger.Get().With().Str("gameId", gameID).Logger(),
	}
	if len(gs.Players) > 0 {
		a.hostID = gs.Players[0].ID
	}
	for _, p := range gs.Players {
		if p.IsAI {
			if s := StrategyForDifficulty(p.AIDifficulty); s != nil {
				a.ai[p.ID] = s
			} else {
				a.ai[p.ID] = RandomStrategy{}
			}
		}
	}
	go a.run()
	return a
}

func (a *Actor) run() {
	for {
		select {
		case fn := <-a.mailbox:
			fn()
		case <-a.quit:
			// Run commands already accepted into the mailbox so their
			// callers are not left waiting; halted gates their effects.
			for {
				select {
				case fn := <-a.mailbox:
					fn()
				default:
					a.cancelTimer()
					return
				}
			}
		}
	}
}

// Stop terminates the actor and cancels its timer. Idempotent.
func (a *Actor) Stop() {
	a.stop.Do(func() { close(a.quit) })
}

// do runs fn on the actor goroutine and waits for it to finish.
func (a *Actor) do(fn func()) error {
	select {
	case <-a.quit:
		return ErrGameNotFound
	default:
	}
	done := make(chan struct{})
	select {
	case a.mailbox <- func() { defer close(done); fn() }:
	case <-a.quit:
		return ErrGameNotFound
	}
	select {
	case <-done:
		return nil
	case <-a.quit:
		// The command was accepted, so it still runs even if the actor is
		// stopping mid-command (a version-conflict stand-down closes quit
		// from inside the in-flight closure). Report its real outcome.
		select {
		case <-done:
			return nil
		case <-time.After(persistTimeout):
			return ErrGameNotFound
		}
	}
}

// post enqueues fn without waiting; used by timers and AI movers.
func (a *Actor) post(fn func()) {
	select {
	case a.mailbox <- fn:
	case <-a.quit:
	}
}

// paused reports whether play is suspended: the game is running but the
// player whose turn it is has dropped. Other players dropping does not
// block the turn holder.
func (a *Actor) paused() bool {
	return a.gs.Phase == jarls.PhasePlaying && a.disconnected[a.gs.CurrentPlayerID]
}

// status is the externally visible lifecycle state: the game phase, except
// that a paused game reads as paused.
func (a *Actor) status() string {
	if a.paused() {
		return "paused"
	}
	return string(a.gs.Phase)
}

func (a *Actor) viewState() *jarls.GameState {
	return a.gs.Clone()
}

// Join adds a human seat while the game is in the lobby.
func (a *Actor) Join(name string) (string, error) {
	var playerID string
	var err error
	if derr := a.do(func() {
		playerID, err = a.addSeat(name, false, "")
	}); derr != nil {
		return "", derr
	}
	return playerID, err
}

// AddAI adds an AI seat with the given difficulty.
func (a *Actor) AddAI(difficulty string) (string, error) {
	var playerID string
	var err error
	if derr := a.do(func() {
		strat := StrategyForDifficulty(difficulty)
		if strat == nil {
			err = ErrBadDifficulty
			return
		}
		playerID, err = a.addSeat(fmt.Sprintf("AI (%s)", strat.Name()), true, difficulty)
		if err == nil {
			a.ai[playerID] = strat
		}
	}); derr != nil {
		return "", derr
	}
	return playerID, err
}

func (a *Actor) addSeat(name string, isAI bool, difficulty string) (string, error) {
	if a.halted {
		return "", ErrGameNotFound
	}
	if a.gs.Phase != jarls.PhaseLobby {
		return "", ErrNotInLobby
	}
	if len(a.gs.Players) >= a.gs.Config.PlayerCount {
		return "", ErrGameFull
	}
	if !isAI {
		for _, p := range a.gs.Players {
			if p.Name == name {
				return "", ErrNameTaken
			}
		}
	}
	seat := len(a.gs.Players)
	playerID := fmt.Sprintf("p%d", seat+1)
	a.gs.Players = append(a.gs.Players, jarls.Player{
		ID:           playerID,
		Name:         name,
		Color:        jarls.ColorForSeat(seat),
		IsAI:         isAI,
		AIDifficulty: difficulty,
	})
	if a.hostID == "" {
		a.hostID = playerID
	}
	a.persist(nil)
	return playerID, nil
}

// Start deals the opening board. Host only; the lobby must be full.
func (a *Actor) Start(playerID string) error {
	var err error
	if derr := a.do(func() {
		switch {
		case a.halted:
			err = ErrGameNotFound
		case a.gs.Phase != jarls.PhaseLobby:
			err = ErrNotInLobby
		case playerID != a.hostID:
			err = ErrNotHost
		case len(a.gs.Players) < a.gs.Config.PlayerCount:
			err = ErrLobbyNotFull
		default:
			var gs *jarls.GameState
			gs, err = jarls.NewInitialState(a.gs.Config, a.gs.Players)
			if err != nil {
				return
			}
			a.gs = gs
			a.persist(nil)
			a.broadcaster.BroadcastToGame(a.gameID, WSGameState, map[string]any{"state": a.viewState()})
			a.afterTurn()
		}
	}); derr != nil {
		return derr
	}
	return err
}

// MakeMove applies one move for a player. Rule errors come back verbatim and
// leave the state untouched.
func (a *Actor) MakeMove(playerID string, cmd jarls.MoveCommand) error {
	var err error
	if derr := a.do(func() {
		if a.halted {
			err = ErrGameNotFound
			return
		}
		if a.paused() {
			err = ErrGamePaused
			return
		}
		err = a.applyMove(playerID, cmd)
	}); derr != nil {
		return derr
	}
	return err
}

func (a *Actor) applyMove(playerID string, cmd jarls.MoveCommand) error {
	res, err := jarls.ApplyMove(a.gs, playerID, cmd)
	if err != nil {
		return err
	}
	a.cancelTimer()
	a.gs = res.State
	a.persist(res.Events)
	a.broadcastTurn(res.Events)
	a.afterTurn()
	return nil
}

// SubmitStarvationChoice latches a starvation pick for a tied player.
func (a *Actor) SubmitStarvationChoice(playerID, pieceID string) error {
	var err error
	if derr := a.do(func() {
		if a.halted {
			err = ErrGameNotFound
			return
		}
		err = a.applyStarvationChoice(playerID, pieceID)
	}); derr != nil {
		return derr
	}
	return err
}

func (a *Actor) applyStarvationChoice(playerID, pieceID string) error {
	res, err := jarls.SubmitStarvationChoice(a.gs, playerID, pieceID)
	if err != nil {
		return err
	}
	a.gs = res.State
	a.persist(res.Events)
	if len(res.Events) > 0 {
		a.broadcastTurn(res.Events)
	}
	a.afterTurn()
	return nil
}

// State returns an immutable copy of the current game state.
func (a *Actor) State() (*jarls.GameState, error) {
	var gs *jarls.GameState
	if err := a.do(func() { gs = a.viewState() }); err != nil {
		return nil, err
	}
	return gs, nil
}

// ValidMoves lists the legal destinations for one piece.
func (a *Actor) ValidMoves(pieceID string) ([]jarls.ValidMove, error) {
	var moves []jarls.ValidMove
	if err := a.do(func() { moves = jarls.ValidMovesForPiece(a.gs, pieceID) }); err != nil {
		return nil, err
	}
	return moves, nil
}

// Summary reports the lobby-listing view of this game.
func (a *Actor) Summary() (model.GameSummary, error) {
	var s model.GameSummary
	if err := a.do(func() {
		s = model.GameSummary{
			GameID:      a.gameID,
			Status:      a.status(),
			PlayerCount: len(a.gs.Players),
			MaxPlayers:  a.gs.Config.PlayerCount,
		}
		for _, p := range a.gs.Players {
			s.Players = append(s.Players, model.PlayerSummary{Name: p.Name})
		}
	}); err != nil {
		return model.GameSummary{}, err
	}
	return s, nil
}

// OnConnect marks a player's socket as live, announces it to the room, and
// resumes a paused game when the current player returns. Reconnection resets
// the turn timer deadline.
func (a *Actor) OnConnect(playerID string) error {
	var err error
	if derr := a.do(func() {
		pl := a.gs.PlayerByID(playerID)
		if pl == nil {
			err = ErrUnknownPlayer
			return
		}
		delete(a.disconnected, playerID)
		a.broadcaster.BroadcastToGame(a.gameID, WSPlayerJoined, map[string]any{
			"playerId":   playerID,
			"playerName": pl.Name,
			"gameState":  a.viewState(),
		})
		a.afterTurn()
	}); derr != nil {
		return derr
	}
	return err
}

// OnDisconnect marks the player as gone and tells the room. Losing the
// current player pauses the game and cancels the timer so they are not timed
// out while away; losing anyone else leaves play running.
func (a *Actor) OnDisconnect(playerID string) error {
	return a.do(func() {
		if a.gs.PlayerByID(playerID) == nil {
			return
		}
		if a.gs.Phase == jarls.PhasePlaying || a.gs.Phase == jarls.PhaseStarvation {
			a.disconnected[playerID] = true
			if playerID == a.gs.CurrentPlayerID {
				a.cancelTimer()
			}
		}
		a.broadcaster.BroadcastToGame(a.gameID, WSPlayerLeft, map[string]any{
			"playerId":  playerID,
			"gameState": a.viewState(),
		})
	})
}

func (a *Actor) broadcastTurn(events []jarls.Event) {
	a.broadcaster.BroadcastToGame(a.gameID, WSTurnPlayed, map[string]any{
		"state":  a.viewState(),
		"events": events,
	})
}

// afterTurn re-arms the turn timer and schedules AI movers for whatever the
// new state needs.
func (a *Actor) afterTurn() {
	if a.halted {
		return
	}
	a.armTimer()
	a.scheduleAI()
}

func (a *Actor) armTimer() {
	a.cancelTimer()
	if a.gs.Phase != jarls.PhasePlaying || a.gs.Config.TurnTimerMs == nil || a.paused() {
		return
	}
	// AI seats move on their own schedule; the timer is for humans.
	if a.ai[a.gs.CurrentPlayerID] != nil {
		return
	}
	gen := a.timerGen
	d := time.Duration(*a.gs.Config.TurnTimerMs) * time.Millisecond
	a.timer = time.AfterFunc(d, func() {
		a.post(func() { a.handleTimeout(gen) })
	})
}

func (a *Actor) cancelTimer() {
	a.timerGen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Actor) handleTimeout(gen int) {
	if a.halted || gen != a.timerGen {
		return
	}
	res, err := jarls.ApplyTimeout(a.gs)
	if err != nil {
		return
	}
	a.log.Info().Str("playerId", a.gs.CurrentPlayerID).Msg("Turn timed out")
	a.gs = res.State
	a.persist(res.Events)
	a.broadcastTurn(res.Events)
	a.afterTurn()
}

// scheduleAI spawns mover goroutines over immutable state copies. The result
// comes back through the mailbox and is dropped if the game moved on.
func (a *Actor) scheduleAI() {
	switch a.gs.Phase {
	case jarls.PhasePlaying:
		pid := a.gs.CurrentPlayerID
		strat := a.ai[pid]
		if strat == nil {
			return
		}
		snapshot := a.gs.Clone()
		turn := a.gs.TurnNumber
		go func() {
			cmd := strat.ChooseMove(snapshot, pid)
			a.post(func() {
				if a.halted || cmd == nil {
					return
				}
				if a.gs.Phase != jarls.PhasePlaying || a.gs.CurrentPlayerID != pid || a.gs.TurnNumber != turn {
					return
				}
				if err := a.applyMove(pid, *cmd); err != nil {
					a.log.Error().Err(err).Str("playerId", pid).Str("strategy", strat.Name()).Msg("AI move rejected")
				}
			})
		}()

	case jarls.PhaseStarvation:
		for pid, candidates := range a.gs.PendingStarvation {
			if _, chosen := a.gs.StarvationChoices[pid]; chosen {
				continue
			}
			strat := a.ai[pid]
			if strat == nil {
				continue
			}
			snapshot := a.gs.Clone()
			cands := append([]string(nil), candidates...)
			pid := pid
			go func() {
				choice := strat.ChooseStarvation(snapshot, pid, cands)
				a.post(func() {
					if a.halted || a.gs.Phase != jarls.PhaseStarvation || choice == "" {
						return
					}
					if err := a.applyStarvationChoice(pid, choice); err != nil {
						a.log.Error().Err(err).Str("playerId", pid).Msg("AI starvation choice rejected")
					}
				})
			}()
		}
	}
}

// persist appends the move's events and advances the snapshot. Write
// failures are logged and swallowed so gameplay never halts on a storage
// outage; a version conflict means another actor instance owns this game and
// this one must stand down.
func (a *Actor) persist(events []jarls.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			a.log.Error().Err(err).Str("type", string(e.Type)).Msg("Event marshal failed")
			continue
		}
		if err := a.events.SaveEvent(ctx, a.gameID, string(e.Type), payload); err != nil {
			a.log.Error().Err(err).Str("type", string(e.Type)).Msg("Event write failed, continuing")
		}
	}

	state, err := json.Marshal(a.gs)
	if err != nil {
		a.log.Error().Err(err).Msg("State marshal failed")
		return
	}
	a.version++
	if err := a.snapshots.SaveSnapshot(ctx, a.gameID, state, a.version, a.status()); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			a.log.Error().Int64("version", a.version).Msg("Snapshot version conflict, standing down")
			a.halted = true
			a.Stop()
			return
		}
		a.log.Error().Err(err).Int64("version", a.version).Msg("Snapshot write failed, continuing")
		// Keep the counter aligned with the stored row so the next write
		// does not read as a conflict after a transient outage.
		a.version--
	}
}
