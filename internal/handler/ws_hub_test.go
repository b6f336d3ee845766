package handler

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/freeeve/throneofjarls/api/internal/game"
	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

func newTestConn(playerID string) *WSConn {
	return &WSConn{
		conn:     nil, // no real connection for hub tests
		playerID: playerID,
		send:     make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("p1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub()
	c := newTestConn("p1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Join(c, "game-1")
	if hub.RoomSize("game-1") != 1 {
		t.Errorf("expected 1 member, got %d", hub.RoomSize("game-1"))
	}

	hub.Leave(c, "game-1")
	if hub.RoomSize("game-1") != 0 {
		t.Errorf("expected 0 members, got %d", hub.RoomSize("game-1"))
	}
}

func TestHubBroadcastToGame(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("p1")
	c2 := newTestConn("p2")
	c3 := newTestConn("p3") // different room

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.Join(c1, "game-1")
	hub.Join(c2, "game-1")
	hub.Join(c3, "game-2")

	hub.BroadcastToGame("game-1", game.WSTurnPlayed, map[string]string{"turn": "2"})

	select {
	case msg := <-c1.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != game.WSTurnPlayed {
			t.Errorf("expected turnPlayed, got %s", event.Type)
		}
		if event.GameID != "game-1" {
			t.Errorf("expected game-1, got %s", event.GameID)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
		// ok
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received another room's broadcast")
	default:
		// ok
	}
}

func TestHubUnregisterCleansUpRooms(t *testing.T) {
	hub := NewHub()
	c := newTestConn("p1")
	hub.Register(c)
	hub.Join(c, "game-1")

	hub.Unregister(c)

	if hub.RoomSize("game-1") != 0 {
		t.Errorf("expected empty room after unregister")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	// Concurrently register, join, broadcast, unregister
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestConn("p1")
			hub.Register(c)
			hub.Join(c, "game-1")
			hub.BroadcastToGame("game-1", game.WSGameState, nil)
			hub.Leave(c, "game-1")
			hub.Unregister(c)
		}()
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestErrorCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{game.ErrGameNotFound, "GAME_NOT_FOUND"},
		{game.ErrNotHost, "UNAUTHORIZED"},
		{game.ErrUnknownPlayer, "UNAUTHORIZED"},
		{errBadSession, "UNAUTHORIZED"},
		{errNotJoined, "UNAUTHORIZED"},
		{game.ErrGameFull, "VALIDATION_ERROR"},
		{game.ErrNameTaken, "VALIDATION_ERROR"},
		{game.ErrNotInLobby, "VALIDATION_ERROR"},
		{game.ErrLobbyNotFull, "VALIDATION_ERROR"},
		{game.ErrGamePaused, "VALIDATION_ERROR"},
		{game.ErrBadDifficulty, "VALIDATION_ERROR"},
		{&jarls.RuleError{Code: jarls.ErrNotYourTurn, Message: "x"}, jarls.ErrNotYourTurn},
		{errors.New("disk on fire"), "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		if got := errorCode(tc.err); got != tc.want {
			t.Errorf("errorCode(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
