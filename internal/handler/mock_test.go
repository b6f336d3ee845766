package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/freeeve/throneofjarls/api/internal/model"
	"github.com/freeeve/throneofjarls/api/internal/repository"
)

// memEventRepo is an in-memory event log for handler tests.
type memEventRepo struct {
	mu     sync.Mutex
	events []model.GameEvent
}

func (m *memEventRepo) SaveEvent(_ context.Context, gameID, eventType string, payload json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, model.GameEvent{GameID: gameID, Type: eventType, Payload: payload, CreatedAt: time.Now()})
	return nil
}

func (m *memEventRepo) LoadEvents(_ context.Context, gameID string) ([]model.GameEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.GameEvent
	for _, e := range m.events {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out, nil
}

// memSnapshotRepo is an in-memory snapshot store with the CAS rule.
type memSnapshotRepo struct {
	mu    sync.Mutex
	snaps map[string]model.Snapshot
}

func newMemSnapshotRepo() *memSnapshotRepo {
	return &memSnapshotRepo{snaps: make(map[string]model.Snapshot)}
}

func (m *memSnapshotRepo) SaveSnapshot(_ context.Context, gameID string, state json.RawMessage, version int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, exists := m.snaps[gameID]
	if (exists && prev.Version != version-1) || (!exists && version != 1) {
		return repository.ErrVersionConflict
	}
	m.snaps[gameID] = model.Snapshot{GameID: gameID, State: state, Version: version, Status: status, UpdatedAt: time.Now()}
	return nil
}

func (m *memSnapshotRepo) LoadSnapshot(_ context.Context, gameID string) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[gameID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSnapshotRepo) LoadActiveSnapshots(context.Context) ([]model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Snapshot
	for _, s := range m.snaps {
		if s.Status != "ended" {
			out = append(out, s)
		}
	}
	return out, nil
}

// memSessionStore is an in-memory stand-in for the Redis session store.
type memSessionStore struct {
	mu       sync.Mutex
	next     int
	sessions map[string]model.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]model.Session)}
}

func (m *memSessionStore) CreateSession(_ context.Context, s model.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := fmt.Sprintf("%064x", m.next)
	m.sessions[token] = s
	return token, nil
}

func (m *memSessionStore) ValidateSession(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessionStore) InvalidateSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memSessionStore) ExtendSession(context.Context, string) error { return nil }
