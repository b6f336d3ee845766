package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/freeeve/throneofjarls/api/internal/model"
	"github.com/freeeve/throneofjarls/api/internal/repository"
)

// mockEventRepo is an in-memory append-only event log.
type mockEventRepo struct {
	mu      sync.Mutex
	events  []model.GameEvent
	saveErr error
}

func (m *mockEventRepo) SaveEvent(_ context.Context, gameID, eventType string, payload json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.events = append(m.events, model.GameEvent{
		GameID:    gameID,
		Type:      eventType,
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockEventRepo) LoadEvents(_ context.Context, gameID string) ([]model.GameEvent, error) {
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

func (m *mockEventRepo) eventTypes(gameID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.GameID == gameID {
			out = append(out, e.Type)
		}
	}
	return out
}

// mockSnapshotRepo is an in-memory snapshot store enforcing the same
// compare-and-swap rule as the Postgres one.
type mockSnapshotRepo struct {
	mu      sync.Mutex
	snaps   map[string]model.Snapshot
	saveErr error
}

func newMockSnapshotRepo() *mockSnapshotRepo {
	return &mockSnapshotRepo{snaps: make(map[string]model.Snapshot)}
}

func (m *mockSnapshotRepo) SaveSnapshot(_ context.Context, gameID string, state json.RawMessage, version int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	prev, exists := m.snaps[gameID]
	if exists && prev.Version != version-1 {
		return repository.ErrVersionConflict
	}
	now := time.Now()
	created := now
	if exists {
		created = prev.CreatedAt
	}
	m.snaps[gameID] = model.Snapshot{
		GameID:    gameID,
		State:     append(json.RawMessage(nil), state...),
		Version:   version,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: now,
	}
	return nil
}

func (m *mockSnapshotRepo) LoadSnapshot(_ context.Context, gameID string) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[gameID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mockSnapshotRepo) LoadActiveSnapshots(_ context.Context) ([]model.Snapshot, error) {
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

func (m *mockSnapshotRepo) setVersion(gameID string, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.snaps[gameID]
	s.Version = version
	m.snaps[gameID] = s
}

func (m *mockSnapshotRepo) current(gameID string) (model.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[gameID]
	return s, ok
}

// recordedEvent is one broadcast captured by the recording broadcaster.
type recordedEvent struct {
	GameID string
	Type   string
	Data   any
}

// recordingBroadcaster captures fan-out calls in emission order.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) BroadcastToGame(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{GameID: gameID, Type: eventType, Data: data})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}
