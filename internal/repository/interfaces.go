package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/freeeve/throneofjarls/api/internal/model"
)

// ErrVersionConflict is returned by SaveSnapshot when the stored version does
// not match the expected predecessor. The actor is the sole writer for its
// game, so a conflict means a crashed predecessor's replacement raced us and
// this writer must stand down.
var ErrVersionConflict = errors.New("snapshot version conflict")

// EventRepository is the append-only game event log.
type EventRepository interface {
	SaveEvent(ctx context.Context, gameID, eventType string, payload json.RawMessage) error
	LoadEvents(ctx context.Context, gameID string) ([]model.GameEvent, error)
}

// SnapshotRepository stores the latest full state per game with
// compare-and-swap versioning.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, gameID string, state json.RawMessage, version int64, status string) error
	LoadSnapshot(ctx context.Context, gameID string) (*model.Snapshot, error)
	LoadActiveSnapshots(ctx context.Context) ([]model.Snapshot, error)
}

// SessionStore holds TTL'd player sessions keyed by opaque token.
type SessionStore interface {
	CreateSession(ctx context.Context, s model.Session) (string, error)
	ValidateSession(ctx context.Context, token string) (*model.Session, error)
	InvalidateSession(ctx context.Context, token string) error
	ExtendSession(ctx context.Context, token string) error
}
