package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/freeeve/throneofjarls/api/internal/model"
)

// EventRepo is the append-only game event log in Postgres.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates an EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// SaveEvent appends one event. Ordering within a game is created_at, then
// insertion order.
func (r *EventRepo) SaveEvent(ctx context.Context, gameID, eventType string, payload json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_events (game_id, type, payload) VALUES ($1, $2, $3)`,
		gameID, eventType, []byte(payload))
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// LoadEvents returns a game's full event log, oldest first.
func (r *EventRepo) LoadEvents(ctx context.Context, gameID string) ([]model.GameEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, type, payload, created_at
		 FROM game_events WHERE game_id = $1
		 ORDER BY created_at, id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []model.GameEvent
	for rows.Next() {
		var e model.GameEvent
		if err := rows.Scan(&e.GameID, &e.Type, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
