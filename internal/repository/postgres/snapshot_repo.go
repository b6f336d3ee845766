package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/freeeve/throneofjarls/api/internal/model"
	"github.com/freeeve/throneofjarls/api/internal/repository"
)

// SnapshotRepo stores the latest game state per game with optimistic
// concurrency on the version column.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a SnapshotRepo.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// SaveSnapshot inserts the first snapshot of a game or advances an existing
// one. The update only applies where the stored version equals version-1;
// anything else is a repository.ErrVersionConflict.
func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, gameID string, state json.RawMessage, version int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO game_snapshots (game_id, state, version, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (game_id) DO UPDATE
		 SET state = EXCLUDED.state, version = EXCLUDED.version,
		     status = EXCLUDED.status, updated_at = now()
		 WHERE game_snapshots.version = EXCLUDED.version - 1`,
		gameID, []byte(state), version, status)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if n == 0 {
		return repository.ErrVersionConflict
	}
	return nil
}

// LoadSnapshot returns a game's snapshot, or nil if none exists.
func (r *SnapshotRepo) LoadSnapshot(ctx context.Context, gameID string) (*model.Snapshot, error) {
	var s model.Snapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT game_id, state, version, status, created_at, updated_at
		 FROM game_snapshots WHERE game_id = $1`, gameID,
	).Scan(&s.GameID, &s.State, &s.Version, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &s, nil
}

// LoadActiveSnapshots returns all snapshots whose game has not ended.
func (r *SnapshotRepo) LoadActiveSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, state, version, status, created_at, updated_at
		 FROM game_snapshots WHERE status <> 'ended'
		 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("load active snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		if err := rows.Scan(&s.GameID, &s.State, &s.Version, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
