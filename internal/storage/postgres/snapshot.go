package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/encounter/internal/game/encounter"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotInfo describes a stored snapshot without its body.
type SnapshotInfo struct {
	Name      string
	UpdatedAt time.Time
}

// SnapshotRepository stores named game-state snapshots as JSONB.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Get loads and validates the snapshot called name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the parsed GameState, ErrSnapshotNotFound, or a
// wrapped query or validation error.
func (r *SnapshotRepository) Get(ctx context.Context, name string) (*encounter.GameState, error) {
	var body []byte
	err := r.db.QueryRow(ctx,
		`SELECT body FROM snapshots WHERE name = $1`,
		name,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("querying snapshot %q: %w", name, err)
	}

	state, err := encounter.ParseState(body)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return state, nil
}

// Put inserts or replaces the snapshot called name.
//
// Precondition: name must be non-empty; state must pass Validate.
// Postcondition: The snapshot row exists with updated_at set to now.
func (r *SnapshotRepository) Put(ctx context.Context, name string, state *encounter.GameState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding snapshot %q: %w", name, err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO snapshots (name, body, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		name, body,
	)
	if err != nil {
		return fmt.Errorf("upserting snapshot %q: %w", name, err)
	}
	return nil
}

// List returns every stored snapshot ordered by name.
func (r *SnapshotRepository) List(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := r.db.Query(ctx, `SELECT name, updated_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Name, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// SnapshotSource adapts one named snapshot to encounter.StateSource.
type SnapshotSource struct {
	Repo *SnapshotRepository
	Name string
}

// Load implements encounter.StateSource.
func (s SnapshotSource) Load(ctx context.Context) (*encounter.GameState, error) {
	return s.Repo.Get(ctx, s.Name)
}
