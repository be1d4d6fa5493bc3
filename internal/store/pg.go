package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sokho/sokho/internal/platform/db"
)

// PGRepository persists snapshots as single JSONB payloads, one row per
// version. The newest row wins on load; older rows are kept as history.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository builds a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (r *PGRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS store_snapshots (
		version  BIGINT PRIMARY KEY,
		payload  JSONB NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// Load fetches the newest snapshot.
func (r *PGRepository) Load(ctx context.Context) (Data, uint64, error) {
	const query = `SELECT version, payload FROM store_snapshots ORDER BY version DESC LIMIT 1`
	var (
		version int64
		payload []byte
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&version, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Data{}, 0, ErrNoSnapshot
		}
		return Data{}, 0, fmt.Errorf("store: load snapshot: %w", err)
	}
	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return Data{}, 0, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return data, uint64(version), nil
}

// Save appends a snapshot row and prunes history beyond the retention window.
func (r *PGRepository) Save(ctx context.Context, data Data, version uint64) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `INSERT INTO store_snapshots (version, payload, saved_at) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insert, int64(version), payload, time.Now().UTC()); err != nil {
			return fmt.Errorf("store: save snapshot: %w", err)
		}
		const prune = `DELETE FROM store_snapshots WHERE version < $1`
		if _, err := tx.Exec(ctx, prune, int64(version)-snapshotRetention); err != nil {
			return fmt.Errorf("store: prune snapshots: %w", err)
		}
		return nil
	})
}

// snapshotRetention keeps a short undo trail of whole-store writes.
const snapshotRetention = 50
