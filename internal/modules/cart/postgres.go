package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresStorage struct{ db *sql.DB }

// NewPostgresStorage stores snapshots in the cart_snapshots table.
func NewPostgresStorage(db *sql.DB) Storage { return &postgresStorage{db: db} }

// EnsureSchema creates the snapshot table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cart_snapshots (
		  session_id TEXT PRIMARY KEY,
		  payload    JSONB NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create cart_snapshots: %w", err)
	}
	return nil
}

func (r *postgresStorage) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM cart_snapshots WHERE session_id=$1`, sessionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	return payload, nil
}

func (r *postgresStorage) Save(ctx context.Context, sessionID string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (session_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`,
		sessionID, payload)
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}
