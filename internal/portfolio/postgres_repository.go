package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores entries in the portfolio_entries table:
//
//	id uuid primary key default gen_random_uuid(),
//	user_id text not null, asset_type text not null,
//	value double precision not null, month text not null,
//	created_at timestamptz not null, created_by text not null
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one row. The database generates the id and stamps
// created_at with its own clock.
func (r *PostgresRepository) Create(ctx context.Context, uid string, entry NewEntry) (string, error) {
	const query = `INSERT INTO portfolio_entries (user_id, asset_type, value, month, created_at, created_by)
        VALUES ($1, $2, $3, $4, now(), $5)
        RETURNING id`
	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, uid, entry.AssetType, entry.Value, entry.Month, entry.CreatedBy).Scan(&id); err != nil {
		return "", err
	}
	return id.String(), nil
}
