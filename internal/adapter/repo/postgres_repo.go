package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shipment-tracker/internal/domain"
)

type PostgresSnapshotRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresSnapshotRepo(pool *pgxpool.Pool) *PostgresSnapshotRepo {
	return &PostgresSnapshotRepo{Pool: pool}
}

func (r *PostgresSnapshotRepo) Save(ctx context.Context, name string, blob []byte) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO snapshots(name, payload, updated_at) VALUES($1, $2, now())
        ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`, name, blob)
	return err
}

func (r *PostgresSnapshotRepo) Load(ctx context.Context, name string) ([]byte, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `SELECT payload FROM snapshots WHERE name = $1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

var _ domain.SnapshotRepository = (*PostgresSnapshotRepo)(nil)

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS snapshots (
  name text PRIMARY KEY,
  payload jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);`)
	return err
}
