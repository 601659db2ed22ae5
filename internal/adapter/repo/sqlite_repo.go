package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/shipment-tracker/internal/domain"
	_ "modernc.org/sqlite"
)

type SQLiteSnapshotRepo struct {
	db *sql.DB
}

// OpenSQLite открывает (и при необходимости создаёт) базу по пути path.
func OpenSQLite(path string) (*SQLiteSnapshotRepo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS snapshots (
  name TEXT PRIMARY KEY,
  payload BLOB NOT NULL,
  updated_at INTEGER NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SQLiteSnapshotRepo{db: db}, nil
}

func (r *SQLiteSnapshotRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, name string, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(name, payload, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, blob, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context, name string) ([]byte, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	return raw, nil
}

var _ domain.SnapshotRepository = (*SQLiteSnapshotRepo)(nil)
