package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/shipment-tracker/internal/domain"
)

// FileSnapshotRepo хранит каждый снимок в файле <Dir>/<name>.json.
type FileSnapshotRepo struct {
	Dir string
}

func NewFileSnapshotRepo(dir string) *FileSnapshotRepo {
	return &FileSnapshotRepo{Dir: dir}
}

func (r *FileSnapshotRepo) path(name string) string {
	return filepath.Join(r.Dir, name+".json")
}

func (r *FileSnapshotRepo) Load(_ context.Context, name string) ([]byte, error) {
	raw, err := os.ReadFile(r.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return raw, nil
}

// Save пишет во временный файл и переименовывает, чтобы читатель не увидел обрезанный снимок.
func (r *FileSnapshotRepo) Save(ctx context.Context, name string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(r.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), r.path(name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename snapshot %s: %w", name, err)
	}
	return nil
}

var _ domain.SnapshotRepository = (*FileSnapshotRepo)(nil)
