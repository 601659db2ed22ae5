package repo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shipment-tracker/internal/domain"
)

func openRepos(t *testing.T) map[string]domain.SnapshotRepository {
	t.Helper()
	sqliteRepo, err := OpenSQLite(filepath.Join(t.TempDir(), "shipments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteRepo.Close() })

	return map[string]domain.SnapshotRepository{
		"file":   NewFileSnapshotRepo(filepath.Join(t.TempDir(), "nested")),
		"sqlite": sqliteRepo,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	records := []domain.ShippingRecord{
		{Buyer: "Alice", ProductID: 1, Quantity: 3, ShippingAddress: "1 Main St", ShippingTarget: 1704103200000},
		{Buyer: "Bob", ProductID: 2, Quantity: 1, ShippingAddress: "2 Oak Ave", ShippingTarget: 1704184215000},
	}
	blob, err := json.Marshal(records)
	require.NoError(t, err)

	for name, r := range openRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := r.Load(ctx, "shippingProducts")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			require.NoError(t, r.Save(ctx, "shippingProducts", blob))
			raw, err := r.Load(ctx, "shippingProducts")
			require.NoError(t, err)

			var got []domain.ShippingRecord
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.ElementsMatch(t, records, got)
		})
	}
}

func TestSnapshotOverwrite(t *testing.T) {
	for name, r := range openRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Save(ctx, "snap", []byte(`[1]`)))
			require.NoError(t, r.Save(ctx, "snap", []byte(`[1,2]`)))

			raw, err := r.Load(ctx, "snap")
			require.NoError(t, err)
			assert.JSONEq(t, `[1,2]`, string(raw))
		})
	}
}

func TestFileRepoLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewFileSnapshotRepo(dir)
	require.NoError(t, r.Save(context.Background(), "snap", []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snap.json", entries[0].Name())
}

func TestFileRepoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileSnapshotRepo(t.TempDir()).Save(ctx, "snap", []byte(`[]`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}
