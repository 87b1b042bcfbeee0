package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/app"
	"github.com/alrazi/medstock/internal/store/memstore"
	_ "github.com/alrazi/medstock/testing"
)

func TestMainSkipsProvisioningInTestMode(t *testing.T) {
	require.Equal(t, "1", os.Getenv("MEDSTOCK_TEST_MODE"))
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
	main()
}

func TestLoadDemoItems(t *testing.T) {
	items, err := loadDemoItems("")
	require.NoError(t, err)
	require.Len(t, items, 6)
	require.Equal(t, "DRS-001", items[0].Code)
	require.Equal(t, 120, items[0].InitialQuantity)

	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - code: X-1\n    name: Swab\n"), 0o600))
	items, err = loadDemoItems(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Swab", items[0].Name)

	_, err = loadDemoItems(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSeedDemoItemsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	core, err := app.New(ctx, &app.Config{LowStockThreshold: 10}, logger, memstore.New())
	require.NoError(t, err)
	defer core.Close()

	demo, err := loadDemoItems("")
	require.NoError(t, err)
	require.NoError(t, seedDemoItems(ctx, core, demo, logger))
	require.NoError(t, seedDemoItems(ctx, core, demo, logger))

	items, err := core.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(demo))
	require.NoError(t, logSummary(ctx, core, logger))
}
