package sqlstore_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/platform/db"
	"github.com/alrazi/medstock/internal/store"
	"github.com/alrazi/medstock/internal/store/sqlstore"
	"github.com/alrazi/medstock/internal/store/storetest"
)

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		pool, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "medstock.db"))
		require.NoError(t, err)
		s := sqlstore.New(pool, sqlstore.SQLite)
		require.NoError(t, s.Init(ctx))
		return s
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "medstock.db")

	pool, err := db.OpenSQLite(ctx, path)
	require.NoError(t, err)
	s := sqlstore.New(pool, sqlstore.SQLite)
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Put(ctx, store.Items, "i1", []byte(`{"id":"i1","currentQuantity":4}`)))
	require.NoError(t, s.Close())

	pool, err = db.OpenSQLite(ctx, path)
	require.NoError(t, err)
	s = sqlstore.New(pool, sqlstore.SQLite)
	defer s.Close()
	require.NoError(t, s.Init(ctx))

	doc, err := s.Get(ctx, store.Items, "i1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"i1","currentQuantity":4}`, string(doc))
}

func TestMySQLContract(t *testing.T) {
	dsn := os.Getenv("MEDSTOCK_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("MEDSTOCK_TEST_MYSQL_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		pool, err := db.OpenMySQL(ctx, dsn)
		if err != nil {
			t.Skipf("MySQL not available: %v", err)
		}
		s := sqlstore.New(pool, sqlstore.MySQL)
		require.NoError(t, s.Init(ctx))
		for _, c := range store.Collections {
			_, err := pool.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", c))
			require.NoError(t, err)
		}
		return s
	})
}
