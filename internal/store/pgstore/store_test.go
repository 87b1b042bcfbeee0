package pgstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/platform/db"
	"github.com/alrazi/medstock/internal/store"
	"github.com/alrazi/medstock/internal/store/pgstore"
	"github.com/alrazi/medstock/internal/store/storetest"
)

func TestPostgresContract(t *testing.T) {
	dsn := os.Getenv("MEDSTOCK_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("MEDSTOCK_TEST_PG_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		pool, err := db.NewPostgres(ctx, dsn)
		if err != nil {
			t.Skipf("Postgres not available: %v", err)
		}
		s := pgstore.New(pool)
		require.NoError(t, s.Init(ctx))
		for _, c := range store.Collections {
			_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", c))
			require.NoError(t, err)
		}
		return s
	})
}
