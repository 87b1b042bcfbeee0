package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/store"
	"github.com/alrazi/medstock/internal/store/storetest"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(client, "test")
	require.NoError(t, s.Init(context.Background()))
	return s, mr
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, _ := newStore(t)
		return s
	})
}

func TestCollectionsLiveInPrefixedHashes(t *testing.T) {
	s, mr := newStore(t)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, store.Items, "i1", []byte(`{"id":"i1"}`)))
	require.Equal(t, `{"id":"i1"}`, mr.HGet("test:items", "i1"))

	ver, err := mr.Get("test:schema_version")
	require.NoError(t, err)
	require.Equal(t, "1", ver)
}

func TestWithTxConflict(t *testing.T) {
	s, mr := newStore(t)
	defer s.Close()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, store.Items, "i1", []byte(`{"qty":1}`)))

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.Get(ctx, store.Items, "i1"); err != nil {
			return err
		}
		require.NoError(t, other.HSet(ctx, "test:items", "i1", `{"qty":50}`).Err())
		return tx.Put(ctx, store.Items, "i1", []byte(`{"qty":2}`))
	})
	require.ErrorIs(t, err, store.ErrConflict)
	require.Equal(t, `{"qty":50}`, mr.HGet("test:items", "i1"))
}
