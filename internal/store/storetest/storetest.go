// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/shared"
	"github.com/alrazi/medstock/internal/store"
)

// Factory returns an initialised, empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

type doc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

var errAbort = errors.New("abort unit of work")

// Run exercises the full store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		s := open(t, newStore)
		_, err := s.Get(context.Background(), store.Items, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("PutGetReplace", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, s, store.Items, "a", doc{ID: "a", Name: "Gauze", Qty: 3}))
		got, err := store.Load[doc](ctx, s, store.Items, "a")
		require.NoError(t, err)
		assert.Equal(t, doc{ID: "a", Name: "Gauze", Qty: 3}, got)

		require.NoError(t, store.Save(ctx, s, store.Items, "a", doc{ID: "a", Name: "Gauze", Qty: 9}))
		got, err = store.Load[doc](ctx, s, store.Items, "a")
		require.NoError(t, err)
		assert.Equal(t, 9, got.Qty)
	})

	t.Run("CollectionsAreIndependent", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, s, store.Items, "same", doc{ID: "same", Name: "item"}))
		require.NoError(t, store.Save(ctx, s, store.Users, "same", doc{ID: "same", Name: "user"}))

		item, err := store.Load[doc](ctx, s, store.Items, "same")
		require.NoError(t, err)
		user, err := store.Load[doc](ctx, s, store.Users, "same")
		require.NoError(t, err)
		assert.Equal(t, "item", item.Name)
		assert.Equal(t, "user", user.Name)

		_, err = s.Get(ctx, store.Transactions, "same")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("GetAll", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		all, err := store.LoadAll[doc](ctx, s, store.Transactions)
		require.NoError(t, err)
		assert.Empty(t, all)

		for _, d := range []doc{{ID: "1", Qty: 1}, {ID: "2", Qty: 2}, {ID: "3", Qty: 3}} {
			require.NoError(t, store.Save(ctx, s, store.Transactions, d.ID, d))
		}
		all, err = store.LoadAll[doc](ctx, s, store.Transactions)
		require.NoError(t, err)
		assert.ElementsMatch(t, []doc{{ID: "1", Qty: 1}, {ID: "2", Qty: 2}, {ID: "3", Qty: 3}}, all)
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, s, store.Users, "u1", doc{ID: "u1"}))
		require.NoError(t, s.Delete(ctx, store.Users, "u1"))
		_, err := s.Get(ctx, store.Users, "u1")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, s.Delete(ctx, store.Users, "u1"))
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		s := open(t, newStore)
		err := s.Put(context.Background(), store.Collection("orders"), "x", []byte(`{}`))
		require.ErrorIs(t, err, store.ErrUnknownCollection)
	})

	t.Run("InitIsRepeatable", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, s, store.Items, "kept", doc{ID: "kept"}))
		require.NoError(t, s.Init(ctx))
		_, err := s.Get(ctx, store.Items, "kept")
		require.NoError(t, err)
	})

	t.Run("WithTxCommits", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, s, store.Items, "gone", doc{ID: "gone"}))

		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := store.Save(ctx, tx, store.Items, "i1", doc{ID: "i1", Qty: 5}); err != nil {
				return err
			}
			if err := store.Save(ctx, tx, store.Transactions, "t1", doc{ID: "t1", Qty: 5}); err != nil {
				return err
			}
			return tx.Delete(ctx, store.Items, "gone")
		})
		require.NoError(t, err)

		item, err := store.Load[doc](ctx, s, store.Items, "i1")
		require.NoError(t, err)
		assert.Equal(t, 5, item.Qty)
		_, err = s.Get(ctx, store.Transactions, "t1")
		require.NoError(t, err)
		_, err = s.Get(ctx, store.Items, "gone")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("WithTxReadsOwnWrites", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := store.Save(ctx, tx, store.Items, "i1", doc{ID: "i1", Qty: 7}); err != nil {
				return err
			}
			got, err := store.Load[doc](ctx, tx, store.Items, "i1")
			if err != nil {
				return err
			}
			assert.Equal(t, 7, got.Qty)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("WithTxRollsBack", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, s, store.Items, "i1", doc{ID: "i1", Qty: 1}))

		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := store.Save(ctx, tx, store.Items, "i1", doc{ID: "i1", Qty: 100}); err != nil {
				return err
			}
			if err := store.Save(ctx, tx, store.Transactions, "t1", doc{ID: "t1"}); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		item, err := store.Load[doc](ctx, s, store.Items, "i1")
		require.NoError(t, err)
		assert.Equal(t, 1, item.Qty)
		_, err = s.Get(ctx, store.Transactions, "t1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func open(t *testing.T, newStore Factory) store.Store {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
