// Package redisstore implements store.Store on Redis. Each collection is one
// hash whose fields are document ids.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/alrazi/medstock/internal/shared"
	"github.com/alrazi/medstock/internal/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

const schemaVersionKey = "schema_version"

// Store keeps collections under "<prefix>:<collection>" hashes.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps a connected client. Close closes the client.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "medstock"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(c store.Collection) string {
	return s.prefix + ":" + string(c)
}

func (s *Store) keys() []string {
	keys := make([]string, 0, len(store.Collections))
	for _, c := range store.Collections {
		keys = append(keys, s.key(c))
	}
	return keys
}

// Init records the schema version; hashes need no provisioning.
func (s *Store) Init(ctx context.Context) error {
	key := s.prefix + ":" + schemaVersionKey
	if err := s.client.SetNX(ctx, key, store.SchemaVersion, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: init: %w: %w", shared.ErrStoreUnavailable, err)
	}
	ver, err := s.client.Get(ctx, key).Int()
	if err != nil {
		return fmt.Errorf("redisstore: init: %w: %w", shared.ErrStoreUnavailable, err)
	}
	if ver != store.SchemaVersion {
		return fmt.Errorf("redisstore: schema version %d, want %d", ver, store.SchemaVersion)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redisstore: ping: %w: %w", shared.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, c store.Collection, key string) ([]byte, error) {
	return s.get(ctx, s.client, c, key)
}

func (s *Store) GetAll(ctx context.Context, c store.Collection) ([][]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	docs, err := s.client.HGetAll(ctx, s.key(c)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list %s: %w", c, err)
	}
	return sortedDocs(docs, nil), nil
}

func (s *Store) Put(ctx context.Context, c store.Collection, key string, doc []byte) error {
	if err := store.Check(c); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key(c), key, doc).Err(); err != nil {
		return fmt.Errorf("redisstore: put %s/%s: %w", c, key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, c store.Collection, key string) error {
	if err := store.Check(c); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.key(c), key).Err(); err != nil {
		return fmt.Errorf("redisstore: delete %s/%s: %w", c, key, err)
	}
	return nil
}

// WithTx watches every collection hash, runs fn against the watched view and
// commits the staged writes in one MULTI/EXEC. If another client touched a
// watched hash meanwhile the unit of work is dropped and store.ErrConflict
// returned; there is no retry.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		tx := &redisTx{store: s, rtx: rtx, staged: make(map[store.Collection]map[string][]byte)}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if len(tx.staged) == 0 {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for c, docs := range tx.staged {
				for key, doc := range docs {
					if doc == nil {
						pipe.HDel(ctx, s.key(c), key)
						continue
					}
					pipe.HSet(ctx, s.key(c), key, doc)
				}
			}
			return nil
		})
		return err
	}, s.keys()...)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("redisstore: %w", store.ErrConflict)
	}
	return err
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (s *Store) get(ctx context.Context, r hashGetter, c store.Collection, key string) ([]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	doc, err := r.HGet(ctx, s.key(c), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s/%s: %w", c, key, err)
	}
	return doc, nil
}

type redisTx struct {
	store  *Store
	rtx    *redis.Tx
	staged map[store.Collection]map[string][]byte
}

func (t *redisTx) Get(ctx context.Context, c store.Collection, key string) ([]byte, error) {
	if doc, ok := t.staged[c][key]; ok {
		if doc == nil {
			return nil, store.ErrNotFound
		}
		return doc, nil
	}
	return t.store.get(ctx, t.rtx, c, key)
}

func (t *redisTx) GetAll(ctx context.Context, c store.Collection) ([][]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	docs, err := t.rtx.HGetAll(ctx, t.store.key(c)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list %s: %w", c, err)
	}
	return sortedDocs(docs, t.staged[c]), nil
}

func (t *redisTx) Put(_ context.Context, c store.Collection, key string, doc []byte) error {
	if err := store.Check(c); err != nil {
		return err
	}
	if doc == nil {
		doc = []byte{}
	}
	t.stage(c)[key] = doc
	return nil
}

func (t *redisTx) Delete(_ context.Context, c store.Collection, key string) error {
	if err := store.Check(c); err != nil {
		return err
	}
	t.stage(c)[key] = nil
	return nil
}

func (t *redisTx) stage(c store.Collection) map[string][]byte {
	docs, ok := t.staged[c]
	if !ok {
		docs = make(map[string][]byte)
		t.staged[c] = docs
	}
	return docs
}

// sortedDocs merges staged writes over stored fields and orders by id.
func sortedDocs(stored map[string]string, staged map[string][]byte) [][]byte {
	merged := make(map[string][]byte, len(stored))
	for key, doc := range stored {
		merged[key] = []byte(doc)
	}
	for key, doc := range staged {
		if doc == nil {
			delete(merged, key)
			continue
		}
		merged[key] = doc
	}
	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([][]byte, 0, len(keys))
	for _, key := range keys {
		out = append(out, merged[key])
	}
	return out
}
