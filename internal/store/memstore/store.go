// Package memstore is an in-process record store. It backs tests and
// throwaway sessions; nothing survives Close.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/alrazi/medstock/internal/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	data   map[store.Collection]map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{data: make(map[store.Collection]map[string][]byte)}
}

// Init creates the collection maps.
func (s *Store) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	for _, c := range store.Collections {
		if _, ok := s.data[c]; !ok {
			s.data[c] = make(map[string][]byte)
		}
	}
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return store.ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}

func (s *Store) Get(_ context.Context, c store.Collection, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(c, key)
}

func (s *Store) GetAll(_ context.Context, c store.Collection) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAll(c)
}

func (s *Store) Put(_ context.Context, c store.Collection, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(c, key, doc)
}

func (s *Store) Delete(_ context.Context, c store.Collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(c, key)
}

// WithTx holds the write lock for the whole unit of work. Writes are staged
// and applied only when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	tx := &memTx{store: s, staged: make(map[store.Collection]map[string][]byte)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for c, staged := range tx.staged {
		docs, err := s.collection(c)
		if err != nil {
			return err
		}
		for key, doc := range staged {
			if doc == nil {
				delete(docs, key)
				continue
			}
			docs[key] = doc
		}
	}
	return nil
}

func (s *Store) collection(c store.Collection) (map[string][]byte, error) {
	if s.closed {
		return nil, store.ErrClosed
	}
	if err := store.Check(c); err != nil {
		return nil, err
	}
	docs, ok := s.data[c]
	if !ok {
		docs = make(map[string][]byte)
		s.data[c] = docs
	}
	return docs, nil
}

func (s *Store) get(c store.Collection, key string) ([]byte, error) {
	docs, err := s.collection(c)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(doc), nil
}

func (s *Store) getAll(c store.Collection) ([][]byte, error) {
	docs, err := s.collection(c)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(docs))
	for key := range docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([][]byte, 0, len(keys))
	for _, key := range keys {
		out = append(out, clone(docs[key]))
	}
	return out, nil
}

func (s *Store) put(c store.Collection, key string, doc []byte) error {
	docs, err := s.collection(c)
	if err != nil {
		return err
	}
	docs[key] = clone(doc)
	return nil
}

func (s *Store) delete(c store.Collection, key string) error {
	docs, err := s.collection(c)
	if err != nil {
		return err
	}
	delete(docs, key)
	return nil
}

// memTx overlays staged writes on the locked store. A nil staged document
// marks a delete.
type memTx struct {
	store  *Store
	staged map[store.Collection]map[string][]byte
}

func (tx *memTx) Get(_ context.Context, c store.Collection, key string) ([]byte, error) {
	if docs, ok := tx.staged[c]; ok {
		if doc, ok := docs[key]; ok {
			if doc == nil {
				return nil, store.ErrNotFound
			}
			return clone(doc), nil
		}
	}
	return tx.store.get(c, key)
}

func (tx *memTx) GetAll(_ context.Context, c store.Collection) ([][]byte, error) {
	base, err := tx.store.collection(c)
	if err != nil {
		return nil, err
	}
	merged := make(map[string][]byte, len(base))
	for key, doc := range base {
		merged[key] = doc
	}
	for key, doc := range tx.staged[c] {
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
		out = append(out, clone(merged[key]))
	}
	return out, nil
}

func (tx *memTx) Put(_ context.Context, c store.Collection, key string, doc []byte) error {
	if err := store.Check(c); err != nil {
		return err
	}
	tx.stage(c)[key] = clone(doc)
	return nil
}

func (tx *memTx) Delete(_ context.Context, c store.Collection, key string) error {
	if err := store.Check(c); err != nil {
		return err
	}
	tx.stage(c)[key] = nil
	return nil
}

func (tx *memTx) stage(c store.Collection) map[string][]byte {
	docs, ok := tx.staged[c]
	if !ok {
		docs = make(map[string][]byte)
		tx.staged[c] = docs
	}
	return docs
}

func clone(doc []byte) []byte {
	if doc == nil {
		return []byte{}
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}
