package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Load reads the document stored under key and decodes it into T.
func Load[T any](ctx context.Context, r Reader, c Collection, key string) (T, error) {
	var out T
	raw, err := r.Get(ctx, c, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("store: decode %s/%s: %w", c, key, err)
	}
	return out, nil
}

// LoadAll decodes every document of a collection. Order is backend defined.
func LoadAll[T any](ctx context.Context, r Reader, c Collection) ([]T, error) {
	docs, err := r.GetAll(ctx, c)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, raw := range docs {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", c, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Save encodes v and stores it under key.
func Save(ctx context.Context, w Writer, c Collection, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", c, key, err)
	}
	return w.Put(ctx, c, key, raw)
}
