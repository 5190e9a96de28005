// Package repo maps entity identifiers to serialized records, one kv store per entity type.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/Skotchmaster/inventory/internal/kv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Record interface {
	GetID() string
}

// Repository stores records of type T keyed by their ID. Writes issued through
// one Repository are serialized; there is no cross-process coordination.
type Repository[T Record] struct {
	store kv.Store
	name  string
	mu    sync.Mutex
}

func New[T Record](store kv.Store, name string) *Repository[T] {
	return &Repository[T]{store: store, name: name}
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.put(ctx, rec)
}

// FindByID returns (nil, nil) when id is unknown.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	raw, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: get %s: %w", r.name, id, err)
	}

	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", r.name, id, err)
	}
	return &rec, nil
}

func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.Filter(ctx, nil)
}

// Filter returns every record for which keep is true; a nil keep matches all.
func (r *Repository[T]) Filter(ctx context.Context, keep func(*T) bool) ([]T, error) {
	out := make([]T, 0)
	err := r.store.Iterate(ctx, func(key string, value []byte) error {
		var rec T
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("%s: decode %s: %w", r.name, key, err)
		}
		if keep == nil || keep(&rec) {
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var errStop = errors.New("stop")

// FindFirst returns the first record, in key order, matching pred, or nil.
func (r *Repository[T]) FindFirst(ctx context.Context, pred func(*T) bool) (*T, error) {
	var found *T
	err := r.store.Iterate(ctx, func(key string, value []byte) error {
		var rec T
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("%s: decode %s: %w", r.name, key, err)
		}
		if pred(&rec) {
			found = &rec
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	return found, nil
}

// Update loads id, applies mutate and writes the result back. It returns
// (nil, nil) when id is unknown. If mutate fails nothing is written.
func (r *Repository[T]) Update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.FindByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	if err := r.put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes id and returns the removed record, or nil when id is unknown.
func (r *Repository[T]) Delete(ctx context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.FindByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: delete %s: %w", r.name, id, err)
	}
	return rec, nil
}

func (r *Repository[T]) Close() error {
	return r.store.Close()
}

func (r *Repository[T]) put(ctx context.Context, rec *T) error {
	id := (*rec).GetID()
	if id == "" {
		return fmt.Errorf("%s: record without id", r.name)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", r.name, id, err)
	}
	if err := r.store.Put(ctx, id, raw); err != nil {
		return fmt.Errorf("%s: put %s: %w", r.name, id, err)
	}
	return nil
}
