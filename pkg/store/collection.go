package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/unowned-ai/rpager/pkg/logging"
)

// DefaultMaxRetries bounds the read-modify-write loop on version conflicts.
const DefaultMaxRetries = 5

// Record is anything a Collection can hold.
type Record interface {
	RecordID() string
}

// Snapshot is one consistent read of a collection.
type Snapshot[T Record] struct {
	Items   []T
	Version int64
	State   ReadState
	// Skipped counts items dropped because they failed to decode or validate.
	Skipped int
}

// Collection is the whole-collection persistence unit for one kind.
type Collection[T Record] struct {
	kv         KV
	key        string
	log        logging.Logger
	validate   func(T) error
	maxRetries int
}

type CollectionOption[T Record] func(*Collection[T])

// WithValidator runs fn on every item read or written.
func WithValidator[T Record](fn func(T) error) CollectionOption[T] {
	return func(c *Collection[T]) { c.validate = fn }
}

func WithMaxRetries[T Record](n int) CollectionOption[T] {
	return func(c *Collection[T]) { c.maxRetries = n }
}

func NewCollection[T Record](kv KV, key string, log logging.Logger, opts ...CollectionOption[T]) *Collection[T] {
	if log == nil {
		log = logging.Nop()
	}
	c := &Collection[T]{
		kv:         kv,
		key:        key,
		log:        log.With("kind", key),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) check(item T) error {
	if item.RecordID() == "" {
		return Invalid("id", "is required")
	}
	if c.validate != nil {
		return c.validate(item)
	}
	return nil
}

// Load reads the collection. Missing and malformed payloads yield an empty
// snapshot and a nil error; only a backing store failure is returned.
func (c *Collection[T]) Load(ctx context.Context) (Snapshot[T], error) {
	entry, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, ErrKeyNotFound) {
		c.log.Debug(ctx, "collection not written yet")
		return Snapshot[T]{Items: []T{}, State: StateMissing}, nil
	}
	if err != nil {
		return Snapshot[T]{}, fmt.Errorf("failed to load %s: %w", c.key, err)
	}

	raws, state, err := decodeItems(entry.Value)
	snap := Snapshot[T]{Items: make([]T, 0, len(raws)), Version: entry.Version, State: state}
	if state == StateMalformed {
		c.log.Warn(ctx, "malformed collection payload, treating as empty", "reason", err)
		return snap, nil
	}
	if state == StateNewerSchema {
		c.log.Warn(ctx, "collection written by a newer schema, reading best-effort", "schema_supported", SchemaVersion)
	}

	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			c.log.Warn(ctx, "skipping undecodable item", "index", i, "reason", err)
			snap.Skipped++
			continue
		}
		if err := c.check(item); err != nil {
			c.log.Warn(ctx, "skipping invalid item", "index", i, "id", item.RecordID(), "reason", err)
			snap.Skipped++
			continue
		}
		if _, dup := seen[item.RecordID()]; dup {
			c.log.Warn(ctx, "skipping duplicate item", "index", i, "id", item.RecordID())
			snap.Skipped++
			continue
		}
		seen[item.RecordID()] = struct{}{}
		snap.Items = append(snap.Items, item)
	}
	return snap, nil
}

// List returns the items in storage order, never nil.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	snap, err := c.Load(ctx)
	if err != nil {
		return []T{}, err
	}
	return snap.Items, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", c.key, id, ErrNotFound)
}

func (c *Collection[T]) Add(ctx context.Context, item T) error {
	return c.AddAll(ctx, []T{item})
}

// AddAll appends items in one write. Either all are added or none.
func (c *Collection[T]) AddAll(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if err := c.check(item); err != nil {
			return err
		}
	}

	_, err := c.Mutate(ctx, func(current []T) ([]T, bool, error) {
		ids := make(map[string]struct{}, len(current)+len(items))
		for _, existing := range current {
			ids[existing.RecordID()] = struct{}{}
		}
		for _, item := range items {
			if _, dup := ids[item.RecordID()]; dup {
				return nil, false, fmt.Errorf("%s %q: %w", c.key, item.RecordID(), ErrDuplicateID)
			}
			ids[item.RecordID()] = struct{}{}
		}
		return append(current, items...), true, nil
	})
	return err
}

// Update replaces the item with the given id by mutator's result. It reports
// false, and writes nothing, when no such item exists.
func (c *Collection[T]) Update(ctx context.Context, id string, mutator func(T) T) (bool, error) {
	return c.Mutate(ctx, func(current []T) ([]T, bool, error) {
		for i, item := range current {
			if item.RecordID() != id {
				continue
			}
			updated := mutator(item)
			if updated.RecordID() != id {
				return nil, false, fmt.Errorf("%s %q -> %q: %w", c.key, id, updated.RecordID(), ErrIDChanged)
			}
			if err := c.check(updated); err != nil {
				return nil, false, err
			}
			next := make([]T, len(current))
			copy(next, current)
			next[i] = updated
			return next, true, nil
		}
		return current, false, nil
	})
}

// Remove deletes the item with the given id. Removing an absent id reports
// false and writes nothing.
func (c *Collection[T]) Remove(ctx context.Context, id string) (bool, error) {
	return c.RemoveWhere(ctx, func(item T) bool { return item.RecordID() == id })
}

// RemoveWhere deletes every item matching pred and reports whether any did.
func (c *Collection[T]) RemoveWhere(ctx context.Context, pred func(T) bool) (bool, error) {
	return c.Mutate(ctx, func(current []T) ([]T, bool, error) {
		next := make([]T, 0, len(current))
		for _, item := range current {
			if !pred(item) {
				next = append(next, item)
			}
		}
		return next, len(next) != len(current), nil
	})
}

// Overwrite replaces the whole collection if the stored version still equals
// expectedVersion. It does not retry.
func (c *Collection[T]) Overwrite(ctx context.Context, items []T, expectedVersion int64) (int64, error) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := c.check(item); err != nil {
			return 0, err
		}
		if _, dup := seen[item.RecordID()]; dup {
			return 0, fmt.Errorf("%s %q: %w", c.key, item.RecordID(), ErrDuplicateID)
		}
		seen[item.RecordID()] = struct{}{}
	}

	payload, err := encodeItems(items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	version, err := c.kv.Put(ctx, c.key, payload, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to overwrite %s: %w", c.key, err)
	}
	return version, nil
}

// Mutate runs one read-modify-write cycle, retrying on version conflicts.
// fn receives the current items and returns the replacement and whether
// anything changed; an unchanged result skips the write.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, bool, error)) (bool, error) {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		snap, err := c.Load(ctx)
		if err != nil {
			return false, err
		}
		if snap.State == StateNewerSchema {
			return false, fmt.Errorf("%s: %w", c.key, ErrUnsupportedSchema)
		}

		next, changed, err := fn(snap.Items)
		if err != nil {
			return false, err
		}
		if !changed {
			return false, nil
		}

		payload, err := encodeItems(next)
		if err != nil {
			return false, fmt.Errorf("failed to encode %s: %w", c.key, err)
		}
		_, err = c.kv.Put(ctx, c.key, payload, snap.Version)
		if errors.Is(err, ErrVersionConflict) {
			c.log.Debug(ctx, "version conflict, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to save %s: %w", c.key, err)
		}

		switch snap.State {
		case StateMalformed:
			c.log.Warn(ctx, "replaced malformed collection payload")
		case StateLegacy:
			c.log.Info(ctx, "upgraded legacy collection to envelope", "schema_version", SchemaVersion)
		}
		return true, nil
	}
	return false, fmt.Errorf("%s: %w after %d attempts", c.key, ErrVersionConflict, c.maxRetries+1)
}
