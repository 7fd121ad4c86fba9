package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/unowned-ai/rpager/pkg/logging"
)

// Document stores a single JSON value under one key.
type Document[T any] struct {
	kv         KV
	key        string
	log        logging.Logger
	maxRetries int
}

func NewDocument[T any](kv KV, key string, log logging.Logger) *Document[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Document[T]{kv: kv, key: key, log: log.With("kind", key), maxRetries: DefaultMaxRetries}
}

func (d *Document[T]) Key() string {
	return d.key
}

// Load returns the stored value, its version and read state. A missing or
// malformed payload returns the zero value.
func (d *Document[T]) Load(ctx context.Context) (T, int64, ReadState, error) {
	var zero T

	entry, err := d.kv.Get(ctx, d.key)
	if errors.Is(err, ErrKeyNotFound) {
		d.log.Debug(ctx, "document not written yet")
		return zero, 0, StateMissing, nil
	}
	if err != nil {
		return zero, 0, StateMissing, fmt.Errorf("failed to load %s: %w", d.key, err)
	}

	v, state, err := decodeDocument[T](entry.Value)
	if state == StateMalformed {
		d.log.Warn(ctx, "malformed document payload, using zero value", "reason", err)
		return zero, entry.Version, state, nil
	}
	return v, entry.Version, state, nil
}

// Value is Load without the bookkeeping.
func (d *Document[T]) Value(ctx context.Context) (T, error) {
	v, _, _, err := d.Load(ctx)
	return v, err
}

func (d *Document[T]) Save(ctx context.Context, v T) error {
	_, err := d.Update(ctx, func(T) (T, error) { return v, nil })
	return err
}

// Update applies fn to the current value and stores the result with a
// version check, retrying on conflicts.
func (d *Document[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	next, _, err := d.Mutate(ctx, func(current T) (T, bool, error) {
		v, err := fn(current)
		return v, true, err
	})
	return next, err
}

// Mutate is Update for callers that can tell when nothing changed. When fn
// reports changed as false nothing is written and the current value is
// returned.
func (d *Document[T]) Mutate(ctx context.Context, fn func(T) (T, bool, error)) (T, bool, error) {
	var zero T
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		current, version, state, err := d.Load(ctx)
		if err != nil {
			return zero, false, err
		}
		if state == StateNewerSchema {
			return zero, false, fmt.Errorf("%s: %w", d.key, ErrUnsupportedSchema)
		}

		next, changed, err := fn(current)
		if err != nil {
			return zero, false, err
		}
		if !changed {
			return current, false, nil
		}
		payload, err := encodeDocument(next)
		if err != nil {
			return zero, false, fmt.Errorf("failed to encode %s: %w", d.key, err)
		}

		_, err = d.kv.Put(ctx, d.key, payload, version)
		if errors.Is(err, ErrVersionConflict) {
			d.log.Debug(ctx, "version conflict, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return zero, false, fmt.Errorf("failed to save %s: %w", d.key, err)
		}
		return next, true, nil
	}
	return zero, false, fmt.Errorf("%s: %w after %d attempts", d.key, ErrVersionConflict, d.maxRetries+1)
}

// Clear deletes the document.
func (d *Document[T]) Clear(ctx context.Context) error {
	return d.kv.Delete(ctx, d.key)
}
