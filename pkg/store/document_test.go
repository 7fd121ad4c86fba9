package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	Hours    float64  `json:"hours"`
	Unlocked []string `json:"unlocked"`
}

func TestDocument_SaveLoadUpdate(t *testing.T) {
	ctx := context.Background()
	d := NewDocument[counters](NewMemoryKV(), "page-r-study-stats", nil)

	v, version, state, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateMissing, state)
	assert.Zero(t, version)
	assert.Zero(t, v)

	require.NoError(t, d.Save(ctx, counters{Hours: 1.5}))

	next, err := d.Update(ctx, func(c counters) (counters, error) {
		c.Hours += 2
		c.Unlocked = append(c.Unlocked, "first-hour")
		return c, nil
	})
	require.NoError(t, err)
	assert.Equal(t, counters{Hours: 3.5, Unlocked: []string{"first-hour"}}, next)

	got, err := d.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, got)
}

func TestDocument_MutateUnchangedSkipsWrite(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	d := NewDocument[counters](kv, "page-r-study-stats", nil)
	require.NoError(t, d.Save(ctx, counters{Hours: 1}))

	_, before, _, err := d.Load(ctx)
	require.NoError(t, err)

	got, changed, err := d.Mutate(ctx, func(c counters) (counters, bool, error) {
		return counters{Hours: 99}, false, nil
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, counters{Hours: 1}, got)

	v, after, _, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, counters{Hours: 1}, v)

	_, changed, err = d.Mutate(ctx, func(c counters) (counters, bool, error) {
		c.Hours++
		return c, true, nil
	})
	require.NoError(t, err)
	assert.True(t, changed)
	_, after, _, err = d.Load(ctx)
	require.NoError(t, err)
	assert.Greater(t, after, before)
}

func TestDocument_Malformed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Seed("doc", []byte(`[1,2,3]`))
	d := NewDocument[counters](kv, "doc", nil)

	v, _, state, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateMalformed, state)
	assert.Zero(t, v)

	require.NoError(t, d.Save(ctx, counters{Hours: 1}))
	got, err := d.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Hours)
}

func TestDocument_NewerSchema(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Seed("doc", []byte(`{"schema_version":3,"value":{"hours":9}}`))
	d := NewDocument[counters](kv, "doc", nil)

	got, err := d.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Hours)
	assert.ErrorIs(t, d.Save(ctx, counters{}), ErrUnsupportedSchema)
}

func TestDocument_Clear(t *testing.T) {
	ctx := context.Background()
	d := NewDocument[counters](NewMemoryKV(), "doc", nil)
	require.NoError(t, d.Save(ctx, counters{Hours: 1}))
	require.NoError(t, d.Clear(ctx))
	require.NoError(t, d.Clear(ctx))

	_, _, state, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateMissing, state)
}
