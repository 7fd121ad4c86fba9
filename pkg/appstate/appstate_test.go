package appstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
)

func TestLoadDefaults(t *testing.T) {
	m := NewManager(store.NewMemoryKV(), nil)
	s, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, CodeGreen, m.Current().CodeStatus)
}

func TestSetPersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	m := NewManager(kv, nil)
	_, err := m.Load(ctx)
	require.NoError(t, err)

	var seen []State
	stop := m.OnChange(func(_, updated State) { seen = append(seen, updated) })

	_, err = m.SetCodeStatus(ctx, CodeRed)
	require.NoError(t, err)
	_, err = m.ToggleTheme(ctx)
	require.NoError(t, err)

	// Setting the same value again is not a change.
	_, err = m.SetCodeStatus(ctx, CodeRed)
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, ThemeDark, seen[1].Theme)

	stop()
	_, err = m.SetTheme(ctx, ThemeLight)
	require.NoError(t, err)
	assert.Len(t, seen, 2)

	reopened := NewManager(kv, nil)
	s, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{Theme: ThemeLight, CodeStatus: CodeRed}, s)
}

func TestSetRejectsUnknownValues(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryKV(), nil)

	_, err := m.SetCodeStatus(ctx, "Code Purple")
	require.ErrorIs(t, err, store.ErrInvalid)
	_, err = m.SetTheme(ctx, "sepia")
	require.ErrorIs(t, err, store.ErrInvalid)
}

func TestLoadNormalizesStoredGarbage(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	kv.Seed(StateKey, []byte(`{"schema_version":1,"value":{"theme":"neon","code_status":"Code Blue"}}`))

	s, err := NewManager(kv, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme)
	assert.Equal(t, CodeBlue, s.CodeStatus)
}

func TestMarkBirthdayShown(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryKV(), nil)

	fresh, err := m.MarkBirthdayShown(ctx, "2026-08-11")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = m.MarkBirthdayShown(ctx, "2026-08-11")
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestParseCodeStatus(t *testing.T) {
	for in, want := range map[string]CodeStatus{
		"Code Red":   CodeRed,
		"red":        CodeRed,
		"VIOLET":     CodeViolet,
		" code gold": CodeGold,
	} {
		got, err := ParseCodeStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseCodeStatus("purple")
	require.ErrorIs(t, err, store.ErrInvalid)
	assert.Equal(t, "Code Blue - Burnout Risk", CodeBlue.String())
}
