package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/vault"
)

// fixedNow is the clock every study test runs at.
var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T, kv store.KV) *Store {
	t.Helper()
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	s, err := Open(context.Background(), kv, nil, Options{
		Location: time.UTC,
		Birthday: Birthday{Month: time.August, Day: 11},
		Vault:    vault.New(vault.Params{Time: 1, Memory: 8 * 1024, Threads: 1}),
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return s
}

func TestParseBirthday(t *testing.T) {
	b, err := ParseBirthday("08-11")
	require.NoError(t, err)
	require.Equal(t, Birthday{Month: time.August, Day: 11}, b)
	require.Equal(t, "08-11", b.String())

	b, err = ParseBirthday("")
	require.NoError(t, err)
	require.False(t, b.IsSet())

	for _, bad := range []string{"8/11", "13-01", "02-30", "xx-01"} {
		_, err := ParseBirthday(bad)
		require.Error(t, err, bad)
	}
}
