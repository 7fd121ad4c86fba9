package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, a := range Catalog {
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
	}
}

func TestEvaluate(t *testing.T) {
	assert.Empty(t, Evaluate(Progress{}))

	got := Evaluate(Progress{FlashcardsCompleted: 10, StudyHours: 1, Accuracy: 85, Streak: 3})
	assert.Equal(t, []int{1, 2, 3, 5, 8}, got)

	got = Evaluate(Progress{CardsCreated: 25})
	assert.Equal(t, []int{34}, got)
}

func TestTracker_IsMonotonic(t *testing.T) {
	ctx := context.Background()
	doc := store.NewDocument[UnlockSet](store.NewMemoryKV(), "page-r-achievements", nil)
	tr := NewTracker(doc)

	fresh, err := tr.Refresh(ctx, Progress{Accuracy: 92})
	require.NoError(t, err)
	ids := make([]int, 0, len(fresh))
	for _, a := range fresh {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{5, 9}, ids)

	// Accuracy drops: nothing new, nothing lost.
	fresh, err = tr.Refresh(ctx, Progress{Accuracy: 40, FlashcardsCompleted: 1})
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 1, fresh[0].ID)

	unlocked, err := tr.Unlocked(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 9}, unlocked)

	// A fresh tracker over the same document sees the persisted set.
	again, err := NewTracker(doc).Unlocked(ctx)
	require.NoError(t, err)
	assert.Equal(t, unlocked, again)
}

func TestTracker_RefreshWithoutNewUnlocksDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	tr := NewTracker(store.NewDocument[UnlockSet](kv, "page-r-achievements", nil))

	fresh, err := tr.Refresh(ctx, Progress{})
	require.NoError(t, err)
	assert.Empty(t, fresh)
	_, err = kv.Get(ctx, "page-r-achievements")
	require.ErrorIs(t, err, store.ErrKeyNotFound)

	_, err = tr.Refresh(ctx, Progress{Accuracy: 92})
	require.NoError(t, err)
	before, err := kv.Get(ctx, "page-r-achievements")
	require.NoError(t, err)

	fresh, err = tr.Refresh(ctx, Progress{Accuracy: 92})
	require.NoError(t, err)
	assert.Empty(t, fresh)
	after, err := kv.Get(ctx, "page-r-achievements")
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
}
