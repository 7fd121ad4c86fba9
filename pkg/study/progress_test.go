package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/store"
)

func TestProgress_AndAchievements(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	deck, err := s.CreateDeck(ctx, "Anatomy")
	require.NoError(t, err)
	card, err := s.AddCard(ctx, Flashcard{DeckID: deck.ID, Front: "Ulna", Back: "Forearm"})
	require.NoError(t, err)

	for daysAgo := 2; daysAgo >= 0; daysAgo-- {
		_, err := s.RecordReview(ctx, card.ID, true, fixedNow.AddDate(0, 0, -daysAgo))
		require.NoError(t, err)
	}
	_, err = s.LogStudyHours(ctx, 1.5, fixedNow)
	require.NoError(t, err)

	p, err := s.Progress(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, insights.Progress{FlashcardsCompleted: 3, StudyHours: 1.5, Accuracy: 100, Streak: 3, CardsCreated: 1}, p)

	fresh, unlocked, err := s.RefreshAchievements(ctx, fixedNow)
	require.NoError(t, err)
	assert.Len(t, fresh, len(unlocked))
	assert.Contains(t, unlocked, 1)  // first flashcard
	assert.Contains(t, unlocked, 2)  // one hour
	assert.Contains(t, unlocked, 8)  // three day streak
	assert.Contains(t, unlocked, 42) // perfect accuracy

	// Accuracy drops after a wrong answer; the unlock stays.
	_, err = s.RecordReview(ctx, card.ID, false, fixedNow)
	require.NoError(t, err)
	fresh, after, err := s.RefreshAchievements(ctx, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Equal(t, unlocked, after)
}

func TestLogStudyHours_Validation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	for _, h := range []float64{0, -1, 25} {
		_, err := s.LogStudyHours(ctx, h, fixedNow)
		assert.ErrorIs(t, err, store.ErrInvalid)
	}

	st, err := s.LogStudyHours(ctx, 2, fixedNow)
	require.NoError(t, err)
	st, err = s.LogStudyHours(ctx, 0.5, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2.5, st.TotalHours)
	assert.Equal(t, 2.5, st.Days["2026-03-10"].Hours)
}
