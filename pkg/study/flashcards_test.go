package study

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
)

func TestDecks_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	deck, err := s.CreateDeck(ctx, "Pharmacology")
	require.NoError(t, err)
	assert.NotEmpty(t, deck.ID)

	_, err = s.CreateDeck(ctx, "  pharmacology ")
	assert.ErrorIs(t, err, ErrDeckExists)

	byName, err := s.DeckByName(ctx, "PHARMACOLOGY")
	require.NoError(t, err)
	assert.Equal(t, deck.ID, byName.ID)

	_, err = s.DeckByName(ctx, "Surgery")
	assert.ErrorIs(t, err, ErrDeckNotFound)
	_, err = s.GetDeck(ctx, "nope")
	assert.ErrorIs(t, err, ErrDeckNotFound)

	again, created, err := s.EnsureDeck(ctx, "Pharmacology")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, deck.ID, again.ID)
}

func TestCards_RequireExistingDeck(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	_, err := s.AddCard(ctx, Flashcard{DeckID: "ghost", Front: "a", Back: "b"})
	assert.ErrorIs(t, err, ErrDeckNotFound)

	deck, err := s.CreateDeck(ctx, "Anatomy")
	require.NoError(t, err)

	_, err = s.AddCard(ctx, Flashcard{DeckID: deck.ID, Front: "", Back: "b"})
	assert.ErrorIs(t, err, store.ErrInvalid)

	card, err := s.AddCard(ctx, Flashcard{DeckID: deck.ID, Front: "Femur", Back: "Thigh bone"})
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, card.Difficulty)
	assert.False(t, card.CreatedAt.IsZero())

	cards, err := s.Cards(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, card, cards[0])
}

func TestCards_ReviewAndStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)
	deck, err := s.CreateDeck(ctx, "Physiology")
	require.NoError(t, err)
	other, err := s.CreateDeck(ctx, "Other")
	require.NoError(t, err)

	a, err := s.AddCard(ctx, Flashcard{DeckID: deck.ID, Front: "SA node", Back: "Pacemaker"})
	require.NoError(t, err)
	b, err := s.AddCard(ctx, Flashcard{DeckID: deck.ID, Front: "AV node", Back: "Delay"})
	require.NoError(t, err)
	_, err = s.AddCard(ctx, Flashcard{DeckID: other.ID, Front: "x", Back: "y"})
	require.NoError(t, err)

	for _, correct := range []bool{true, true, false} {
		found, err := s.RecordReview(ctx, a.ID, correct, fixedNow)
		require.NoError(t, err)
		assert.True(t, found)
	}
	found, err := s.RecordReview(ctx, "missing", true, fixedNow)
	require.NoError(t, err)
	assert.False(t, found)

	reviewed, err := s.GetCard(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reviewed.CorrectCount)
	assert.Equal(t, 1, reviewed.IncorrectCount)
	require.NotNil(t, reviewed.LastReviewed)
	assert.Equal(t, fixedNow.UnixMilli(), reviewed.LastReviewed.UnixMilli())

	untouched, err := s.GetCard(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, untouched)

	stats, err := s.DeckStats(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, DeckStats{DeckID: deck.ID, Cards: 2, Reviewed: 1, Correct: 2, Incorrect: 1, Accuracy: 67}, stats)

	all, err := s.DeckStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Cards)

	studied, err := s.StudyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, studied.Days["2026-03-10"].Reviews)
}

func TestDecks_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)
	keep, err := s.CreateDeck(ctx, "Keep")
	require.NoError(t, err)
	drop, err := s.CreateDeck(ctx, "Drop")
	require.NoError(t, err)

	_, err = s.AddCards(ctx, []Flashcard{
		{DeckID: keep.ID, Front: "k", Back: "1"},
		{DeckID: drop.ID, Front: "d", Back: "1"},
		{DeckID: drop.ID, Front: "d", Back: "2"},
	})
	require.NoError(t, err)

	found, err := s.DeleteDeck(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, found)

	cards, err := s.Cards(ctx, "")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, keep.ID, cards[0].DeckID)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Deck{keep}, decks)
}

func TestCards_Shuffle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)
	deck, err := s.CreateDeck(ctx, "Many")
	require.NoError(t, err)

	var cards []Flashcard
	for i := 0; i < 20; i++ {
		cards = append(cards, Flashcard{DeckID: deck.ID, Front: string(rune('a' + i)), Back: "x"})
	}
	_, err = s.AddCards(ctx, cards)
	require.NoError(t, err)

	shuffled, err := s.ShuffleCards(ctx, deck.ID, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	stored, err := s.Cards(ctx, deck.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, stored, shuffled)
	assert.NotEqual(t, stored, shuffled)
}
