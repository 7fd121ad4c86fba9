package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
)

const flatPool = `[
	{"id":0,"front":"Tachycardia","back":"Fast heart rate","deck":"Medical Terms","difficulty":"medium","correctCount":2,"incorrectCount":1},
	{"id":1,"front":"Bradycardia","back":"Slow heart rate","deck":"Medical Terms","difficulty":"easy","correctCount":0,"incorrectCount":0,"lastReviewed":"2025-06-01T10:00:00.000Z"},
	{"id":1712345678901,"front":"Aspirin","back":"COX inhibitor","deck":"Pharmacology","difficulty":"hard","correctCount":5,"incorrectCount":0},
	{"id":"x","front":"","back":"blank front","deck":"Pharmacology","difficulty":"hard","correctCount":0,"incorrectCount":0}
]`

func TestMigrateFlashcards_FlatPool(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	// A deck named like one in the pool already exists and must be reused.
	existing := store.NewCollection[Deck](kv, DecksKey, nil)
	require.NoError(t, existing.Add(ctx, Deck{ID: "deck-pharma", Name: "pharmacology", CreatedAt: NewMillis(fixedNow)}))
	kv.Seed(FlashcardsKey, []byte(flatPool))

	s := openTestStore(t, kv)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "deck-pharma", decks[0].ID)
	assert.Equal(t, "Medical Terms", decks[1].Name)

	cards, err := s.Cards(ctx, "")
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, "0", cards[0].ID)
	assert.Equal(t, decks[1].ID, cards[0].DeckID)
	assert.Equal(t, 2, cards[0].CorrectCount)
	assert.Equal(t, 1, cards[0].IncorrectCount)

	require.NotNil(t, cards[1].LastReviewed)
	assert.Equal(t, 2025, cards[1].LastReviewed.UTC().Year())

	assert.Equal(t, "1712345678901", cards[2].ID)
	assert.Equal(t, "deck-pharma", cards[2].DeckID)
	assert.Equal(t, DifficultyHard, cards[2].Difficulty)

	// The stored payload is now an envelope; a second run changes nothing.
	before, err := kv.Get(ctx, FlashcardsKey)
	require.NoError(t, err)
	report, err := s.MigrateFlashcards(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Converted)
	after, err := kv.Get(ctx, FlashcardsKey)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
}

func TestMigrateFlashcards_NothingToDo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	report, err := s.MigrateFlashcards(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{}, report)

	keys, err := s.KV().Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
