package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/store"
)

// DefaultDeckName is used for cards that arrive without a deck.
const DefaultDeckName = "Medical Terms"

func sameDeckName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s *Store) CreateDeck(ctx context.Context, name string) (Deck, error) {
	deck, created, err := s.EnsureDeck(ctx, name)
	if err != nil {
		return Deck{}, err
	}
	if !created {
		return Deck{}, fmt.Errorf("%q: %w", deck.Name, ErrDeckExists)
	}
	return deck, nil
}

// EnsureDeck returns the deck called name, creating it if needed. Names
// compare case-insensitively.
func (s *Store) EnsureDeck(ctx context.Context, name string) (Deck, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deck{}, false, store.Invalid("name", "is required")
	}

	var deck Deck
	created, err := s.decks.Mutate(ctx, func(current []Deck) ([]Deck, bool, error) {
		for _, d := range current {
			if sameDeckName(d.Name, name) {
				deck = d
				return current, false, nil
			}
		}
		deck = Deck{ID: uuid.NewString(), Name: name, CreatedAt: NewMillis(s.Now())}
		return append(current, deck), true, nil
	})
	if err != nil {
		return Deck{}, false, err
	}
	return deck, created, nil
}

func (s *Store) ListDecks(ctx context.Context) ([]Deck, error) {
	return s.decks.List(ctx)
}

func (s *Store) GetDeck(ctx context.Context, id string) (Deck, error) {
	deck, err := s.decks.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Deck{}, fmt.Errorf("%q: %w", id, ErrDeckNotFound)
	}
	return deck, err
}

func (s *Store) DeckByName(ctx context.Context, name string) (Deck, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		return Deck{}, err
	}
	for _, d := range decks {
		if sameDeckName(d.Name, name) {
			return d, nil
		}
	}
	return Deck{}, fmt.Errorf("%q: %w", name, ErrDeckNotFound)
}

// DeleteDeck removes the deck and every card in it.
func (s *Store) DeleteDeck(ctx context.Context, id string) (bool, error) {
	if _, err := s.cards.RemoveWhere(ctx, func(c Flashcard) bool { return c.DeckID == id }); err != nil {
		return false, err
	}
	return s.decks.Remove(ctx, id)
}

func (s *Store) prepareCard(c Flashcard) Flashcard {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Difficulty == "" {
		c.Difficulty = DifficultyMedium
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = NewMillis(s.Now())
	}
	c.Front = strings.TrimSpace(c.Front)
	c.Back = strings.TrimSpace(c.Back)
	return c
}

// AddCard stores a card in an existing deck.
func (s *Store) AddCard(ctx context.Context, card Flashcard) (Flashcard, error) {
	cards, err := s.AddCards(ctx, []Flashcard{card})
	if err != nil {
		return Flashcard{}, err
	}
	return cards[0], nil
}

// AddCards stores cards with a single write. Every referenced deck must
// exist.
func (s *Store) AddCards(ctx context.Context, cards []Flashcard) ([]Flashcard, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(decks))
	for _, d := range decks {
		known[d.ID] = struct{}{}
	}

	prepared := make([]Flashcard, len(cards))
	for i, c := range cards {
		if _, ok := known[c.DeckID]; !ok {
			return nil, fmt.Errorf("card %d deck %q: %w", i, c.DeckID, ErrDeckNotFound)
		}
		prepared[i] = s.prepareCard(c)
	}

	if err := s.cards.AddAll(ctx, prepared); err != nil {
		return nil, err
	}
	return prepared, nil
}

// Cards lists the cards of deckID in storage order. An empty id lists all.
func (s *Store) Cards(ctx context.Context, deckID string) ([]Flashcard, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, err
	}
	if deckID == "" {
		return cards, nil
	}
	return slices.DeleteFunc(cards, func(c Flashcard) bool { return c.DeckID != deckID }), nil
}

func (s *Store) GetCard(ctx context.Context, id string) (Flashcard, error) {
	return s.cards.Get(ctx, id)
}

func (s *Store) UpdateCard(ctx context.Context, id string, mutate func(Flashcard) Flashcard) (bool, error) {
	return s.cards.Update(ctx, id, mutate)
}

// RecordReview counts one answer on the card and adds it to today's study
// stats. It reports false when the card does not exist.
func (s *Store) RecordReview(ctx context.Context, cardID string, correct bool, at time.Time) (bool, error) {
	at = s.orNow(at)
	found, err := s.cards.Update(ctx, cardID, func(c Flashcard) Flashcard {
		if correct {
			c.CorrectCount++
		} else {
			c.IncorrectCount++
		}
		c.LastReviewed = MillisPtr(at)
		return c
	})
	if err != nil || !found {
		return found, err
	}

	_, err = s.stats.Update(ctx, func(st StudyStats) (StudyStats, error) {
		day := st.day(insights.DayKey(at))
		day.Reviews++
		st.Days[insights.DayKey(at)] = day
		return st, nil
	})
	return true, err
}

func (s *Store) DeleteCard(ctx context.Context, id string) (bool, error) {
	return s.cards.Remove(ctx, id)
}

// ShuffleCards returns the cards of deckID in random order for a study
// session. Nothing is written. A nil r uses the global source.
func (s *Store) ShuffleCards(ctx context.Context, deckID string, r *rand.Rand) ([]Flashcard, error) {
	cards, err := s.Cards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	swap := func(i, j int) { cards[i], cards[j] = cards[j], cards[i] }
	if r != nil {
		r.Shuffle(len(cards), swap)
	} else {
		rand.Shuffle(len(cards), swap)
	}
	return cards, nil
}

type DeckStats struct {
	DeckID    string `json:"deck_id,omitempty"`
	Cards     int    `json:"cards"`
	Reviewed  int    `json:"reviewed"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	// Accuracy is the rounded percentage of correct answers.
	Accuracy int `json:"accuracy"`
}

// DeckStats summarises deckID, or every card when deckID is empty.
func (s *Store) DeckStats(ctx context.Context, deckID string) (DeckStats, error) {
	cards, err := s.Cards(ctx, deckID)
	if err != nil {
		return DeckStats{}, err
	}
	return summarise(deckID, cards), nil
}

func summarise(deckID string, cards []Flashcard) DeckStats {
	st := DeckStats{DeckID: deckID, Cards: len(cards)}
	for _, c := range cards {
		if c.Reviews() > 0 {
			st.Reviewed++
		}
		st.Correct += c.CorrectCount
		st.Incorrect += c.IncorrectCount
	}
	st.Accuracy = insights.Percentage(st.Correct, st.Correct+st.Incorrect)
	return st
}
