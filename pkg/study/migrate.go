package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/unowned-ai/rpager/pkg/store"
)

// flatCard is a flashcard as either shape has stored it: the old flat pool
// with a free-text deck name and numeric ids, or the current deck-linked one.
type flatCard struct {
	ID             any        `json:"id"`
	DeckID         string     `json:"deckId,omitempty"`
	Deck           string     `json:"deck,omitempty"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Difficulty     Difficulty `json:"difficulty"`
	LastReviewed   *Millis    `json:"lastReviewed,omitempty"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	CreatedAt      Millis     `json:"createdAt"`
}

func (f flatCard) RecordID() string {
	id, err := cast.ToStringE(f.ID)
	if err != nil {
		return ""
	}
	return id
}

// migrated reports whether f is already in the deck-linked shape.
func (f flatCard) migrated() bool {
	_, isString := f.ID.(string)
	return isString && f.DeckID != "" && f.Deck == ""
}

type MigrationReport struct {
	Converted    int `json:"converted"`
	DecksCreated int `json:"decks_created"`
}

// MigrateFlashcards converts a flat flashcard pool into decks and
// deck-linked cards: one deck per distinct deck name (reusing existing decks
// by name), ids stringified, review counters kept. It is a no-op once every
// card is deck-linked.
func (s *Store) MigrateFlashcards(ctx context.Context) (MigrationReport, error) {
	flat := store.NewCollection[flatCard](s.kv, FlashcardsKey, s.log)

	for attempt := 0; attempt <= store.DefaultMaxRetries; attempt++ {
		snap, err := flat.Load(ctx)
		if err != nil {
			return MigrationReport{}, err
		}
		if snap.State == store.StateMissing || snap.State == store.StateMalformed || snap.State == store.StateNewerSchema {
			return MigrationReport{}, nil
		}

		pending := 0
		for _, c := range snap.Items {
			if !c.migrated() {
				pending++
			}
		}
		if pending == 0 && snap.State == store.StateOK {
			return MigrationReport{}, nil
		}

		report := MigrationReport{}
		deckIDs := make(map[string]string)
		converted := make([]Flashcard, 0, len(snap.Items))
		for _, c := range snap.Items {
			card := Flashcard{
				ID:             c.RecordID(),
				DeckID:         c.DeckID,
				Front:          c.Front,
				Back:           c.Back,
				Difficulty:     c.Difficulty,
				LastReviewed:   c.LastReviewed,
				CorrectCount:   c.CorrectCount,
				IncorrectCount: c.IncorrectCount,
				CreatedAt:      c.CreatedAt,
			}
			if !c.migrated() {
				report.Converted++
			}

			if card.DeckID == "" {
				name := strings.TrimSpace(c.Deck)
				if name == "" {
					name = DefaultDeckName
				}
				key := strings.ToLower(name)
				id, ok := deckIDs[key]
				if !ok {
					deck, created, err := s.EnsureDeck(ctx, name)
					if err != nil {
						return MigrationReport{}, err
					}
					if created {
						report.DecksCreated++
					}
					id = deck.ID
					deckIDs[key] = id
				}
				card.DeckID = id
			}

			card = s.prepareCard(card)
			if err := ValidateCard(card); err != nil {
				s.log.Warn(ctx, "dropping flashcard that cannot be migrated", "id", card.ID, "reason", err)
				report.Converted--
				continue
			}
			converted = append(converted, card)
		}

		cards := store.NewCollection[Flashcard](s.kv, FlashcardsKey, s.log, store.WithValidator(ValidateCard))
		if _, err := cards.Overwrite(ctx, converted, snap.Version); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return MigrationReport{}, err
		}
		return report, nil
	}
	return MigrationReport{}, fmt.Errorf("flashcards: %w", store.ErrVersionConflict)
}
