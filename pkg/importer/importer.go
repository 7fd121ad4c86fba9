// Package importer parses bulk flashcard uploads into a Preview. Nothing is
// written until Preview.Confirm is called.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/study"
)

var (
	ErrArchiveNotSupported = errors.New("archive upload with media is not supported yet; use TXT, CSV or XLSX")
	ErrUnsupportedFormat   = errors.New("unsupported file format; use TXT, CSV or XLSX")
)

// Defaults fill in what a row leaves out.
type Defaults struct {
	Deck       string
	Difficulty study.Difficulty
}

func (d Defaults) normalized() (Defaults, error) {
	d.Deck = strings.TrimSpace(d.Deck)
	if d.Deck == "" {
		d.Deck = study.DefaultDeckName
	}
	difficulty, err := parseDifficulty(string(d.Difficulty), study.DifficultyMedium)
	if err != nil {
		return Defaults{}, store.Invalid("difficulty", "%v", err)
	}
	d.Difficulty = difficulty
	return d, nil
}

// Candidate is one parsed card awaiting confirmation.
type Candidate struct {
	Line       int              `json:"line"`
	Front      string           `json:"front"`
	Back       string           `json:"back"`
	Deck       string           `json:"deck"`
	Difficulty study.Difficulty `json:"difficulty"`
}

func (c Candidate) validate() error {
	switch {
	case strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "":
		return store.Invalid("cards", "line %d: front and back must both be present", c.Line)
	case strings.TrimSpace(c.Deck) == "":
		return store.Invalid("cards", "line %d: deck is empty", c.Line)
	}
	switch c.Difficulty {
	case study.DifficultyEasy, study.DifficultyMedium, study.DifficultyHard:
		return nil
	}
	return store.Invalid("cards", "line %d: unknown difficulty %q", c.Line, c.Difficulty)
}

// Skipped records a row that did not become a card.
type Skipped struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// Preview is the in-memory result of parsing an upload.
type Preview struct {
	Source  string      `json:"source"`
	Cards   []Candidate `json:"cards"`
	Skipped []Skipped   `json:"skipped"`
}

func (p *Preview) skip(line int, raw, format string, args ...any) {
	p.Skipped = append(p.Skipped, Skipped{Line: line, Raw: raw, Reason: fmt.Sprintf(format, args...)})
}

// Decks lists the distinct deck names in the preview, first-seen order,
// compared case-insensitively.
func (p Preview) Decks() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, c := range p.Cards {
		key := strings.ToLower(c.Deck)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, c.Deck)
	}
	return names
}

// Sink is where confirmed cards go. *study.Store implements it.
type Sink interface {
	EnsureDeck(ctx context.Context, name string) (study.Deck, bool, error)
	AddCards(ctx context.Context, cards []study.Flashcard) ([]study.Flashcard, error)
}

type ConfirmResult struct {
	Added        int      `json:"added"`
	DecksCreated []string `json:"decks_created,omitempty"`
}

// Confirm creates any missing decks and appends every candidate with a
// single collection write. Every candidate is checked first, so a bad one
// leaves the sink untouched.
func (p Preview) Confirm(ctx context.Context, sink Sink) (ConfirmResult, error) {
	if len(p.Cards) == 0 {
		return ConfirmResult{}, nil
	}
	for _, c := range p.Cards {
		if err := c.validate(); err != nil {
			return ConfirmResult{}, err
		}
	}

	var result ConfirmResult
	deckIDs := make(map[string]string)
	for _, name := range p.Decks() {
		deck, created, err := sink.EnsureDeck(ctx, name)
		if err != nil {
			return ConfirmResult{}, fmt.Errorf("failed to prepare deck %q: %w", name, err)
		}
		if created {
			result.DecksCreated = append(result.DecksCreated, deck.Name)
		}
		deckIDs[strings.ToLower(name)] = deck.ID
	}

	cards := make([]study.Flashcard, len(p.Cards))
	for i, c := range p.Cards {
		cards[i] = study.Flashcard{
			DeckID:     deckIDs[strings.ToLower(c.Deck)],
			Front:      c.Front,
			Back:       c.Back,
			Difficulty: c.Difficulty,
		}
	}
	added, err := sink.AddCards(ctx, cards)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("failed to add imported cards: %w", err)
	}
	result.Added = len(added)
	return result, nil
}

// ParseFile picks a parser by the extension of name.
func ParseFile(name string, r io.Reader, d Defaults) (Preview, error) {
	var (
		p   Preview
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".txt":
		p, err = ParseText(r, d)
	case ".csv":
		p, err = ParseDelimited(r, ',', d)
	case ".tsv":
		p, err = ParseDelimited(r, '\t', d)
	case ".xlsx", ".xlsm":
		p, err = ParseXLSX(r, d)
	case ".zip":
		return Preview{}, ErrArchiveNotSupported
	default:
		return Preview{}, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return Preview{}, err
	}
	p.Source = filepath.Base(name)
	return p, nil
}
