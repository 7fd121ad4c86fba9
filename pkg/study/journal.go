package study

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/vault"
)

// UntitledJournal is the title given to drafts that arrive without one.
const UntitledJournal = "Untitled"

// JournalDraft is what a user writes; the store fills in id and times.
type JournalDraft struct {
	Title     string
	Content   string
	Mood      string
	IsPrivate bool
}

// AddJournalEntry stores a new entry. Private content is sealed under
// passphrase, which is required for private drafts and ignored otherwise.
func (s *Store) AddJournalEntry(ctx context.Context, draft JournalDraft, passphrase string, at time.Time) (JournalEntry, error) {
	at = s.orNow(at)
	entry := JournalEntry{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(draft.Title),
		Content:   draft.Content,
		IsPrivate: draft.IsPrivate,
		Date:      insights.DayKey(at),
		Mood:      draft.Mood,
		Timestamp: NewMillis(at),
	}
	if entry.Title == "" {
		entry.Title = UntitledJournal
	}

	if draft.IsPrivate {
		sealed, err := s.vault.Seal(passphrase, draft.Content)
		if err != nil {
			return JournalEntry{}, err
		}
		entry.Content = sealed
		entry.Cipher = vault.Cipher
	}

	if err := s.journal.Add(ctx, entry); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// RevealJournalEntry returns the readable content of entry. Public entries
// need no passphrase. Legacy private entries were only base64 encoded, so any
// non-empty passphrase opens them.
func (s *Store) RevealJournalEntry(entry JournalEntry, passphrase string) (string, error) {
	if !entry.IsPrivate {
		return entry.Content, nil
	}
	if passphrase == "" {
		return "", vault.ErrEmptyPassphrase
	}
	if entry.Cipher == vault.Cipher {
		return s.vault.Open(passphrase, entry.Content)
	}
	return vault.DecodeLegacy(entry.Content)
}

// ListJournalEntries returns entries newest first.
func (s *Store) ListJournalEntries(ctx context.Context) ([]JournalEntry, error) {
	entries, err := s.journal.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(entries, func(a, b JournalEntry) int {
		return cmp.Compare(b.Timestamp.UnixMilli(), a.Timestamp.UnixMilli())
	})
	return entries, nil
}

func (s *Store) GetJournalEntry(ctx context.Context, id string) (JournalEntry, error) {
	return s.journal.Get(ctx, id)
}

func (s *Store) DeleteJournalEntry(ctx context.Context, id string) (bool, error) {
	return s.journal.Remove(ctx, id)
}
