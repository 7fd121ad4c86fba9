package study

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/vault"
)

// Birthday is a yearly recurring month and day. The zero value is unset.
type Birthday struct {
	Month time.Month
	Day   int
}

func (b Birthday) IsSet() bool {
	return b.Month != 0 && b.Day != 0
}

func (b Birthday) String() string {
	if !b.IsSet() {
		return ""
	}
	return fmt.Sprintf("%02d-%02d", int(b.Month), b.Day)
}

// ParseBirthday reads "MM-DD". An empty string is the unset birthday.
func ParseBirthday(s string) (Birthday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Birthday{}, nil
	}
	month, day, ok := strings.Cut(s, "-")
	if !ok {
		return Birthday{}, fmt.Errorf("invalid birthday %q: want MM-DD", s)
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Birthday{}, fmt.Errorf("invalid birthday month in %q", s)
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > daysIn(time.Month(m), 2024) {
		return Birthday{}, fmt.Errorf("invalid birthday day in %q", s)
	}
	return Birthday{Month: time.Month(m), Day: d}, nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Options configure a Store. Zero values pick sensible defaults.
type Options struct {
	// Location interprets stored dates and clock times. Defaults to time.Local.
	Location *time.Location
	Birthday Birthday
	// Vault seals private journal entries. Defaults to vault.DefaultParams.
	Vault *vault.Vault
	// Now supplies the current time for records created without one.
	Now func() time.Time
}

// Store is the study-data store: one collection per entity kind over a
// shared KV.
type Store struct {
	kv       store.KV
	log      logging.Logger
	loc      *time.Location
	birthday Birthday
	vault    *vault.Vault
	now      func() time.Time

	events     *store.Collection[CalendarEvent]
	moods      *store.Collection[MoodEntry]
	journal    *store.Collection[JournalEntry]
	decks      *store.Collection[Deck]
	cards      *store.Collection[Flashcard]
	references *store.Collection[Reference]

	stats   *store.Document[StudyStats]
	tracker *insights.Tracker
}

// Open wires the collections over kv and migrates any flat flashcard pool
// into decks.
func Open(ctx context.Context, kv store.KV, log logging.Logger, opts Options) (*Store, error) {
	if kv == nil {
		return nil, errors.New("study: nil KV")
	}
	if log == nil {
		log = logging.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Vault == nil {
		opts.Vault = vault.New(vault.DefaultParams)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		kv:       kv,
		log:      log,
		loc:      opts.Location,
		birthday: opts.Birthday,
		vault:    opts.Vault,
		now:      opts.Now,

		events:     store.NewCollection[CalendarEvent](kv, EventsKey, log, store.WithValidator(ValidateEvent)),
		moods:      store.NewCollection[MoodEntry](kv, MoodsKey, log, store.WithValidator(ValidateMood)),
		journal:    store.NewCollection[JournalEntry](kv, JournalKey, log, store.WithValidator(ValidateJournal)),
		decks:      store.NewCollection[Deck](kv, DecksKey, log, store.WithValidator(ValidateDeck)),
		cards:      store.NewCollection[Flashcard](kv, FlashcardsKey, log, store.WithValidator(ValidateCard)),
		references: store.NewCollection[Reference](kv, ReferencesKey, log, store.WithValidator(ValidateReference)),

		stats:   store.NewDocument[StudyStats](kv, StudyStatsKey, log),
		tracker: insights.NewTracker(store.NewDocument[insights.UnlockSet](kv, AchievementsKey, log)),
	}

	report, err := s.MigrateFlashcards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate flashcards: %w", err)
	}
	if report.Converted > 0 {
		log.Info(ctx, "migrated flat flashcards into decks", "cards", report.Converted, "decks_created", report.DecksCreated)
	}
	return s, nil
}

func (s *Store) KV() store.KV {
	return s.kv
}

func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) Birthday() Birthday {
	return s.birthday
}

// Now is the store clock in the store location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Store) today() string {
	return insights.DayKey(s.Now())
}

func (s *Store) orNow(t time.Time) time.Time {
	if t.IsZero() {
		return s.Now()
	}
	return t.In(s.loc)
}
