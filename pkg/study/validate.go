package study

import (
	"strings"
	"time"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/vault"
)

func validDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func validateDay(field, value string) error {
	if _, err := insights.ParseDay(value, time.UTC); err != nil {
		return store.Invalid(field, "%q is not a date (want YYYY-MM-DD)", value)
	}
	return nil
}

func ValidateEvent(e CalendarEvent) error {
	if strings.TrimSpace(e.Title) == "" {
		return store.Invalid("title", "is required")
	}
	switch e.Type {
	case EventExam, EventCommunityVisit, EventReference, EventBirthday:
	default:
		return store.Invalid("type", "unknown event type %q", e.Type)
	}

	if e.Type != EventExam {
		if e.ExamType != "" {
			return store.Invalid("examType", "only allowed on exams")
		}
		if e.Difficulty != "" {
			return store.Invalid("difficulty", "only allowed on exams")
		}
	} else {
		switch e.ExamType {
		case "", ExamFinal, ExamPreFinal, ExamMock, ExamLab:
		default:
			return store.Invalid("examType", "unknown exam type %q", e.ExamType)
		}
		if e.Difficulty != "" && !validDifficulty(e.Difficulty) {
			return store.Invalid("difficulty", "unknown difficulty %q", e.Difficulty)
		}
	}

	if err := validateDay("date", e.Date); err != nil {
		return err
	}
	if e.Time != "" {
		if _, err := time.Parse(insights.ClockLayout, e.Time); err != nil {
			return store.Invalid("time", "%q is not a clock time (want HH:MM)", e.Time)
		}
	}
	return nil
}

func ValidateMood(m MoodEntry) error {
	if !m.Mood.Valid() {
		return store.Invalid("mood", "%d is outside the scale", int(m.Mood))
	}
	if err := validateDay("date", m.Date); err != nil {
		return err
	}
	if m.Timestamp.IsZero() {
		return store.Invalid("timestamp", "is required")
	}
	return nil
}

func ValidateJournal(j JournalEntry) error {
	if strings.TrimSpace(j.Title) == "" {
		return store.Invalid("title", "is required")
	}
	if err := validateDay("date", j.Date); err != nil {
		return err
	}
	switch {
	case j.Cipher == "":
	case j.Cipher == vault.Cipher && j.IsPrivate:
	case j.Cipher == vault.Cipher:
		return store.Invalid("cipher", "sealed entries must be private")
	default:
		return store.Invalid("cipher", "unknown cipher %q", j.Cipher)
	}
	return nil
}

func ValidateDeck(d Deck) error {
	if strings.TrimSpace(d.Name) == "" {
		return store.Invalid("name", "is required")
	}
	return nil
}

func ValidateCard(c Flashcard) error {
	if c.DeckID == "" {
		return store.Invalid("deckId", "is required")
	}
	if strings.TrimSpace(c.Front) == "" {
		return store.Invalid("front", "is required")
	}
	if strings.TrimSpace(c.Back) == "" {
		return store.Invalid("back", "is required")
	}
	if !validDifficulty(c.Difficulty) {
		return store.Invalid("difficulty", "unknown difficulty %q", c.Difficulty)
	}
	if c.CorrectCount < 0 || c.IncorrectCount < 0 {
		return store.Invalid("correctCount", "review counters must not be negative")
	}
	return nil
}

func ValidateReference(r Reference) error {
	if strings.TrimSpace(r.Name) == "" {
		return store.Invalid("name", "is required")
	}
	if r.Progress < 0 || r.Progress > 100 {
		return store.Invalid("progress", "%d is outside 0..100", r.Progress)
	}
	if r.Size < 0 {
		return store.Invalid("size", "must not be negative")
	}
	if r.Pages < 0 {
		return store.Invalid("pages", "must not be negative")
	}
	return nil
}
