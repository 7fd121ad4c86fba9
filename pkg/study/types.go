// Package study holds the entities of the study store and their operations.
// Every kind is one store.Collection; Store wires them together over a
// single store.KV.
package study

import (
	"encoding/json"
)

type EventType string

const (
	EventExam           EventType = "exam"
	EventCommunityVisit EventType = "community-visit"
	EventReference      EventType = "reference"
	EventBirthday       EventType = "birthday"
)

type ExamType string

const (
	ExamFinal    ExamType = "final"
	ExamPreFinal ExamType = "pre-final"
	ExamMock     ExamType = "mock"
	ExamLab      ExamType = "lab"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type CalendarEvent struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Type       EventType  `json:"type"`
	ExamType   ExamType   `json:"examType,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Notes      string     `json:"notes,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	// Attachments are opaque references; file content is not stored.
	Attachments []string `json:"attachments,omitempty"`
}

func (e CalendarEvent) RecordID() string { return e.ID }

type MoodEntry struct {
	ID        string    `json:"id"`
	Mood      MoodLevel `json:"mood"`
	Date      string    `json:"date"`
	Timestamp Millis    `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

func (m MoodEntry) RecordID() string { return m.ID }

// UnmarshalJSON also reads the singular note field some screens wrote.
func (m *MoodEntry) UnmarshalJSON(b []byte) error {
	type plain MoodEntry
	var aux struct {
		plain
		Note string `json:"note,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = MoodEntry(aux.plain)
	if m.Notes == "" {
		m.Notes = aux.Note
	}
	return nil
}

type JournalEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPrivate bool   `json:"isPrivate"`
	Date      string `json:"date"`
	// Mood is a free-text label, unrelated to the MoodLevel scale.
	Mood      string `json:"mood"`
	Timestamp Millis `json:"timestamp"`
	// Cipher is empty for public entries and legacy base64 private ones.
	Cipher string `json:"cipher,omitempty"`
}

func (j JournalEntry) RecordID() string { return j.ID }

type Deck struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt Millis `json:"createdAt"`
}

func (d Deck) RecordID() string { return d.ID }

type Flashcard struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deckId"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Difficulty     Difficulty `json:"difficulty"`
	LastReviewed   *Millis    `json:"lastReviewed,omitempty"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	CreatedAt      Millis     `json:"createdAt"`
}

func (f Flashcard) RecordID() string { return f.ID }

// Reviews is the number of times the card was answered.
func (f Flashcard) Reviews() int {
	return f.CorrectCount + f.IncorrectCount
}

type Reference struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Size       ByteSize `json:"size"`
	Pages      int      `json:"pages"`
	Progress   int      `json:"progress"`
	LastOpened *Millis  `json:"lastOpened,omitempty"`
	UploadDate Millis   `json:"uploadDate"`
	Category   string   `json:"category,omitempty"`
	Bookmarked bool     `json:"bookmarked"`
	Tags       []string `json:"tags,omitempty"`
}

func (r Reference) RecordID() string { return r.ID }

// UnmarshalJSON also reads the lastRead field of older records.
func (r *Reference) UnmarshalJSON(b []byte) error {
	type plain Reference
	var aux struct {
		plain
		LastRead *Millis `json:"lastRead,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Reference(aux.plain)
	if r.LastOpened == nil && aux.LastRead != nil && !aux.LastRead.IsZero() {
		r.LastOpened = aux.LastRead
	}
	return nil
}
