package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/store"
)

func TestEvents_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	ev, err := s.AddEvent(ctx, CalendarEvent{
		Title: "Pathology final", Type: EventExam, ExamType: ExamFinal, Difficulty: DifficultyMedium,
		Date: "2026-04-01", Time: "09:00", Tags: []string{"path"}, Attachments: []string{"notes.pdf"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev, events[len(events)-1])

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestEvents_Validation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	tests := []struct {
		name string
		ev   CalendarEvent
	}{
		{name: "difficulty on visit", ev: CalendarEvent{Title: "Visit", Type: EventCommunityVisit, Difficulty: DifficultyHard, Date: "2026-04-01"}},
		{name: "exam type on reference", ev: CalendarEvent{Title: "Read", Type: EventReference, ExamType: ExamMock, Date: "2026-04-01"}},
		{name: "unknown type", ev: CalendarEvent{Title: "?", Type: "party", Date: "2026-04-01"}},
		{name: "bad date", ev: CalendarEvent{Title: "x", Type: EventExam, Date: "April 1"}},
		{name: "bad time", ev: CalendarEvent{Title: "x", Type: EventExam, Date: "2026-04-01", Time: "9am"}},
		{name: "no title", ev: CalendarEvent{Type: EventExam, Date: "2026-04-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddEvent(ctx, tt.ev)
			assert.ErrorIs(t, err, store.ErrInvalid)
		})
	}

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEvents_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	a, err := s.AddEvent(ctx, CalendarEvent{Title: "A", Type: EventReference, Date: "2026-03-11"})
	require.NoError(t, err)
	b, err := s.AddEvent(ctx, CalendarEvent{Title: "B", Type: EventReference, Date: "2026-03-12"})
	require.NoError(t, err)

	found, err := s.UpdateEvent(ctx, a.ID, func(e CalendarEvent) CalendarEvent {
		e.Notes = "bring stethoscope"
		return e
	})
	require.NoError(t, err)
	assert.True(t, found)

	gotB, err := s.GetEvent(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, gotB)

	found, err = s.UpdateEvent(ctx, "missing", func(e CalendarEvent) CalendarEvent { return e })
	require.NoError(t, err)
	assert.False(t, found)

	found, err = s.DeleteEvent(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = s.DeleteEvent(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEvents_BetweenAndUpcoming(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	for _, ev := range []CalendarEvent{
		{Title: "later exam", Type: EventExam, Date: "2026-03-20", Time: "10:00"},
		{Title: "past exam", Type: EventExam, Date: "2026-03-01"},
		{Title: "soon exam", Type: EventExam, Date: "2026-03-12", Time: "08:00"},
		{Title: "visit", Type: EventCommunityVisit, Date: "2026-03-12"},
		{Title: "this morning", Type: EventExam, Date: "2026-03-10", Time: "08:00"},
	} {
		_, err := s.AddEvent(ctx, ev)
		require.NoError(t, err)
	}

	between, err := s.EventsBetween(ctx, fixedNow, fixedNow.AddDate(0, 0, 5))
	require.NoError(t, err)
	var titles []string
	for _, e := range between {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"this morning", "soon exam", "visit"}, titles)

	upcoming, err := s.UpcomingExams(ctx, fixedNow)
	require.NoError(t, err)
	titles = titles[:0]
	for _, e := range upcoming {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"soon exam", "later exam"}, titles)
}

func TestEvents_HardExamInThreeDaysIsHighStress(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	_, err := s.AddEvent(ctx, CalendarEvent{
		Title:      "Anatomy viva",
		Type:       EventExam,
		Difficulty: DifficultyHard,
		Date:       insights.DayKey(fixedNow.AddDate(0, 0, 3)),
	})
	require.NoError(t, err)

	report, err := s.Stress(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, insights.StressHigh, report.Level)
	require.NotNil(t, report.NextExam)
	assert.Equal(t, "Anatomy viva", report.NextExam.Title)
	assert.Equal(t, 3, report.NextExam.Days)
}

func TestEvents_Birthday(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	assert.True(t, s.IsBirthday(time.Date(2027, 8, 11, 23, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsBirthday(time.Date(2027, 8, 12, 0, 0, 0, 0, time.UTC)))

	ev, added, err := s.EnsureBirthdayEvent(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "2026-08-11", ev.Date)
	assert.Equal(t, EventBirthday, ev.Type)

	again, added, err := s.EnsureBirthdayEvent(ctx, 2026)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, ev.ID, again.ID)

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEvents_NoBirthdayConfigured(t *testing.T) {
	s, err := Open(context.Background(), store.NewMemoryKV(), nil, Options{})
	require.NoError(t, err)
	assert.False(t, s.IsBirthday(time.Now()))
	_, _, err = s.EnsureBirthdayEvent(context.Background(), 2026)
	assert.ErrorIs(t, err, ErrNoBirthday)
}
