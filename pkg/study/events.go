package study

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/rpager/pkg/insights"
)

// AddEvent stores ev, assigning an id when it has none. The date is
// normalised to YYYY-MM-DD.
func (s *Store) AddEvent(ctx context.Context, ev CalendarEvent) (CalendarEvent, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.Title = strings.TrimSpace(ev.Title)
	if day, err := insights.NormalizeDay(ev.Date, s.loc); err == nil {
		ev.Date = day
	}

	if err := s.events.Add(ctx, ev); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]CalendarEvent, error) {
	return s.events.List(ctx)
}

func (s *Store) GetEvent(ctx context.Context, id string) (CalendarEvent, error) {
	return s.events.Get(ctx, id)
}

func (s *Store) UpdateEvent(ctx context.Context, id string, mutate func(CalendarEvent) CalendarEvent) (bool, error) {
	return s.events.Update(ctx, id, mutate)
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (bool, error) {
	return s.events.Remove(ctx, id)
}

// EventsBetween returns events dated within [from, to], date ascending.
func (s *Store) EventsBetween(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	return insights.FilterByDateRange(events, func(e CalendarEvent) string { return e.Date }, from.In(s.loc), to.In(s.loc)), nil
}

// eventAt is the instant an event starts in the store location.
func (s *Store) eventAt(e CalendarEvent) (time.Time, error) {
	return insights.At(e.Date, e.Time, s.loc)
}

func (s *Store) scheduled(events []CalendarEvent) []insights.Scheduled {
	out := make([]insights.Scheduled, 0, len(events))
	for _, e := range events {
		at, err := s.eventAt(e)
		if err != nil {
			continue
		}
		out = append(out, insights.Scheduled{
			Title: e.Title,
			At:    at,
			Exam:  e.Type == EventExam,
			Hard:  e.Type == EventExam && e.Difficulty == DifficultyHard,
		})
	}
	return out
}

// UpcomingExams lists exams starting after now, soonest first.
func (s *Store) UpcomingExams(ctx context.Context, now time.Time) ([]CalendarEvent, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}

	type timed struct {
		at time.Time
		ev CalendarEvent
	}
	var exams []timed
	for _, e := range events {
		if e.Type != EventExam {
			continue
		}
		at, err := s.eventAt(e)
		if err != nil || !at.After(now) {
			continue
		}
		exams = append(exams, timed{at: at, ev: e})
	}
	slices.SortStableFunc(exams, func(a, b timed) int { return a.at.Compare(b.at) })

	out := make([]CalendarEvent, len(exams))
	for i, e := range exams {
		out[i] = e.ev
	}
	return out, nil
}

// Stress classifies the coming week's load as seen at now.
func (s *Store) Stress(ctx context.Context, now time.Time) (insights.StressReport, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return insights.StressReport{}, err
	}
	return insights.Stress(s.scheduled(events), now.In(s.loc)), nil
}

// IsBirthday reports whether t falls on the configured birthday.
func (s *Store) IsBirthday(t time.Time) bool {
	if !s.birthday.IsSet() {
		return false
	}
	t = t.In(s.loc)
	return t.Month() == s.birthday.Month && t.Day() == s.birthdayDay(t.Year())
}

// birthdayDay moves 29 February to the 28th in common years.
func (s *Store) birthdayDay(year int) int {
	return min(s.birthday.Day, daysIn(s.birthday.Month, year))
}

// EnsureBirthdayEvent adds the birthday event for year unless one already
// exists on that date. It reports whether an event was added.
func (s *Store) EnsureBirthdayEvent(ctx context.Context, year int) (CalendarEvent, bool, error) {
	if !s.birthday.IsSet() {
		return CalendarEvent{}, false, ErrNoBirthday
	}
	day := insights.DayKey(time.Date(year, s.birthday.Month, s.birthdayDay(year), 0, 0, 0, 0, s.loc))

	var result CalendarEvent
	added, err := s.events.Mutate(ctx, func(current []CalendarEvent) ([]CalendarEvent, bool, error) {
		for _, e := range current {
			if e.Type == EventBirthday && e.Date == day {
				result = e
				return current, false, nil
			}
		}
		result = CalendarEvent{
			ID:    uuid.NewString(),
			Title: "Birthday",
			Type:  EventBirthday,
			Date:  day,
			Tags:  []string{"birthday"},
		}
		return append(current, result), true, nil
	})
	if err != nil {
		return CalendarEvent{}, false, err
	}
	return result, added, nil
}
