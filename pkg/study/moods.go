package study

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/rpager/pkg/insights"
)

// RecentMoodWindow is how many entries the dashboard average covers.
const RecentMoodWindow = 7

// LogMood records level at the given instant (now when zero).
func (s *Store) LogMood(ctx context.Context, level MoodLevel, notes string, at time.Time) (MoodEntry, error) {
	at = s.orNow(at)
	entry := MoodEntry{
		ID:        uuid.NewString(),
		Mood:      level,
		Date:      insights.DayKey(at),
		Timestamp: NewMillis(at),
		Notes:     notes,
	}
	if err := s.moods.Add(ctx, entry); err != nil {
		return MoodEntry{}, err
	}
	return entry, nil
}

func (s *Store) ListMoods(ctx context.Context) ([]MoodEntry, error) {
	return s.moods.List(ctx)
}

func (s *Store) DeleteMood(ctx context.Context, id string) (bool, error) {
	return s.moods.Remove(ctx, id)
}

// MoodCalendar maps each date in [from, to] that has entries to the level
// logged last that day.
func (s *Store) MoodCalendar(ctx context.Context, from, to time.Time) (map[string]MoodLevel, error) {
	moods, err := s.moods.List(ctx)
	if err != nil {
		return nil, err
	}

	windowed := insights.FilterByDateRange(moods, func(m MoodEntry) string { return m.Date }, from.In(s.loc), to.In(s.loc))
	calendar := make(map[string]MoodLevel)
	latest := make(map[string]time.Time)
	for _, m := range windowed {
		day, err := insights.NormalizeDay(m.Date, s.loc)
		if err != nil {
			continue
		}
		if prev, ok := latest[day]; ok && m.Timestamp.Before(prev) {
			continue
		}
		latest[day] = m.Timestamp.Time
		calendar[day] = m.Mood
	}
	return calendar, nil
}

// MoodAverage is a rounded average level. Samples is 0 when there were no
// entries, in which case Level is the 0 sentinel.
type MoodAverage struct {
	Level   MoodLevel `json:"level"`
	Samples int       `json:"samples"`
}

// RecentMoodAverage averages the n most recent entries.
func (s *Store) RecentMoodAverage(ctx context.Context, n int) (MoodAverage, error) {
	moods, err := s.moods.List(ctx)
	if err != nil {
		return MoodAverage{}, err
	}
	avg, samples := insights.RecentAverage(moods,
		func(m MoodEntry) time.Time { return m.Timestamp.Time },
		func(m MoodEntry) int { return m.Mood.Rank() },
		n)

	// The average of in-range ranks is in range.
	level, err := ParseMoodLevel(avg)
	if err != nil {
		return MoodAverage{}, err
	}
	return MoodAverage{Level: level, Samples: samples}, nil
}

// MoodStreak counts consecutive days up to today with a logged mood.
func (s *Store) MoodStreak(ctx context.Context, today time.Time) (int, error) {
	moods, err := s.moods.List(ctx)
	if err != nil {
		return 0, err
	}
	days := make([]string, len(moods))
	for i, m := range moods {
		days[i] = m.Date
	}
	return insights.Streak(days, today.In(s.loc)), nil
}
