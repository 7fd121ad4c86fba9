package study

import (
	"context"
	"math"
	"time"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/store"
)

// MaxHoursPerLog bounds a single study-hours entry.
const MaxHoursPerLog = 24

// StudyStats is the persisted activity log behind progress and streaks.
type StudyStats struct {
	TotalHours float64             `json:"totalHours"`
	Days       map[string]DayStats `json:"days"`
}

type DayStats struct {
	Hours   float64 `json:"hours"`
	Reviews int     `json:"reviews"`
}

func (st *StudyStats) day(key string) DayStats {
	if st.Days == nil {
		st.Days = make(map[string]DayStats)
	}
	return st.Days[key]
}

// ActiveDays lists the days with any study activity.
func (st StudyStats) ActiveDays() []string {
	days := make([]string, 0, len(st.Days))
	for day, d := range st.Days {
		if d.Hours > 0 || d.Reviews > 0 {
			days = append(days, day)
		}
	}
	return days
}

func (s *Store) StudyStats(ctx context.Context) (StudyStats, error) {
	return s.stats.Value(ctx)
}

// LogStudyHours adds hours of study on the day of at.
func (s *Store) LogStudyHours(ctx context.Context, hours float64, at time.Time) (StudyStats, error) {
	if hours <= 0 || hours > MaxHoursPerLog || math.IsNaN(hours) {
		return StudyStats{}, store.Invalid("hours", "%v is outside (0, %d]", hours, MaxHoursPerLog)
	}
	key := insights.DayKey(s.orNow(at))
	return s.stats.Update(ctx, func(st StudyStats) (StudyStats, error) {
		d := st.day(key)
		d.Hours += hours
		st.Days[key] = d
		st.TotalHours += hours
		return st, nil
	})
}

// Progress computes the snapshot achievements are evaluated against.
func (s *Store) Progress(ctx context.Context, today time.Time) (insights.Progress, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		return insights.Progress{}, err
	}
	stats, err := s.stats.Value(ctx)
	if err != nil {
		return insights.Progress{}, err
	}

	summary := summarise("", cards)
	return insights.Progress{
		FlashcardsCompleted: summary.Correct + summary.Incorrect,
		StudyHours:          stats.TotalHours,
		Accuracy:            summary.Accuracy,
		Streak:              insights.Streak(stats.ActiveDays(), today.In(s.loc)),
		CardsCreated:        len(cards),
	}, nil
}

// RefreshAchievements evaluates current progress and returns what this call
// newly unlocked together with the full unlock set.
func (s *Store) RefreshAchievements(ctx context.Context, today time.Time) ([]insights.Achievement, []int, error) {
	p, err := s.Progress(ctx, today)
	if err != nil {
		return nil, nil, err
	}
	fresh, err := s.tracker.Refresh(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	unlocked, err := s.tracker.Unlocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	return fresh, unlocked, nil
}

func (s *Store) UnlockedAchievements(ctx context.Context) ([]int, error) {
	return s.tracker.Unlocked(ctx)
}
