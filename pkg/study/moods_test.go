package study

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
)

func TestMoodLevel_ClosedScale(t *testing.T) {
	assert.Len(t, MoodScale(), 11)
	assert.Equal(t, "Devastated", MinMood.Label())
	assert.Equal(t, "Euphoric", MaxMood.Label())

	_, err := ParseMoodLevel(11)
	assert.Error(t, err)
	_, err = ParseMoodLevel(-1)
	assert.Error(t, err)

	var l MoodLevel
	assert.Error(t, json.Unmarshal([]byte(`12`), &l))
	assert.Error(t, json.Unmarshal([]byte(`"happy"`), &l))
	require.NoError(t, json.Unmarshal([]byte(`7`), &l))
	assert.Equal(t, Good, l)

	_, err = json.Marshal(MoodLevel(42))
	assert.Error(t, err)

	got, ok := MoodLevelByLabel("energized")
	assert.True(t, ok)
	assert.Equal(t, Energized, got)
}

func TestMoods_LogAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	entry, err := s.LogMood(ctx, Content, "post-exam", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", entry.Date)
	assert.Equal(t, fixedNow.UnixMilli(), entry.Timestamp.UnixMilli())

	moods, err := s.ListMoods(ctx)
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, entry, moods[0])

	found, err := s.DeleteMood(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMoods_OutOfRangeStoredEntryIsSkipped(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	kv.Seed(MoodsKey, []byte(`[
		{"id":"a","mood":3,"date":"2026-03-09","timestamp":"2026-03-09T10:00:00.000Z","notes":""},
		{"id":"b","mood":14,"date":"2026-03-09","timestamp":1773050400000},
		{"id":"c","mood":5,"date":"2026-03-10","timestamp":1773136800000,"note":"legacy note"}
	]`))
	s := openTestStore(t, kv)

	moods, err := s.ListMoods(ctx)
	require.NoError(t, err)
	require.Len(t, moods, 2)
	assert.Equal(t, "a", moods[0].ID)
	assert.Equal(t, "legacy note", moods[1].Notes)
}

func TestMoods_AverageRounding(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	avg, err := s.RecentMoodAverage(ctx, RecentMoodWindow)
	require.NoError(t, err)
	assert.Equal(t, MoodAverage{Level: Devastated, Samples: 0}, avg)

	for i, level := range []MoodLevel{Exhausted, Down, Unsettled} {
		_, err := s.LogMood(ctx, level, "", fixedNow.AddDate(0, 0, -2+i))
		require.NoError(t, err)
	}

	avg, err = s.RecentMoodAverage(ctx, RecentMoodWindow)
	require.NoError(t, err)
	assert.Equal(t, Down, avg.Level)
	assert.Equal(t, 3, avg.Level.Rank())
	assert.Equal(t, 3, avg.Samples)
}

func TestMoods_Streak(t *testing.T) {
	ctx := context.Background()

	t.Run("today and two prior days", func(t *testing.T) {
		s := openTestStore(t, nil)
		for _, daysAgo := range []int{0, 1, 2, 4} {
			_, err := s.LogMood(ctx, Good, "", fixedNow.AddDate(0, 0, -daysAgo))
			require.NoError(t, err)
		}
		streak, err := s.MoodStreak(ctx, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 3, streak)
	})

	t.Run("nothing today", func(t *testing.T) {
		s := openTestStore(t, nil)
		_, err := s.LogMood(ctx, Good, "", fixedNow.AddDate(0, 0, -1))
		require.NoError(t, err)
		streak, err := s.MoodStreak(ctx, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 0, streak)
	})
}

func TestMoods_Calendar(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	_, err := s.LogMood(ctx, Panicked, "", fixedNow.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.LogMood(ctx, Elated, "", fixedNow)
	require.NoError(t, err)
	_, err = s.LogMood(ctx, Down, "", fixedNow.AddDate(0, 0, -3))
	require.NoError(t, err)
	_, err = s.LogMood(ctx, Neutral, "", fixedNow.AddDate(0, -2, 0))
	require.NoError(t, err)

	cal, err := s.MoodCalendar(ctx, fixedNow.AddDate(0, 0, -7), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, map[string]MoodLevel{"2026-03-10": Elated, "2026-03-07": Down}, cal)
}
