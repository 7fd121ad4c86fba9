package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStressLevelOf(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := func(d time.Duration) time.Time { return now.Add(d) }
	day := 24 * time.Hour

	tests := []struct {
		name   string
		events []Scheduled
		want   StressLevel
	}{
		{name: "nothing", events: nil, want: StressNormal},
		{name: "one event", events: []Scheduled{{At: in(day)}}, want: StressLow},
		{name: "hard exam", events: []Scheduled{{At: in(3 * day), Exam: true, Hard: true}}, want: StressHigh},
		{name: "two easy exams", events: []Scheduled{{At: in(day), Exam: true}, {At: in(2 * day), Exam: true}}, want: StressMedium},
		{name: "three plain events", events: []Scheduled{{At: in(day)}, {At: in(day)}, {At: in(day)}}, want: StressMedium},
		{name: "four exams", events: []Scheduled{{At: in(day), Exam: true}, {At: in(day), Exam: true}, {At: in(day), Exam: true}, {At: in(day), Exam: true}}, want: StressHigh},
		{name: "hard exam past", events: []Scheduled{{At: in(-time.Hour), Exam: true, Hard: true}}, want: StressNormal},
		{name: "hard exam at now excluded", events: []Scheduled{{At: now, Exam: true, Hard: true}}, want: StressNormal},
		{name: "hard exam at horizon included", events: []Scheduled{{At: in(StressWindow), Exam: true, Hard: true}}, want: StressHigh},
		{name: "hard exam beyond horizon", events: []Scheduled{{At: in(StressWindow + time.Minute), Exam: true, Hard: true}}, want: StressNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StressLevelOf(tt.events, now))
		})
	}
}

func TestNextExamAndMessage(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []Scheduled{
		{Title: "Visit", At: now.Add(24 * time.Hour)},
		{Title: "Pharma final", At: now.Add(20 * 24 * time.Hour), Exam: true},
		{Title: "Anatomy mock", At: now.Add(60 * time.Hour), Exam: true, Hard: true},
	}

	next, ok := NextExam(events, now)
	require.True(t, ok)
	assert.Equal(t, "Anatomy mock", next.Title)
	assert.Equal(t, 3, next.Days)

	report := Stress(events, now)
	assert.Equal(t, StressHigh, report.Level)
	assert.Equal(t, "Critical! Anatomy mock in 3 days. Time to panic... responsibly.", report.Message)

	_, ok = NextExam(nil, now)
	assert.False(t, ok)
	assert.Equal(t, "All systems normal. You can breathe easy and plan ahead.", StressMessage(StressNormal, nil))
	assert.Equal(t, "Light schedule ahead. Perfect time for consistent study.", StressMessage(StressLow, nil))

	text, err := StressHigh.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "high", string(text))
}
