package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundedAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{name: "empty is sentinel zero", values: nil, want: 0},
		{name: "exact", values: []int{2, 3, 4}, want: 3},
		{name: "rounds down below half", values: []int{1, 2, 2}, want: 2},
		{name: "rounds half up", values: []int{1, 2}, want: 2},
		{name: "rounds up above half", values: []int{2, 3, 3}, want: 3},
		{name: "single", values: []int{10}, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundedAverage(tt.values))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(5, 0))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(7, 7))
	assert.Equal(t, 100, Percentage(9, 7))
	assert.Equal(t, 0, Percentage(-1, 7))
}

type sample struct {
	at    time.Time
	value int
}

func TestRecentAverage(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []sample{
		{at: base.AddDate(0, 0, -10), value: 10},
		{at: base.AddDate(0, 0, -2), value: 2},
		{at: base.AddDate(0, 0, -1), value: 3},
		{at: base, value: 4},
	}
	at := func(s sample) time.Time { return s.at }
	val := func(s sample) int { return s.value }

	avg, n := RecentAverage(items, at, val, 3)
	assert.Equal(t, 3, avg)
	assert.Equal(t, 3, n)

	avg, n = RecentAverage(items, at, val, 7)
	assert.Equal(t, 5, avg)
	assert.Equal(t, 4, n)

	avg, n = RecentAverage[sample](nil, at, val, 7)
	assert.Equal(t, 0, avg)
	assert.Equal(t, 0, n)
}
