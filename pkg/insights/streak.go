package insights

import (
	"time"
)

// Streak counts consecutive calendar days ending today that appear in days
// (YYYY-MM-DD strings, duplicates and any order allowed). A streak must
// include today: no entry today means 0.
func Streak(days []string, today time.Time) int {
	present := make(map[string]struct{}, len(days))
	loc := today.Location()
	for _, d := range days {
		key, err := NormalizeDay(d, loc)
		if err != nil {
			continue
		}
		present[key] = struct{}{}
	}

	streak := 0
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	for {
		if _, ok := present[DayKey(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
