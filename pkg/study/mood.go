package study

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MoodLevel is a point on the closed 11-step mood scale. The zero value is
// Devastated; values outside [Devastated, Euphoric] never decode.
type MoodLevel int

const (
	Devastated MoodLevel = iota
	Panicked
	Exhausted
	Down
	Unsettled
	Neutral
	Content
	Good
	Energized
	Elated
	Euphoric
)

// MinMood and MaxMood bound the scale.
const (
	MinMood = Devastated
	MaxMood = Euphoric
)

type moodInfo struct {
	emoji       string
	label       string
	description string
}

var moodTable = [...]moodInfo{
	Devastated: {"😭", "Devastated", "Like a patient coding at 3 AM"},
	Panicked:   {"😰", "Panicked", "Like forgetting everything during viva"},
	Exhausted:  {"😣", "Exhausted", "Like an intern on night shift with no coffee"},
	Down:       {"😔", "Down", "Like a deflated lung"},
	Unsettled:  {"😕", "Unsettled", "Like a murmur, something's off"},
	Neutral:    {"😐", "Neutral", "Like a pancreas, functioning but nobody thanks it"},
	Content:    {"🙂", "Content", "Like stable vitals"},
	Good:       {"😊", "Good", "Like a well-oxygenated hemoglobin molecule"},
	Energized:  {"☕", "Energized", "Caffeinated and ready to conquer pathology"},
	Elated:     {"😄", "Elated", "Like acing a surprise quiz"},
	Euphoric:   {"🤩", "Euphoric", "Like finally understanding Krebs cycle"},
}

// ParseMoodLevel converts a rank to a MoodLevel, rejecting out-of-range values.
func ParseMoodLevel(rank int) (MoodLevel, error) {
	l := MoodLevel(rank)
	if !l.Valid() {
		return Neutral, fmt.Errorf("mood %d is outside the scale %d..%d", rank, MinMood, MaxMood)
	}
	return l, nil
}

// MoodLevelByLabel looks a level up by its label, case-insensitively.
func MoodLevelByLabel(label string) (MoodLevel, bool) {
	for i, info := range moodTable {
		if strings.EqualFold(info.label, strings.TrimSpace(label)) {
			return MoodLevel(i), true
		}
	}
	return Neutral, false
}

// MoodScale lists all levels from worst to best.
func MoodScale() []MoodLevel {
	levels := make([]MoodLevel, 0, len(moodTable))
	for i := range moodTable {
		levels = append(levels, MoodLevel(i))
	}
	return levels
}

func (l MoodLevel) Valid() bool {
	return l >= MinMood && l <= MaxMood
}

// Rank is the numeric value used for averages.
func (l MoodLevel) Rank() int {
	return int(l)
}

func (l MoodLevel) Label() string {
	if !l.Valid() {
		return ""
	}
	return moodTable[l].label
}

func (l MoodLevel) Description() string {
	if !l.Valid() {
		return ""
	}
	return moodTable[l].description
}

func (l MoodLevel) Emoji() string {
	if !l.Valid() {
		return ""
	}
	return moodTable[l].emoji
}

func (l MoodLevel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("MoodLevel(%d)", int(l))
	}
	return moodTable[l].label
}

func (l MoodLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot encode mood %d: outside the scale", int(l))
	}
	return json.Marshal(int(l))
}

func (l *MoodLevel) UnmarshalJSON(b []byte) error {
	var rank int
	if err := json.Unmarshal(b, &rank); err != nil {
		return fmt.Errorf("mood must be an integer rank: %w", err)
	}
	parsed, err := ParseMoodLevel(rank)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
