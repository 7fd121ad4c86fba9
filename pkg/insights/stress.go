package insights

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// StressWindow is how far ahead StressLevelOf looks.
const StressWindow = 7 * 24 * time.Hour

type StressLevel int

const (
	StressNormal StressLevel = iota
	StressLow
	StressMedium
	StressHigh
)

func (l StressLevel) String() string {
	switch l {
	case StressLow:
		return "low"
	case StressMedium:
		return "medium"
	case StressHigh:
		return "high"
	default:
		return "normal"
	}
}

func (l StressLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Scheduled is the part of a calendar event stress derivation looks at.
type Scheduled struct {
	Title string
	At    time.Time
	Exam  bool
	Hard  bool
}

// Countdown names the next exam and how many days remain, rounded up.
type Countdown struct {
	Title string    `json:"title"`
	Days  int       `json:"days"`
	At    time.Time `json:"at"`
}

// StressLevelOf classifies the events strictly after now and at most
// StressWindow later:
//
//	high    any hard exam, or more than 3 exams
//	medium  more than 1 exam, or more than 2 events
//	low     at least one event
//	normal  nothing scheduled
func StressLevelOf(events []Scheduled, now time.Time) StressLevel {
	horizon := now.Add(StressWindow)

	var upcoming, exams, hard int
	for _, ev := range events {
		if !ev.At.After(now) || ev.At.After(horizon) {
			continue
		}
		upcoming++
		if ev.Exam {
			exams++
			if ev.Hard {
				hard++
			}
		}
	}

	switch {
	case hard > 0 || exams > 3:
		return StressHigh
	case exams > 1 || upcoming > 2:
		return StressMedium
	case upcoming > 0:
		return StressLow
	default:
		return StressNormal
	}
}

// NextExam returns the earliest exam after now, with no horizon.
func NextExam(events []Scheduled, now time.Time) (Countdown, bool) {
	exams := make([]Scheduled, 0, len(events))
	for _, ev := range events {
		if ev.Exam && ev.At.After(now) {
			exams = append(exams, ev)
		}
	}
	if len(exams) == 0 {
		return Countdown{}, false
	}

	slices.SortStableFunc(exams, func(a, b Scheduled) int {
		return a.At.Compare(b.At)
	})
	next := exams[0]
	days := int(math.Ceil(next.At.Sub(now).Hours() / 24))
	return Countdown{Title: next.Title, Days: days, At: next.At}, true
}

// StressMessage is the dashboard line for level. next may be nil.
func StressMessage(level StressLevel, next *Countdown) string {
	switch level {
	case StressHigh:
		if next != nil {
			return fmt.Sprintf("Critical! %s in %d days. Time to panic... responsibly.", next.Title, next.Days)
		}
		return "Multiple exams approaching! Your stress levels are through the roof."
	case StressMedium:
		if next != nil {
			return fmt.Sprintf("%s approaching in %d days. Time to buckle down.", next.Title, next.Days)
		}
		return "Some events coming up. Stay focused and organized."
	case StressLow:
		if next != nil {
			return fmt.Sprintf("%s in %d days. You have time to prepare properly.", next.Title, next.Days)
		}
		return "Light schedule ahead. Perfect time for consistent study."
	default:
		return "All systems normal. You can breathe easy and plan ahead."
	}
}

// StressReport bundles the level, the next exam and the message.
type StressReport struct {
	Level    StressLevel `json:"level"`
	NextExam *Countdown  `json:"next_exam,omitempty"`
	Message  string      `json:"message"`
}

func Stress(events []Scheduled, now time.Time) StressReport {
	level := StressLevelOf(events, now)
	report := StressReport{Level: level}
	if next, ok := NextExam(events, now); ok {
		report.NextExam = &next
	}
	report.Message = StressMessage(level, report.NextExam)
	return report
}
