// Package insights holds the derived read queries of the study store: date
// windows, rounded averages, streaks, exam stress and achievement unlocks.
//
// Everything here except Tracker is a pure function over a snapshot; callers
// load a collection once and pass its items in.
package insights
