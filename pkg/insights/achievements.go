package insights

import (
	"slices"
)

// Requirement is the progress metric an achievement watches.
type Requirement string

const (
	RequireFlashcards Requirement = "flashcards"
	RequireHours      Requirement = "hours"
	RequireAccuracy   Requirement = "accuracy"
	RequireStreak     Requirement = "streak"
	RequireCreated    Requirement = "created"
)

type Achievement struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Requirement Requirement `json:"requirement"`
	Threshold   float64     `json:"threshold"`
}

// Progress is the numeric snapshot achievements are evaluated against.
type Progress struct {
	FlashcardsCompleted int     `json:"flashcards_completed"`
	StudyHours          float64 `json:"study_hours"`
	Accuracy            int     `json:"accuracy"`
	Streak              int     `json:"streak"`
	CardsCreated        int     `json:"cards_created"`
}

func (p Progress) value(r Requirement) (float64, bool) {
	switch r {
	case RequireFlashcards:
		return float64(p.FlashcardsCompleted), true
	case RequireHours:
		return p.StudyHours, true
	case RequireAccuracy:
		return float64(p.Accuracy), true
	case RequireStreak:
		return float64(p.Streak), true
	case RequireCreated:
		return float64(p.CardsCreated), true
	default:
		return 0, false
	}
}

// Catalog is the static achievement table. Ids are stable: they are what the
// unlock set persists.
var Catalog = []Achievement{
	{1, "FIRST STEPS", "Complete your first flashcard", RequireFlashcards, 1},
	{2, "GETTING STARTED", "Study for 1 hour total", RequireHours, 1},
	{3, "DEDICATED LEARNER", "Complete 10 flashcards", RequireFlashcards, 10},
	{4, "STUDY WARRIOR", "Study for 5 hours total", RequireHours, 5},
	{5, "ACCURACY EXPERT", "Achieve 80% accuracy", RequireAccuracy, 80},
	{6, "FLASHCARD MASTER", "Complete 50 flashcards", RequireFlashcards, 50},
	{7, "MARATHON STUDENT", "Study for 10 hours total", RequireHours, 10},
	{8, "STREAK STARTER", "Maintain a 3-day streak", RequireStreak, 3},
	{9, "PERFECTIONIST", "Achieve 90% accuracy", RequireAccuracy, 90},
	{10, "CENTURY CLUB", "Complete 100 flashcards", RequireFlashcards, 100},
	{11, "DEDICATION INCARNATE", "Study for 25 hours total", RequireHours, 25},
	{12, "WEEK WARRIOR", "Maintain a 7-day streak", RequireStreak, 7},
	{13, "PRECISION MACHINE", "Achieve 95% accuracy", RequireAccuracy, 95},
	{14, "FLASHCARD LEGEND", "Complete 250 flashcards", RequireFlashcards, 250},
	{15, "STUDY MARATHON", "Study for 50 hours total", RequireHours, 50},
	{16, "FORTNIGHT FIGHTER", "Maintain a 14-day streak", RequireStreak, 14},
	{17, "NEAR PERFECTION", "Achieve 98% accuracy", RequireAccuracy, 98},
	{18, "HALF THOUSAND", "Complete 500 flashcards", RequireFlashcards, 500},
	{19, "CENTURY STUDIER", "Study for 100 hours total", RequireHours, 100},
	{20, "MONTH MASTER", "Maintain a 30-day streak", RequireStreak, 30},
	{34, "CREATOR CHAMPION", "Create 25 custom flashcards", RequireCreated, 25},
	{38, "MILESTONE MARKER", "Reach 1000 total flashcards", RequireFlashcards, 1000},
	{39, "TIME TRAVELER", "Study for 200 hours total", RequireHours, 200},
	{40, "STREAK SUPREME", "Maintain a 60-day streak", RequireStreak, 60},
	{41, "PERFECTIONIST PLUS", "Achieve 99% accuracy", RequireAccuracy, 99},
	{42, "ULTIMATE ACHIEVER", "Achieve perfect 100% accuracy", RequireAccuracy, 100},
	{43, "FLASHCARD DEITY", "Complete 2000 flashcards", RequireFlashcards, 2000},
	{44, "STUDY LEGEND", "Study for 500 hours total", RequireHours, 500},
	{45, "ETERNAL STUDENT", "Maintain a 100-day streak", RequireStreak, 100},
}

// AchievementByID looks an achievement up in Catalog.
func AchievementByID(id int) (Achievement, bool) {
	i := slices.IndexFunc(Catalog, func(a Achievement) bool { return a.ID == id })
	if i < 0 {
		return Achievement{}, false
	}
	return Catalog[i], true
}

// Evaluate returns, in catalog order, the ids of every achievement whose
// threshold p meets or exceeds. It is stateless; see Tracker for the
// persisted, monotonic unlock set.
func Evaluate(p Progress) []int {
	var ids []int
	for _, a := range Catalog {
		v, ok := p.value(a.Requirement)
		if ok && v >= a.Threshold {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
