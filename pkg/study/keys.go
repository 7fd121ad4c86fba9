package study

// Storage keys. They keep the namespace of the original browser app so a value
// exported from its localStorage can be loaded as-is with "rpager db load".
const (
	EventsKey       = "page-r-events"
	MoodsKey        = "page-r-moods"
	JournalKey      = "page-r-journal"
	ReferencesKey   = "page-r-pdfs"
	DecksKey        = "page-r-decks"
	FlashcardsKey   = "page-r-flashcards"
	StudyStatsKey   = "page-r-study-stats"
	AchievementsKey = "page-r-achievements"
)

// DataKeys lists every key above, in the order the browser app wrote them.
var DataKeys = []string{
	EventsKey, MoodsKey, JournalKey, ReferencesKey,
	DecksKey, FlashcardsKey, StudyStatsKey, AchievementsKey,
}
