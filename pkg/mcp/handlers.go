package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/rpager/pkg/appstate"
	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/study"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the R-PAGER MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_rpager"), nil
}

// RegisterAddEventTool registers the add_event tool.
func RegisterAddEventTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("add_event",
		mcp.WithDescription("Adds a calendar event such as an exam or a community visit."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Event title.")),
		mcp.WithString("type", mcp.Required(), mcp.Enum("exam", "community-visit", "reference", "birthday"), mcp.Description("Event type.")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date as YYYY-MM-DD.")),
		mcp.WithString("time", mcp.Description("Optional start time as HH:MM.")),
		mcp.WithString("exam_type", mcp.Enum("final", "pre-final", "mock", "lab"), mcp.Description("Exam kind, exams only.")),
		mcp.WithString("difficulty", mcp.Enum("easy", "medium", "hard"), mcp.Description("Exam difficulty, exams only.")),
		mcp.WithString("notes", mcp.Description("Optional notes.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated list of tags.")),
	)
	s.AddTool(tool, addEventHandler(st))
}

func addEventHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := stringArg(request, "title")
		if title == "" {
			return errorResult("'title' parameter is required.")
		}
		ev := study.CalendarEvent{
			Title:      title,
			Type:       study.EventType(stringArg(request, "type")),
			ExamType:   study.ExamType(stringArg(request, "exam_type")),
			Difficulty: study.Difficulty(stringArg(request, "difficulty")),
			Date:       stringArg(request, "date"),
			Time:       stringArg(request, "time"),
			Notes:      stringArg(request, "notes"),
			Tags:       listArg(request, "tags"),
		}
		created, err := st.AddEvent(ctx, ev)
		if err != nil {
			return failure("add event", err)
		}
		return jsonResult(created)
	}
}

// RegisterListEventsTool registers the list_events tool.
func RegisterListEventsTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("list_events",
		mcp.WithDescription("Lists calendar events, optionally limited to an inclusive date range."),
		mcp.WithString("from", mcp.Description("Optional first day, YYYY-MM-DD.")),
		mcp.WithString("to", mcp.Description("Optional last day, YYYY-MM-DD.")),
	)
	s.AddTool(tool, listEventsHandler(st))
}

func listEventsHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from, hasFrom, err := dayArg(request, "from", st.Location())
		if err != nil {
			return errorResult("%v", err)
		}
		to, hasTo, err := dayArg(request, "to", st.Location())
		if err != nil {
			return errorResult("%v", err)
		}

		var events []study.CalendarEvent
		if hasFrom || hasTo {
			if !hasFrom {
				from = to.AddDate(-100, 0, 0)
			}
			if !hasTo {
				to = from.AddDate(100, 0, 0)
			}
			events, err = st.EventsBetween(ctx, from, to)
		} else {
			events, err = st.ListEvents(ctx)
		}
		if err != nil {
			return failure("list events", err)
		}
		if events == nil {
			events = []study.CalendarEvent{}
		}
		return jsonResult(events)
	}
}

// RegisterDeleteEventTool registers the delete_event tool.
func RegisterDeleteEventTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("delete_event",
		mcp.WithDescription("Deletes a calendar event by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event id.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := stringArg(request, "id")
		if id == "" {
			return errorResult("'id' parameter is required.")
		}
		found, err := st.DeleteEvent(ctx, id)
		if err != nil {
			return failure("delete event", err)
		}
		if !found {
			return mcp.NewToolResultText(fmt.Sprintf("Event '%s' not found, nothing to delete.", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Event '%s' deleted successfully.", id)), nil
	})
}

// RegisterStressLevelTool registers the stress_level tool.
func RegisterStressLevelTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("stress_level",
		mcp.WithDescription("Classifies the coming week's exam and event load and names the next exam."),
	)
	s.AddTool(tool, stressLevelHandler(st))
}

func stressLevelHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := st.Stress(ctx, st.Now())
		if err != nil {
			return failure("compute stress level", err)
		}
		return jsonResult(report)
	}
}

// RegisterLogMoodTool registers the log_mood tool.
func RegisterLogMoodTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("log_mood",
		mcp.WithDescription("Logs a mood on the 0 (devastated) to 10 (euphoric) scale."),
		mcp.WithString("level", mcp.Required(), mcp.Description("Rank 0-10 or a label such as 'content'.")),
		mcp.WithString("notes", mcp.Description("Optional notes.")),
	)
	s.AddTool(tool, logMoodHandler(st))
}

func moodArg(request mcp.CallToolRequest) (study.MoodLevel, error) {
	raw := stringArg(request, "level")
	if raw == "" {
		return 0, fmt.Errorf("'level' parameter is required")
	}
	if level, ok := study.MoodLevelByLabel(raw); ok {
		return level, nil
	}
	rank, err := intArg(request, "level", -1)
	if err != nil {
		return 0, fmt.Errorf("'level' must be 0-10 or a mood label")
	}
	return study.ParseMoodLevel(rank)
}

func logMoodHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, err := moodArg(request)
		if err != nil {
			return errorResult("%v", err)
		}
		entry, err := st.LogMood(ctx, level, stringArg(request, "notes"), st.Now())
		if err != nil {
			return failure("log mood", err)
		}
		return jsonResult(entry)
	}
}

// RegisterListMoodsTool registers the list_moods tool.
func RegisterListMoodsTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("list_moods",
		mcp.WithDescription("Lists logged moods in storage order."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		moods, err := st.ListMoods(ctx)
		if err != nil {
			return failure("list moods", err)
		}
		if moods == nil {
			moods = []study.MoodEntry{}
		}
		return jsonResult(moods)
	})
}

// RegisterMoodAverageTool registers the mood_average tool.
func RegisterMoodAverageTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("mood_average",
		mcp.WithDescription("Rounded average of the most recent moods and the current logging streak."),
		mcp.WithNumber("count", mcp.DefaultNumber(study.RecentMoodWindow), mcp.Description("How many recent entries to average.")),
	)
	s.AddTool(tool, moodAverageHandler(st))
}

type moodSummary struct {
	Average study.MoodAverage `json:"average"`
	Label   string            `json:"label,omitempty"`
	Streak  int               `json:"streak"`
}

func moodAverageHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := intArg(request, "count", study.RecentMoodWindow)
		if err != nil {
			return errorResult("%v", err)
		}
		if n <= 0 {
			return errorResult("'count' must be positive.")
		}
		avg, err := st.RecentMoodAverage(ctx, n)
		if err != nil {
			return failure("average moods", err)
		}
		streak, err := st.MoodStreak(ctx, st.Now())
		if err != nil {
			return failure("compute mood streak", err)
		}
		out := moodSummary{Average: avg, Streak: streak}
		if avg.Samples > 0 {
			out.Label = avg.Level.Label()
		}
		return jsonResult(out)
	}
}

// RegisterListDecksTool registers the list_decks tool.
func RegisterListDecksTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("list_decks",
		mcp.WithDescription("Lists flashcard decks."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decks, err := st.ListDecks(ctx)
		if err != nil {
			return failure("list decks", err)
		}
		if decks == nil {
			decks = []study.Deck{}
		}
		return jsonResult(decks)
	})
}

// RegisterAddCardTool registers the add_card tool.
func RegisterAddCardTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("add_card",
		mcp.WithDescription("Adds a flashcard, creating the deck if it does not exist."),
		mcp.WithString("front", mcp.Required(), mcp.Description("Question side.")),
		mcp.WithString("back", mcp.Required(), mcp.Description("Answer side.")),
		mcp.WithString("deck", mcp.DefaultString(study.DefaultDeckName), mcp.Description("Deck name.")),
		mcp.WithString("difficulty", mcp.DefaultString(string(study.DifficultyMedium)), mcp.Enum("easy", "medium", "hard")),
	)
	s.AddTool(tool, addCardHandler(st))
}

func addCardHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		front, back := stringArg(request, "front"), stringArg(request, "back")
		if front == "" || back == "" {
			return errorResult("'front' and 'back' parameters are required.")
		}
		deckName := stringArg(request, "deck")
		if deckName == "" {
			deckName = study.DefaultDeckName
		}

		deck, _, err := st.EnsureDeck(ctx, deckName)
		if err != nil {
			return failure("prepare deck", err)
		}
		card, err := st.AddCard(ctx, study.Flashcard{
			DeckID:     deck.ID,
			Front:      front,
			Back:       back,
			Difficulty: study.Difficulty(stringArg(request, "difficulty")),
		})
		if err != nil {
			return failure("add card", err)
		}
		return jsonResult(card)
	}
}

// deckByNameArg resolves the optional "deck" argument; an empty name means
// every deck.
func deckByNameArg(ctx context.Context, st *study.Store, request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	name := stringArg(request, "deck")
	if name == "" {
		return "", nil
	}
	deck, err := st.DeckByName(ctx, name)
	if err != nil {
		res, _ := errorResult("Deck '%s' not found.", name)
		return "", res
	}
	return deck.ID, nil
}

// RegisterListCardsTool registers the list_cards tool.
func RegisterListCardsTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("list_cards",
		mcp.WithDescription("Lists flashcards, optionally of one deck."),
		mcp.WithString("deck", mcp.Description("Optional deck name.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deckID, res := deckByNameArg(ctx, st, request)
		if res != nil {
			return res, nil
		}
		cards, err := st.Cards(ctx, deckID)
		if err != nil {
			return failure("list cards", err)
		}
		if cards == nil {
			cards = []study.Flashcard{}
		}
		return jsonResult(cards)
	})
}

// RegisterReviewCardTool registers the review_card tool.
func RegisterReviewCardTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("review_card",
		mcp.WithDescription("Records one answer to a flashcard."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id.")),
		mcp.WithBoolean("correct", mcp.Required(), mcp.Description("Whether the answer was right.")),
	)
	s.AddTool(tool, reviewCardHandler(st))
}

func reviewCardHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := stringArg(request, "id")
		if id == "" {
			return errorResult("'id' parameter is required.")
		}
		correct, ok, err := boolArg(request, "correct")
		if err != nil {
			return errorResult("%v", err)
		}
		if !ok {
			return errorResult("'correct' parameter is required.")
		}
		found, err := st.RecordReview(ctx, id, correct, st.Now())
		if err != nil {
			return failure("record review", err)
		}
		if !found {
			return errorResult("Card '%s' not found.", id)
		}
		card, err := st.GetCard(ctx, id)
		if err != nil {
			return failure("load card", err)
		}
		return jsonResult(card)
	}
}

// RegisterDeckStatsTool registers the deck_stats tool.
func RegisterDeckStatsTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("deck_stats",
		mcp.WithDescription("Review counts and accuracy for a deck, or for all cards."),
		mcp.WithString("deck", mcp.Description("Optional deck name.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deckID, res := deckByNameArg(ctx, st, request)
		if res != nil {
			return res, nil
		}
		stats, err := st.DeckStats(ctx, deckID)
		if err != nil {
			return failure("compute deck stats", err)
		}
		return jsonResult(stats)
	})
}

// RegisterAddJournalEntryTool registers the add_journal_entry tool.
func RegisterAddJournalEntryTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("add_journal_entry",
		mcp.WithDescription("Writes a journal entry. Private entries are encrypted with the passphrase."),
		mcp.WithString("title", mcp.Description("Optional title. Defaults to Untitled.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text.")),
		mcp.WithString("mood", mcp.Description("Optional mood word.")),
		mcp.WithBoolean("private", mcp.Description("Encrypt the content.")),
		mcp.WithString("passphrase", mcp.Description("Required for private entries.")),
	)
	s.AddTool(tool, addJournalEntryHandler(st))
}

func addJournalEntryHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content := stringArg(request, "content")
		if content == "" {
			return errorResult("'content' parameter is required.")
		}
		private, _, err := boolArg(request, "private")
		if err != nil {
			return errorResult("%v", err)
		}
		entry, err := st.AddJournalEntry(ctx, study.JournalDraft{
			Title:     stringArg(request, "title"),
			Content:   content,
			Mood:      stringArg(request, "mood"),
			IsPrivate: private,
		}, stringArg(request, "passphrase"), st.Now())
		if err != nil {
			return failure("add journal entry", err)
		}
		return jsonResult(entry)
	}
}

// RegisterListJournalEntriesTool registers the list_journal_entries tool.
func RegisterListJournalEntriesTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("list_journal_entries",
		mcp.WithDescription("Lists journal entries, newest first. Private content stays sealed."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := st.ListJournalEntries(ctx)
		if err != nil {
			return failure("list journal entries", err)
		}
		if entries == nil {
			entries = []study.JournalEntry{}
		}
		return jsonResult(entries)
	})
}

// RegisterListReferencesTool registers the list_references tool.
func RegisterListReferencesTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("list_references",
		mcp.WithDescription("Lists reference documents grouped by category."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups, err := st.ReferencesByCategory(ctx)
		if err != nil {
			return failure("list references", err)
		}
		if groups == nil {
			groups = map[string][]study.Reference{}
		}
		return jsonResult(groups)
	})
}

// RegisterSetReadingProgressTool registers the set_reading_progress tool.
func RegisterSetReadingProgressTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("set_reading_progress",
		mcp.WithDescription("Sets how far a reference has been read, 0-100 percent."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reference id.")),
		mcp.WithNumber("percent", mcp.Required(), mcp.Description("Percent read.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := stringArg(request, "id")
		if id == "" {
			return errorResult("'id' parameter is required.")
		}
		percent, err := intArg(request, "percent", -1)
		if err != nil {
			return errorResult("%v", err)
		}
		found, err := st.SetReadingProgress(ctx, id, percent)
		if err != nil {
			return failure("set reading progress", err)
		}
		if !found {
			return errorResult("Reference '%s' not found.", id)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Reference '%s' is %d%% read.", id, percent)), nil
	})
}

// RegisterStudyProgressTool registers the study_progress tool.
func RegisterStudyProgressTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("study_progress",
		mcp.WithDescription("Study totals, streak and achievements; newly earned achievements are unlocked."),
	)
	s.AddTool(tool, studyProgressHandler(st))
}

type progressReport struct {
	Progress     insights.Progress      `json:"progress"`
	NewlyEarned  []insights.Achievement `json:"newly_earned"`
	Achievements []insights.Achievement `json:"achievements"`
}

func studyProgressHandler(st *study.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		now := st.Now()
		p, err := st.Progress(ctx, now)
		if err != nil {
			return failure("compute progress", err)
		}
		fresh, unlocked, err := st.RefreshAchievements(ctx, now)
		if err != nil {
			return failure("refresh achievements", err)
		}
		report := progressReport{Progress: p, NewlyEarned: fresh, Achievements: []insights.Achievement{}}
		if report.NewlyEarned == nil {
			report.NewlyEarned = []insights.Achievement{}
		}
		for _, id := range unlocked {
			if a, ok := insights.AchievementByID(id); ok {
				report.Achievements = append(report.Achievements, a)
			}
		}
		return jsonResult(report)
	}
}

// RegisterLogStudyHoursTool registers the log_study_hours tool.
func RegisterLogStudyHoursTool(s *server.MCPServer, st *study.Store) {
	tool := mcp.NewTool("log_study_hours",
		mcp.WithDescription("Adds study hours to today."),
		mcp.WithNumber("hours", mcp.Required(), mcp.Description("Hours studied, at most 24.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		hours, ok, err := floatArg(request, "hours")
		if err != nil {
			return errorResult("%v", err)
		}
		if !ok {
			return errorResult("'hours' parameter is required.")
		}
		stats, err := st.LogStudyHours(ctx, hours, st.Now())
		if err != nil {
			return failure("log study hours", err)
		}
		return jsonResult(stats)
	})
}

// RegisterGetAppStateTool registers the get_app_state tool.
func RegisterGetAppStateTool(s *server.MCPServer, state *appstate.Manager) {
	tool := mcp.NewTool("get_app_state",
		mcp.WithDescription("Returns the theme, code status and session flags."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		current, err := state.Load(ctx)
		if err != nil {
			return failure("load app state", err)
		}
		return jsonResult(current)
	})
}

// RegisterSetCodeStatusTool registers the set_code_status tool.
func RegisterSetCodeStatusTool(s *server.MCPServer, state *appstate.Manager) {
	names := make([]string, 0, len(appstate.Codes()))
	for _, c := range appstate.Codes() {
		names = append(names, strings.TrimPrefix(string(c), "Code "))
	}
	tool := mcp.NewTool("set_code_status",
		mcp.WithDescription("Sets the self-reported code status that tunes the assistant."),
		mcp.WithString("code", mcp.Required(), mcp.Description("One of: "+strings.Join(names, ", ")+".")),
	)
	s.AddTool(tool, setCodeStatusHandler(state))
}

func setCodeStatusHandler(state *appstate.Manager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := appstate.ParseCodeStatus(stringArg(request, "code"))
		if err != nil {
			return failure("set code status", err)
		}
		updated, err := state.SetCodeStatus(ctx, code)
		if err != nil {
			return failure("set code status", err)
		}
		return jsonResult(updated)
	}
}
