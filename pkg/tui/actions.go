package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/study"
)

type decksMsg []study.Deck

type cardsMsg struct {
	deckID string
	cards  []study.Flashcard
	stats  study.DeckStats
}

type overviewMsg struct {
	stress   insights.StressReport
	mood     study.MoodAverage
	progress insights.Progress
}

type reviewedMsg struct {
	card study.Flashcard
}

// List decks and return tea data
func listDecks(st *study.Store) tea.Cmd {
	return func() tea.Msg {
		decks, err := st.ListDecks(context.Background())
		if err != nil {
			return err
		}
		return decksMsg(decks)
	}
}

// List cards of a deck together with its stats
func listCards(st *study.Store, deckID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		cards, err := st.Cards(ctx, deckID)
		if err != nil {
			return err
		}
		stats, err := st.DeckStats(ctx, deckID)
		if err != nil {
			return err
		}
		return cardsMsg{deckID: deckID, cards: cards, stats: stats}
	}
}

// Load the header numbers: stress, recent mood, study progress
func loadOverview(st *study.Store) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		now := st.Now()
		stress, err := st.Stress(ctx, now)
		if err != nil {
			return err
		}
		mood, err := st.RecentMoodAverage(ctx, study.RecentMoodWindow)
		if err != nil {
			return err
		}
		progress, err := st.Progress(ctx, now)
		if err != nil {
			return err
		}
		return overviewMsg{stress: stress, mood: mood, progress: progress}
	}
}

func reviewCard(st *study.Store, cardID string, correct bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := st.RecordReview(ctx, cardID, correct, st.Now()); err != nil {
			return err
		}
		card, err := st.GetCard(ctx, cardID)
		if err != nil {
			return err
		}
		return reviewedMsg{card: card}
	}
}
