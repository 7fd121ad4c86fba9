package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/study"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Manage flashcard decks",
	Long:  `Create, list, and delete flashcard decks and show their review statistics.`,
}

// resolveDeck finds a deck by id first, then by case-insensitive name.
func resolveDeck(ctx context.Context, st *study.Store, ref string) (study.Deck, error) {
	deck, err := st.GetDeck(ctx, ref)
	if err == nil {
		return deck, nil
	}
	if !errors.Is(err, study.ErrDeckNotFound) {
		return study.Deck{}, err
	}
	return st.DeckByName(ctx, ref)
}

var createDeckCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		deck, err := app.store.CreateDeck(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create deck: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deck created: %s (%s)\n", deck.Name, deck.ID)
		return nil
	},
}

var listDecksCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks with their card counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		decks, err := app.store.ListDecks(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list decks: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(decks) == 0 {
			fmt.Fprintln(out, "No decks found.")
			return nil
		}
		fmt.Fprintln(out, "ID | Name | Cards | Accuracy | Created At")
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, d := range decks {
			stats, err := app.store.DeckStats(cmd.Context(), d.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s | %s | %d | %d%% | %s\n", d.ID, d.Name, stats.Cards, stats.Accuracy, formatMillis(&d.CreatedAt))
		}
		return nil
	},
}

var deleteDeckCmd = &cobra.Command{
	Use:   "delete DECK",
	Short: "Delete a deck, by id or name, and all of its cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		deck, err := resolveDeck(cmd.Context(), app.store, args[0])
		if err != nil {
			return err
		}
		removed, err := app.store.DeleteDeck(cmd.Context(), deck.ID)
		if err := notFound("deck", args[0], removed, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deck %s deleted.\n", deck.Name)
		return nil
	},
}

var deckStatsCmd = &cobra.Command{
	Use:   "stats [DECK]",
	Short: "Show review statistics for one deck, or all cards",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		label, deckID := "All decks", ""
		if len(args) == 1 {
			deck, err := resolveDeck(cmd.Context(), app.store, args[0])
			if err != nil {
				return err
			}
			label, deckID = deck.Name, deck.ID
		}
		stats, err := app.store.DeckStats(cmd.Context(), deckID)
		if err != nil {
			return fmt.Errorf("failed to compute deck stats: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cards, %d reviewed, %d correct, %d incorrect, %d%% accuracy\n",
			label, stats.Cards, stats.Reviewed, stats.Correct, stats.Incorrect, stats.Accuracy)
		return nil
	},
}

var migrateDecksCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move cards stored without a deck into decks",
	Long: `Converts a flat flashcard pool written by older versions into decks and deck-linked
cards. It runs on every start as well; this command reports what it did.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.store.MigrateFlashcards(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to migrate flashcards: %w", err)
		}
		if report.Converted == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Every card already belongs to a deck.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d cards, created %d decks.\n", report.Converted, report.DecksCreated)
		return nil
	},
}

func initDecksCmd() {
	decksCmd.AddCommand(createDeckCmd, listDecksCmd, deleteDeckCmd, deckStatsCmd, migrateDecksCmd)
}
