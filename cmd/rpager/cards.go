package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/study"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage flashcards",
	Long:  `Add, list, review, and delete flashcards.`,
}

var addCardCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a flashcard, creating its deck if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		deckName, _ := flags.GetString("deck")
		front, _ := flags.GetString("front")
		back, _ := flags.GetString("back")
		difficulty, _ := flags.GetString("difficulty")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		deck, _, err := app.store.EnsureDeck(cmd.Context(), deckName)
		if err != nil {
			return fmt.Errorf("failed to resolve deck: %w", err)
		}
		card, err := app.store.AddCard(cmd.Context(), study.Flashcard{
			DeckID:     deck.ID,
			Front:      front,
			Back:       back,
			Difficulty: study.Difficulty(difficulty),
		})
		if err != nil {
			return fmt.Errorf("failed to add card: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Card added to %s: %s\n", deck.Name, card.ID)
		return nil
	},
}

func printCards(cmd *cobra.Command, cards []study.Flashcard) {
	out := cmd.OutOrStdout()
	if len(cards) == 0 {
		fmt.Fprintln(out, "No cards found.")
		return
	}
	fmt.Fprintln(out, "ID | Front | Back | Difficulty | Correct | Incorrect | Last Reviewed")
	fmt.Fprintln(out, "------------------------------------------------------------")
	for _, c := range cards {
		fmt.Fprintf(out, "%s | %s | %s | %s | %d | %d | %s\n",
			c.ID, c.Front, c.Back, c.Difficulty, c.CorrectCount, c.IncorrectCount, formatMillis(c.LastReviewed))
	}
}

var listCardsCmd = &cobra.Command{
	Use:   "list",
	Short: "List flashcards, optionally of one deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		deckRef, _ := cmd.Flags().GetString("deck")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		deckID := ""
		if deckRef != "" {
			deck, err := resolveDeck(cmd.Context(), app.store, deckRef)
			if err != nil {
				return err
			}
			deckID = deck.ID
		}
		cards, err := app.store.Cards(cmd.Context(), deckID)
		if err != nil {
			return fmt.Errorf("failed to list cards: %w", err)
		}
		printCards(cmd, cards)
		return nil
	},
}

var shuffleCardsCmd = &cobra.Command{
	Use:   "shuffle DECK",
	Short: "Print the cards of a deck in random order for a study session",
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
		cards, err := app.store.ShuffleCards(cmd.Context(), deck.ID, nil)
		if err != nil {
			return fmt.Errorf("failed to shuffle cards: %w", err)
		}
		printCards(cmd, cards)
		return nil
	},
}

var reviewCardCmd = &cobra.Command{
	Use:   "review ID",
	Short: "Record an answer to a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")
		incorrect, _ := cmd.Flags().GetBool("incorrect")
		if correct == incorrect {
			return errors.New("pass exactly one of --correct or --incorrect")
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		found, err := app.store.RecordReview(cmd.Context(), args[0], correct, app.store.Now())
		if err := notFound("card", args[0], found, err); err != nil {
			return err
		}
		card, err := app.store.GetCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded. %s: %d correct, %d incorrect.\n", card.Front, card.CorrectCount, card.IncorrectCount)
		return nil
	},
}

var deleteCardCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a flashcard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		removed, err := app.store.DeleteCard(cmd.Context(), args[0])
		if err := notFound("card", args[0], removed, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Card %s deleted.\n", args[0])
		return nil
	},
}

func initCardsCmd() {
	addCardCmd.Flags().String("deck", study.DefaultDeckName, "Deck name")
	addCardCmd.Flags().String("front", "", "Question side (required)")
	addCardCmd.Flags().String("back", "", "Answer side (required)")
	addCardCmd.Flags().String("difficulty", string(study.DifficultyMedium), "Difficulty (easy, medium, hard)")
	addCardCmd.MarkFlagRequired("front")
	addCardCmd.MarkFlagRequired("back")

	listCardsCmd.Flags().String("deck", "", "Only list cards of this deck (id or name)")

	reviewCardCmd.Flags().Bool("correct", false, "The answer was right")
	reviewCardCmd.Flags().Bool("incorrect", false, "The answer was wrong")

	cardsCmd.AddCommand(addCardCmd, listCardsCmd, shuffleCardsCmd, reviewCardCmd, deleteCardCmd)
}
