package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/importer"
	"github.com/unowned-ai/rpager/pkg/study"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import flashcards from a .txt, .csv, .tsv or .xlsx file",
	Long: `Parses FILE into flashcards and prints a preview. Nothing is saved unless --confirm is given.

  .txt        one card per line as "front: back"
  .csv .tsv   columns front, back, deck, difficulty; a header row naming
              term/front/question and definition/back/answer is detected
  .xlsx       the first sheet, laid out like a CSV file

Rows that cannot be read are listed with their line number and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		deck, _ := flags.GetString("deck")
		difficulty, _ := flags.GetString("difficulty")
		confirm, _ := flags.GetBool("confirm")

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		preview, err := importer.ParseFile(args[0], f, importer.Defaults{Deck: deck, Difficulty: study.Difficulty(difficulty)})
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d cards, %d skipped\n", preview.Source, len(preview.Cards), len(preview.Skipped))
		for _, c := range preview.Cards {
			fmt.Fprintf(out, "  %d | %s | %s | %s | %s\n", c.Line, c.Deck, c.Front, c.Back, c.Difficulty)
		}
		for _, s := range preview.Skipped {
			fmt.Fprintf(out, "  skipped line %d: %s (%q)\n", s.Line, s.Reason, s.Raw)
		}

		if !confirm {
			if len(preview.Cards) > 0 {
				fmt.Fprintln(out, "Run again with --confirm to save these cards.")
			}
			return nil
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := preview.Confirm(cmd.Context(), app.store)
		if err != nil {
			return fmt.Errorf("failed to save cards: %w", err)
		}
		fmt.Fprintf(out, "Imported %d cards.\n", result.Added)
		for _, name := range result.DecksCreated {
			fmt.Fprintf(out, "Created deck %s.\n", name)
		}
		return nil
	},
}

func initImportCmd() {
	importCmd.Flags().String("deck", study.DefaultDeckName, "Deck for rows that do not name one")
	importCmd.Flags().String("difficulty", string(study.DifficultyMedium), "Difficulty for rows that do not set one")
	importCmd.Flags().Bool("confirm", false, "Save the parsed cards")
}
