package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/study"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and read journal entries",
	Long: `Add, list, reveal, and delete journal entries. Private entries are sealed with a
passphrase you type at the prompt; nothing can recover them without it.`,
}

var addJournalCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a journal entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		content, _ := flags.GetString("content")
		mood, _ := flags.GetString("mood")
		private, _ := flags.GetBool("private")

		var passphrase string
		if private {
			var err error
			passphrase, err = readSecret(cmd.ErrOrStderr(), "Passphrase for this entry: ")
			if err != nil {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		entry, err := app.store.AddJournalEntry(cmd.Context(), study.JournalDraft{
			Title:     title,
			Content:   content,
			Mood:      mood,
			IsPrivate: private,
		}, passphrase, app.store.Now())
		if err != nil {
			return fmt.Errorf("failed to add journal entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Journal entry added: %s\n", entry.ID)
		return nil
	},
}

var listJournalCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		entries, err := app.store.ListJournalEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list journal entries: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No journal entries yet.")
			return nil
		}
		fmt.Fprintln(out, "ID | Date | Title | Mood | Content")
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, e := range entries {
			content := e.Content
			if e.IsPrivate {
				content = "(private)"
			}
			fmt.Fprintf(out, "%s | %s | %s | %s | %s\n", e.ID, e.Date, e.Title, e.Mood, content)
		}
		return nil
	},
}

var revealJournalCmd = &cobra.Command{
	Use:   "reveal ID",
	Short: "Print the content of a journal entry, asking for the passphrase if it is private",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		entry, err := app.store.GetJournalEntry(cmd.Context(), args[0])
		if err := notFound("journal entry", args[0], true, err); err != nil {
			return err
		}

		var passphrase string
		if entry.IsPrivate {
			passphrase, err = readSecret(cmd.ErrOrStderr(), "Passphrase: ")
			if err != nil {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
		}
		content, err := app.store.RevealJournalEntry(entry, passphrase)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n%s\n", entry.Title, entry.Date, content)
		return nil
	},
}

var deleteJournalCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		removed, err := app.store.DeleteJournalEntry(cmd.Context(), args[0])
		if err := notFound("journal entry", args[0], removed, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Journal entry %s deleted.\n", args[0])
		return nil
	},
}

func initJournalCmd() {
	addJournalCmd.Flags().String("title", "", "Entry title (required)")
	addJournalCmd.Flags().String("content", "", "Entry content (required)")
	addJournalCmd.Flags().String("mood", "", "Free-text mood label")
	addJournalCmd.Flags().Bool("private", false, "Seal the content with a passphrase")
	addJournalCmd.MarkFlagRequired("title")
	addJournalCmd.MarkFlagRequired("content")

	journalCmd.AddCommand(addJournalCmd, listJournalCmd, revealJournalCmd, deleteJournalCmd)
}
