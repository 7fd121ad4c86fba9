package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/study"
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Manage reference documents",
	Long:  `Track reference PDFs: their size, pages, category, reading progress and bookmarks. Only metadata is stored.`,
}

var addRefCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reference document",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		sizeText, _ := flags.GetString("size")
		pages, _ := flags.GetInt("pages")
		category, _ := flags.GetString("category")
		tags, _ := flags.GetString("tags")

		size, err := study.ParseByteSize(sizeText)
		if err != nil {
			return err
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		ref, err := app.store.AddReference(cmd.Context(), study.Reference{
			Name:     name,
			Size:     size,
			Pages:    pages,
			Category: category,
			Tags:     splitList(tags),
		})
		if err != nil {
			return fmt.Errorf("failed to add reference: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reference added: %s (%s)\n", ref.Name, ref.ID)
		return nil
	},
}

var listRefsCmd = &cobra.Command{
	Use:   "list",
	Short: "List references grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		groups, err := app.store.ReferencesByCategory(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list references: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "No references found.")
			return nil
		}
		for _, category := range study.Categories(groups) {
			fmt.Fprintf(out, "%s:\n", category)
			for _, r := range groups[category] {
				mark := " "
				if r.Bookmarked {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %s | %s | %s | %d pages | %d%% read | opened %s",
					mark, r.ID, r.Name, r.Size, r.Pages, r.Progress, formatMillis(r.LastOpened))
				if len(r.Tags) > 0 {
					fmt.Fprintf(out, " | #%s", strings.Join(r.Tags, " #"))
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	},
}

var progressRefCmd = &cobra.Command{
	Use:   "progress ID PERCENT",
	Short: "Set how much of a reference has been read (0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := cast.ToIntE(strings.TrimSuffix(args[1], "%"))
		if err != nil {
			return fmt.Errorf("invalid percent %q", args[1])
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		found, err := app.store.SetReadingProgress(cmd.Context(), args[0], percent)
		if err := notFound("reference", args[0], found, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reference %s is %d%% read.\n", args[0], percent)
		return nil
	},
}

var bookmarkRefCmd = &cobra.Command{
	Use:   "bookmark ID",
	Short: "Toggle the bookmark on a reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		found, err := app.store.ToggleBookmark(cmd.Context(), args[0])
		if err := notFound("reference", args[0], found, err); err != nil {
			return err
		}
		ref, err := app.store.GetReference(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "removed"
		if ref.Bookmarked {
			state = "added"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bookmark %s for %s.\n", state, ref.Name)
		return nil
	},
}

var openRefCmd = &cobra.Command{
	Use:   "open ID",
	Short: "Mark a reference as opened now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		found, err := app.store.MarkOpened(cmd.Context(), args[0], app.store.Now())
		if err := notFound("reference", args[0], found, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reference %s marked as opened.\n", args[0])
		return nil
	},
}

var deleteRefCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		removed, err := app.store.DeleteReference(cmd.Context(), args[0])
		if err := notFound("reference", args[0], removed, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reference %s deleted.\n", args[0])
		return nil
	},
}

func initRefsCmd() {
	addRefCmd.Flags().String("name", "", "Document name (required)")
	addRefCmd.Flags().String("size", "", `File size, e.g. 2048 or "2.4 MB"`)
	addRefCmd.Flags().Int("pages", 0, "Page count")
	addRefCmd.Flags().String("category", "", "Category, e.g. Cardiology")
	addRefCmd.Flags().String("tags", "", "Comma-separated tags")
	addRefCmd.MarkFlagRequired("name")

	refsCmd.AddCommand(addRefCmd, listRefsCmd, progressRefCmd, bookmarkRefCmd, openRefCmd, deleteRefCmd)
}
