package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/insights"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Study progress and achievements",
}

var progressStatsCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show study progress and unlock any achievements it earns",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		now := app.store.Now()
		p, err := app.store.Progress(cmd.Context(), now)
		if err != nil {
			return fmt.Errorf("failed to compute progress: %w", err)
		}
		fresh, unlocked, err := app.store.RefreshAchievements(cmd.Context(), now)
		if err != nil {
			return fmt.Errorf("failed to refresh achievements: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Flashcards answered: %d\n", p.FlashcardsCompleted)
		fmt.Fprintf(out, "Cards created: %d\n", p.CardsCreated)
		fmt.Fprintf(out, "Accuracy: %d%%\n", p.Accuracy)
		fmt.Fprintf(out, "Study hours: %.1f\n", p.StudyHours)
		fmt.Fprintf(out, "Streak: %d day(s)\n", p.Streak)
		fmt.Fprintf(out, "Achievements: %d of %d\n", len(unlocked), len(insights.Catalog))
		for _, a := range fresh {
			fmt.Fprintf(out, "Unlocked: %s - %s\n", a.Title, a.Description)
		}
		return nil
	},
}

var logHoursCmd = &cobra.Command{
	Use:   "log-hours HOURS",
	Short: "Record hours of study today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := cast.ToFloat64E(args[0])
		if err != nil {
			return fmt.Errorf("invalid hours %q", args[0])
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		st, err := app.store.LogStudyHours(cmd.Context(), hours, app.store.Now())
		if err != nil {
			return fmt.Errorf("failed to log hours: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %.2g hour(s). Total: %.1f\n", hours, st.TotalHours)
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List every achievement and whether it is unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		unlocked, err := app.store.UnlockedAchievements(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load achievements: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, a := range insights.Catalog {
			mark := "[ ]"
			if slices.Contains(unlocked, a.ID) {
				mark = "[x]"
			}
			fmt.Fprintf(out, "%s %2d %s - %s\n", mark, a.ID, a.Title, a.Description)
		}
		return nil
	},
}

func initStatsCmd() {
	statsCmd.AddCommand(progressStatsCmd, logHoursCmd, achievementsCmd)
}
