package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/study"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Track your mood",
	Long:  `Log moods on the 11-step scale, list them, and show the recent average and logging streak.`,
}

// parseMood accepts a rank from 0 to 10 or a label such as "Good".
func parseMood(s string) (study.MoodLevel, error) {
	if rank, err := strconv.Atoi(s); err == nil {
		return study.ParseMoodLevel(rank)
	}
	if level, ok := study.MoodLevelByLabel(s); ok {
		return level, nil
	}
	return 0, fmt.Errorf("unknown mood %q: use a rank from %d to %d or a label from 'rpager mood scale'", s, study.MinMood.Rank(), study.MaxMood.Rank())
}

var logMoodCmd = &cobra.Command{
	Use:   "log MOOD",
	Short: "Log a mood by rank (0-10) or label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseMood(args[0])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		entry, err := app.store.LogMood(cmd.Context(), level, notes, app.store.Now())
		if err != nil {
			return fmt.Errorf("failed to log mood: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s for %s.\n", entry.Mood.Emoji(), entry.Mood.Label(), entry.Date)
		return nil
	},
}

var listMoodsCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged moods",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		moods, err := app.store.ListMoods(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list moods: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(moods) == 0 {
			fmt.Fprintln(out, "No moods logged yet.")
			return nil
		}
		fmt.Fprintln(out, "ID | Date | Mood | Notes")
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, m := range moods {
			fmt.Fprintf(out, "%s | %s | %s %s | %s\n", m.ID, m.Date, m.Mood.Emoji(), m.Mood.Label(), m.Notes)
		}
		return nil
	},
}

var moodAverageCmd = &cobra.Command{
	Use:   "average",
	Short: "Show the average of the most recent moods",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("last")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		avg, err := app.store.RecentMoodAverage(cmd.Context(), n)
		if err != nil {
			return fmt.Errorf("failed to average moods: %w", err)
		}
		if avg.Samples == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No moods logged yet.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Average of the last %d: %s %s (%d)\n", avg.Samples, avg.Level.Emoji(), avg.Level.Label(), avg.Level.Rank())
		return nil
	},
}

var moodStreakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show how many consecutive days up to today have a logged mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		streak, err := app.store.MoodStreak(cmd.Context(), app.store.Now())
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mood streak: %d day(s)\n", streak)
		return nil
	},
}

var moodScaleCmd = &cobra.Command{
	Use:               "scale",
	Short:             "Print the mood scale",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range study.MoodScale() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d %s %-11s %s\n", l.Rank(), l.Emoji(), l.Label(), l.Description())
		}
	},
}

func initMoodCmd() {
	logMoodCmd.Flags().String("notes", "", "Optional note")
	moodAverageCmd.Flags().Int("last", study.RecentMoodWindow, "Number of recent entries to average")

	moodCmd.AddCommand(logMoodCmd, listMoodsCmd, moodAverageCmd, moodStreakCmd, moodScaleCmd)
}
