package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/study"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage calendar events",
	Long:  `Add, list, and delete exams and other calendar events, and show the coming week's stress level.`,
}

var addEventCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a calendar event",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		eventType, _ := flags.GetString("type")
		examType, _ := flags.GetString("exam-type")
		difficulty, _ := flags.GetString("difficulty")
		date, _ := flags.GetString("date")
		clock, _ := flags.GetString("time")
		notes, _ := flags.GetString("notes")
		tags, _ := flags.GetString("tags")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		ev, err := app.store.AddEvent(cmd.Context(), study.CalendarEvent{
			Title:      title,
			Type:       study.EventType(eventType),
			ExamType:   study.ExamType(examType),
			Difficulty: study.Difficulty(difficulty),
			Date:       date,
			Time:       clock,
			Notes:      notes,
			Tags:       splitList(tags),
		})
		if err != nil {
			return fmt.Errorf("failed to add event: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Event added: %s (%s on %s %s)\n", ev.ID, ev.Title, ev.Date, ev.Time)
		return nil
	},
}

func printEvents(cmd *cobra.Command, events []study.CalendarEvent) {
	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found.")
		return
	}
	fmt.Fprintln(out, "ID | Date | Time | Type | Title | Details")
	fmt.Fprintln(out, "------------------------------------------------------------")
	for _, e := range events {
		var details []string
		if e.ExamType != "" {
			details = append(details, string(e.ExamType))
		}
		if e.Difficulty != "" {
			details = append(details, string(e.Difficulty))
		}
		if len(e.Tags) > 0 {
			details = append(details, "#"+strings.Join(e.Tags, " #"))
		}
		fmt.Fprintf(out, "%s | %s | %s | %s | %s | %s\n", e.ID, e.Date, e.Time, e.Type, e.Title, strings.Join(details, ", "))
	}
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all calendar events",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		upcoming, _ := cmd.Flags().GetBool("upcoming-exams")
		var events []study.CalendarEvent
		if upcoming {
			events, err = app.store.UpcomingExams(cmd.Context(), app.store.Now())
		} else {
			events, err = app.store.ListEvents(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		printEvents(cmd, events)
		return nil
	},
}

var rangeEventsCmd = &cobra.Command{
	Use:   "range FROM TO",
	Short: "List events dated between two days (YYYY-MM-DD), inclusive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		loc := app.store.Location()
		from, err := insights.ParseDay(args[0], loc)
		if err != nil {
			return err
		}
		to, err := insights.ParseDay(args[1], loc)
		if err != nil {
			return err
		}
		events, err := app.store.EventsBetween(cmd.Context(), from, to)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		printEvents(cmd, events)
		return nil
	},
}

var deleteEventCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a calendar event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		removed, err := app.store.DeleteEvent(cmd.Context(), args[0])
		if err := notFound("event", args[0], removed, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Event %s deleted.\n", args[0])
		return nil
	},
}

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Show the stress level for the coming week and the next exam",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.store.Stress(cmd.Context(), app.store.Now())
		if err != nil {
			return fmt.Errorf("failed to compute stress level: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Stress level: %s\n", report.Level)
		if report.NextExam != nil {
			fmt.Fprintf(out, "Next exam: %s in %d day(s) (%s)\n", report.NextExam.Title, report.NextExam.Days, report.NextExam.At.Format(time.RFC1123))
		}
		fmt.Fprintln(out, report.Message)
		return nil
	},
}

var birthdayEventCmd = &cobra.Command{
	Use:   "birthday [YEAR]",
	Short: "Add the configured birthday to the calendar for a year (default: this year)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		year := app.store.Now().Year()
		if len(args) == 1 {
			if _, err := fmt.Sscan(args[0], &year); err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
		}
		ev, added, err := app.store.EnsureBirthdayEvent(cmd.Context(), year)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "Birthday added on %s.\n", ev.Date)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Birthday already on the calendar for %s.\n", ev.Date)
		}
		return nil
	},
}

func initEventsCmd() {
	addEventCmd.Flags().String("title", "", "Event title (required)")
	addEventCmd.Flags().String("type", string(study.EventExam), "Event type (exam, community-visit, reference, birthday)")
	addEventCmd.Flags().String("exam-type", "", "Exam type for exams (final, pre-final, mock, lab)")
	addEventCmd.Flags().String("difficulty", "", "Exam difficulty (easy, medium, hard)")
	addEventCmd.Flags().String("date", "", "Date as YYYY-MM-DD (required)")
	addEventCmd.Flags().String("time", "09:00", "Start time as HH:MM")
	addEventCmd.Flags().String("notes", "", "Free-form notes")
	addEventCmd.Flags().String("tags", "", "Comma-separated tags")
	addEventCmd.MarkFlagRequired("title")
	addEventCmd.MarkFlagRequired("date")

	listEventsCmd.Flags().Bool("upcoming-exams", false, "Only list exams that have not started yet, soonest first")

	eventsCmd.AddCommand(addEventCmd, listEventsCmd, rangeEventsCmd, deleteEventCmd, stressCmd, birthdayEventCmd)
}
