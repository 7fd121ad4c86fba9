package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/insights"
)

var passcodeCmd = &cobra.Command{
	Use:   "passcode",
	Short: "Set the passcode and log in or out",
	Long: `The passcode keeps casual eyes off the dashboard. It is stored as a salted hash in the
same database file, so it is not a substitute for encrypting the disk.`,
}

const welcomeLetter = `Welcome to R-PAGER.

Everything you write here stays in one file on this machine. Log exams to see
what the week looks like, track how you feel, and drill your decks. Page Kai
whenever you need a hand.`

var setPasscodeCmd = &cobra.Command{
	Use:   "set",
	Short: "Set or replace the passcode",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := readSecret(cmd.ErrOrStderr(), "New passcode (digits): ")
		if err != nil {
			return fmt.Errorf("failed to read passcode: %w", err)
		}
		again, err := readSecret(cmd.ErrOrStderr(), "Repeat passcode: ")
		if err != nil {
			return fmt.Errorf("failed to read passcode: %w", err)
		}
		if code != again {
			return errors.New("passcodes do not match")
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.gate.SetPasscode(cmd.Context(), code); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Passcode set.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Unlock with the passcode",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		code, err := readSecret(cmd.ErrOrStderr(), "Passcode: ")
		if err != nil {
			return fmt.Errorf("failed to read passcode: %w", err)
		}
		first, err := app.gate.Login(cmd.Context(), code)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Logged in.")
		if first || !app.state.Current().SeenWelcome {
			fmt.Fprintf(out, "\n%s\n", welcomeLetter)
			if _, err := app.state.MarkWelcomeSeen(cmd.Context()); err != nil {
				return err
			}
		}

		now := app.store.Now()
		if app.store.IsBirthday(now) {
			fresh, err := app.state.MarkBirthdayShown(cmd.Context(), insights.DayKey(now.In(app.store.Location())))
			if err != nil {
				return err
			}
			if fresh {
				fmt.Fprintf(out, "\nHappy birthday, %s! Take the day a little easier.\n", cfg.StudentName)
			}
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Lock the dashboard again",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.gate.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var passcodeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a passcode is set and whether you are logged in",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		st, err := app.gate.Status(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Passcode set: %t\n", st.Configured)
		fmt.Fprintf(out, "Logged in: %t\n", st.Authenticated)
		if st.Authenticated && !st.Since.IsZero() {
			fmt.Fprintf(out, "Since: %s\n", st.Since.Local().Format(time.RFC1123))
		}
		return nil
	},
}

func initPasscodeCmd() {
	passcodeCmd.AddCommand(setPasscodeCmd, loginCmd, logoutCmd, passcodeStatusCmd)
}
