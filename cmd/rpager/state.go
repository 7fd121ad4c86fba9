package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/appstate"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show or change the application state",
	Long:  `The application state is the theme and the code status Kai uses to pitch its answers.`,
}

var showStateCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		s := app.state.Current()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Theme: %s\n", s.Theme)
		fmt.Fprintf(out, "Code status: %s\n", s.CodeStatus)
		fmt.Fprintf(out, "Welcome seen: %t\n", s.SeenWelcome)
		return nil
	},
}

var codeStateCmd = &cobra.Command{
	Use:   "code [STATUS]",
	Short: "Set the code status, or list the available ones",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, c := range appstate.Codes() {
				fmt.Fprintln(out, c)
			}
			return nil
		}
		code, err := appstate.ParseCodeStatus(args[0])
		if err != nil {
			return err
		}

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		s, err := app.state.SetCodeStatus(cmd.Context(), code)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Code status: %s\n", s.CodeStatus)
		return nil
	},
}

var themeStateCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Set the theme, or toggle it without an argument",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		var s appstate.State
		if len(args) == 0 {
			s, err = app.state.ToggleTheme(cmd.Context())
		} else {
			var theme appstate.Theme
			theme, err = appstate.ParseTheme(args[0])
			if err == nil {
				s, err = app.state.SetTheme(cmd.Context(), theme)
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", s.Theme)
		return nil
	},
}

func initStateCmd() {
	stateCmd.AddCommand(showStateCmd, codeStateCmd, themeStateCmd)
}
