//go:build tui

package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display an interactive study dashboard: decks, card review, stress level and mood.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		return tui.ShowTUI(app.store, app.state, app.dbPath)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
