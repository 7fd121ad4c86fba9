package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	rpager "github.com/unowned-ai/rpager/pkg"
	"github.com/unowned-ai/rpager/pkg/config"
	pkgdb "github.com/unowned-ai/rpager/pkg/db"
	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/study"
)

// cfg starts at defaults so flag help shows them. PersistentPreRunE
// replaces it with the resolved configuration.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:     "rpager",
	Short:   "A local study companion: exams, moods, journal and flashcards in one SQLite file.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", rpager.Version),
	// Usage is noise for runtime failures like a missing card.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// loadConfig resolves defaults, the config file, the environment and the
// flags, in that order, and sets up the logger.
func loadConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString(config.FlagConfig)

	loaded, err := config.Load(path, config.OSEnv())
	if err != nil {
		return err
	}
	if err := loaded.ApplyFlags(flags); err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(os.Stderr, loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = log
	return nil
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for rpager.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(rpager completion bash)

  Zsh:
    $ rpager completion zsh > "${fpath[1]}/_rpager"

  Fish:
    $ rpager completion fish > ~/.config/fish/completions/rpager.fish

  PowerShell:
    PS> rpager completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// Completion needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number of rpager",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), rpager.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the rpager database",
	Long:  `Provides commands for managing the rpager SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the database schema to the latest version for the studystore component",
	Long: `Connects to the SQLite database (the --db flag or the platform default) and applies any
necessary schema migrations to bring the studystore component up to the current application
schema version. An uninitialized database is created with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Database %s is at studystore schema version %d (WAL: %t, Sync: %s)\n",
			app.dbPath, pkgdb.TargetSchemaVersion, cfg.WAL, cfg.Sync)
		return nil
	},
}

var dbKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the record keys stored in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		keys, err := app.kv.Keys(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(keys) == 0 {
			fmt.Fprintln(out, "No records stored yet.")
			return nil
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	},
}

var dbLoadCmd = &cobra.Command{
	Use:   "load KEY FILE",
	Short: "Load a value exported from the browser app's localStorage",
	Long: `Stores the JSON in FILE under KEY, where KEY is one of the page-r-* keys the
browser app used (for example page-r-flashcards). A flat flashcard pool is
converted into decks right away. An existing value is only replaced with --force.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, file := args[0], args[1]
		if !slices.Contains(study.DataKeys, key) {
			return fmt.Errorf("unknown key %q; use one of: %s", key, strings.Join(study.DataKeys, ", "))
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("%s does not contain valid JSON", file)
		}
		force, _ := cmd.Flags().GetBool("force")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		var version int64
		entry, err := app.kv.Get(ctx, key)
		switch {
		case errors.Is(err, store.ErrKeyNotFound):
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", key, err)
		case !force:
			return fmt.Errorf("%s already holds data; pass --force to replace it", key)
		default:
			version = entry.Version
		}
		if _, err := app.kv.Put(ctx, key, data, version); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded %s (%d bytes).\n", key, len(data))
		if key == study.FlashcardsKey || key == study.DecksKey {
			report, err := app.store.MigrateFlashcards(ctx)
			if err != nil {
				return fmt.Errorf("failed to migrate flashcards: %w", err)
			}
			if report.Converted > 0 {
				fmt.Fprintf(out, "Converted %d flat cards, created %d decks.\n", report.Converted, report.DecksCreated)
			}
		}
		return nil
	},
}

func initCmd() {
	cfg.RegisterFlags(rootCmd.PersistentFlags())

	dbLoadCmd.Flags().Bool("force", false, "Replace a value that is already stored")
	dbCmd.AddCommand(dbUpgradeCmd, dbKeysCmd, dbLoadCmd)

	initEventsCmd()
	initMoodCmd()
	initJournalCmd()
	initDecksCmd()
	initCardsCmd()
	initImportCmd()
	initRefsCmd()
	initStatsCmd()
	initPasscodeCmd()
	initStateCmd()
	initKaiCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, eventsCmd, moodCmd, journalCmd, decksCmd, cardsCmd,
		importCmd, refsCmd, statsCmd, passcodeCmd, stateCmd, kaiCmd, mcpCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
