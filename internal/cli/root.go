// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradejournal/internal/config"
	"tradejournal/internal/logging"
	"tradejournal/internal/rates"
	"tradejournal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	Rates  *rates.Cache
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("SQLite store initialized")
	}

	// Initialize exchange-rate cache
	client := rates.NewClient(cfg.Rates.Endpoint, logger)
	app.Rates = rates.NewCache(client, time.Duration(cfg.Rates.TTLHours)*time.Hour, logger)

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade Journal - trading analytics CLI",
		Long: `Trade Journal is a personal trading journal and analytics CLI.

It records trades across multiple accounts, resolves copy-traded records
into logical groups, and computes performance statistics over them.

Use 'journal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradejournal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addNoteCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addRatesCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Trade Journal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Display Configuration")
	output.Printf("  Mode:            %s\n", cfg.Display.Mode)
	output.Printf("  Currency:        %s\n", cfg.Display.Currency)
	output.Printf("  Show Sign:       %v\n", cfg.Display.ShowSign)
	output.Println()

	output.Bold("Statistics Configuration")
	output.Printf("  Profit Factor Cap: %.2f\n", cfg.Stats.ProfitFactorCap)
	output.Printf("  Initial Balance:   %.2f\n", cfg.Stats.InitialBalance)
	output.Println()

	output.Bold("Exchange Rates")
	output.Printf("  Endpoint:        %s\n", cfg.Rates.Endpoint)
	output.Printf("  Cache TTL:       %dh\n", cfg.Rates.TTLHours)
	output.Println()

	output.Bold("Storage")
	output.Printf("  Database:        %s\n", cfg.Storage.DBPath)

	return nil
}
