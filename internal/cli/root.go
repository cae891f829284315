// Package cli provides the command-line interface for the research client.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/api"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/config"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/metrics"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/session"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Global config and backend client
	cfg       config.Config
	apiClient *api.Client
	store     *session.Store
	collector *metrics.Collector
	logger    *slog.Logger
	closeLog  func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "research",
	Short: "Client for the multi-agent deep research service",
	Long: `Research is the terminal client for a multi-agent deep research service.

It streams answers token by token while showing what the agent pipeline
is doing, keeps conversations in sync with the server, and ingests PDFs
into the document store for retrieval-augmented answers.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip backend setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		// The chat UI owns the terminal, so its logs go to the file only.
		logger, closeLog = config.SetupLogger(cfg, cmd.Name() == "chat")
		slog.SetDefault(logger)

		apiClient = api.New(cfg.ServerURL, cfg.ClientTimeout)
		store = session.NewStore()
		collector = metrics.NewCollector()

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend server URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
}
