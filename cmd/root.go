package cmd

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/internal/logging"
	"github.com/killallgit/podcastr-pages/pkg/config"
	"github.com/spf13/cobra"
)

// appConfig is loaded once the invoked command needs it
var appConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podcastr-pages",
	Short: "Podcastr episode page server",
	Long: `Podcastr Pages - pre-rendered episode pages for the Podcastr player

Episode pages are generated from the content API ahead of time and kept
fresh by revalidating them in the background.

Features:
  • Pre-built pages for the latest episodes
  • On-demand generation of older episodes (blocking fallback)
  • Stale-while-revalidate serving with a 24h window
  • Static export of the generated site`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration for commands that need it
func loadConfig(cmd *cobra.Command, args []string) error {
	if !needsConfig(cmd) {
		return nil
	}

	if err := config.Init(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Flags win over the file when set explicitly
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Logging.Level = f.Value.String()
	}
	if jsonLogs, err := cmd.Flags().GetBool("json-logs"); err == nil && cmd.Flags().Changed("json-logs") {
		cfg.Logging.JSON = jsonLogs
	}

	if err := logging.Setup(os.Stderr, cfg.Logging.Level); err != nil {
		return err
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appConfig = cfg
	return nil
}

// needsConfig reports whether cmd reads configuration
func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return cmd.Runnable()
}
