package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/killallgit/podcastr-pages/internal/database"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the page database",
	Long: `Manage database migrations for the SQLite page store.

Only used when pages.store is sqlite. The schema is applied with GORM
auto migration, so it only ever moves forward.

Available subcommands:
  up      - Apply the page schema
  status  - Show the schema state and the stored pages`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the page schema",
	Long: `Apply all pending database migrations.

Creates the pages table or adds missing columns and indexes to it.
Existing rows are kept.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of the page database.

Shows whether the pages table exists and lists every stored page with
its generation time and whether it is due for revalidation.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openDatabase() (*database.DB, error) {
	return database.Initialize(appConfig.Database.Path, appConfig.Database.Verbose)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	exists := db.Migrator().HasTable(&models.Page{})
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		if exists {
			fmt.Fprintf(out, "Would update table pages in %s\n", appConfig.Database.Path)
		} else {
			fmt.Fprintf(out, "Would create table pages in %s\n", appConfig.Database.Path)
		}
		return nil
	}

	if err := db.Migrate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Schema up to date (%s)\n", appConfig.Database.Path)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Database: %s\n", appConfig.Database.Path)

	if !db.Migrator().HasTable(&models.Page{}) {
		fmt.Fprintln(out, "Table pages: missing (run 'migrate up')")
		return nil
	}

	stored, err := pages.NewRepository(db.DB).List(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Table pages: present, %d page(s)\n", len(stored))
	now := time.Now()
	for _, page := range stored {
		state := "fresh"
		if page.IsStale(now) {
			state = "stale"
		}
		fmt.Fprintf(out, "  %-50s %s  %s\n", page.Slug, page.GeneratedAt.Format(time.RFC3339), state)
	}
	return nil
}
