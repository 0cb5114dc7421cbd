package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/killallgit/podcastr-pages/internal/export"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Pre-render the latest episode pages to disk",
	Long: `Generate the pages for the latest episodes and write them to a directory.

Each page is written as HTML next to its props JSON, together with the
enumerated paths and the stylesheet and icons the pages reference.

Example:
  podcastr-pages build
  podcastr-pages build --out ./public`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("out", "", "output directory (overrides pages.output_dir)")
	buildCmd.Flags().Bool("report", false, "print the build report as JSON")
}

func runBuild(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = appConfig.Pages.OutputDir
	}
	printReport, _ := cmd.Flags().GetBool("report")

	app, err := newApplication(appConfig)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.generator.Build(cmd.Context())
	if err != nil {
		return err
	}

	result, err := export.Write(out, report, app.assets)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if printReport {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Built %d/%d pages in %s\n", len(report.Generated), len(report.Paths.Paths), report.Duration)
		fmt.Fprintf(w, "Wrote %d file(s) to %s\n", len(result.Files), result.Dir)
	}

	if !report.OK() {
		for slug, reason := range report.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", slug, reason)
		}
		return fmt.Errorf("%d page(s) failed to build", len(report.Failed))
	}
	return nil
}
