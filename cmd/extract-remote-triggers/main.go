package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"jenkinstools/lib/cliutil"
	"jenkinstools/lib/jenkins/remotetrigger"
	"jenkinstools/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	inputPath  string
	outputPath string
	verbose    bool
)

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the Jenkins HTML log file.")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path for the output JSON file.")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging.")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}

var rootCmd = &cobra.Command{
	Use:   "extract-remote-triggers -i <jenkins.html.log> -o <triggers.json>",
	Short: "Extracts Parameterized Remote Trigger configurations from a Jenkins HTML log.",
	Run: func(cmd *cobra.Command, args []string) {
		cliutil.InitSlog(verbose)
		ctx := cmd.Context()

		tel, err := telemetry.SetupFromEnv(ctx, "extract-remote-triggers")
		if err != nil {
			cliutil.Fatal("failed to set up telemetry", err)
		}
		defer tel.Shutdown(ctx)

		slog.Debug("reading html log", "path", inputPath)
		console, err := os.ReadFile(inputPath)
		if err != nil {
			cliutil.Fatal("failed to read html log", err)
		}

		triggers := remotetrigger.Parse(ctx, string(console))
		if len(triggers) == 0 {
			// finding nothing is a successful run, but no output file
			// is written for it
			slog.Warn("no remote triggers found in the provided log file, not writing output file")
			return
		}

		contents, err := json.MarshalIndent(triggers, "", "  ")
		if err != nil {
			cliutil.Fatal("failed to serialize remote triggers", err)
		}
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				cliutil.Fatal("failed to create output directory", err)
			}
		}
		if err := os.WriteFile(outputPath, contents, 0o644); err != nil {
			cliutil.Fatal("failed to write output file", err)
		}

		slog.Info("successfully extracted remote trigger information", "path", outputPath, "count", len(triggers))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
