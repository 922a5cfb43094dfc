package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"jenkinstools/lib/cliutil"
	"jenkinstools/lib/jenkins/consolelog"
	"jenkinstools/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	inputPath      string
	outputPath     string
	platformConfig string
	verbose        bool
)

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the Jenkins console output file.")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path for the output JSON file.")
	rootCmd.Flags().StringVar(&platformConfig, "platform-config", consolelog.DefaultPlatformConfig, "Path to the platform lookup table.")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging.")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}

var rootCmd = &cobra.Command{
	Use:   "get-spawned -i <console.log> -o <spawned.json>",
	Short: "Extracts the pipeline jobs spawned by a Jenkins release run from its console log.",
	Run: func(cmd *cobra.Command, args []string) {
		cliutil.InitSlog(verbose)
		ctx := cmd.Context()

		tel, err := telemetry.SetupFromEnv(ctx, "get-spawned")
		if err != nil {
			cliutil.Fatal("failed to set up telemetry", err)
		}
		defer tel.Shutdown(ctx)

		table, err := consolelog.LoadPlatformTable(platformConfig)
		if err != nil {
			cliutil.Fatal("failed to load platform table", err)
		}
		slog.Debug("loaded platform table", "path", platformConfig, "entries", len(table))

		console, err := os.ReadFile(inputPath)
		if err != nil {
			cliutil.Fatal("failed to read console log", err)
		}

		report := consolelog.Parse(ctx, string(console), table)

		// the report is written even when no jobs were found; an empty
		// mapping is a successful result
		contents, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			cliutil.Fatal("failed to serialize report", err)
		}
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				cliutil.Fatal("failed to create output directory", err)
			}
		}
		if err := os.WriteFile(outputPath, contents, 0o644); err != nil {
			cliutil.Fatal("failed to write report", err)
		}

		slog.Info("wrote spawned job report", "path", outputPath, "spawned_jobs", len(report.SpawnedJobs))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
