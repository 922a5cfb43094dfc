package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"jenkinstools/lib/cliutil"
	"jenkinstools/lib/jenkins"
	"jenkinstools/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	jenkinsURL   string
	username     string
	token        string
	tokenFile    string
	pipelineName string
	runNumber    int
	outputPath   string
	timestamps   bool
	verbose      bool
)

func init() {
	rootCmd.Flags().StringVar(&jenkinsURL, "url", "https://ci.adoptium.net/", "Jenkins server URL.")
	rootCmd.Flags().StringVar(&username, "username", "anonymous", "Jenkins username.")
	rootCmd.Flags().StringVar(&token, "token", "", "Jenkins API token as a string.")
	rootCmd.Flags().StringVar(&tokenFile, "token-file", "", "Path to a file containing the Jenkins API token.")
	rootCmd.Flags().StringVar(&pipelineName, "pipeline-name", "", `Pipeline name, e.g. "build-scripts/release-openjdk21-pipeline".`)
	rootCmd.Flags().IntVar(&runNumber, "run-number", 0, "Pipeline run number, e.g. 48.")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "Output file path for the console log.")
	rootCmd.Flags().BoolVar(&timestamps, "timestamps", false, "Fetch the timestamped variant of the console log.")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging.")
	rootCmd.MarkFlagRequired("pipeline-name")
	rootCmd.MarkFlagRequired("run-number")
	rootCmd.MarkFlagRequired("output")
	rootCmd.MarkFlagsOneRequired("token", "token-file")
	rootCmd.MarkFlagsMutuallyExclusive("token", "token-file")
}

var rootCmd = &cobra.Command{
	Use:   "get-console --pipeline-name <name> --run-number <n> --output <console.log>",
	Short: "Pulls the console log of a Jenkins pipeline run.",
	Run: func(cmd *cobra.Command, args []string) {
		cliutil.InitSlog(verbose)
		ctx := cmd.Context()

		tel, err := telemetry.SetupFromEnv(ctx, "get-console")
		if err != nil {
			cliutil.Fatal("failed to set up telemetry", err)
		}
		defer tel.Shutdown(ctx)

		apiToken := token
		if tokenFile != "" {
			apiToken, err = cliutil.ReadTokenFile(tokenFile)
			if err != nil {
				cliutil.Fatal("failed to read api token", err)
			}
		}
		if apiToken == "" {
			cliutil.Fatal("invalid arguments", errors.New("api token is empty"))
		}
		if runNumber < 1 {
			cliutil.Fatal("invalid arguments", errors.New("run number must be a positive integer"))
		}

		slog.Info("retrieving console log",
			"url", jenkinsURL,
			"pipeline", pipelineName,
			"run", runNumber,
		)

		client := jenkins.NewClient(jenkins.ClientOptions{
			BaseURL:  jenkinsURL,
			Username: username,
			APIToken: apiToken,
		})

		var console string
		if timestamps {
			console, err = client.TimestampedConsole(ctx, pipelineName, runNumber)
		} else {
			console, err = client.ConsoleText(ctx, pipelineName, runNumber)
		}
		if err != nil {
			cliutil.Fatal("failed to retrieve console log", err)
		}

		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				cliutil.Fatal("failed to create output directory", err)
			}
		}
		if err := os.WriteFile(outputPath, []byte(console), 0o644); err != nil {
			cliutil.Fatal("failed to write console log", err)
		}

		slog.Info("console log written", "path", outputPath, "bytes", len(console))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
