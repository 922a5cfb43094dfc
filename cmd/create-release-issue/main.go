package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"jenkinstools/lib/cliutil"
	"jenkinstools/lib/github"
	"jenkinstools/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	month     string
	year      string
	version   string
	repoOwner string
	repoName  string
	token     string
	tokenFile string
	labels    string
	dryRun    bool
	verbose   bool
)

func init() {
	rootCmd.Flags().StringVar(&month, "month", "", `Release month name, e.g. "July".`)
	rootCmd.Flags().StringVar(&year, "year", "", `Release year, e.g. "2025".`)
	rootCmd.Flags().StringVar(&version, "version", "", `JDK version, e.g. "21.0.4+7" or "8u462-b06".`)
	rootCmd.Flags().StringVar(&repoOwner, "repo-owner", "", "GitHub repository owner or organization.")
	rootCmd.Flags().StringVar(&repoName, "repo-name", "", "GitHub repository name.")
	rootCmd.Flags().StringVar(&token, "token", "", "GitHub personal access token.")
	rootCmd.Flags().StringVar(&tokenFile, "token-file", "", "Path to a file containing a GitHub personal access token.")
	rootCmd.Flags().StringVar(&labels, "labels", "", "Comma-separated list of labels to add to the issue.")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the issue without creating it.")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging.")
	rootCmd.MarkFlagRequired("month")
	rootCmd.MarkFlagRequired("year")
	rootCmd.MarkFlagRequired("version")
	rootCmd.MarkFlagRequired("repo-owner")
	rootCmd.MarkFlagRequired("repo-name")
	rootCmd.MarkFlagsOneRequired("token", "token-file")
	rootCmd.MarkFlagsMutuallyExclusive("token", "token-file")
}

func parseLabels(raw string) []string {
	var list []string
	for _, label := range strings.Split(raw, ",") {
		if label = strings.TrimSpace(label); label != "" {
			list = append(list, label)
		}
	}
	return list
}

func printPreview(template github.ReleaseTemplate, title, body string, labelList []string) {
	fmt.Println("=== DRY RUN: Preview of GitHub Issue ===")
	fmt.Printf("Repository: %s/%s\n", repoOwner, repoName)
	fmt.Printf("Title: %s\n", title)
	if len(labelList) > 0 {
		fmt.Printf("Labels: %s\n", strings.Join(labelList, ", "))
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Platform", "Tier"})
	for _, platform := range template.Platforms {
		tier := "skip"
		if platform.IsMajor {
			tier = "run"
		}
		t.AppendRow(table.Row{platform.Name, tier})
	}
	t.Render()

	fmt.Printf("\nBody:\n%s\n", body)
	fmt.Println("=== End of Preview ===")
}

var rootCmd = &cobra.Command{
	Use:   "create-release-issue --month <month> --year <year> --version <jdk version> --repo-owner <owner> --repo-name <repo>",
	Short: "Creates a GitHub release tracking issue with the standard platform table.",
	Run: func(cmd *cobra.Command, args []string) {
		cliutil.InitSlog(verbose)
		ctx := cmd.Context()

		tel, err := telemetry.SetupFromEnv(ctx, "create-release-issue")
		if err != nil {
			cliutil.Fatal("failed to set up telemetry", err)
		}
		defer tel.Shutdown(ctx)

		githubToken := token
		if tokenFile != "" {
			githubToken, err = cliutil.ReadTokenFile(tokenFile)
			if err != nil {
				cliutil.Fatal("failed to read github token", err)
			}
		}
		if githubToken == "" && !dryRun {
			cliutil.Fatal("invalid arguments", errors.New("github token is empty"))
		}

		labelList := parseLabels(labels)
		template := github.NewReleaseTemplate(nil)
		title := template.Title(month, year, version)
		body := template.Body(version)
		slog.Debug("generated issue", "title", title)

		if dryRun {
			printPreview(template, title, body, labelList)
			return
		}

		client := github.NewClient(github.ClientOptions{
			Owner: repoOwner,
			Repo:  repoName,
			Token: githubToken,
		})
		issue, err := client.CreateIssue(ctx, title, body, labelList)
		if err != nil {
			cliutil.Fatal("failed to create github issue", err)
		}

		fmt.Printf("Successfully created issue #%d: %s\n", issue.Number, issue.Title)
		fmt.Printf("URL: %s\n", issue.HTMLURL)
		if len(labelList) > 0 {
			fmt.Printf("Labels: %s\n", strings.Join(labelList, ", "))
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
