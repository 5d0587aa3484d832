package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "testboost",
	Short: "Localize where new test coverage belongs and inject generated tests",
	Long: `TestBoost narrows a software-change task down to the exact source lines that
need new test coverage, generates that coverage, and appends it to the task's
test file exactly once.

The narrowing runs in three stages (repository to files, files to
functions, functions to line ranges), each driven by one call to a
generative model and parsed defensively.

Examples:
	# Show available commands and global flags
	testboost --help

	# Localize and inject tests for one task against a local checkout
	testboost localize --task tasks/acme__widgets-42/passed_agent_passes.json --repo-root ./widgets

	# Process a whole tasks directory
	testboost batch --tasks-dir tasks --results-dir results

	# Print build info
	testboost version

Output:
	Commands write human-readable status to stdout and diagnostics to stderr.
	Each processed task also produces a <task>_results.json record.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	// Credentials may live in a local .env; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
