package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"testboost/internal/config"
	"testboost/internal/flags"
	"testboost/internal/llm"
	"testboost/internal/localize"
)

var cfg = config.New()

const localizeHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	TestBoost needs a generative-service API key, and a GitHub token when the
	repository is remote.

	GEMINI_API_KEY   API key for the generative model (required)
	GITHUB_TOKEN     GitHub access token; the GitHub CLI (gh auth token) is
	                 used as a fallback when unset

	A .env file in the working directory is loaded automatically.

  Examples:
    # macOS/Linux
    export GEMINI_API_KEY="<your_key>"
    export GITHUB_TOKEN="<your_token>"
    testboost localize --task tasks/acme__widgets-42/passed_agent_passes.json

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var localizeCmd = &cobra.Command{
	Use:   "localize",
	Short: "Localize and inject test coverage for a single task",
	Long: `Localize where new test coverage belongs for one task record, generate the
tests, and append them to the record's test file.

The run narrows repository → files → functions → line ranges, calling the
generative model once per stage, then once more for the test code itself.
Injection is idempotent: a file that already carries the injection marker is
never modified again.

Repository source (first match wins):
	1) --repo-root: a local checkout
	2) --repo: OWNER/REPO[@REF] fetched via the GitHub API
	3) the task record's own repo/base_commit fields

Exit codes:
	0 = localized and injected
	1 = a stage produced no candidates
	3 = fatal error
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		if cfg.Target.Task == "" {
			fmt.Fprintln(os.Stderr, "Error: --task is required")
			os.Exit(3)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		ctx := context.Background()
		gen, err := llm.NewGeminiClient(ctx, "", cfg.Generation.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		r := newRunner(cfg, gen)
		record, err := r.processTask(ctx, cfg.Target.Task)
		var nce *localize.NoCandidatesError
		switch {
		case errors.As(err, &nce):
			color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "no candidates: %v\n", err)
			os.Exit(exitCodeForRun(false, false, true))
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitCodeForRun(true, false, false))
		}

		status := "localized"
		if record.Injected {
			status = "localized and injected"
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s: %s (%d files, %d functions, %d ranges)\n",
			record.TaskID, status, len(record.Files), len(record.Functions), len(record.Ranges))
	},
}

func init() {
	rootCmd.AddCommand(localizeCmd)
	localizeCmd.SetHelpTemplate(localizeHelpTemplate)

	// Targeting
	localizeCmd.Flags().StringVar(&cfg.Target.Task, flags.FlagTask, "", "Path to the task record JSON file (required)")
	localizeCmd.Flags().StringVar(&cfg.Target.RepoRoot, flags.FlagRepoRoot, "", "Local repository checkout to localize against")
	localizeCmd.Flags().StringVar(&cfg.Target.Repo, flags.FlagRepo, "", "Remote repository as OWNER/REPO[@REF]")

	// Generation
	localizeCmd.Flags().StringVar(&cfg.Generation.Model, flags.FlagModel, cfg.Generation.Model, "Generative model identifier")
	localizeCmd.Flags().IntVar(&cfg.Generation.MaxCandidates, flags.FlagMaxCandidates, cfg.Generation.MaxCandidates, "Candidate cap per localization stage")
	localizeCmd.Flags().IntVar(&cfg.Generation.WindowMargin, flags.FlagWindow, cfg.Generation.WindowMargin, "Context lines shown around candidate spans")

	// Output
	localizeCmd.Flags().StringVar(&cfg.Output.ResultsDir, flags.FlagResultsDir, cfg.Output.ResultsDir, "Directory for <task>_results.json records")
	localizeCmd.Flags().BoolVar(&cfg.Output.NoInject, flags.FlagNoInject, false, "Write the result record without touching the test file")

	// Runtime
	localizeCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Timeout for the pipeline run")
}
