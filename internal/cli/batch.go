package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"testboost/internal/flags"
	"testboost/internal/llm"
	"testboost/internal/localize"
	"testboost/internal/task"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Localize and inject test coverage for every task in a directory",
	Long: `Process every task under --tasks-dir: each subdirectory containing a task
record is localized independently and produces a result record under
--results-dir.

Tasks run with up to --concurrency pipelines in flight. Runs share nothing
but the generative client (safe for concurrent calls); a failing task never
stops the batch.

Exit codes:
	0 = every task localized and injected
	1 = every processed task ended with no candidates
	2 = partial failure (some tasks errored)
	3 = fatal error (batch did not run)
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		if cfg.Target.TasksDir == "" {
			fmt.Fprintln(os.Stderr, "Error: --tasks-dir is required")
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

		ids, err := task.Discover(cfg.Target.TasksDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if len(ids) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no task records found under %s\n", cfg.Target.TasksDir)
			os.Exit(3)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d tasks to process\n", len(ids))

		r := newRunner(cfg, gen)

		var (
			mu           sync.Mutex
			failed       int
			noCandidates int
		)
		ok := color.New(color.FgGreen)
		warn := color.New(color.FgYellow)
		bad := color.New(color.FgRed)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Runtime.Concurrency)
		for _, id := range ids {
			taskPath := filepath.Join(cfg.Target.TasksDir, id, task.FileName)
			g.Go(func() error {
				record, err := r.processTask(gctx, taskPath)

				mu.Lock()
				defer mu.Unlock()
				var nce *localize.NoCandidatesError
				switch {
				case errors.As(err, &nce):
					noCandidates++
					warn.Fprintf(cmd.OutOrStdout(), "%-40s no candidates (%s stage)\n", id, nce.Stage)
				case err != nil:
					failed++
					bad.Fprintf(cmd.OutOrStdout(), "%-40s failed\n", id)
					fmt.Fprintf(os.Stderr, "[error] %v\n", err)
				default:
					ok.Fprintf(cmd.OutOrStdout(), "%-40s ok (%d ranges)\n", id, len(record.Ranges))
				}
				// Per-task failures are reported, not propagated: the batch
				// always runs to completion.
				return nil
			})
		}
		_ = g.Wait()

		succeeded := len(ids) - failed - noCandidates
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d ok, %d no candidates, %d failed (of %d)\n",
			succeeded, noCandidates, failed, len(ids))

		os.Exit(exitCodeForRun(false, failed > 0, noCandidates == len(ids)))
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Targeting
	batchCmd.Flags().StringVar(&cfg.Target.TasksDir, flags.FlagTasksDir, "", "Directory with one subdirectory per task (required)")
	batchCmd.Flags().StringVar(&cfg.Target.RepoRoot, flags.FlagRepoRoot, "", "Local repository checkout shared by all tasks")
	batchCmd.Flags().StringVar(&cfg.Target.Repo, flags.FlagRepo, "", "Remote repository as OWNER/REPO[@REF] shared by all tasks")

	// Generation
	batchCmd.Flags().StringVar(&cfg.Generation.Model, flags.FlagModel, cfg.Generation.Model, "Generative model identifier")
	batchCmd.Flags().IntVar(&cfg.Generation.MaxCandidates, flags.FlagMaxCandidates, cfg.Generation.MaxCandidates, "Candidate cap per localization stage")
	batchCmd.Flags().IntVar(&cfg.Generation.WindowMargin, flags.FlagWindow, cfg.Generation.WindowMargin, "Context lines shown around candidate spans")

	// Output
	batchCmd.Flags().StringVar(&cfg.Output.ResultsDir, flags.FlagResultsDir, cfg.Output.ResultsDir, "Directory for <task>_results.json records")
	batchCmd.Flags().BoolVar(&cfg.Output.NoInject, flags.FlagNoInject, false, "Write result records without touching any test file")

	// Runtime
	batchCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent task pipelines")
	batchCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Per-task pipeline timeout")
}
