package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"testboost/internal/config"
	gh "testboost/internal/github"
	"testboost/internal/inject"
	"testboost/internal/llm"
	"testboost/internal/localize"
	"testboost/internal/repo"
	"testboost/internal/task"
)

// Exit code contract:
// 0 = task(s) localized and injected
// 1 = a stage produced no candidates (localization gave up cleanly)
// 2 = partial failure (some batch tasks failed)
// 3 = fatal error (nothing ran)
func exitCodeForRun(fatal, partial, noCandidates bool) int {
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if noCandidates {
		return 1
	}
	return 0
}

// runner processes task records: load, snapshot, localize, persist, inject.
// One runner serves concurrent tasks; the generative client and the lazily
// built GitHub client are its only shared pieces, both safe for concurrent
// use.
type runner struct {
	cfg *config.Config
	gen llm.Generator

	ghOnce   sync.Once
	ghClient *gh.Client
	ghErr    error
}

func newRunner(cfg *config.Config, gen llm.Generator) *runner {
	return &runner{cfg: cfg, gen: gen}
}

func (r *runner) githubClient(ctx context.Context) (*gh.Client, error) {
	r.ghOnce.Do(func() {
		token, _, err := gh.ResolveAuthToken(ctx, "")
		if err != nil {
			r.ghErr = fmt.Errorf("resolve GitHub auth token: %w", err)
			return
		}
		if strings.TrimSpace(token) == "" {
			r.ghErr = errors.New("GitHub auth token is required for remote repositories (set GITHUB_TOKEN or run 'gh auth login')")
			return
		}
		r.ghClient, r.ghErr = gh.NewClient(ctx, token, gh.WithVerbose(r.cfg.Runtime.Verbose, nil))
	})
	return r.ghClient, r.ghErr
}

// snapshotFor picks the repository source for one task: --repo-root, then
// --repo, then the task record's own repo/base_commit fields.
func (r *runner) snapshotFor(ctx context.Context, tk *task.Task) (repo.Snapshot, error) {
	if r.cfg.Target.RepoRoot != "" {
		return repo.NewLocalSnapshot(r.cfg.Target.RepoRoot)
	}

	var owner, name, ref string
	if r.cfg.Target.Repo != "" {
		var err error
		owner, name, ref, err = config.ParseRepoRef(r.cfg.Target.Repo)
		if err != nil {
			return nil, err
		}
	} else if o, n, rf, ok := tk.RepoRef(); ok {
		owner, name, ref = o, n, rf
	} else {
		return nil, fmt.Errorf("task %s: no repository reference (use --repo-root or --repo, or add repo/base_commit to the record)", tk.ID)
	}

	client, err := r.githubClient(ctx)
	if err != nil {
		return nil, err
	}
	return repo.NewGitHubSnapshot(client, owner, name, ref)
}

func (r *runner) warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[warn] "+format+"\n", args...)
}

// processTask runs the full pipeline for one task record and persists its
// result. The returned result is also persisted on clean NoCandidates
// failures so a batch leaves a record for every task it touched.
func (r *runner) processTask(ctx context.Context, taskPath string) (*task.Result, error) {
	tk, err := task.Load(taskPath)
	if err != nil {
		return nil, err
	}

	snap, err := r.snapshotFor(ctx, tk)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Runtime.Timeout)
	defer cancel()

	pipe := localize.New(r.gen, localize.Config{
		MaxCandidates: r.cfg.Generation.MaxCandidates,
		WindowMargin:  r.cfg.Generation.WindowMargin,
	}, r.warnf)

	res, err := pipe.Run(runCtx, localize.Request{
		Issue:     tk.IssueDescription,
		TestPatch: tk.ModelPatch,
		Snapshot:  snap,
	})
	if err != nil {
		err = fmt.Errorf("task %s: %w", tk.ID, err)
		var nce *localize.NoCandidatesError
		if !errors.As(err, &nce) {
			return nil, err
		}
		// A clean no-candidates stop still leaves an (empty) record, so a
		// batch produces one per task it touched.
		record := &task.Result{
			TaskID:    tk.ID,
			Files:     []string{},
			Functions: []string{},
			Ranges:    map[string]string{},
			TestFile:  tk.TestFile,
		}
		if _, werr := task.WriteResult(r.cfg.Output.ResultsDir, record); werr != nil {
			return nil, fmt.Errorf("task %s: %w", tk.ID, werr)
		}
		return record, err
	}

	record := &task.Result{
		TaskID:         tk.ID,
		Files:          res.Files.IDs(),
		Functions:      res.Functions.IDs(),
		Ranges:         make(map[string]string, len(res.Ranges.Items)),
		GeneratedTests: res.GeneratedTests,
		TestFile:       tk.TestFile,
	}
	for _, it := range res.Ranges.Items {
		record.Ranges[it.ID] = it.Span.String()
	}

	if !r.cfg.Output.NoInject {
		if tk.TestFile == "" {
			return nil, fmt.Errorf("task %s: record has no test_file to inject into", tk.ID)
		}
		if _, err := inject.Inject(tk.TestFile, res.GeneratedTests); err != nil {
			return nil, fmt.Errorf("task %s: %w", tk.ID, err)
		}
		record.Injected = true
	}

	if _, err := task.WriteResult(r.cfg.Output.ResultsDir, record); err != nil {
		return nil, fmt.Errorf("task %s: %w", tk.ID, err)
	}
	return record, nil
}
