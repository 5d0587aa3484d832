package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Target     Target
	Generation Generation
	Output     Output
	Runtime    Runtime
}

type Target struct {
	// Task is the path to a single task record JSON file (see --task).
	Task string

	// TasksDir holds one subdirectory per task, each containing a task
	// record file (see --tasks-dir).
	TasksDir string

	// RepoRoot is a local repository checkout to localize against
	// (see --repo-root).
	RepoRoot string

	// Repo is a remote repository as OWNER/REPO[@REF] (see --repo).
	// When both RepoRoot and Repo are empty, the repository reference is
	// taken from the task record's passthrough fields.
	Repo string
}

type Generation struct {
	// Model is the generative model identifier (see --model).
	Model string

	// MaxCandidates caps each localization stage's candidate set
	// (see --max-candidates). Must be >= 1.
	MaxCandidates int

	// WindowMargin is the number of context lines included around a
	// candidate span (see --window). Must be >= 0.
	WindowMargin int
}

type Output struct {
	// ResultsDir receives one <task>_results.json per processed task
	// (see --results-dir).
	ResultsDir string

	// NoInject writes result records without touching any test file
	// (see --no-inject).
	NoInject bool
}

type Runtime struct {
	// Concurrency controls how many tasks the batch command processes in
	// parallel (see --concurrency). Must be >= 1. Tasks never share
	// per-run state; only the generative client is shared, and it is safe
	// for concurrent calls.
	Concurrency int

	// Timeout bounds one task's pipeline run (see --timeout). Must be > 0.
	Timeout time.Duration

	// Verbose enables diagnostics on stderr, including per-request GitHub
	// API logging.
	Verbose bool
}

func New() *Config {
	return &Config{
		Generation: Generation{
			Model:         "gemini-2.5-flash",
			MaxCandidates: 3,
			WindowMargin:  10,
		},
		Output: Output{
			ResultsDir: "results",
		},
		Runtime: Runtime{
			Concurrency: 2,
			Timeout:     10 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	if c.Target.Task != "" && c.Target.TasksDir != "" {
		return errors.New("--task and --tasks-dir are mutually exclusive")
	}
	if c.Target.RepoRoot != "" && c.Target.Repo != "" {
		return errors.New("--repo-root and --repo are mutually exclusive")
	}
	if c.Target.Repo != "" {
		if _, _, _, err := ParseRepoRef(c.Target.Repo); err != nil {
			return fmt.Errorf("invalid --repo value: %w", err)
		}
	}

	if strings.TrimSpace(c.Generation.Model) == "" {
		return errors.New("--model must not be empty")
	}
	if c.Generation.MaxCandidates < 1 {
		return errors.New("--max-candidates must be >= 1")
	}
	if c.Generation.WindowMargin < 0 {
		return errors.New("--window must be >= 0")
	}

	if strings.TrimSpace(c.Output.ResultsDir) == "" {
		return errors.New("--results-dir must not be empty")
	}

	if c.Runtime.Concurrency < 1 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	return nil
}

// ParseRepoRef parses OWNER/REPO[@REF]. An empty REF means the remote
// default branch.
func ParseRepoRef(raw string) (owner, repo, ref string, err error) {
	s := strings.TrimSpace(raw)
	if at := strings.LastIndex(s, "@"); at >= 0 {
		ref = strings.TrimSpace(s[at+1:])
		s = s[:at]
		if ref == "" {
			return "", "", "", fmt.Errorf("%q: empty ref after @", raw)
		}
	}
	owner, repo, ok := strings.Cut(s, "/")
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", "", fmt.Errorf("%q: expected OWNER/REPO[@REF]", raw)
	}
	return owner, repo, ref, nil
}
