package flags

// Package flags defines canonical CLI flag names shared across commands.
// Keeping these as constants avoids drift between Cobra flag wiring and code
// that needs to reference flags in messages or docs.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Targeting
	FlagTask     = "task"
	FlagTasksDir = "tasks-dir"
	FlagRepoRoot = "repo-root"
	FlagRepo     = "repo"

	// Generation
	FlagModel         = "model"
	FlagMaxCandidates = "max-candidates"
	FlagWindow        = "window"

	// Output
	FlagResultsDir = "results-dir"
	FlagNoInject   = "no-inject"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
)
