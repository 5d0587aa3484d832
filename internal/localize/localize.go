// Package localize drives the staged narrowing pipeline: repository → files
// → functions → line ranges → generated test code.
//
// Every transform in here is deterministic; the single source of
// non-determinism is the llm.Generator, invoked exactly once per stage (plus
// once for test generation) with no internal retries. Each Run owns its
// request, snapshot, and candidate sets; nothing is shared across runs.
package localize

import (
	"fmt"

	"testboost/internal/candidate"
	"testboost/internal/repo"
)

// Request is the immutable input of one pipeline run.
type Request struct {
	Issue     string
	TestPatch string
	Snapshot  repo.Snapshot
}

// Result carries every stage's output plus the generated test text. Ranges
// holds the final RANGE_MAP keyed by qualified name; RangeFiles records which
// candidate file each ranged symbol was resolved in.
type Result struct {
	Files          candidate.Set
	Functions      candidate.Set
	Ranges         candidate.Set
	RangeFiles     map[string]string
	GeneratedTests string
}

// NoCandidatesError is the terminal failure of a run whose named stage
// narrowed the candidate space to nothing. It is not retried here;
// resubmission is the caller's decision.
type NoCandidatesError struct {
	Stage candidate.Stage
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("%s stage produced no candidates", e.Stage)
}
