package localize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"testboost/internal/candidate"
	"testboost/internal/llm"
	"testboost/internal/prompt"
	"testboost/internal/repo"
	"testboost/internal/source"
)

const (
	// DefaultMaxCandidates caps each stage's candidate set.
	DefaultMaxCandidates = 3
	// DefaultWindowMargin is the number of context lines shown around a
	// candidate span.
	DefaultWindowMargin = 10
)

// Config holds the per-pipeline knobs. Zero values take the defaults above.
type Config struct {
	MaxCandidates int
	WindowMargin  int
}

// Pipeline runs the three narrowing stages and test generation. One Pipeline
// may serve many runs; it keeps no per-run state.
type Pipeline struct {
	gen  llm.Generator
	cfg  Config
	logf func(format string, args ...any)
}

// New builds a Pipeline around a generator. logf receives recoverable-warning
// lines (missing candidate files, malformed response entries) and may be nil.
func New(gen llm.Generator, cfg Config, logf func(format string, args ...any)) *Pipeline {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	if cfg.WindowMargin < 0 {
		cfg.WindowMargin = DefaultWindowMargin
	}
	return &Pipeline{gen: gen, cfg: cfg, logf: logf}
}

func (p *Pipeline) warnf(format string, args ...any) {
	if p.logf != nil {
		p.logf(format, args...)
	}
}

// Run executes FILE → FUNCTION → LINE → test generation for one request.
// The state machine only moves forward: an empty candidate set at any stage
// terminates the run with a NoCandidatesError naming that stage, and nothing
// is ever re-queried.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if p.gen == nil {
		return nil, errors.New("localize: nil generator")
	}
	if req.Snapshot == nil {
		return nil, errors.New("localize: nil repository snapshot")
	}
	in := prompt.Inputs{Issue: req.Issue, TestPatch: req.TestPatch}
	n := p.cfg.MaxCandidates

	// FILE stage: the rendered repository tree is the only context.
	tree, err := repo.RenderTree(ctx, req.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("localize: %w", err)
	}
	files, err := p.stage(ctx, candidate.StageFile, prompt.FileStage(tree, in, n), candidate.ShapePathList)
	if err != nil {
		return nil, err
	}

	// FUNCTION stage: compress the surviving candidate files. A file the
	// snapshot no longer has is skipped, not fatal, unless every candidate
	// vanishes, which empties the FILE set.
	texts := make(map[string]string, len(files.Items))
	var kept []candidate.Item
	var skeletons []prompt.FileSkeleton
	for _, it := range files.Items {
		text, err := req.Snapshot.Read(ctx, it.ID)
		if errors.Is(err, repo.ErrNotFound) {
			p.warnf("%s stage: candidate file %s not in snapshot, skipping", candidate.StageFile, it.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("localize: %w", err)
		}
		texts[it.ID] = text
		kept = append(kept, it)
		skeletons = append(skeletons, prompt.FileSkeleton{Path: it.ID, Outline: source.Compress(text)})
	}
	if len(kept) == 0 {
		return nil, &NoCandidatesError{Stage: candidate.StageFile}
	}
	files = candidate.Set{Items: kept}

	functions, err := p.stage(ctx, candidate.StageFunction, prompt.FunctionStage(skeletons, in, n), candidate.ShapeNameList)
	if err != nil {
		return nil, err
	}

	// LINE stage: resolve each qualified name against the candidate files'
	// symbol indexes and show a numbered window around it.
	symbols := make(map[string][]source.Symbol, len(kept))
	for _, it := range kept {
		symbols[it.ID] = source.Symbols(texts[it.ID])
	}
	locations := map[string]string{}
	var windows []prompt.SymbolWindow
	for _, it := range functions.Items {
		path, sym, ok := p.resolveSymbol(kept, symbols, it.ID)
		if !ok {
			p.warnf("%s stage: symbol %s not found in candidate files, skipping", candidate.StageFunction, it.ID)
			continue
		}
		text, _, _ := source.Window(texts[path], sym.Start, sym.End, p.cfg.WindowMargin, true)
		windows = append(windows, prompt.SymbolWindow{Name: it.ID, Path: path, Text: text})
		locations[it.ID] = path
	}
	if len(windows) == 0 {
		return nil, &NoCandidatesError{Stage: candidate.StageFunction}
	}

	ranges, err := p.stage(ctx, candidate.StageLine, prompt.LineStage(windows, in, n), candidate.ShapeRangeMap)
	if err != nil {
		return nil, err
	}

	// Test generation: hand the final ranges back through the window
	// extractor, unnumbered this time, and ask for code.
	var genWindows []prompt.SymbolWindow
	rangeFiles := map[string]string{}
	for _, it := range ranges.Items {
		path, ok := locations[it.ID]
		if !ok {
			// The generator ranged a symbol it was never shown; resolve it
			// directly, and drop it if that fails too.
			resolved, _, found := p.resolveSymbol(kept, symbols, it.ID)
			if !found {
				p.warnf("%s stage: ranged symbol %s has no known file, skipping", candidate.StageLine, it.ID)
				continue
			}
			path = resolved
		}
		rangeFiles[it.ID] = path
		text, _, _ := source.Window(texts[path], it.Span.Start, it.Span.End, p.cfg.WindowMargin, false)
		genWindows = append(genWindows, prompt.SymbolWindow{Name: it.ID, Path: path, Text: text})
	}
	if len(genWindows) == 0 {
		return nil, &NoCandidatesError{Stage: candidate.StageLine}
	}

	tests, err := p.gen.Generate(ctx, prompt.TestGeneration(genWindows, in))
	if err != nil {
		return nil, fmt.Errorf("test generation: %w", err)
	}

	return &Result{
		Files:          files,
		Functions:      functions,
		Ranges:         ranges,
		RangeFiles:     rangeFiles,
		GeneratedTests: strings.TrimSpace(tests),
	}, nil
}

// stage performs one narrowing step: one generator call, one parse. Malformed
// entries are logged and dropped; an empty parsed set ends the run.
func (p *Pipeline) stage(ctx context.Context, st candidate.Stage, promptText string, shape candidate.Shape) (candidate.Set, error) {
	out, err := p.gen.Generate(ctx, promptText)
	if err != nil {
		return candidate.Set{}, fmt.Errorf("%s stage: %w", st, err)
	}
	set, problems := candidate.Parse(out, shape, p.cfg.MaxCandidates)
	for _, problem := range problems {
		p.warnf("%s stage: %v", st, problem)
	}
	if set.Empty() {
		return candidate.Set{}, &NoCandidatesError{Stage: st}
	}
	return set, nil
}

// resolveSymbol finds name in the candidate files, in rank order, so a
// higher-ranked file wins when two files define the same symbol.
func (p *Pipeline) resolveSymbol(kept []candidate.Item, symbols map[string][]source.Symbol, name string) (string, source.Symbol, bool) {
	for _, it := range kept {
		if sym, ok := source.FindSymbol(symbols[it.ID], name); ok {
			return it.ID, sym, true
		}
	}
	return "", source.Symbol{}, false
}
