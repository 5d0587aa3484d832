// Package candidate models the ordered, deduplicated location sets the
// localization stages exchange, and parses them out of loosely formatted
// generated text.
package candidate

import "fmt"

// Stage identifies one narrowing phase of the localization pipeline. The
// stages form a fixed order: FILE narrows the repository to files, FUNCTION
// narrows files to symbols, LINE narrows symbols to line ranges.
type Stage int

const (
	StageFile Stage = iota
	StageFunction
	StageLine
)

func (s Stage) String() string {
	switch s {
	case StageFile:
		return "FILE"
	case StageFunction:
		return "FUNCTION"
	case StageLine:
		return "LINE"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Range is an inclusive 1-based line span.
type Range struct {
	Start int
	End   int
}

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Item is one parsed candidate. Rank equals its position in the set, with 0
// the most relevant; identifiers are unique within a Set. Span is only
// meaningful for range-map responses.
type Item struct {
	ID        string
	Rank      int
	Rationale string
	Span      Range
}

// Set is an ordered candidate list produced by one stage for the next. Sets
// are handed forward by value and never mutated afterwards.
type Set struct {
	Items []Item
}

func (s Set) Empty() bool { return len(s.Items) == 0 }

// IDs returns the identifiers in rank order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.ID)
	}
	return out
}
