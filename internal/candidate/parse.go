package candidate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Shape selects the response grammar Parse expects. The grammar is a hint to
// the generator, not a guarantee, so parsing is defensive throughout.
type Shape int

const (
	// ShapePathList expects bulleted repository paths.
	ShapePathList Shape = iota
	// ShapeNameList expects bulleted qualified symbol names.
	ShapeNameList
	// ShapeRangeMap expects "identifier: start-end" lines.
	ShapeRangeMap
)

// MalformedEntryError reports a single unparsable response line. It fails
// only that line; the caller logs it and the rest of the response stands.
type MalformedEntryError struct {
	Line   string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed entry %q: %s", e.Line, e.Reason)
}

var (
	bulletRe    = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
	rangeLineRe = regexp.MustCompile(`^(.+?)\s*:\s*` + "`?" + `(\d+)\s*[-–:]\s*(\d+)` + "`?" + `\s*$`)
)

// Parse extracts a candidate Set from free-form generated text.
//
// List shapes accept only bulleted lines; the bullet marker and a trailing
// parenthetical rationale are stripped to obtain the bare identifier. The
// range-map shape accepts "identifier: start-end" lines, bulleted or not.
// Identifiers are deduplicated preserving first-seen order, which becomes the
// rank, and the set is capped at limit entries (0 means uncapped).
//
// Unrecognizable prose is ignored. Lines that attempt the range form but fail
// it are returned as MalformedEntryError values; an entirely unparsable
// response yields an empty Set and is not itself an error.
func Parse(raw string, shape Shape, limit int) (Set, []error) {
	var (
		set      Set
		problems []error
		seen     = map[string]bool{}
	)

	add := func(it Item) {
		if it.ID == "" || seen[it.ID] {
			return
		}
		if limit > 0 && len(set.Items) >= limit {
			return
		}
		seen[it.ID] = true
		it.Rank = len(set.Items)
		set.Items = append(set.Items, it)
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch shape {
		case ShapePathList, ShapeNameList:
			loc := bulletRe.FindStringIndex(line)
			if loc == nil {
				continue
			}
			id, rationale := splitRationale(line[loc[1]:])
			add(Item{ID: cleanIdentifier(id), Rationale: rationale})

		case ShapeRangeMap:
			body := line
			if loc := bulletRe.FindStringIndex(body); loc != nil {
				body = body[loc[1]:]
			}
			body, rationale := splitRationale(body)
			if !strings.Contains(body, ":") {
				// Prose, headings, code fences: not an entry attempt.
				continue
			}
			m := rangeLineRe.FindStringSubmatch(strings.TrimSpace(body))
			if m == nil {
				problems = append(problems, &MalformedEntryError{Line: trimmed, Reason: "expected identifier: start-end"})
				continue
			}
			start, err1 := strconv.Atoi(m[2])
			end, err2 := strconv.Atoi(m[3])
			if err1 != nil || err2 != nil {
				problems = append(problems, &MalformedEntryError{Line: trimmed, Reason: "line bounds are not integers"})
				continue
			}
			if start <= 0 || end < start {
				problems = append(problems, &MalformedEntryError{Line: trimmed, Reason: "invalid line span"})
				continue
			}
			add(Item{ID: cleanIdentifier(m[1]), Rationale: rationale, Span: Range{Start: start, End: end}})
		}
	}

	return set, problems
}

// splitRationale removes one trailing parenthetical and returns it separately.
func splitRationale(s string) (string, string) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return s, ""
	}
	i := strings.LastIndex(s, "(")
	if i < 0 {
		return s, ""
	}
	rationale := strings.TrimSpace(s[i+1 : len(s)-1])
	return strings.TrimSpace(s[:i]), rationale
}

// cleanIdentifier strips decoration generators like to wrap identifiers in.
func cleanIdentifier(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}
