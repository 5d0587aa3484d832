// Package source provides deterministic text transforms over Python source
// files: structural skeleton compression, a symbol index, and line-window
// extraction. Everything here is pure; file access is the caller's problem.
package source

import (
	"regexp"
	"strings"
)

var (
	classHeaderRe = regexp.MustCompile(`^class\s+[A-Za-z_][A-Za-z0-9_]*`)
	funcHeaderRe  = regexp.MustCompile(`^(?:async\s+)?def\s+[A-Za-z_][A-Za-z0-9_]*`)
)

type scopeKind int

const (
	scopeClass scopeKind = iota
	scopeFunc
)

// scope is one open class or function body on the scanner stack. A scope is
// closed by a blank line or by a non-blank line indented at or below its
// header.
type scope struct {
	kind   scopeKind
	name   string
	indent int
	start  int // 1-based line of the header's first line
}

// scanEvents receives structural events from scan. Opens and closes are
// strictly nested, so a listener may mirror the scope stack with one of its
// own. Any handler may be nil.
type scanEvents struct {
	// onOpen fires for every class/function header. header is the trimmed
	// first signature line; enclosing lists the scopes the new one nests in.
	onOpen func(sc scope, header string, enclosing []scope)
	// onClose fires when a scope ends. last is the 1-based line number of
	// the final content line inside it (>= sc.start).
	onClose func(sc scope, last int)
	// onDecorator fires for every decorator line, as written.
	onDecorator func(line string)
}

// Compress reduces source text to its structural outline: decorators, class
// headers, and function headers, in original file order. Decorators are kept
// as written; headers are trimmed to a single line, dropping any multi-line
// signature continuation. Body lines never survive. A file with no
// recognizable headers compresses to an empty outline.
func Compress(text string) []string {
	var out []string
	scan(text, scanEvents{
		onOpen: func(_ scope, header string, _ []scope) {
			out = append(out, header)
		},
		onDecorator: func(line string) {
			out = append(out, line)
		},
	})
	return out
}

func scan(text string, ev scanEvents) {
	lines := splitLines(text)
	var stack []scope
	lastContent := 0

	pop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ev.onClose != nil {
			last := lastContent
			if last < top.start {
				last = top.start
			}
			ev.onClose(top, last)
		}
	}
	open := func(kind scopeKind, header string, start, indent int) {
		sc := scope{kind: kind, name: headerName(header), indent: indent, start: start}
		if ev.onOpen != nil {
			ev.onOpen(sc, header, stack)
		}
		stack = append(stack, sc)
	}

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			// The first blank line after a body closes that body.
			if len(stack) > 0 {
				pop()
			}
			continue
		}

		indent := indentOf(raw)
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			pop()
		}
		lastContent = i + 1

		switch {
		case strings.HasPrefix(trimmed, "@"):
			if ev.onDecorator != nil {
				ev.onDecorator(raw)
			}
		case classHeaderRe.MatchString(trimmed):
			start := i + 1
			i = skipSignature(lines, i)
			lastContent = i + 1
			open(scopeClass, trimmed, start, indent)
		case funcHeaderRe.MatchString(trimmed):
			start := i + 1
			i = skipSignature(lines, i)
			lastContent = i + 1
			open(scopeFunc, trimmed, start, indent)
		default:
			// Body line, elided.
		}
	}

	for len(stack) > 0 {
		pop()
	}
}

// skipSignature advances past the continuation lines of a multi-line
// signature, returning the index of the line that carries the trailing colon.
// Headers already ending in a colon need no skipping.
func skipSignature(lines []string, i int) int {
	if strings.HasSuffix(strings.TrimSpace(lines[i]), ":") {
		return i
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.HasSuffix(strings.TrimSpace(lines[j]), ":") {
			return j
		}
	}
	return i
}

func headerName(trimmed string) string {
	rest := trimmed
	rest = strings.TrimPrefix(rest, "async ")
	rest = strings.TrimPrefix(rest, "def ")
	rest = strings.TrimPrefix(rest, "class ")
	rest = strings.TrimSpace(rest)
	end := len(rest)
	for k, r := range rest {
		if r == '(' || r == ':' || r == ' ' {
			end = k
			break
		}
	}
	return rest[:end]
}

func indentOf(raw string) int {
	n := 0
	for _, r := range raw {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 8
		default:
			return n
		}
	}
	return n
}

// splitLines splits on newlines without producing a phantom trailing line for
// newline-terminated text.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
