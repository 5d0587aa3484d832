package source

import (
	"fmt"
	"strings"
)

// Window returns the text lines covering the 1-based inclusive span
// [start, end] widened by margin lines on each side. Out-of-range bounds are
// clamped to the file, never rejected. When numbered is true each line is
// prefixed with its 1-based line number. The returned bounds are the lines
// actually included; (0, 0) means the file had no lines.
func Window(text string, start, end, margin int, numbered bool) (string, int, int) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return "", 0, 0
	}
	if end < start {
		start, end = end, start
	}
	lo := clampLine(start-margin, len(lines))
	hi := clampLine(end+margin, len(lines))

	var b strings.Builder
	for i := lo; i <= hi; i++ {
		if numbered {
			fmt.Fprintf(&b, "%d: %s\n", i, lines[i-1])
		} else {
			b.WriteString(lines[i-1])
			b.WriteByte('\n')
		}
	}
	return b.String(), lo, hi
}

func clampLine(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
