// Package prompt builds the stage prompts sent to the generative service.
//
// Every prompt follows the same section order: instruction header, contextual
// artifact, issue description, existing test patch, output-format instruction
// with one concrete example line. The order is deliberate; the trailing
// format instruction keeps responses parseable more often than not.
package prompt

import (
	"fmt"
	"strings"
)

// Inputs carries the immutable request text included in every stage prompt.
type Inputs struct {
	Issue     string
	TestPatch string
}

// FileSkeleton is one candidate file's compressed structural outline.
type FileSkeleton struct {
	Path    string
	Outline []string
}

// SymbolWindow is the source context extracted around one candidate symbol.
type SymbolWindow struct {
	Name string
	Path string
	Text string
}

// FileStage asks for up to n repository files worth covering with new tests,
// given the rendered repository tree.
func FileStage(tree string, in Inputs, n int) string {
	return join(
		"You are localizing where new test coverage should be added for a software change.\n"+
			"Given the repository layout, the issue, and the existing test patch, pick the\n"+
			fmt.Sprintf("source files (not test files) most in need of additional coverage. At most %d.", n),
		section("Repository layout", tree),
		section("Issue", in.Issue),
		section("Existing test patch", in.TestPatch),
		"Answer with one bulleted file path per line, most relevant first, nothing else.\n"+
			"Example:\n- path/to/module.py (handles the buggy parsing)",
	)
}

// FunctionStage asks for up to n functions or classes inside the candidate
// files, given their compressed skeletons.
func FunctionStage(skeletons []FileSkeleton, in Inputs, n int) string {
	var b strings.Builder
	for _, sk := range skeletons {
		fmt.Fprintf(&b, "### %s\n", sk.Path)
		if len(sk.Outline) == 0 {
			b.WriteString("(no classes or functions)\n")
		}
		for _, line := range sk.Outline {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return join(
		"You are narrowing test-coverage localization from files to functions.\n"+
			"The outlines below show every class and function in the candidate files.\n"+
			fmt.Sprintf("Pick the functions or classes that new tests should target. At most %d.", n),
		section("File outlines", b.String()),
		section("Issue", in.Issue),
		section("Existing test patch", in.TestPatch),
		"Answer with one bulleted qualified name per line, most relevant first, nothing else.\n"+
			"Example:\n- ClassName.method_name (raises the reported error)",
	)
}

// LineStage asks for exact line ranges inside the candidate symbols, shown
// with numbered context windows.
func LineStage(windows []SymbolWindow, in Inputs, n int) string {
	var b strings.Builder
	for _, w := range windows {
		fmt.Fprintf(&b, "### %s (%s)\n%s\n", w.Name, w.Path, w.Text)
	}
	return join(
		"You are choosing the exact source lines new tests must exercise.\n"+
			"Line numbers are shown; ranges are inclusive.\n"+
			fmt.Sprintf("Report at most %d ranges.", n),
		section("Candidate code", b.String()),
		section("Issue", in.Issue),
		section("Existing test patch", in.TestPatch),
		"Answer with one \"qualified_name: start-end\" per line, most relevant first, nothing else.\n"+
			"Example:\nClassName.method_name: 120-145",
	)
}

// TestGeneration asks for the test code itself, given the finally selected
// code windows.
func TestGeneration(windows []SymbolWindow, in Inputs) string {
	var b strings.Builder
	for _, w := range windows {
		fmt.Fprintf(&b, "### %s (%s)\n%s\n", w.Name, w.Path, w.Text)
	}
	return join(
		"Write additional unit tests covering the code below. The tests must be\n"+
			"self-contained, runnable as written, and must not duplicate the existing\n"+
			"test patch.",
		section("Code under test", b.String()),
		section("Issue", in.Issue),
		section("Existing test patch", in.TestPatch),
		"Answer with test code only, no prose and no code fences.",
	)
}

func section(title, body string) string {
	return "## " + title + "\n" + strings.TrimRight(body, "\n")
}

func join(sections ...string) string {
	return strings.Join(sections, "\n\n") + "\n"
}
