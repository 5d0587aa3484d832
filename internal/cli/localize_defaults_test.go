package cli

import (
	"bytes"
	"strings"
	"testing"

	"testboost/internal/flags"
)

func TestLocalizeFlags_Defaults(t *testing.T) {
	defaults := map[string]string{
		flags.FlagTask:          "",
		flags.FlagRepoRoot:      "",
		flags.FlagRepo:          "",
		flags.FlagModel:         "gemini-2.5-flash",
		flags.FlagMaxCandidates: "3",
		flags.FlagWindow:        "10",
		flags.FlagResultsDir:    "results",
		flags.FlagNoInject:      "false",
		flags.FlagTimeout:       "10m0s",
	}
	for name, want := range defaults {
		f := localizeCmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("localize is missing flag --%s", name)
		}
		if f.DefValue != want {
			t.Fatalf("flag --%s default = %q, want %q", name, f.DefValue, want)
		}
	}
}

func TestBatchFlags_Defaults(t *testing.T) {
	defaults := map[string]string{
		flags.FlagTasksDir:    "",
		flags.FlagConcurrency: "2",
		flags.FlagResultsDir:  "results",
	}
	for name, want := range defaults {
		f := batchCmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("batch is missing flag --%s", name)
		}
		if f.DefValue != want {
			t.Fatalf("flag --%s default = %q, want %q", name, f.DefValue, want)
		}
	}
}

func TestLocalizeHelp_DocumentsEnvironmentAndExitCodes(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"localize", "--help"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("localize --help failed: %v; output=%s", err, buf.String())
	}

	s := buf.String()
	// Regression guard: command help must keep documenting credentials and
	// exit status semantics.
	required := []string{
		"Environment:",
		"GEMINI_API_KEY",
		"GITHUB_TOKEN",
		"Exit codes:",
		"1 = a stage produced no candidates",
	}
	for _, r := range required {
		if !strings.Contains(s, r) {
			t.Fatalf("expected localize --help to contain %q; output=%s", r, s)
		}
	}
}
