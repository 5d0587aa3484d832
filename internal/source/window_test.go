package source

import "testing"

const windowText = "one\ntwo\nthree\nfour\nfive\n"

func TestWindow_ClampsLowBound(t *testing.T) {
	got, lo, hi := Window(windowText, -3, 2, 1, false)
	if lo != 1 {
		t.Fatalf("low bound: got %d want 1", lo)
	}
	if hi != 3 {
		t.Fatalf("high bound: got %d want 3", hi)
	}
	if got != "one\ntwo\nthree\n" {
		t.Fatalf("window text: got %q", got)
	}
}

func TestWindow_ClampsHighBound(t *testing.T) {
	got, lo, hi := Window(windowText, 4, 99, 2, false)
	if lo != 2 || hi != 5 {
		t.Fatalf("bounds: got (%d,%d) want (2,5)", lo, hi)
	}
	if got != "two\nthree\nfour\nfive\n" {
		t.Fatalf("window text: got %q", got)
	}
}

func TestWindow_NumberedOutput(t *testing.T) {
	got, _, _ := Window(windowText, 2, 3, 0, true)
	want := "2: two\n3: three\n"
	if got != want {
		t.Fatalf("numbered window: got %q want %q", got, want)
	}
}

func TestWindow_SwapsReversedBounds(t *testing.T) {
	got, lo, hi := Window(windowText, 3, 2, 0, false)
	if lo != 2 || hi != 3 {
		t.Fatalf("bounds: got (%d,%d) want (2,3)", lo, hi)
	}
	if got != "two\nthree\n" {
		t.Fatalf("window text: got %q", got)
	}
}

func TestWindow_EmptyFile(t *testing.T) {
	got, lo, hi := Window("", 1, 5, 2, true)
	if got != "" || lo != 0 || hi != 0 {
		t.Fatalf("empty file: got (%q,%d,%d)", got, lo, hi)
	}
}
