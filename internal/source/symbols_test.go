package source

import (
	"reflect"
	"testing"
)

func TestSymbols_DottedNamesAndSpans(t *testing.T) {
	text := "class Foo:\n" +
		"    def bar(self):\n" +
		"        pass\n" +
		"\n" +
		"def baz():\n" +
		"    return 1\n"

	got := Symbols(text)
	want := []Symbol{
		{Name: "Foo", Start: 1, End: 3},
		{Name: "Foo.bar", Start: 2, End: 3},
		{Name: "baz", Start: 5, End: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Symbols() = %+v, want %+v", got, want)
	}
}

func TestSymbols_NestedFunctions(t *testing.T) {
	text := "def outer():\n" +
		"    def inner():\n" +
		"        return 2\n" +
		"    return inner\n"

	got := Symbols(text)
	want := []Symbol{
		{Name: "outer", Start: 1, End: 4},
		{Name: "outer.inner", Start: 2, End: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Symbols() = %+v, want %+v", got, want)
	}
}

func TestSymbols_EmptyText(t *testing.T) {
	if got := Symbols(""); len(got) != 0 {
		t.Fatalf("expected no symbols for empty text, got %+v", got)
	}
}

func TestFindSymbol(t *testing.T) {
	syms := []Symbol{
		{Name: "Foo", Start: 1, End: 10},
		{Name: "Foo.bar", Start: 2, End: 5},
		{Name: "Baz.bar", Start: 12, End: 15},
	}

	cases := []struct {
		name     string
		lookup   string
		want     string
		wantHit  bool
	}{
		{"exact qualified", "Foo.bar", "Foo.bar", true},
		{"bare method resolves to first match", "bar", "Foo.bar", true},
		{"exact class", "Foo", "Foo", true},
		{"partial suffix without dot boundary", "o.bar", "", false},
		{"unknown", "quux", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FindSymbol(syms, tc.lookup)
			if ok != tc.wantHit {
				t.Fatalf("FindSymbol(%q) hit = %v, want %v", tc.lookup, ok, tc.wantHit)
			}
			if ok && got.Name != tc.want {
				t.Fatalf("FindSymbol(%q) = %q, want %q", tc.lookup, got.Name, tc.want)
			}
		})
	}
}
