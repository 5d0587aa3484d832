package source

// Symbol is one class or function found in a file, addressed by its dotted
// qualified name (enclosing classes/functions joined with "."). Start and End
// are 1-based inclusive line bounds covering the header through the last body
// line seen before the scope closed.
type Symbol struct {
	Name  string
	Start int
	End   int
}

// Symbols indexes every class and function in the text, in order of
// appearance. Nested definitions get dotted names (Foo.bar, outer.inner).
func Symbols(text string) []Symbol {
	var syms []Symbol
	var openIdx []int // mirrors the scanner's scope stack

	scan(text, scanEvents{
		onOpen: func(sc scope, _ string, enclosing []scope) {
			name := sc.name
			for i := len(enclosing) - 1; i >= 0; i-- {
				name = enclosing[i].name + "." + name
			}
			openIdx = append(openIdx, len(syms))
			syms = append(syms, Symbol{Name: name, Start: sc.start})
		},
		onClose: func(_ scope, last int) {
			idx := openIdx[len(openIdx)-1]
			openIdx = openIdx[:len(openIdx)-1]
			if syms[idx].End < last {
				syms[idx].End = last
			}
		},
	})
	return syms
}

// FindSymbol resolves name against the index: an exact qualified-name match
// wins; otherwise the first symbol whose qualified name ends in ".name" is
// accepted, so a bare method name still resolves. Returns false when nothing
// matches.
func FindSymbol(syms []Symbol, name string) (Symbol, bool) {
	for _, s := range syms {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range syms {
		if len(s.Name) > len(name) && s.Name[len(s.Name)-len(name):] == name &&
			s.Name[len(s.Name)-len(name)-1] == '.' {
			return s, true
		}
	}
	return Symbol{}, false
}
