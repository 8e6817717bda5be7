package symbol

import (
	"sort"
	"strings"
)

// Set is a set of symbol names.
type Set map[string]struct{}

func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s Set) Add(name string)      { s[name] = struct{}{} }
func (s Set) Has(name string) bool { _, ok := s[name]; return ok }
func (s Set) Len() int             { return len(s) }

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

func (s Set) Union(other Set) Set {
	out := s.Clone()
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

func (s Set) Intersection(other Set) Set {
	out := Set{}
	for n := range s {
		if other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Difference returns the names in s that are not in other.
func (s Set) Difference(other Set) Set {
	out := Set{}
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

func (s Set) SymmetricDifference(other Set) Set {
	return s.Difference(other).Union(other.Difference(s))
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

func (s Set) IsDisjoint(other Set) bool {
	for n := range s {
		if other.Has(n) {
			return false
		}
	}
	return true
}

// Names returns the members in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Symbols returns the members as symbols, sorted by name.
func (s Set) Symbols() []*Sym {
	names := s.Names()
	out := make([]*Sym, len(names))
	for i, n := range names {
		out[i] = S(n)
	}
	return out
}

func (s Set) String() string { return "{" + strings.Join(s.Names(), ", ") + "}" }
