package topology

import (
	"fmt"
	"sort"
)

// DiagnosticKind classifies a non-fatal finding.
type DiagnosticKind int

const (
	// DiagnosticUnresolvedSymbols lists expression symbols that no
	// parameter or independent variable supplies. It always precedes an
	// ErrMissingParameters failure.
	DiagnosticUnresolvedSymbols DiagnosticKind = iota + 1

	// DiagnosticExtraneousSymbols lists supplied parameters or independent
	// variables the expression never references.
	DiagnosticExtraneousSymbols

	// DiagnosticMemberTypesChanged records a change to a DihedralType's
	// member types.
	DiagnosticMemberTypesChanged
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticUnresolvedSymbols:
		return "unresolved-symbols"
	case DiagnosticExtraneousSymbols:
		return "extraneous-symbols"
	case DiagnosticMemberTypesChanged:
		return "member-types-changed"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

func (k DiagnosticKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *DiagnosticKind) UnmarshalText(text []byte) error {
	for _, kind := range []DiagnosticKind{DiagnosticUnresolvedSymbols, DiagnosticExtraneousSymbols, DiagnosticMemberTypesChanged} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("topology: unknown diagnostic kind %q", text)
}

// Diagnostic is a warning produced while validating a Potential. The object
// stays usable; callers decide whether to surface it.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Symbols []string       `json:"symbols,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string { return d.Kind.String() + ": " + d.Message }

// Diagnostics is the ordered list of warnings returned by a mutation.
type Diagnostics []Diagnostic

func (ds Diagnostics) Has(kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func (ds Diagnostics) Of(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Symbols returns the sorted, de-duplicated symbols named by diagnostics of
// the given kind.
func (ds Diagnostics) Symbols(kind DiagnosticKind) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range ds.Of(kind) {
		for _, s := range d.Symbols {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}
