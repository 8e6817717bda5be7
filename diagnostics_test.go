package topology_test

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/njchilds90/topology"
)

func TestDiagnosticKind_String(t *testing.T) {
	tests := []struct {
		kind topology.DiagnosticKind
		want string
	}{
		{topology.DiagnosticUnresolvedSymbols, "unresolved-symbols"},
		{topology.DiagnosticExtraneousSymbols, "extraneous-symbols"},
		{topology.DiagnosticMemberTypesChanged, "member-types-changed"},
		{topology.DiagnosticKind(99), "DiagnosticKind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("want %s, got %s", tt.want, got)
		}
	}
}

func TestDiagnostics_Query(t *testing.T) {
	diags := topology.Diagnostics{
		{Kind: topology.DiagnosticExtraneousSymbols, Symbols: []string{"z", "c"}},
		{Kind: topology.DiagnosticUnresolvedSymbols, Symbols: []string{"q"}},
		{Kind: topology.DiagnosticExtraneousSymbols, Symbols: []string{"c", "d"}},
	}
	if !diags.Has(topology.DiagnosticUnresolvedSymbols) {
		t.Error("want unresolved diagnostic")
	}
	if diags.Has(topology.DiagnosticMemberTypesChanged) {
		t.Error("unexpected member-types diagnostic")
	}
	if got := len(diags.Of(topology.DiagnosticExtraneousSymbols)); got != 2 {
		t.Errorf("want 2 extraneous diagnostics, got %d", got)
	}
	if got := diags.Symbols(topology.DiagnosticExtraneousSymbols); !slices.Equal(got, []string{"c", "d", "z"}) {
		t.Errorf("want [c d z], got %v", got)
	}
}

func TestDiagnostic_JSON(t *testing.T) {
	_, diags, err := topology.New(topology.WithParameters(dimensionless("a", "b", "c")))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(diags)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"kind":"extraneous-symbols"`) || !strings.Contains(s, `"symbols":["c"]`) {
		t.Errorf("unexpected JSON %s", s)
	}
	if !strings.HasPrefix(diags[0].String(), "extraneous-symbols: ") {
		t.Errorf("unexpected diagnostic string %q", diags[0].String())
	}
}

func TestSymbolError(t *testing.T) {
	err := error(&topology.SymbolError{
		Op:      "set expression",
		Symbols: []string{"a", "b"},
		Err:     topology.ErrParameterOverlap,
	})
	want := "set expression: topology: parameters include no names found in the current parameters: {a, b}"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
	if !errors.Is(err, topology.ErrParameterOverlap) {
		t.Error("SymbolError should unwrap to its sentinel")
	}
}

func TestDiagnosticKind_UnmarshalText(t *testing.T) {
	var d topology.Diagnostic
	if err := json.Unmarshal([]byte(`{"kind":"member-types-changed","message":"m"}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Kind != topology.DiagnosticMemberTypesChanged {
		t.Errorf("want member-types-changed, got %s", d.Kind)
	}
	if err := json.Unmarshal([]byte(`{"kind":"bogus"}`), &d); err == nil {
		t.Error("want error for unknown kind")
	}
}
