package definition_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/njchilds90/topology"
	"github.com/njchilds90/topology/internal/definition"
	"github.com/njchilds90/topology/symbol"
	"github.com/njchilds90/topology/units"
)

func buildFile(t *testing.T, name string) []definition.Result {
	t.Helper()
	doc, err := definition.Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s): %v", name, err)
	}
	return doc.Build()
}

func TestLoad_YAML(t *testing.T) {
	results := buildFile(t, "potentials.yaml")
	if len(results) != 4 {
		t.Fatalf("want 4 entries, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: unexpected error: %v", r.Label(), r.Err)
		}
		if len(r.Diagnostics) != 0 {
			t.Errorf("%s: unexpected diagnostics %v", r.Label(), r.Diagnostics)
		}
	}

	if got := results[0].Potential; got.Name() != "linear" || !symbol.Equal(got.Expression(), symbol.MustParse("a*x+b")) {
		t.Errorf("defaults not applied: %s %s", got.Name(), got.Expression())
	}

	bond := results[1].Potential.Parameters()
	if !bond["k"].Equal(units.MustNew(1000, "kJ/mol/nm**2")) || !bond["r_eq"].Equal(units.MustNew(1, "angstrom")) {
		t.Errorf("unexpected bond parameters %v", bond)
	}

	dih := results[2]
	if dih.Dihedral == nil || dih.Potential != dih.Dihedral.Potential {
		t.Fatal("dihedral entry should set both Dihedral and Potential")
	}
	if !slices.Equal(dih.Dihedral.MemberTypes(), []string{"c", "c", "o", "h"}) {
		t.Errorf("unexpected member types %v", dih.Dihedral.MemberTypes())
	}

	lj := results[3].Potential
	if lj.Name() != "LJ" {
		t.Errorf("want LJ, got %s", lj.Name())
	}
	if got := lj.Parameters(); !got["epsilon"].Equal(units.MustNew(0.65, "kJ/mol")) || !got["sigma"].Equal(units.MustNew(0.3, "nm")) {
		t.Errorf("template parameters not overlaid: %v", got)
	}
}

func TestLoad_TOML(t *testing.T) {
	results := buildFile(t, "potentials.toml")
	if len(results) != 2 {
		t.Fatalf("want 2 entries, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil || len(r.Diagnostics) != 0 {
			t.Errorf("%s: want silent success, got %v %v", r.Label(), r.Diagnostics, r.Err)
		}
	}
	if got := results[0].Potential.IndependentVariables(); !got.Equal(symbol.NewSet("theta")) {
		t.Errorf("want {theta}, got %s", got)
	}
	if results[1].Potential.Name() != topology.DefaultDihedralName {
		t.Errorf("want default dihedral name, got %s", results[1].Potential.Name())
	}
}

func TestLoad_JSON(t *testing.T) {
	results := buildFile(t, "potentials.json")
	if len(results) != 2 {
		t.Fatalf("want 2 entries, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil || len(r.Diagnostics) != 0 {
			t.Errorf("%s: want silent success, got %v %v", r.Label(), r.Diagnostics, r.Err)
		}
	}
	if got := results[0].Potential.FreeSymbols(); !got.Equal(symbol.NewSet("A", "B", "C", "r")) {
		t.Errorf("unexpected free symbols %s", got)
	}
}

func TestLoad_Broken(t *testing.T) {
	results := buildFile(t, "broken.yaml")
	if len(results) != 4 {
		t.Fatalf("want 4 entries, got %d", len(results))
	}

	if !errors.Is(results[0].Err, topology.ErrInvalidParameters) {
		t.Errorf("unitless: want ErrInvalidParameters, got %v", results[0].Err)
	}
	if !strings.Contains(results[0].Err.Error(), "lacks a unit") {
		t.Errorf("unitless: unexpected message %q", results[0].Err)
	}

	missing := results[1]
	if !errors.Is(missing.Err, topology.ErrMissingParameters) {
		t.Errorf("missing: want ErrMissingParameters, got %v", missing.Err)
	}
	if !missing.Diagnostics.Has(topology.DiagnosticUnresolvedSymbols) {
		t.Errorf("missing: want unresolved diagnostic, got %v", missing.Diagnostics)
	}
	if missing.Label() != "missing" {
		t.Errorf("want label from entry name, got %s", missing.Label())
	}

	extra := results[2]
	if extra.Err != nil {
		t.Errorf("extraneous: unexpected error %v", extra.Err)
	}
	if got := extra.Diagnostics.Symbols(topology.DiagnosticExtraneousSymbols); !slices.Equal(got, []string{"c"}) {
		t.Errorf("extraneous: want [c], got %v", got)
	}

	if !errors.Is(results[3].Err, definition.ErrUnknownKind) {
		t.Errorf("torsion: want ErrUnknownKind, got %v", results[3].Err)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format definition.Format
		want   error
	}{
		{"unknown format", "{}", definition.Format("xml"), definition.ErrUnknownFormat},
		{"unknown json field", `{"potentials": [{"nmae": "x"}]}`, definition.FormatJSON, nil},
		{"bad yaml", "potentials: [", definition.FormatYAML, nil},
		{"bad toml", "[[potentials]\nname=", definition.FormatTOML, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definition.Decode(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEntry_Build_Variables(t *testing.T) {
	tests := []struct {
		name string
		vars any
		want error
	}{
		{"string", "x", nil},
		{"list", []any{"x"}, nil},
		{"mixed list", []any{"x", 1}, topology.ErrInvalidIndependentVariables},
		{"number", 7, topology.ErrInvalidIndependentVariables},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := definition.Entry{IndependentVariables: tt.vars}.Build()
			if tt.want == nil && res.Err != nil {
				t.Errorf("unexpected error %v", res.Err)
			}
			if tt.want != nil && !errors.Is(res.Err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, res.Err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want definition.Format
	}{
		{"a.yaml", definition.FormatYAML},
		{"a.YML", definition.FormatYAML},
		{"dir/a.toml", definition.FormatTOML},
		{"a.json", definition.FormatJSON},
	}
	for _, tt := range tests {
		got, err := definition.FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("%s: want %s, got %s (%v)", tt.path, tt.want, got, err)
		}
	}
	if _, err := definition.FormatFromPath("a.txt"); !errors.Is(err, definition.ErrUnknownFormat) {
		t.Errorf("want ErrUnknownFormat, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := definition.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want os.ErrNotExist, got %v", err)
	}
}
