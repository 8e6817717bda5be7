package topology_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/njchilds90/topology"
	"github.com/njchilds90/topology/symbol"
	"github.com/njchilds90/topology/units"
)

func TestNewDihedralType_Defaults(t *testing.T) {
	d, diags, err := topology.NewDihedralType(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("want no diagnostics, got %v", diags)
	}
	if d.Name() != "DihedralType" {
		t.Errorf("want DihedralType, got %s", d.Name())
	}
	if got := d.MemberTypes(); got == nil || len(got) != 0 {
		t.Errorf("want empty member types, got %#v", got)
	}
	if got := d.FreeSymbols(); !got.Equal(symbol.NewSet("k", "n", "phi", "phi_eq")) {
		t.Errorf("unexpected free symbols %s", got)
	}
	if got := d.Parameters()["phi_eq"]; !got.Equal(units.MustNew(180, "deg")) {
		t.Errorf("want phi_eq = 180 deg, got %s", got)
	}
}

func TestNewDihedralType_MemberTypes(t *testing.T) {
	tests := []struct {
		name    string
		types   []string
		wantErr bool
	}{
		{"none", []string{}, false},
		{"four", []string{"c", "c", "h", "h"}, false},
		{"two", []string{"c", "h"}, true},
		{"five", []string{"c", "c", "c", "c", "c"}, true},
		{"empty name", []string{"c", "", "h", "h"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, err := topology.NewDihedralType(tt.types)
			if tt.wantErr {
				if !errors.Is(err, topology.ErrInvalidMemberTypes) {
					t.Errorf("want ErrInvalidMemberTypes, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(d.MemberTypes(), tt.types) {
				t.Errorf("want %v, got %v", tt.types, d.MemberTypes())
			}
		})
	}
}

func TestNewDihedralType_Options(t *testing.T) {
	d, _, err := topology.NewDihedralType([]string{"a", "b", "c", "d"},
		topology.WithName("RB"),
		topology.WithExpression(topology.ExprString("c0 + c1*cos(phi)")),
		topology.WithParameters(map[string]units.Quantity{
			"c0": units.MustNew(1, "kJ/mol"),
			"c1": units.MustNew(2, "kJ/mol"),
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name() != "RB" {
		t.Errorf("want RB, got %s", d.Name())
	}
}

func TestNewDihedralType_ConsistencyFailure(t *testing.T) {
	_, _, err := topology.NewDihedralType(nil, topology.WithIndependentVariables(topology.VarName("psi")))
	if !errors.Is(err, topology.ErrMissingParameters) {
		t.Errorf("want ErrMissingParameters, got %v", err)
	}
}

func TestSetMemberTypes(t *testing.T) {
	d, _, err := topology.NewDihedralType(nil)
	if err != nil {
		t.Fatal(err)
	}

	diags, err := d.SetMemberTypes([]string{"c", "c", "o", "h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diags.Has(topology.DiagnosticMemberTypesChanged) {
		t.Errorf("want member-types-changed diagnostic, got %v", diags)
	}

	diags, err = d.SetMemberTypes([]string{"c", "c", "o", "h"})
	if err != nil || len(diags) != 0 {
		t.Errorf("unchanged member types: want silent success, got %v %v", diags, err)
	}

	diags, err = d.SetMemberTypes([]string{"c"})
	if !errors.Is(err, topology.ErrInvalidMemberTypes) {
		t.Errorf("want ErrInvalidMemberTypes, got %v", err)
	}
	if !diags.Has(topology.DiagnosticMemberTypesChanged) {
		t.Error("change is reported before validation")
	}
	if !slices.Equal(d.MemberTypes(), []string{"c", "c", "o", "h"}) {
		t.Errorf("invalid member types stored: %v", d.MemberTypes())
	}
}

func TestDihedralType_MemberTypesSnapshot(t *testing.T) {
	d, _, err := topology.NewDihedralType([]string{"c", "c", "o", "h"})
	if err != nil {
		t.Fatal(err)
	}
	d.MemberTypes()[0] = "x"
	if d.MemberTypes()[0] != "c" {
		t.Error("MemberTypes returned internal slice")
	}
}

func TestDihedralType_EqualAndString(t *testing.T) {
	a, _, _ := topology.NewDihedralType(nil)
	b, _, _ := topology.NewDihedralType([]string{"c", "c", "c", "c"})
	if !a.Equal(b) {
		t.Error("member types are not part of equality")
	}
	if s := a.String(); !strings.HasPrefix(s, "<DihedralType DihedralType, id ") {
		t.Errorf("unexpected representation %q", s)
	}
}

func TestDihedralType_InheritsPotential(t *testing.T) {
	d, _, _ := topology.NewDihedralType(nil)
	diags, err := d.SetParameters(map[string]units.Quantity{"n": units.Dimensionless(3)})
	if err != nil || len(diags) != 0 {
		t.Fatalf("want silent success, got %v %v", diags, err)
	}
	if got := d.Parameters()["n"]; !got.Equal(units.Dimensionless(3)) {
		t.Errorf("want n = 3, got %s", got)
	}
}
