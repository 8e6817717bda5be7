package topology

import (
	"testing"

	"github.com/njchilds90/topology/symbol"
	"github.com/njchilds90/topology/units"
)

func TestValidateParameters_ReturnsSameMap(t *testing.T) {
	in := map[string]units.Quantity{"a": units.Dimensionless(1)}
	out, err := validateParameters(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out["b"] = units.Dimensionless(2)
	if _, ok := in["b"]; !ok {
		t.Error("validateParameters should return its argument, not a copy")
	}
}

func TestLegacyParameterGuard_NeverFires(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]units.Quantity
		expr   string
	}{
		{"all keys in expression", map[string]units.Quantity{"a": units.Dimensionless(1), "b": units.Dimensionless(1)}, "a*x+b"},
		{"disjoint", map[string]units.Quantity{"c": units.Dimensionless(1)}, "a*x+b"},
		{"empty", map[string]units.Quantity{}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := legacyParameterGuard(tt.params, symbol.MustParse(tt.expr)); err != nil {
				t.Errorf("guard fired: %v", err)
			}
		})
	}
}

func TestValidateExpression(t *testing.T) {
	expr, err := validateExpression(ExprValue{})
	if err != nil || expr != nil {
		t.Errorf("empty ExprValue: want nil, nil; got %v, %v", expr, err)
	}
	expr, err = validateExpression(ExprString("x + x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !symbol.Equal(expr, symbol.MulOf(symbol.N(2), symbol.S("x"))) {
		t.Errorf("want 2*x, got %s", expr)
	}
}

func TestCheckConsistency_IndependentVariableOnlyMismatch(t *testing.T) {
	// P equals F, so a surplus independent variable is tolerated silently.
	p := &Potential{
		expression:           symbol.MustParse("a*b"),
		parameters:           map[string]units.Quantity{"a": units.Dimensionless(1), "b": units.Dimensionless(1)},
		independentVariables: symbol.NewSet("x"),
	}
	diags, err := p.checkConsistency("test")
	if err != nil || len(diags) != 0 {
		t.Errorf("want silent success, got %v %v", diags, err)
	}
}
