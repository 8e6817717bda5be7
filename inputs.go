package topology

import (
	"fmt"
	"sort"

	"github.com/njchilds90/topology/symbol"
	"github.com/njchilds90/topology/units"
)

// ============================================================
// Expression input
// ============================================================

// ExpressionSource is one of ExprString or ExprValue. A nil source means
// "no expression".
type ExpressionSource interface{ isExpressionSource() }

// ExprString is a formula to be parsed with symbol.Parse.
type ExprString string

// ExprValue is an already parsed expression.
type ExprValue struct{ Expr symbol.Expr }

func (ExprString) isExpressionSource() {}
func (ExprValue) isExpressionSource()  {}

// ExprOf wraps a parsed expression.
func ExprOf(e symbol.Expr) ExprValue { return ExprValue{Expr: e} }

// ExpressionFrom converts loosely typed input (decoded documents, request
// bodies) into an ExpressionSource. Accepted: nil, string, symbol.Expr or an
// ExpressionSource.
func ExpressionFrom(v any) (ExpressionSource, error) {
	switch e := v.(type) {
	case nil:
		return nil, nil
	case ExpressionSource:
		return e, nil
	case string:
		return ExprString(e), nil
	case symbol.Expr:
		return ExprValue{Expr: e}, nil
	}
	return nil, fmt.Errorf("%w: please enter a string, a parsed expression, or nothing; got %T", ErrInvalidExpression, v)
}

// ============================================================
// Independent variable input
// ============================================================

// Variables is one of VarName, VarSymbol, VarNames or VarSymbols. The
// variants are homogeneous by construction; mixed collections can only
// arrive through VariablesFrom, which rejects them.
type Variables interface{ isVariables() }

type (
	VarName    string
	VarSymbol  struct{ Sym *symbol.Sym }
	VarNames   []string
	VarSymbols []*symbol.Sym
)

func (VarName) isVariables()    {}
func (VarSymbol) isVariables()  {}
func (VarNames) isVariables()   {}
func (VarSymbols) isVariables() {}

// Var wraps a single symbol.
func Var(s *symbol.Sym) VarSymbol { return VarSymbol{Sym: s} }

// VariablesFrom converts loosely typed input into Variables. Accepted: a
// string, a *symbol.Sym, []string, []*symbol.Sym, symbol.Set, or []any whose
// elements are all strings or all symbols.
func VariablesFrom(v any) (Variables, error) {
	switch vs := v.(type) {
	case Variables:
		return vs, nil
	case string:
		return VarName(vs), nil
	case *symbol.Sym:
		return VarSymbol{Sym: vs}, nil
	case []string:
		return VarNames(vs), nil
	case []*symbol.Sym:
		return VarSymbols(vs), nil
	case symbol.Set:
		return VarNames(vs.Names()), nil
	case []any:
		return variablesFromSlice(vs)
	}
	return nil, fmt.Errorf("%w: please enter a name, a symbol, or a list thereof; got %T", ErrInvalidIndependentVariables, v)
}

func variablesFromSlice(vs []any) (Variables, error) {
	names := make(VarNames, 0, len(vs))
	syms := make(VarSymbols, 0, len(vs))
	for _, item := range vs {
		switch it := item.(type) {
		case string:
			names = append(names, it)
		case *symbol.Sym:
			syms = append(syms, it)
		default:
			return nil, fmt.Errorf("%w: element %v (%T) is neither a name nor a symbol", ErrInvalidIndependentVariables, item, item)
		}
	}
	switch {
	case len(syms) == 0:
		return names, nil
	case len(names) == 0:
		return syms, nil
	}
	return nil, fmt.Errorf("%w: list mixes names and symbols; please enter only names or only symbols", ErrInvalidIndependentVariables)
}

// ============================================================
// Parameter input
// ============================================================

// ParametersFrom converts loosely typed parameter values into quantities.
// Strings are parsed with units.Parse ("1000 kJ/mol"); bare numbers are
// rejected because they carry no unit.
func ParametersFrom(raw map[string]any) (map[string]units.Quantity, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: please enter a mapping for parameters", ErrInvalidParameters)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]units.Quantity, len(raw))
	for _, key := range keys {
		switch v := raw[key].(type) {
		case units.Quantity:
			out[key] = v
		case string:
			q, err := units.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("%w: parameter %s: %w", ErrInvalidParameters, key, err)
			}
			out[key] = q
		case int, int64, float64:
			return nil, fmt.Errorf("%w: parameter value %v for %s lacks a unit", ErrInvalidParameters, v, key)
		default:
			return nil, fmt.Errorf("%w: parameter %s has unsupported value %v (%T)", ErrInvalidParameters, key, v, v)
		}
	}
	return out, nil
}
