package topology

import (
	"fmt"
	"sort"

	"github.com/njchilds90/topology/symbol"
	"github.com/njchilds90/topology/units"
)

// validateParameters checks that every key names a symbol and every value
// carries a unit. The map itself is returned on success, not a copy.
func validateParameters(params map[string]units.Quantity) (map[string]units.Quantity, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: please enter a mapping for parameters", ErrInvalidParameters)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !symbol.IsIdentifier(key) {
			return nil, fmt.Errorf("%w: parameter key %q is not a symbol name", ErrInvalidParameters, key)
		}
		if val := params[key]; !val.Tagged() {
			return nil, fmt.Errorf("%w: parameter value %v for %s lacks a unit", ErrInvalidParameters, val, key)
		}
	}
	return params, nil
}

func validateIndependentVariables(vars Variables) (symbol.Set, error) {
	out := symbol.Set{}
	addName := func(name string) error {
		if !symbol.IsIdentifier(name) {
			return fmt.Errorf("%w: %q is not a symbol name", ErrInvalidIndependentVariables, name)
		}
		out.Add(name)
		return nil
	}
	addSym := func(s *symbol.Sym) error {
		if s == nil {
			return fmt.Errorf("%w: nil symbol", ErrInvalidIndependentVariables)
		}
		return addName(s.Name())
	}

	switch v := vars.(type) {
	case VarName:
		if err := addName(string(v)); err != nil {
			return nil, err
		}
	case VarSymbol:
		if err := addSym(v.Sym); err != nil {
			return nil, err
		}
	case VarNames:
		for _, name := range v {
			if err := addName(name); err != nil {
				return nil, err
			}
		}
	case VarSymbols:
		for _, s := range v {
			if err := addSym(s); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: please enter a name, a symbol, or a list thereof", ErrInvalidIndependentVariables)
	}
	return out, nil
}

// validateExpression normalizes src. A nil source yields a nil expression.
func validateExpression(src ExpressionSource) (symbol.Expr, error) {
	switch e := src.(type) {
	case nil:
		return nil, nil
	case ExprValue:
		if e.Expr == nil {
			return nil, nil
		}
		return e.Expr.Simplify(), nil
	case ExprString:
		expr, err := symbol.Parse(string(e))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}
		return expr, nil
	}
	return nil, fmt.Errorf("%w: please enter a string, a parsed expression, or nothing", ErrInvalidExpression)
}

// checkConsistency compares the expression's free symbols against the
// supplied parameters and independent variables.
func (p *Potential) checkConsistency(op string) (Diagnostics, error) {
	var diags Diagnostics

	params := symbol.NewSet(parameterNames(p.parameters)...)
	vars := p.independentVariables
	used := params.Union(vars)
	free := symbol.FreeSymbols(p.expression)

	if unresolved := free.Difference(used); unresolved.Len() > 0 {
		diags = append(diags, Diagnostic{
			Kind:    DiagnosticUnresolvedSymbols,
			Symbols: unresolved.Names(),
			Message: fmt.Sprintf("expression uses symbols %s that no parameter or independent variable supplies", unresolved),
		})
	}

	if used.Equal(free) || params.Equal(free) {
		return diags, nil
	}
	if missing := free.Difference(params).Difference(vars); missing.Len() > 0 {
		return diags, &SymbolError{Op: op, Symbols: missing.Names(), Err: ErrMissingParameters}
	}
	extra := used.Difference(free)
	diags = append(diags, Diagnostic{
		Kind:    DiagnosticExtraneousSymbols,
		Symbols: extra.Names(),
		Message: fmt.Sprintf("expression and parameter symbols do not agree, extraneous symbols: %s", extra),
	})
	return diags, nil
}

// legacyParameterGuard keeps the historical collision check of the combined
// update. It looks the expression's symbol values up among the raw string
// keys, so the lookup never matches and the guard never fires. Flipping the
// comparison to names would make it reject every ordinary update; confirm
// against real callers before changing it.
func legacyParameterGuard(params map[string]units.Quantity, expr symbol.Expr) error {
	keys := make(map[any]struct{}, len(params))
	for k := range params {
		keys[k] = struct{}{}
	}
	free := symbol.FreeSymbols(expr)
	var hits []string
	for _, s := range free.Symbols() {
		if _, ok := keys[s]; ok {
			hits = append(hits, s.Name())
		}
	}
	if len(hits) > 0 {
		return &SymbolError{Op: "set expression", Symbols: hits, Err: ErrParameterSymbolCollision}
	}
	return nil
}

func parameterNames(params map[string]units.Quantity) []string {
	out := make([]string, 0, len(params))
	for k := range params {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
