// Package topology models interaction potentials of a molecular topology.
//
// A Potential is a symbolic expression together with its unit-tagged
// parameters and the set of independent variables it is evaluated over.
// Every mutation re-checks that the three agree:
//   - Symbols supplied but never referenced produce Diagnostics
//   - Symbols referenced but never supplied fail with ErrMissingParameters
//   - Failed updates are not rolled back
package topology

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/njchilds90/topology/symbol"
	"github.com/njchilds90/topology/units"
)

// ============================================================
// Potential
// ============================================================

type Potential struct {
	id                   uuid.UUID
	name                 string
	expression           symbol.Expr
	parameters           map[string]units.Quantity
	independentVariables symbol.Set
}

const (
	DefaultName       = "Potential"
	DefaultExpression = "a*x+b"
)

func defaultParameters() map[string]units.Quantity {
	return map[string]units.Quantity{
		"a": units.Dimensionless(1.0),
		"b": units.Dimensionless(1.0),
	}
}

type config struct {
	name       string
	expression ExpressionSource
	parameters map[string]units.Quantity
	variables  Variables
}

// Option overrides one constructor default.
type Option func(*config)

func WithName(name string) Option { return func(c *config) { c.name = name } }

// WithExpression sets the expression. A nil source leaves the Potential
// without an expression.
func WithExpression(src ExpressionSource) Option {
	return func(c *config) { c.expression = src }
}

func WithParameters(params map[string]units.Quantity) Option {
	return func(c *config) { c.parameters = params }
}

// MergeParameters overlays params on the parameters chosen so far instead
// of replacing them. Useful for adjusting a Template.
func MergeParameters(params map[string]units.Quantity) Option {
	return func(c *config) {
		merged := make(map[string]units.Quantity, len(c.parameters)+len(params))
		maps.Copy(merged, c.parameters)
		maps.Copy(merged, params)
		c.parameters = merged
	}
}

func WithIndependentVariables(vars Variables) Option {
	return func(c *config) { c.variables = vars }
}

// New builds a Potential. Without options it is the linear form a*x+b with
// dimensionless a and b over x.
func New(opts ...Option) (*Potential, Diagnostics, error) {
	cfg := config{
		name:       DefaultName,
		expression: ExprString(DefaultExpression),
		parameters: defaultParameters(),
		variables:  VarName("x"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return build(cfg)
}

func build(cfg config) (*Potential, Diagnostics, error) {
	params, err := validateParameters(cfg.parameters)
	if err != nil {
		return nil, nil, err
	}
	vars, err := validateIndependentVariables(cfg.variables)
	if err != nil {
		return nil, nil, err
	}
	expr, err := validateExpression(cfg.expression)
	if err != nil {
		return nil, nil, err
	}

	p := &Potential{
		id:                   uuid.New(),
		name:                 cfg.name,
		expression:           expr,
		parameters:           maps.Clone(params),
		independentVariables: vars,
	}
	diags, err := p.checkConsistency("new potential")
	if err != nil {
		return nil, diags, err
	}
	return p, diags, nil
}

// ============================================================
// Accessors
// ============================================================

func (p *Potential) ID() uuid.UUID    { return p.id }
func (p *Potential) Name() string     { return p.name }
func (p *Potential) SetName(n string) { p.name = n }

// Expression returns the stored expression, or nil.
func (p *Potential) Expression() symbol.Expr { return p.expression }

// Parameters returns a snapshot of the parameters. Changing the returned
// map does not affect p; use SetParameters.
func (p *Potential) Parameters() map[string]units.Quantity { return maps.Clone(p.parameters) }

func (p *Potential) IndependentVariables() symbol.Set { return p.independentVariables.Clone() }

// FreeSymbols returns the symbols referenced by the expression.
func (p *Potential) FreeSymbols() symbol.Set { return symbol.FreeSymbols(p.expression) }

// ============================================================
// Setters
// ============================================================

// SetParameters merges params into the stored parameters and re-checks the
// expression. Keys not named in params keep their values.
func (p *Potential) SetParameters(params map[string]units.Quantity) (Diagnostics, error) {
	params, err := validateParameters(params)
	if err != nil {
		return nil, err
	}
	maps.Copy(p.parameters, params)
	return p.checkConsistency("set parameters")
}

// SetIndependentVariables replaces the independent variables. It does not
// re-check the expression; the next SetParameters or expression update
// will.
func (p *Potential) SetIndependentVariables(vars Variables) error {
	set, err := validateIndependentVariables(vars)
	if err != nil {
		return err
	}
	p.independentVariables = set
	return nil
}

// ReplaceExpression swaps the expression and re-checks it against the
// current parameters and independent variables.
func (p *Potential) ReplaceExpression(src ExpressionSource) (Diagnostics, error) {
	expr, err := validateExpression(src)
	if err != nil {
		return nil, err
	}
	p.expression = expr
	return p.checkConsistency("set expression")
}

// ExpressionUpdate is the argument of SetExpression. Nil fields are left
// unchanged.
type ExpressionUpdate struct {
	Expression           ExpressionSource
	Parameters           map[string]units.Quantity
	IndependentVariables Variables
}

// SetExpression updates expression, parameters and independent variables
// together. Supplied parameters must share a name with the current ones
// unless a new expression is supplied as well. Fields are assigned in
// order, so a failure can leave earlier fields updated.
func (p *Potential) SetExpression(u ExpressionUpdate) (Diagnostics, error) {
	const op = "set expression"

	if u.Expression != nil {
		expr, err := validateExpression(u.Expression)
		if err != nil {
			return nil, err
		}
		p.expression = expr
	}

	params := p.parameters
	if u.Parameters != nil {
		validated, err := validateParameters(u.Parameters)
		if err != nil {
			return nil, err
		}
		if u.Expression == nil && !sharesKey(p.parameters, validated) {
			return nil, &SymbolError{Op: op, Symbols: parameterNames(p.parameters), Err: ErrParameterOverlap}
		}
		maps.Copy(p.parameters, validated)
		params = validated
	}

	if u.IndependentVariables != nil {
		set, err := validateIndependentVariables(u.IndependentVariables)
		if err != nil {
			return nil, err
		}
		p.independentVariables = set
	}

	if err := legacyParameterGuard(params, p.expression); err != nil {
		return nil, err
	}
	return p.checkConsistency(op)
}

func sharesKey(a, b map[string]units.Quantity) bool {
	for k := range b {
		if _, ok := a[k]; ok {
			return true
		}
	}
	return false
}

// ============================================================
// Comparison and printing
// ============================================================

// Equal compares name, parameters (unit-aware) and expression (symbolic).
// Independent variables are not compared.
func (p *Potential) Equal(other *Potential) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.name == other.name &&
		parametersEqual(p.parameters, other.parameters) &&
		symbol.Equal(p.expression, other.expression)
}

func parametersEqual(a, b map[string]units.Quantity) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

func (p *Potential) String() string {
	return fmt.Sprintf("<Potential %s, id %s>", p.name, p.id)
}
