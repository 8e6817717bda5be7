// Package symbol is the symbolic kernel behind potential expressions.
//
// Design goals:
//   - Immutable expression trees, simplified eagerly on construction
//   - Exact rational arithmetic (math/big.Rat)
//   - Canonical term and factor ordering so structurally equal formulas
//     compare Equal no matter how they were written
//   - Printed forms use the same syntax Parse accepts
package symbol

import (
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Subs(name string, value Expr) Expr
	Equal(other Expr) bool
	exprType() string
}

// Equal reports whether a and b are symbolically equal. Two nil expressions
// are equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Simplify().Equal(b.Simplify())
}

// ============================================================
// Atoms: Num, Sym, Const
// ============================================================

// Num is an exact rational number.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbol: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac64(p, q)}
}

func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }
func NRat(r *big.Rat) *Num  { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr         { return n }
func (n *Num) Subs(string, Expr) Expr { return n }
func (n *Num) exprType() string       { return "num" }
func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) IsOne() bool      { return n.isInt(1) }
func (n *Num) IsNegOne() bool   { return n.isInt(-1) }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }

func (n *Num) isInt(v int64) bool { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == v }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	abs := new(big.Rat).Abs(n.val)
	sign := ""
	if n.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf(`%s\frac{%s}{%s}`, sign, abs.Num(), abs.Denom())
}

func (n *Num) neg() *Num { return &Num{val: new(big.Rat).Neg(n.val)} }

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }

// numPow raises a to an integer power. Callers keep |e| small.
func numPow(a *Num, e int64) *Num {
	out := new(big.Rat).SetInt64(1)
	for k := e; k != 0; {
		if k > 0 {
			out.Mul(out, a.val)
			k--
		} else {
			out.Quo(out, a.val)
			k++
		}
	}
	return &Num{val: out}
}

// Sym is a named symbol.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string     { return s.name }
func (s *Sym) Simplify() Expr   { return s }
func (s *Sym) String() string   { return s.name }
func (s *Sym) exprType() string { return "sym" }
func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}

func (s *Sym) Subs(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

// LaTeX renders the part after the first underscore as a subscript:
// phi_eq becomes phi_{eq}.
func (s *Sym) LaTeX() string {
	head, sub, ok := strings.Cut(s.name, "_")
	if !ok || head == "" || sub == "" {
		return s.name
	}
	return head + "_{" + sub + "}"
}

// Const is a named mathematical constant. Constants are never free symbols.
type Const struct{ name, latex string }

var (
	Pi = &Const{name: "pi", latex: `\pi`}
	E  = &Const{name: "E", latex: "e"}
)

func (c *Const) Simplify() Expr         { return c }
func (c *Const) String() string         { return c.name }
func (c *Const) LaTeX() string          { return c.latex }
func (c *Const) Subs(string, Expr) Expr { return c }
func (c *Const) exprType() string       { return "const" }
func (c *Const) Equal(other Expr) bool {
	o, ok := other.(*Const)
	return ok && c.name == o.name
}

// ============================================================
// n-ary helpers shared by Add and Mul
// ============================================================

// flatten simplifies each operand and splices in the operands of nested
// nodes of the same kind.
func flatten(items []Expr, inner func(Expr) ([]Expr, bool)) []Expr {
	out := make([]Expr, 0, len(items))
	for _, it := range items {
		s := it.Simplify()
		if nested, ok := inner(s); ok {
			out = append(out, nested...)
			continue
		}
		out = append(out, s)
	}
	return out
}

func substituteAll(items []Expr, name string, value Expr) []Expr {
	out := make([]Expr, len(items))
	for i, it := range items {
		out[i] = it.Subs(name, value)
	}
	return out
}

func sameSequence(a, b []Expr) bool {
	return slices.EqualFunc(a, b, func(x, y Expr) bool { return x.Equal(y) })
}

// sortByString orders items by their printed form.
func sortByString(items []Expr) {
	keys := make(map[Expr]string, len(items))
	for _, it := range items {
		keys[it] = it.String()
	}
	slices.SortStableFunc(items, func(x, y Expr) int { return strings.Compare(keys[x], keys[y]) })
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numeric terms and collects terms that
// differ only by their rational coefficient. Terms are ordered by their
// printed form with the constant last.
func (a *Add) Simplify() Expr {
	flat := flatten(a.terms, func(e Expr) ([]Expr, bool) {
		if s, ok := e.(*Add); ok {
			return s.terms, true
		}
		return nil, false
	})

	type like struct {
		coeff *Num
		rest  Expr
	}
	constant := N(0)
	groups := map[string]*like{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		coeff, rest := splitCoefficient(t)
		key := rest.String()
		if g, ok := groups[key]; ok {
			g.coeff = numAdd(g.coeff, coeff)
		} else {
			groups[key] = &like{coeff: coeff, rest: rest}
		}
	}

	terms := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		if g.coeff.IsZero() {
			continue
		}
		terms = append(terms, MulOf(g.coeff, g.rest))
	}
	sortByString(terms)
	if !constant.IsZero() {
		terms = append(terms, constant)
	}

	switch len(terms) {
	case 0:
		return N(0)
	case 1:
		return terms[0]
	}
	return &Add{terms: terms}
}

// splitCoefficient separates the leading rational coefficient of a product.
func splitCoefficient(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) < 2 {
		return N(1), e
	}
	coeff, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return coeff, m.factors[1]
	}
	return coeff, &Mul{factors: m.factors[1:]}
}

// negative returns -e when e prints with a leading minus sign.
func negative(e Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Num:
		if v.IsNegative() {
			return v.neg(), true
		}
	case *Mul:
		coeff, rest := splitCoefficient(v)
		if coeff.IsNegative() {
			if coeff.IsNegOne() {
				return rest, true
			}
			return &Mul{factors: append([]Expr{coeff.neg()}, v.factors[1:]...)}, true
		}
	}
	return nil, false
}

func (a *Add) String() string { return a.join(Expr.String) }
func (a *Add) LaTeX() string  { return a.join(Expr.LaTeX) }

func (a *Add) join(render func(Expr) string) string {
	var b strings.Builder
	for i, t := range a.terms {
		if pos, neg := negative(t); neg {
			if i == 0 {
				b.WriteString("-")
			} else {
				b.WriteString(" - ")
			}
			b.WriteString(render(pos))
			continue
		}
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(render(t))
	}
	return b.String()
}

func (a *Add) Subs(name string, value Expr) Expr {
	return AddOf(substituteAll(a.terms, name, value)...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && sameSequence(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) Terms() []Expr    { return slices.Clone(a.terms) }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the rational coefficient to the
// front and merges repeated bases by summing their exponents.
func (m *Mul) Simplify() Expr {
	flat := flatten(m.factors, func(e Expr) ([]Expr, bool) {
		if p, ok := e.(*Mul); ok {
			return p.factors, true
		}
		return nil, false
	})

	type power struct {
		base Expr
		exps []Expr
	}
	coeff := N(1)
	var powers []*power
	byBase := map[string]*power{}
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff = numMul(coeff, n)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if pw, ok := byBase[key]; ok {
			pw.exps = append(pw.exps, exp)
			continue
		}
		pw := &power{base: base, exps: []Expr{exp}}
		byBase[key] = pw
		powers = append(powers, pw)
	}

	var rest []Expr
	for _, pw := range powers {
		if coeff.IsZero() {
			break
		}
		exp := pw.exps[0]
		if len(pw.exps) > 1 {
			exp = AddOf(pw.exps...)
		}
		switch v := PowOf(pw.base, exp).(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			c, r := splitCoefficient(v)
			coeff = numMul(coeff, c)
			if rm, ok := r.(*Mul); ok {
				rest = append(rest, rm.factors...)
			} else {
				rest = append(rest, r)
			}
		default:
			rest = append(rest, v)
		}
	}
	if coeff.IsZero() || len(rest) == 0 {
		return coeff
	}

	sortByString(rest)
	if coeff.IsOne() {
		if len(rest) == 1 {
			return rest[0]
		}
		return &Mul{factors: rest}
	}
	return &Mul{factors: append([]Expr{coeff}, rest...)}
}

// fraction splits the factors into numerator and denominator. Factors with
// a negative numeric exponent go to the denominator with the sign flipped.
func (m *Mul) fraction() (coeff *Num, num, den []Expr) {
	coeff, rest := splitCoefficient(m)
	factors := []Expr{rest}
	if r, ok := rest.(*Mul); ok {
		factors = r.factors
	}
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsNegative() {
				den = append(den, PowOf(p.base, e.neg()))
				continue
			}
		}
		num = append(num, f)
	}
	return coeff, num, den
}

func (m *Mul) String() string {
	coeff, num, den := m.fraction()

	parts := make([]string, 0, len(num)+1)
	if !coeff.IsOne() {
		if coeff.IsNegOne() && len(num) > 0 {
			parts = append(parts, "-"+factorString(num[0]))
			num = num[1:]
		} else {
			parts = append(parts, coeff.String())
		}
	}
	for _, f := range num {
		parts = append(parts, factorString(f))
	}
	top := strings.Join(parts, "*")
	if top == "" {
		top = "1"
	}
	if len(den) == 0 {
		return top
	}
	if len(den) == 1 {
		return top + "/" + denominatorString(den[0])
	}
	bottom := make([]string, len(den))
	for i, f := range den {
		bottom[i] = factorString(f)
	}
	return top + "/(" + strings.Join(bottom, "*") + ")"
}

func factorString(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func denominatorString(f Expr) string {
	switch f.(type) {
	case *Add, *Mul:
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) LaTeX() string {
	coeff, num, den := m.fraction()

	render := func(fs []Expr) string {
		parts := make([]string, len(fs))
		for i, f := range fs {
			if _, ok := f.(*Add); ok {
				parts[i] = `\left(` + f.LaTeX() + `\right)`
			} else {
				parts[i] = f.LaTeX()
			}
		}
		return strings.Join(parts, " ")
	}

	top := render(num)
	sign := ""
	switch {
	case coeff.IsNegOne() && top != "":
		sign = "-"
	case !coeff.IsOne():
		top = strings.TrimSpace(coeff.LaTeX() + " " + top)
	}
	if top == "" {
		top = "1"
	}
	if len(den) == 0 {
		return sign + top
	}
	return sign + `\frac{` + top + "}{" + render(den) + "}"
}

func (m *Mul) Subs(name string, value Expr) Expr {
	return MulOf(substituteAll(m.factors, name, value)...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && sameSequence(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) Factors() []Expr  { return slices.Clone(m.factors) }

// ============================================================
// Pow: base**exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// maxFoldedExponent bounds the integer powers of numbers evaluated exactly.
const maxFoldedExponent = 20

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	bn, baseIsNum := base.(*Num)
	switch {
	case expIsNum && en.IsZero():
		return N(1)
	case expIsNum && en.IsOne():
		return base
	case baseIsNum && bn.IsZero():
		if expIsNum && en.IsNegative() {
			// 0**negative stays unevaluated.
			return &Pow{base: base, exp: exp}
		}
		return N(0)
	case baseIsNum && bn.IsOne():
		return N(1)
	case baseIsNum && expIsNum && en.IsInteger():
		if k := en.val.Num(); k.IsInt64() && k.Int64() >= -maxFoldedExponent && k.Int64() <= maxFoldedExponent {
			return numPow(bn, k.Int64())
		}
	}
	if m, ok := base.(*Mul); ok && expIsNum && en.IsInteger() {
		factors := make([]Expr, len(m.factors))
		for i, f := range m.factors {
			factors[i] = PowOf(f, exp)
		}
		return MulOf(factors...)
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() {
		return "1/" + denominatorString(PowOf(p.base, e.neg()))
	}
	base := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		base = "(" + base + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			base = "(" + base + ")"
		}
	}
	exp := p.exp.String()
	switch e := p.exp.(type) {
	case *Add, *Mul, *Pow:
		exp = "(" + exp + ")"
	case *Num:
		if !e.IsInteger() {
			exp = "(" + exp + ")"
		}
	}
	return base + "**" + exp
}

func (p *Pow) LaTeX() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() {
		return `\frac{1}{` + PowOf(p.base, e.neg()).LaTeX() + "}"
	}
	if e, ok := p.exp.(*Num); ok && e.Equal(F(1, 2)) {
		return `\sqrt{` + p.base.LaTeX() + "}"
	}
	base := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Subs(name string, value Expr) Expr {
	return PowOf(p.base.Subs(name, value), p.exp.Subs(name, value))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) Base() Expr       { return p.base }
func (p *Pow) Exponent() Expr   { return p.exp }

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func apply(name string, arg Expr) Expr { return (&Func{name: name, arg: arg}).Simplify() }

func SinOf(arg Expr) Expr  { return apply("sin", arg) }
func CosOf(arg Expr) Expr  { return apply("cos", arg) }
func ExpOf(arg Expr) Expr  { return apply("exp", arg) }
func LogOf(arg Expr) Expr  { return apply("log", arg) }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

// FuncOf applies the named function. The name must be one of the functions
// understood by Parse.
func FuncOf(name string, arg Expr) (Expr, error) {
	canonical, ok := functionNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q", ErrParse, name)
	}
	if canonical == "sqrt" {
		return SqrtOf(arg), nil
	}
	return apply(canonical, arg), nil
}

// identities maps a function and a simplified argument to a simpler form.
var identities = map[string]func(arg Expr) Expr{
	"sin":  zeroAt(0),
	"tan":  zeroAt(0),
	"asin": zeroAt(0),
	"atan": zeroAt(0),
	"sinh": zeroAt(0),
	"tanh": zeroAt(0),
	"cos":  oneAtZero,
	"cosh": oneAtZero,
	"exp": func(arg Expr) Expr {
		if isInt(arg, 0) {
			return N(1)
		}
		return unwrap(arg, "log")
	},
	"log": func(arg Expr) Expr {
		switch {
		case isInt(arg, 1):
			return N(0)
		case arg.Equal(E):
			return N(1)
		}
		return unwrap(arg, "exp")
	},
	"abs": func(arg Expr) Expr {
		if n, ok := arg.(*Num); ok {
			return &Num{val: new(big.Rat).Abs(n.val)}
		}
		return nil
	},
}

func zeroAt(v int64) func(Expr) Expr {
	return func(arg Expr) Expr {
		if isInt(arg, v) {
			return N(0)
		}
		return nil
	}
}

func oneAtZero(arg Expr) Expr {
	if isInt(arg, 0) {
		return N(1)
	}
	return nil
}

// unwrap returns the argument of arg when arg applies the inverse function.
func unwrap(arg Expr, inverse string) Expr {
	if f, ok := arg.(*Func); ok && f.name == inverse {
		return f.arg
	}
	return nil
}

func isInt(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.isInt(v)
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if rule, ok := identities[f.name]; ok {
		if out := rule(arg); out != nil {
			return out
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := `\left(` + f.arg.LaTeX() + `\right)`
	switch f.name {
	case "sin", "cos", "tan", "exp", "log", "sinh", "cosh", "tanh":
		return `\` + f.name + arg
	case "asin", "acos", "atan":
		return `\arc` + f.name[1:] + arg
	case "abs":
		return `\left|` + f.arg.LaTeX() + `\right|`
	}
	return `\operatorname{` + f.name + "}" + arg
}

func (f *Func) Subs(name string, value Expr) Expr {
	return apply(f.name, f.arg.Subs(name, value))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the names of the symbols appearing in e. Constants
// such as pi are not free symbols. A nil expression has none.
func FreeSymbols(e Expr) Set {
	out := Set{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Sym:
			out.Add(v.name)
		case *Add:
			for _, t := range v.terms {
				walk(t)
			}
		case *Mul:
			for _, f := range v.factors {
				walk(f)
			}
		case *Pow:
			walk(v.base)
			walk(v.exp)
		case *Func:
			walk(v.arg)
		}
	}
	walk(e)
	return out
}
