// Package units pairs numeric magnitudes with physical units.
//
// A Quantity keeps the magnitude and unit expression it was declared with
// and an SI-coherent gonum unit.Unit used for comparisons. Unit expressions
// are ordinary formulas over unit symbols ("kJ/mol", "kJ / (deg**2)") and
// are parsed with the symbol package.
package units

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/njchilds90/topology/symbol"
	"gonum.org/v1/gonum/unit"
)

var (
	ErrUnknownUnit     = errors.New("units: unknown unit")
	ErrInvalidQuantity = errors.New("units: invalid quantity")
)

// Quantity is a magnitude tagged with a unit. The zero value is untagged.
type Quantity struct {
	value  float64
	symbol string
	si     *unit.Unit
}

// New tags value with the unit expression expr.
func New(value float64, expr string) (Quantity, error) {
	scale, dims, err := resolve(expr)
	if err != nil {
		return Quantity{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quantity{}, fmt.Errorf("%w: magnitude %v is not finite", ErrInvalidQuantity, value)
	}
	return Quantity{
		value:  value,
		symbol: strings.TrimSpace(expr),
		si:     unit.New(value*scale, dims),
	}, nil
}

// MustNew is like New but panics on error. Intended for package-level
// defaults built from literal unit expressions.
func MustNew(value float64, expr string) Quantity {
	q, err := New(value, expr)
	if err != nil {
		panic(err)
	}
	return q
}

func Dimensionless(value float64) Quantity { return MustNew(value, "dimensionless") }

// Bare returns an untagged magnitude, the shape of a plain number that
// never had a unit attached.
func Bare(value float64) Quantity { return Quantity{value: value} }

// Parse reads "<magnitude> <unit expression>", e.g. "1000 kJ/mol". A bare
// number without a unit is rejected.
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Quantity{}, fmt.Errorf("%w: empty quantity", ErrInvalidQuantity)
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: magnitude %q: %v", ErrInvalidQuantity, fields[0], err)
	}
	if len(fields) == 1 {
		return Quantity{}, fmt.Errorf("%w: %q lacks a unit", ErrInvalidQuantity, s)
	}
	return New(value, strings.Join(fields[1:], " "))
}

func (q Quantity) Tagged() bool   { return q.si != nil }
func (q Quantity) Value() float64 { return q.value }
func (q Quantity) Symbol() string { return q.symbol }

// SI returns the magnitude expressed in SI-coherent units.
func (q Quantity) SI() float64 {
	if q.si == nil {
		return q.value
	}
	return q.si.Value()
}

// Unit implements unit.Uniter. It returns nil for an untagged quantity.
func (q Quantity) Unit() *unit.Unit {
	if q.si == nil {
		return nil
	}
	return unit.New(q.si.Value(), q.si.Dimensions())
}

func (q Quantity) Dimensions() unit.Dimensions {
	if q.si == nil {
		return unit.Dimensions{}
	}
	return q.si.Dimensions()
}

// Equal reports whether q and o describe the same physical amount: both
// untagged with equal magnitudes, or both tagged with matching dimensions
// and SI magnitudes equal to a relative tolerance of 1e-9.
func (q Quantity) Equal(o Quantity) bool {
	if !q.Tagged() || !o.Tagged() {
		return !q.Tagged() && !o.Tagged() && q.value == o.value
	}
	if !unit.DimensionsMatch(q, o) {
		return false
	}
	return closeEnough(q.SI(), o.SI())
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-9*scale
}

func (q Quantity) String() string {
	if !q.Tagged() {
		return strconv.FormatFloat(q.value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.value, 'g', -1, 64) + " " + q.symbol
}

// ============================================================
// Unit table
// ============================================================

type definition struct {
	scale float64
	dims  unit.Dimensions
}

var (
	length = unit.Dimensions{unit.LengthDim: 1}
	mass   = unit.Dimensions{unit.MassDim: 1}
	tm     = unit.Dimensions{unit.TimeDim: 1}
	energy = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2}
	angle  = unit.Dimensions{unit.AngleDim: 1}
	amount = unit.Dimensions{unit.MoleDim: 1}
	temp   = unit.Dimensions{unit.TemperatureDim: 1}
)

const dalton = 1.66053906660e-27

var table = map[string]definition{
	"dimensionless": {1, nil},

	"m":        {1, length},
	"nm":       {1e-9, length},
	"angstrom": {1e-10, length},
	"Å":        {1e-10, length},
	"pm":       {1e-12, length},

	"kg":  {1, mass},
	"g":   {1e-3, mass},
	"amu": {dalton, mass},
	"Da":  {dalton, mass},

	"s":  {1, tm},
	"ps": {1e-12, tm},
	"fs": {1e-15, tm},

	"J":    {1, energy},
	"kJ":   {1e3, energy},
	"cal":  {4.184, energy},
	"kcal": {4184, energy},
	"eV":   {1.602176634e-19, energy},

	"rad": {1, angle},
	"deg": {math.Pi / 180, angle},

	"mol": {1, amount},
	"K":   {1, temp},
}

// Known returns the unit symbols understood by New, sorted.
func Known() []string {
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func resolve(expr string) (float64, unit.Dimensions, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, nil, fmt.Errorf("%w: empty unit expression", ErrInvalidQuantity)
	}
	e, err := symbol.Parse(expr)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: unit %q: %v", ErrInvalidQuantity, expr, err)
	}
	scale, dims, err := fold(e)
	if err != nil {
		return 0, nil, fmt.Errorf("unit %q: %w", expr, err)
	}
	return scale, dims, nil
}

// fold reduces a parsed unit expression to an SI scale factor and its
// dimensions.
func fold(e symbol.Expr) (float64, unit.Dimensions, error) {
	switch v := e.(type) {
	case *symbol.Num:
		return v.Float64(), unit.Dimensions{}, nil
	case *symbol.Sym:
		def, ok := table[v.Name()]
		if !ok {
			return 0, nil, fmt.Errorf("%w %q", ErrUnknownUnit, v.Name())
		}
		return def.scale, copyDims(def.dims, 1), nil
	case *symbol.Mul:
		scale, dims := 1.0, unit.Dimensions{}
		for _, f := range v.Factors() {
			s, d, err := fold(f)
			if err != nil {
				return 0, nil, err
			}
			scale *= s
			for dim, power := range d {
				dims[dim] += power
			}
		}
		return scale, prune(dims), nil
	case *symbol.Pow:
		n, ok := v.Exponent().(*symbol.Num)
		if !ok || !n.IsInteger() {
			return 0, nil, fmt.Errorf("%w: exponent %s is not an integer", ErrInvalidQuantity, v.Exponent())
		}
		power := n.Rat().Num().Int64()
		s, d, err := fold(v.Base())
		if err != nil {
			return 0, nil, err
		}
		return math.Pow(s, float64(power)), copyDims(d, int(power)), nil
	}
	return 0, nil, fmt.Errorf("%w: unsupported unit term %s", ErrInvalidQuantity, e)
}

func copyDims(d unit.Dimensions, power int) unit.Dimensions {
	out := unit.Dimensions{}
	for dim, p := range d {
		out[dim] = p * power
	}
	return prune(out)
}

func prune(d unit.Dimensions) unit.Dimensions {
	for dim, p := range d {
		if p == 0 {
			delete(d, dim)
		}
	}
	return d
}
