package topology

import (
	"fmt"
	"slices"

	"github.com/njchilds90/topology/units"
)

const (
	DefaultDihedralName       = "DihedralType"
	DefaultDihedralExpression = "k * (1 + cos(n * phi - phi_eq))**2"
)

func defaultDihedralParameters() map[string]units.Quantity {
	return map[string]units.Quantity{
		"k":      units.MustNew(1000, "kJ / (deg**2)"),
		"phi_eq": units.MustNew(180, "deg"),
		"n":      units.Dimensionless(1),
	}
}

// DihedralType is a Potential between four bonded partners, identified by
// the names of their atom types.
type DihedralType struct {
	*Potential
	memberTypes []string
}

// NewDihedralType builds a DihedralType. memberTypes must hold zero or
// four atom type names. Options override the periodic dihedral defaults.
func NewDihedralType(memberTypes []string, opts ...Option) (*DihedralType, Diagnostics, error) {
	cfg := config{
		name:       DefaultDihedralName,
		expression: ExprString(DefaultDihedralExpression),
		parameters: defaultDihedralParameters(),
		variables:  VarName("phi"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	p, diags, err := build(cfg)
	if err != nil {
		return nil, diags, err
	}
	types, err := validateMemberTypes(memberTypes)
	if err != nil {
		return nil, diags, err
	}
	return &DihedralType{Potential: p, memberTypes: types}, diags, nil
}

func (d *DihedralType) MemberTypes() []string { return slices.Clone(d.memberTypes) }

// SetMemberTypes replaces the member types. A change is reported as a
// diagnostic before the new value is validated.
func (d *DihedralType) SetMemberTypes(types []string) (Diagnostics, error) {
	var diags Diagnostics
	if !slices.Equal(d.memberTypes, types) {
		diags = append(diags, Diagnostic{
			Kind:    DiagnosticMemberTypesChanged,
			Symbols: slices.Clone(types),
			Message: fmt.Sprintf("changing a DihedralType's constituent member types: %v to %v", d.memberTypes, types),
		})
	}
	validated, err := validateMemberTypes(types)
	if err != nil {
		return diags, err
	}
	d.memberTypes = validated
	return diags, nil
}

// Equal compares the underlying potentials; member types are not part of
// the comparison.
func (d *DihedralType) Equal(other *DihedralType) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Potential.Equal(other.Potential)
}

func (d *DihedralType) String() string {
	return fmt.Sprintf("<DihedralType %s, id %s>", d.name, d.id)
}

func validateMemberTypes(types []string) ([]string, error) {
	if len(types) != 0 && len(types) != 4 {
		return nil, fmt.Errorf("%w: a DihedralType needs 4 constituent types, got %d", ErrInvalidMemberTypes, len(types))
	}
	for i, t := range types {
		if t == "" {
			return nil, fmt.Errorf("%w: member type %d is empty", ErrInvalidMemberTypes, i)
		}
	}
	if types == nil {
		return []string{}, nil
	}
	return slices.Clone(types), nil
}
