package topology

import (
	"fmt"
	"sort"

	"github.com/njchilds90/topology/units"
)

// template is a named, ready-to-use functional form.
type template struct {
	expression string
	parameters func() map[string]units.Quantity
	variable   string
}

var templates = map[string]template{
	"linear": {
		expression: DefaultExpression,
		parameters: defaultParameters,
		variable:   "x",
	},
	"harmonic_bond": {
		expression: "0.5 * k * (r - r_eq)**2",
		parameters: func() map[string]units.Quantity {
			return map[string]units.Quantity{
				"k":    units.MustNew(1000, "kJ/mol/nm**2"),
				"r_eq": units.MustNew(0.1, "nm"),
			}
		},
		variable: "r",
	},
	"harmonic_angle": {
		expression: "0.5 * k * (theta - theta_eq)**2",
		parameters: func() map[string]units.Quantity {
			return map[string]units.Quantity{
				"k":        units.MustNew(500, "kJ/mol/rad**2"),
				"theta_eq": units.MustNew(109.5, "deg"),
			}
		},
		variable: "theta",
	},
	"lennard_jones": {
		expression: "4*epsilon*((sigma/r)**12 - (sigma/r)**6)",
		parameters: func() map[string]units.Quantity {
			return map[string]units.Quantity{
				"epsilon": units.MustNew(0.5, "kJ/mol"),
				"sigma":   units.MustNew(0.3, "nm"),
			}
		},
		variable: "r",
	},
	"periodic_dihedral": {
		expression: DefaultDihedralExpression,
		parameters: defaultDihedralParameters,
		variable:   "phi",
	},
}

// Template builds the named built-in potential. The template name becomes
// the potential's name; opts are applied on top of the template.
func Template(name string, opts ...Option) (*Potential, Diagnostics, error) {
	t, ok := templates[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownTemplate, name, TemplateNames())
	}
	cfg := config{
		name:       name,
		expression: ExprString(t.expression),
		parameters: t.parameters(),
		variables:  VarName(t.variable),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return build(cfg)
}

func TemplateNames() []string {
	out := make([]string, 0, len(templates))
	for name := range templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
