// Package definition reads potential definition documents.
//
// A document lists potentials by expression, unit-tagged parameters and
// independent variables, or by reference to a built-in template. YAML, TOML
// and JSON encodings share one schema:
//
//	potentials:
//	  - name: bond
//	    expression: 0.5 * k * (r - r_eq)**2
//	    parameters:
//	      k: 1000 kJ/mol/nm**2
//	      r_eq: 0.1 nm
//	    independent_variables: r
package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/topology"
)

var (
	ErrUnknownFormat = errors.New("definition: unknown format")
	ErrUnknownKind   = errors.New("definition: unknown kind")
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

const (
	KindPotential = "potential"
	KindDihedral  = "dihedral"
	KindTemplate  = "template"
)

type Document struct {
	Potentials []Entry `yaml:"potentials" toml:"potentials" json:"potentials"`
}

// Entry describes one potential. Empty fields fall back to the defaults of
// the selected kind.
type Entry struct {
	Kind                 string         `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"`
	Name                 string         `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Template             string         `yaml:"template,omitempty" toml:"template,omitempty" json:"template,omitempty"`
	Expression           string         `yaml:"expression,omitempty" toml:"expression,omitempty" json:"expression,omitempty"`
	Parameters           map[string]any `yaml:"parameters,omitempty" toml:"parameters,omitempty" json:"parameters,omitempty"`
	IndependentVariables any            `yaml:"independent_variables,omitempty" toml:"independent_variables,omitempty" json:"independent_variables,omitempty"`
	MemberTypes          []string       `yaml:"member_types,omitempty" toml:"member_types,omitempty" json:"member_types,omitempty"`
}

// Result is the outcome of building one Entry. Dihedral is set only for
// dihedral entries; Potential is always set when Err is nil.
type Result struct {
	Entry       Entry
	Potential   *topology.Potential
	Dihedral    *topology.DihedralType
	Diagnostics topology.Diagnostics
	Err         error
}

// Label names the entry for reports.
func (r Result) Label() string {
	switch {
	case r.Potential != nil:
		return r.Potential.Name()
	case r.Entry.Name != "":
		return r.Entry.Name
	case r.Entry.Template != "":
		return r.Entry.Template
	}
	return "(unnamed)"
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	case FormatTOML:
		err = toml.Unmarshal(data, doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return doc, nil
}

func (d *Document) Build() []Result {
	out := make([]Result, 0, len(d.Potentials))
	for _, e := range d.Potentials {
		out = append(out, e.Build())
	}
	return out
}

// Build constructs the potential the entry describes.
func (e Entry) Build() Result {
	res := Result{Entry: e}

	opts, err := e.options()
	if err != nil {
		res.Err = err
		return res
	}

	switch e.Kind {
	case "", KindPotential:
		res.Potential, res.Diagnostics, res.Err = topology.New(opts...)
	case KindDihedral:
		res.Dihedral, res.Diagnostics, res.Err = topology.NewDihedralType(e.MemberTypes, opts...)
		if res.Dihedral != nil {
			res.Potential = res.Dihedral.Potential
		}
	case KindTemplate:
		name := e.Template
		if name == "" {
			name = e.Name
		}
		res.Potential, res.Diagnostics, res.Err = topology.Template(name, opts...)
	default:
		res.Err = fmt.Errorf("%w %q (want %s, %s or %s)", ErrUnknownKind, e.Kind, KindPotential, KindDihedral, KindTemplate)
	}
	return res
}

// options translates the entry's fields. Template entries overlay their
// parameters on the template's; other kinds replace the defaults.
func (e Entry) options() ([]topology.Option, error) {
	var opts []topology.Option
	if e.Name != "" {
		opts = append(opts, topology.WithName(e.Name))
	}
	if e.Expression != "" {
		opts = append(opts, topology.WithExpression(topology.ExprString(e.Expression)))
	}
	if e.Parameters != nil {
		params, err := topology.ParametersFrom(e.Parameters)
		if err != nil {
			return nil, err
		}
		if e.Kind == KindTemplate {
			opts = append(opts, topology.MergeParameters(params))
		} else {
			opts = append(opts, topology.WithParameters(params))
		}
	}
	if e.IndependentVariables != nil {
		vars, err := topology.VariablesFrom(e.IndependentVariables)
		if err != nil {
			return nil, err
		}
		opts = append(opts, topology.WithIndependentVariables(vars))
	}
	return opts, nil
}
