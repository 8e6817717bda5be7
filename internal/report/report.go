// Package report turns built potentials into summaries for the terminal and
// for JSON responses.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/topology"
	"github.com/njchilds90/topology/internal/definition"
)

type Summary struct {
	Name                 string               `json:"name"`
	Potential            string               `json:"potential,omitempty"`
	Expression           string               `json:"expression,omitempty"`
	LaTeX                string               `json:"latex,omitempty"`
	FreeSymbols          []string             `json:"free_symbols,omitempty"`
	Parameters           map[string]string    `json:"parameters,omitempty"`
	IndependentVariables []string             `json:"independent_variables,omitempty"`
	MemberTypes          []string             `json:"member_types,omitempty"`
	Diagnostics          topology.Diagnostics `json:"diagnostics,omitempty"`
	Error                string               `json:"error,omitempty"`
}

func (s Summary) OK() bool { return s.Error == "" }

// FromResult summarizes one built definition entry.
func FromResult(r definition.Result) Summary {
	s := Summarize(r.Potential)
	s.Name = r.Label()
	if r.Dihedral != nil {
		s.Potential = r.Dihedral.String()
		s.MemberTypes = r.Dihedral.MemberTypes()
	}
	s.Diagnostics = r.Diagnostics
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

// Summarize describes p. A nil potential yields an empty summary.
func Summarize(p *topology.Potential) Summary {
	if p == nil {
		return Summary{}
	}
	s := Summary{
		Name:                 p.Name(),
		Potential:            p.String(),
		FreeSymbols:          p.FreeSymbols().Names(),
		IndependentVariables: p.IndependentVariables().Names(),
		Parameters:           map[string]string{},
	}
	if e := p.Expression(); e != nil {
		s.Expression = e.String()
		s.LaTeX = e.LaTeX()
	}
	for k, v := range p.Parameters() {
		s.Parameters[k] = v.String()
	}
	return s
}

// ============================================================
// Terminal rendering
// ============================================================

type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Title: plain, Label: plain, Value: plain, OK: plain, Warning: plain, Error: plain}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

func Render(w io.Writer, s Summary, st Styles) error {
	var b strings.Builder

	mark := st.OK.Render("ok")
	if !s.OK() {
		mark = st.Error.Render("FAIL")
	}
	fmt.Fprintf(&b, "%s %s\n", mark, st.Title.Render(s.Name))

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", st.Label.Render(fmt.Sprintf("%-12s", label)), st.Value.Render(value))
	}
	row("expression", s.Expression)
	row("parameters", formatParameters(s.Parameters))
	row("variables", strings.Join(s.IndependentVariables, ", "))
	row("members", strings.Join(s.MemberTypes, "-"))

	for _, d := range s.Diagnostics {
		fmt.Fprintf(&b, "  %s %s\n", st.Warning.Render("warning"), d)
	}
	if s.Error != "" {
		fmt.Fprintf(&b, "  %s %s\n", st.Error.Render("error"), s.Error)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatParameters(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " = " + params[k]
	}
	return strings.Join(parts, ", ")
}
