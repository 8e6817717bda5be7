package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/njchilds90/topology"
	"github.com/njchilds90/topology/internal/definition"
	"github.com/njchilds90/topology/internal/report"
)

var (
	noColor bool
	quiet   bool
)

var errChecksFailed = errors.New("one or more potentials failed validation")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "potential",
		Short:         "validate interaction potentials",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	checkCmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "validate potential definition files (yaml, toml, json)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print failing entries")

	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "list built-in potential templates",
		RunE:  listTemplates,
	}

	showCmd := &cobra.Command{
		Use:       "show NAME",
		Short:     "show a built-in template",
		Args:      cobra.ExactArgs(1),
		ValidArgs: topology.TemplateNames(),
		RunE:      showTemplate,
	}

	rootCmd.AddCommand(checkCmd, templatesCmd, showCmd)
	return rootCmd
}

func styles() report.Styles { return report.NewStyles(!noColor) }

func runCheck(cmd *cobra.Command, args []string) error {
	st := styles()
	out := cmd.OutOrStdout()
	failed := 0
	total := 0

	for _, path := range args {
		doc, err := definition.Load(path)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, st.Label.Render(path))
		for _, res := range doc.Build() {
			total++
			s := report.FromResult(res)
			if !s.OK() {
				failed++
			} else if quiet {
				continue
			}
			if err := report.Render(out, s, st); err != nil {
				return err
			}
		}
	}

	summary := fmt.Sprintf("%d checked, %d failed", total, failed)
	if failed > 0 {
		fmt.Fprintln(out, st.Error.Render(summary))
		return errChecksFailed
	}
	fmt.Fprintln(out, st.OK.Render(summary))
	return nil
}

func listTemplates(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXPRESSION\tVARIABLES")
	for _, name := range topology.TemplateNames() {
		p, _, err := topology.Template(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Expression(), strings.Join(p.IndependentVariables().Names(), ", "))
	}
	return w.Flush()
}

func showTemplate(cmd *cobra.Command, args []string) error {
	p, diags, err := topology.Template(args[0])
	if err != nil {
		return err
	}
	st := styles()
	s := report.Summarize(p)
	s.Diagnostics = diags

	out := cmd.OutOrStdout()
	if err := report.Render(out, s, st); err != nil {
		return err
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if noColor {
		box = lipgloss.NewStyle()
	}
	fmt.Fprintf(out, "  %s %s\n", st.Label.Render(fmt.Sprintf("%-12s", "free")), p.FreeSymbols())
	fmt.Fprintln(out, box.Render("LaTeX: "+s.LaTeX))
	return nil
}
