package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	noColor, quiet = false, false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_Passing(t *testing.T) {
	out, err := execute(t, "check",
		"../../internal/definition/testdata/potentials.yaml",
		"../../internal/definition/testdata/potentials.toml",
		"../../internal/definition/testdata/potentials.json",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"ok HarmonicBond", "ok CCOH", "members", "c-c-o-h", "8 checked, 0 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheck_Failing(t *testing.T) {
	out, err := execute(t, "check", "../../internal/definition/testdata/broken.yaml")
	if !errors.Is(err, errChecksFailed) {
		t.Fatalf("want errChecksFailed, got %v", err)
	}
	for _, want := range []string{"FAIL unitless", "FAIL missing", "ok extraneous", "warning extraneous-symbols", "4 checked, 3 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheck_Quiet(t *testing.T) {
	out, _ := execute(t, "check", "-q", "../../internal/definition/testdata/broken.yaml")
	if strings.Contains(out, "ok extraneous") {
		t.Errorf("quiet output should skip passing entries:\n%s", out)
	}
}

func TestCheck_UnknownFormat(t *testing.T) {
	if _, err := execute(t, "check", "main.go"); err == nil {
		t.Error("want error for unsupported file")
	}
}

func TestTemplates(t *testing.T) {
	out, err := execute(t, "templates")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"NAME", "harmonic_bond", "lennard_jones", "periodic_dihedral"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow(t *testing.T) {
	out, err := execute(t, "show", "harmonic_bond")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ok harmonic_bond", "k = 1000 kJ/mol/nm**2", "{k, r, r_eq}", "LaTeX:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "show", "morse"); err == nil {
		t.Error("want error for unknown template")
	}
}
