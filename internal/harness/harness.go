// Package harness provides testing utilities for validating the sinkreach
// analyzer against complete project bundles.
package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/sinkreach/internal/catalog"
	"github.com/715d/sinkreach/pkg/sinkreach"
)

// Scenario describes one end-to-end test case: a project bundle plus
// the occurrences the analyzer is expected to report for it.
type Scenario struct {
	// Dir is the directory containing the scenario files.
	Dir string `yaml:"-"`

	// Catalog optionally names a YAML file (relative to Dir) extending
	// the built-in sink table for this scenario.
	Catalog string `yaml:"catalog,omitempty"`

	// Occurrences lists the expected report rows, in output order.
	Occurrences []ExpectedOccurrence `yaml:"occurrences"`
}

// ExpectedOccurrence is one expected report row.
type ExpectedOccurrence struct {
	Sink      string   `yaml:"sink"`
	Callsite  string   `yaml:"callsite"`
	Reachable bool     `yaml:"reachable"`
	CoveredBy []string `yaml:"covered_by,omitempty"`
}

// Run executes the full analysis for a scenario and compares the report
// against the expectations.
func Run(t *testing.T, scenario *Scenario) {
	t.Helper()

	project, err := sinkreach.LoadProject(filepath.Join(scenario.Dir, "project.yaml"))
	require.NoError(t, err, "load project bundle")

	sinkTable := catalog.Default()
	if scenario.Catalog != "" {
		require.NoError(t, sinkTable.Load(filepath.Join(scenario.Dir, scenario.Catalog)), "load catalog extension")
	}

	analyzer := sinkreach.NewAnalyzer(sinkreach.AnalyzerOptions{Catalog: sinkTable})
	occurrences, err := analyzer.Analyze(project)
	require.NoError(t, err, "analyze project")

	got := make([]ExpectedOccurrence, 0, len(occurrences))
	for _, o := range occurrences {
		covered := o.CoveredBy
		if len(covered) == 0 {
			covered = nil
		}
		got = append(got, ExpectedOccurrence{
			Sink:      o.Sink,
			Callsite:  o.Callsite,
			Reachable: o.StaticallyReachable,
			CoveredBy: covered,
		})
	}

	want := make([]ExpectedOccurrence, 0, len(scenario.Occurrences))
	for _, o := range scenario.Occurrences {
		if len(o.CoveredBy) == 0 {
			o.CoveredBy = nil
		}
		want = append(want, o)
	}

	require.Equal(t, want, got)
}

// HasExpectations reports whether the directory holds a scenario.
func HasExpectations(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "expected.yaml"))
	return err == nil
}
