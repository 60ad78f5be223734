// Package sinkreach reports security-sensitive sink calls and whether
// fuzzers statically reach and dynamically cover them.
package sinkreach

import (
	"fmt"
	"log/slog"

	"github.com/715d/sinkreach/internal/analysis"
	"github.com/715d/sinkreach/internal/catalog"
	"github.com/715d/sinkreach/internal/profile"
)

// AnalyzerOptions holds configuration options for the analyzer.
type AnalyzerOptions struct {
	// Catalog is the sink table to match against. Nil selects the
	// built-in table.
	Catalog *catalog.Catalog
}

// Analyzer orchestrates the sink reachability and coverage analysis.
type Analyzer struct {
	catalog *catalog.Catalog
}

// NewAnalyzer creates a new analyzer with the given options.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	c := opts.Catalog
	if c == nil {
		c = catalog.Default()
	}
	return &Analyzer{catalog: c}
}

// Analyze runs the full sink analysis over one project bundle. All
// inputs are treated as read-only snapshots; the run always produces a
// (possibly empty) set of occurrences.
func (a *Analyzer) Analyze(project *profile.Project) ([]Occurrence, error) {
	if project == nil {
		return nil, fmt.Errorf("no project provided")
	}

	lang, ok := catalog.ParseLanguage(project.TargetLang)
	if !ok {
		// Unsupported languages degrade to an empty report, not an error.
		slog.Warn("unsupported target language, no sinks will match", "lang", project.TargetLang)
	}

	// Step 1: Aggregate the function universe and all observed call sites.
	callsites, functions := analysis.Collect(project, project.Profiles)
	slog.Info("aggregated corpus", "functions", len(functions), "callsites", len(callsites))

	// Step 2: Index call sites by callee name.
	idx := analysis.Index(functions, callsites)

	// Step 3: Resolve statically reachable call-site descriptors.
	reachable := analysis.Reachable(functions, idx)
	slog.Info("resolved reachability", "reachable_callsites", len(reachable))

	// Step 4: Select sink functions for the target language.
	sinks := analysis.NewFilter(a.catalog).Sinks(functions, lang)
	slog.Info("filtered sinks", "lang", lang.String(), "sinks", len(sinks))

	// Step 5: Correlate each sink occurrence with runtime coverage.
	var cov profile.Coverage
	if project.Coverage != nil {
		cov = project.Coverage
	}
	rows := analysis.Correlate(sinks, idx, reachable, cov)

	occurrences := make([]Occurrence, 0, len(rows))
	for _, row := range rows {
		occurrences = append(occurrences, Occurrence{
			Sink:                row.Sink,
			Callsite:            row.Callsite,
			StaticallyReachable: row.Reachable,
			CoveredBy:           row.CoveredBy,
		})
	}
	return occurrences, nil
}
