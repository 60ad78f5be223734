// Package profile defines the introspection data model consumed by the
// sink analysis: function records, fuzz-entry profiles, call trees and
// runtime coverage. All structures are read-only snapshots for the
// duration of one analysis run.
package profile

// Function represents one known function or method in the analyzed
// project, as produced by the introspection frontend.
type Function struct {
	// Name is the unique name of the function. Names are the join key
	// across all analysis structures.
	Name string `yaml:"name"`

	// RawName is the language-specific raw name, possibly mangled.
	// Empty means the display name is also the raw name.
	RawName string `yaml:"raw_name,omitempty"`

	// SourceFile is the file the function is declared in.
	SourceFile string `yaml:"source_file,omitempty"`

	// IncomingReferences lists the names of functions that call this one.
	IncomingReferences []string `yaml:"incoming_references,omitempty"`

	// ReachedByFuzzers lists the fuzzers observed to reach this function
	// dynamically.
	ReachedByFuzzers []string `yaml:"reached_by_fuzzers,omitempty"`

	// Callsites maps a callee name to the call-site descriptor strings
	// this function produces as caller ("<file>#<caller>:<line>").
	Callsites map[string][]string `yaml:"callsites,omitempty"`
}

// EntryProfile holds the per-fuzzer static and dynamic analysis results
// for one fuzz-entry point.
type EntryProfile struct {
	// FuzzerName identifies the fuzz-entry point this profile belongs to.
	FuzzerName string `yaml:"fuzzer"`

	// Functions is this profile's own function registry.
	Functions []*Function `yaml:"functions,omitempty"`

	// CallTree is the computed call-depth structure rooted at the
	// fuzz-entry point. Nil when no call-depth data was computed.
	CallTree *CallNode `yaml:"call_tree,omitempty"`
}

// Project bundles everything the analysis needs for one run: the
// project-wide function registry, all fuzz-entry profiles and the
// runtime coverage data.
type Project struct {
	// TargetLang is the project's declared target language tag
	// (e.g. "c-cpp", "python", "jvm").
	TargetLang string `yaml:"target_lang"`

	// Functions is the project-wide function registry.
	Functions []*Function `yaml:"functions,omitempty"`

	// Profiles are the per-fuzzer analysis results.
	Profiles []*EntryProfile `yaml:"profiles,omitempty"`

	// Coverage is the merged runtime line coverage across all fuzzers.
	Coverage *LineCoverage `yaml:"coverage,omitempty"`
}
