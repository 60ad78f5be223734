// Package analysis implements the sink reachability core: corpus
// aggregation, callsite indexing, static reachability resolution, sink
// filtering and dynamic coverage correlation.
package analysis

import (
	"github.com/715d/sinkreach/internal/profile"
)

// Collect gathers the de-duplicated universe of known functions and
// every call site observed across the project's fuzz-entry profiles.
//
// The project-wide registry is walked first, then each profile's own
// registry; the first occurrence of a name wins and later duplicates
// are dropped silently. Profiles without call-depth data contribute
// zero call sites.
func Collect(project *profile.Project, profiles []*profile.EntryProfile) ([]profile.Callsite, []*profile.Function) {
	var callsites []profile.Callsite
	var functions []*profile.Function
	seen := make(map[string]struct{})

	add := func(list []*profile.Function) {
		for _, fn := range list {
			if fn == nil {
				continue
			}
			if _, dup := seen[fn.Name]; dup {
				continue
			}
			seen[fn.Name] = struct{}{}
			functions = append(functions, fn)
		}
	}

	if project != nil {
		add(project.Functions)
	}

	for _, p := range profiles {
		if p == nil {
			continue
		}
		if p.CallTree != nil {
			// Parent indices are local to each flattened tree; rebase
			// them into the combined slice so fallback resolution never
			// crosses into another profile's tree.
			base := len(callsites)
			for _, cs := range p.CallTree.Flatten() {
				if cs.Parent >= 0 {
					cs.Parent += base
				}
				callsites = append(callsites, cs)
			}
		}
		add(p.Functions)
	}

	return callsites, functions
}
