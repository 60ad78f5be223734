package profile

import "slices"

// Coverage answers runtime coverage queries for the analyzed project.
type Coverage interface {
	// IsLineHit reports whether the given line inside the named function
	// was executed by at least one fuzzer at runtime.
	IsLineHit(funcName string, line int) bool
}

// LineCoverage is the map-backed coverage index parsed from a project
// bundle. The zero value reports nothing as hit.
type LineCoverage struct {
	// Hits maps a function name to the source lines executed inside it.
	Hits map[string][]int `yaml:"hits"`
}

// IsLineHit implements Coverage. Safe to call on a nil receiver.
func (c *LineCoverage) IsLineHit(funcName string, line int) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Hits[funcName], line)
}
