// Package sinkreach reports security-sensitive sink calls and whether
// fuzzers statically reach and dynamically cover them.
package sinkreach

// Occurrence represents one reported sink call site.
type Occurrence struct {
	Sink                string   `json:"sink"`
	Callsite            string   `json:"callsite"`
	StaticallyReachable bool     `json:"statically_reachable"`
	CoveredBy           []string `json:"covered_by"`
}

// Covered reports whether any fuzzer dynamically covered the occurrence.
func (o Occurrence) Covered() bool {
	return len(o.CoveredBy) > 0
}
