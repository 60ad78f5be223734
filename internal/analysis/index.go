package analysis

import (
	"fmt"
	"maps"
	"slices"

	"github.com/715d/sinkreach/internal/profile"
)

// DescriptorSet is a de-duplicated set of call-site descriptor strings.
type DescriptorSet map[string]struct{}

// Contains reports whether the descriptor is a member of the set.
func (s DescriptorSet) Contains(desc string) bool {
	_, ok := s[desc]
	return ok
}

// Sorted returns the descriptors in lexical order.
func (s DescriptorSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// CallsiteIndex maps a function name to the set of distinct call-site
// descriptors that target it.
type CallsiteIndex map[string]DescriptorSet

// Descriptor formats the canonical call-site identity string. Two call
// sites are the same iff their descriptor strings are equal.
func Descriptor(file, caller string, line int) string {
	return fmt.Sprintf("%s#%s:%d", file, caller, line)
}

// provenanceFn resolves one provenance field of the i-th callsite,
// reporting false when it has nothing to offer.
type provenanceFn func(callsites []profile.Callsite, i int) (string, bool)

// Provenance fallback chains, tried in order. Not every tree node
// carries complete provenance; the immediate ancestor is the best
// available substitute. An exhausted chain resolves to "".
var (
	sourceFileChain = []provenanceFn{ownSourceFile, parentDstFile}
	callerNameChain = []provenanceFn{ownCallerName, parentDstFunction}
)

func ownSourceFile(callsites []profile.Callsite, i int) (string, bool) {
	if f := callsites[i].SrcFile; f != "" {
		return f, true
	}
	return "", false
}

func parentDstFile(callsites []profile.Callsite, i int) (string, bool) {
	if p := callsites[i].Parent; p >= 0 && p < len(callsites) && callsites[p].DstFile != "" {
		return callsites[p].DstFile, true
	}
	return "", false
}

func ownCallerName(callsites []profile.Callsite, i int) (string, bool) {
	if f := callsites[i].SrcFunction; f != "" {
		return f, true
	}
	return "", false
}

func parentDstFunction(callsites []profile.Callsite, i int) (string, bool) {
	if p := callsites[i].Parent; p >= 0 && p < len(callsites) && callsites[p].DstFunction != "" {
		return callsites[p].DstFunction, true
	}
	return "", false
}

func resolve(chain []provenanceFn, callsites []profile.Callsite, i int) string {
	for _, fn := range chain {
		if v, ok := fn(callsites, i); ok {
			return v
		}
	}
	return ""
}

// Index builds the callsite index for the given function universe.
// Every known function is pre-seeded with an empty set so later queries
// never miss. Call sites targeting functions outside the universe are
// ignored.
func Index(functions []*profile.Function, callsites []profile.Callsite) CallsiteIndex {
	idx := make(CallsiteIndex, len(functions))
	for _, fn := range functions {
		idx[fn.Name] = make(DescriptorSet)
	}

	for i, cs := range callsites {
		set, ok := idx[cs.DstFunction]
		if !ok {
			continue
		}
		file := resolve(sourceFileChain, callsites, i)
		caller := resolve(callerNameChain, callsites, i)
		set[Descriptor(file, caller, cs.Line)] = struct{}{}
	}

	return idx
}
