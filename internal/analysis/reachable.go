package analysis

import (
	"github.com/715d/sinkreach/internal/profile"
)

// Reachable cross-validates every function's self-recorded outgoing
// calls against the independently built callsite index. A descriptor
// counts as statically reachable only when both sources agree; a
// function's own data alone is not proof. Callees absent from the index
// are unreachable edges, not errors.
func Reachable(functions []*profile.Function, idx CallsiteIndex) DescriptorSet {
	confirmed := make(DescriptorSet)

	for _, fn := range functions {
		for callee, descriptors := range fn.Callsites {
			set, ok := idx[callee]
			if !ok {
				continue
			}
			for _, desc := range descriptors {
				if set.Contains(desc) {
					confirmed[desc] = struct{}{}
				}
			}
		}
	}

	return confirmed
}
