package profile

// CallNode is one node of a profile's call-depth tree. Each node records
// the call edge that reached it: the caller side (source function and
// file, line of the call) and the callee side (destination function and
// file). Nodes at the tree root may carry incomplete caller provenance.
type CallNode struct {
	SrcFunction string `yaml:"src_function,omitempty"`
	SrcFile     string `yaml:"src_file,omitempty"`
	Line        int    `yaml:"line"`
	DstFunction string `yaml:"dst_function"`
	DstFile     string `yaml:"dst_file,omitempty"`

	Children []*CallNode `yaml:"children,omitempty"`
}

// Callsite is one static call edge lifted out of a call tree. It is an
// immutable snapshot; multiple callsites may target the same destination.
type Callsite struct {
	SrcFunction string
	SrcFile     string
	Line        int
	DstFunction string
	DstFile     string

	// Parent indexes the enclosing call-tree node within the flattened
	// slice the callsite came from, or -1 at the tree root. It is a
	// non-owning reference; the tree itself owns the nodes.
	Parent int
}

// Flatten walks the call tree and returns every call edge as a flat
// slice. Traversal is depth-first, but only completeness matters to
// callers, not order. Parent indices refer into the returned slice.
func (n *CallNode) Flatten() []Callsite {
	if n == nil {
		return nil
	}
	var out []Callsite
	n.flatten(&out, -1)
	return out
}

func (n *CallNode) flatten(out *[]Callsite, parent int) {
	*out = append(*out, Callsite{
		SrcFunction: n.SrcFunction,
		SrcFile:     n.SrcFile,
		Line:        n.Line,
		DstFunction: n.DstFunction,
		DstFile:     n.DstFile,
		Parent:      parent,
	})
	self := len(*out) - 1
	for _, child := range n.Children {
		if child != nil {
			child.flatten(out, self)
		}
	}
}
