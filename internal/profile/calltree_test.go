package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlattenNilTree(t *testing.T) {
	var tree *CallNode
	require.Nil(t, tree.Flatten())
}

func TestFlattenSingleNode(t *testing.T) {
	tree := &CallNode{DstFunction: "entry", DstFile: "main.c"}

	callsites := tree.Flatten()

	require.Len(t, callsites, 1)
	require.Equal(t, "entry", callsites[0].DstFunction)
	require.Equal(t, -1, callsites[0].Parent, "root has no parent")
}

func TestFlattenParentIndices(t *testing.T) {
	tree := &CallNode{
		DstFunction: "entry",
		DstFile:     "main.c",
		Children: []*CallNode{
			{
				SrcFunction: "entry",
				Line:        10,
				DstFunction: "middle",
				DstFile:     "middle.c",
				Children: []*CallNode{
					{SrcFunction: "middle", Line: 20, DstFunction: "leaf"},
				},
			},
			{SrcFunction: "entry", Line: 12, DstFunction: "sibling"},
		},
	}

	callsites := tree.Flatten()

	require.Len(t, callsites, 4)

	// Parent indices refer back into the flattened slice.
	byDst := make(map[string]Callsite, len(callsites))
	for _, cs := range callsites {
		byDst[cs.DstFunction] = cs
	}

	require.Equal(t, -1, byDst["entry"].Parent)
	require.Equal(t, "entry", callsites[byDst["middle"].Parent].DstFunction)
	require.Equal(t, "middle", callsites[byDst["leaf"].Parent].DstFunction)
	require.Equal(t, "entry", callsites[byDst["sibling"].Parent].DstFunction)
}

func TestFlattenCompleteness(t *testing.T) {
	// Every node of the tree must appear exactly once.
	tree := &CallNode{
		DstFunction: "a",
		Children: []*CallNode{
			{DstFunction: "b", Children: []*CallNode{{DstFunction: "c"}, {DstFunction: "d"}}},
			{DstFunction: "e"},
			nil, // tolerated
		},
	}

	callsites := tree.Flatten()

	var names []string
	for _, cs := range callsites {
		names = append(names, cs.DstFunction)
	}
	require.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, names)
}
