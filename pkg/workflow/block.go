package workflow

import "github.com/matzehuels/digtower/pkg/dag"

// Block is one task entry. It owns its node and its ordered children.
type Block struct {
	Node     dag.NodeID
	Children []*Block
	Parallel bool
}

// Terminals returns the exit nodes of b. A leaf exits through its own node;
// a sequential block exits through its last child; a parallel block exits
// through all of its children. The result is never empty.
func Terminals(b *Block) []dag.NodeID {
	if len(b.Children) == 0 {
		return []dag.NodeID{b.Node}
	}
	if !b.Parallel {
		return Terminals(b.Children[len(b.Children)-1])
	}
	var out []dag.NodeID
	for _, c := range b.Children {
		out = append(out, Terminals(c)...)
	}
	return out
}

// Walk calls fn for b and every descendant in depth-first declaration order.
func Walk(b *Block, fn func(*Block)) {
	fn(b)
	for _, c := range b.Children {
		Walk(c, fn)
	}
}
