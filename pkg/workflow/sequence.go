package workflow

import "github.com/matzehuels/digtower/pkg/dag"

// Wire adds the edges for b and all of its descendants, starting from the
// block's own node, and returns the block's exit frontier.
func Wire(g *dag.Graph, b *Block) ([]dag.NodeID, error) {
	return wireChildren(g, []dag.NodeID{b.Node}, b.Children, b.Parallel)
}

// wireChildren connects children to frontier. Sequential children chain
// through each other's terminal sets; parallel children all hang off the
// original frontier and the result is the union of their terminal sets.
// With no children the frontier is returned unchanged.
func wireChildren(g *dag.Graph, frontier []dag.NodeID, children []*Block, parallel bool) ([]dag.NodeID, error) {
	if len(children) == 0 {
		return frontier, nil
	}

	entry := frontier
	var union []dag.NodeID
	for _, c := range children {
		for _, from := range entry {
			if _, err := g.AddEdge(from, c.Node); err != nil {
				return nil, err
			}
		}
		if _, err := Wire(g, c); err != nil {
			return nil, err
		}
		if parallel {
			union = append(union, Terminals(c)...)
		} else {
			entry = Terminals(c)
		}
	}

	if parallel {
		return union, nil
	}
	return entry, nil
}
