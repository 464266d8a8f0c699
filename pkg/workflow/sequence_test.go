package workflow

import (
	"slices"
	"testing"

	"github.com/matzehuels/digtower/pkg/dag"
)

// grow builds blocks in g from a compact description: each child is either a
// leaf label or a nested group.
type shape struct {
	label    string
	parallel bool
	children []shape
}

func grow(g *dag.Graph, s shape, parent dag.NodeID) *Block {
	b := &Block{Node: g.AddNode(s.label, dag.NodeKindTask, dag.Style{}, parent), Parallel: s.parallel}
	for _, c := range s.children {
		b.Children = append(b.Children, grow(g, c, b.Node))
	}
	return b
}

func labels(g *dag.Graph, ids []dag.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		n, _ := g.Node(id)
		out[i] = n.Label
	}
	slices.Sort(out)
	return out
}

func leaf(l string) shape { return shape{label: l} }

func TestTerminals(t *testing.T) {
	tests := []struct {
		name string
		tree shape
		want []string
	}{
		{"leaf", leaf("a"), []string{"a"}},
		{"sequential", shape{label: "r", children: []shape{leaf("a"), leaf("b")}}, []string{"b"}},
		{"parallel", shape{label: "r", parallel: true, children: []shape{leaf("a"), leaf("b"), leaf("c")}}, []string{"a", "b", "c"}},
		{
			"sequential ending in parallel",
			shape{label: "r", children: []shape{leaf("a"), {label: "p", parallel: true, children: []shape{leaf("x"), leaf("y")}}}},
			[]string{"x", "y"},
		},
		{
			"parallel of sequences",
			shape{label: "r", parallel: true, children: []shape{
				{label: "s1", children: []shape{leaf("a1"), leaf("a2")}},
				{label: "s2", children: []shape{leaf("b1")}},
			}},
			[]string{"a2", "b1"},
		},
		{"parallel without children", shape{label: "r", parallel: true}, []string{"r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := dag.New(nil)
			b := grow(g, tt.tree, dag.NoParent)
			got := labels(g, Terminals(b))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Terminals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWireSequentialChain(t *testing.T) {
	const n = 5
	g := dag.New(nil)
	s := shape{label: "r"}
	for _, l := range []string{"t1", "t2", "t3", "t4", "t5"} {
		s.children = append(s.children, leaf(l))
	}
	root := grow(g, s, dag.NoParent)

	frontier, err := Wire(g, root)
	if err != nil {
		t.Fatal(err)
	}

	// One entry edge plus n-1 chain links.
	if g.EdgeCount() != n {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), n)
	}
	if g.OutDegree(root.Node) != 1 {
		t.Errorf("root out-degree = %d, want 1", g.OutDegree(root.Node))
	}
	for i := 0; i+1 < n; i++ {
		if !g.HasEdge(root.Children[i].Node, root.Children[i+1].Node) {
			t.Errorf("missing chain edge %d -> %d", i, i+1)
		}
	}
	if got := labels(g, frontier); !slices.Equal(got, []string{"t5"}) {
		t.Errorf("frontier = %v, want [t5]", got)
	}
}

func TestWireParallelFanOutFanIn(t *testing.T) {
	g := dag.New(nil)
	root := grow(g, shape{label: "r", children: []shape{
		{label: "p", parallel: true, children: []shape{
			{label: "s1", children: []shape{leaf("a1"), leaf("a2")}},
			leaf("b"),
			{label: "s3", parallel: true, children: []shape{leaf("c1"), leaf("c2")}},
		}},
		leaf("after"),
	}}, dag.NoParent)

	if _, err := Wire(g, root); err != nil {
		t.Fatal(err)
	}
	p := root.Children[0]

	// One fan-out edge per parallel child, all from the pre-group frontier.
	if g.OutDegree(p.Node) != 3 {
		t.Errorf("fan-out = %d, want 3", g.OutDegree(p.Node))
	}
	for _, c := range p.Children {
		if !g.HasEdge(p.Node, c.Node) {
			t.Errorf("missing fan-out edge to %d", c.Node)
		}
	}
	// Siblings of a parallel group are never chained to each other.
	if g.HasEdge(p.Children[0].Node, p.Children[1].Node) || g.HasEdge(p.Children[1].Node, p.Children[2].Node) {
		t.Error("parallel children must not be chained")
	}

	// Post-group frontier = sum of disjoint terminal sets (1 + 1 + 2).
	term := Terminals(p)
	if len(term) != 4 {
		t.Fatalf("terminal set size = %d, want 4", len(term))
	}
	after := root.Children[1].Node
	for _, id := range term {
		if !g.HasEdge(id, after) {
			t.Errorf("missing fan-in edge %d -> after", id)
		}
	}
	if g.InDegree(after) != 4 {
		t.Errorf("after in-degree = %d, want 4", g.InDegree(after))
	}
}

func TestWireParallelWithoutChildrenPassesFrontierThrough(t *testing.T) {
	g := dag.New(nil)
	a := g.AddNode("a", dag.NodeKindTask, dag.Style{}, dag.NoParent)
	b := g.AddNode("b", dag.NodeKindTask, dag.Style{}, dag.NoParent)

	got, err := wireChildren(g, []dag.NodeID{a, b}, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []dag.NodeID{a, b}) {
		t.Errorf("frontier = %v, want [%d %d]", got, a, b)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestWireParallelUsesOriginalFrontier(t *testing.T) {
	g := dag.New(nil)
	f1 := g.AddNode("f1", dag.NodeKindTask, dag.Style{}, dag.NoParent)
	f2 := g.AddNode("f2", dag.NodeKindTask, dag.Style{}, dag.NoParent)
	var children []*Block
	for _, l := range []string{"x", "y", "z"} {
		children = append(children, &Block{Node: g.AddNode(l, dag.NodeKindTask, dag.Style{}, dag.NoParent)})
	}

	got, err := wireChildren(g, []dag.NodeID{f1, f2}, children, true)
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 6 {
		t.Errorf("EdgeCount() = %d, want 6", g.EdgeCount())
	}
	for _, c := range children {
		if !g.HasEdge(f1, c.Node) || !g.HasEdge(f2, c.Node) {
			t.Errorf("child %d missing an edge from the original frontier", c.Node)
		}
	}
	if len(got) != 3 {
		t.Errorf("frontier size = %d, want 3", len(got))
	}
}

func TestWalkVisitsInDeclarationOrder(t *testing.T) {
	g := dag.New(nil)
	root := grow(g, shape{label: "r", children: []shape{
		{label: "a", children: []shape{leaf("a1")}},
		leaf("b"),
	}}, dag.NoParent)

	var got []string
	Walk(root, func(b *Block) {
		n, _ := g.Node(b.Node)
		got = append(got, n.Label)
	})
	if !slices.Equal(got, []string{"r", "a", "a1", "b"}) {
		t.Errorf("Walk order = %v", got)
	}
}
