package dag

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownNode is returned by [Graph.Decorate] and [Graph.Seal] when
	// the node ID was not issued by this graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSealedNode is returned by [Graph.Decorate] once the node's block has
	// finished processing. Sealed nodes are immutable.
	ErrSealedNode = errors.New("node is sealed")

	// ErrSelfEdge is returned by [Graph.AddEdge] when From equals To.
	ErrSelfEdge = errors.New("edge endpoints must differ")
)

// Metadata stores arbitrary key-value pairs attached to the graph, such as
// the workflow name or the source path.
type Metadata map[string]any

// NodeID identifies a node within one Graph. IDs are issued sequentially by
// [Graph.AddNode] starting at 0 and are never reused. IDs from different
// graphs are unrelated.
type NodeID int

// NoParent is the Parent of the root node.
const NoParent NodeID = -1

// NodeKind is the category of task a node represents.
type NodeKind int

const (
	// NodeKindTask is an ordinary task box.
	NodeKindTask NodeKind = iota
	// NodeKindRoot is the workflow's entry node.
	NodeKindRoot
	// NodeKindDecision is a conditional (if>) task.
	NodeKindDecision
	// NodeKindCall is a task that calls or requires another workflow.
	NodeKindCall
	// NodeKindExport marks a task carrying _export parameters.
	NodeKindExport
	// NodeKindEmpty is the placeholder synthesized for an empty definition.
	NodeKindEmpty
)

var kindNames = map[NodeKind]string{
	NodeKindTask:     "task",
	NodeKindRoot:     "root",
	NodeKindDecision: "decision",
	NodeKindCall:     "call",
	NodeKindExport:   "export",
	NodeKindEmpty:    "empty",
}

// String returns the lowercase kind name ("task", "call", ...).
func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseNodeKind is the inverse of [NodeKind.String]. Unknown names map to
// NodeKindTask.
func ParseNodeKind(s string) NodeKind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return NodeKindTask
}

// Style holds the visual attributes the renderer needs. The values are
// opaque to this package (Graphviz color and shape names in practice).
type Style struct {
	Color    string  // outline color
	PenWidth float64 // emphasis weight; 0 means renderer default
	Shape    string  // node shape; empty means renderer default
	Tooltip  string  // hover text
	Href     string  // hyperlink target
}

// merge copies every non-zero field of d into s.
func (s *Style) merge(d Style) {
	if d.Color != "" {
		s.Color = d.Color
	}
	if d.PenWidth != 0 {
		s.PenWidth = d.PenWidth
	}
	if d.Shape != "" {
		s.Shape = d.Shape
	}
	if d.Tooltip != "" {
		s.Tooltip = d.Tooltip
	}
	if d.Href != "" {
		s.Href = d.Href
	}
}

// Decoration is an additive change to a node. Label is appended on a new
// line, non-zero Style fields replace the current ones, and Kind replaces
// the node kind unless it is NodeKindTask.
type Decoration struct {
	Label string
	Style Style
	Kind  NodeKind
}

// Node is one task box.
//
// Nodes are created by [Graph.AddNode] and mutated only through
// [Graph.Decorate] until [Graph.Seal] is called.
type Node struct {
	ID     NodeID
	Label  string
	Kind   NodeKind
	Style  Style
	Parent NodeID // containing node, NoParent for the root

	sealed bool
}

// Sealed reports whether the node can no longer be decorated.
func (n *Node) Sealed() bool { return n.sealed }

// Edge is a directed connection from one node to another.
type Edge struct {
	From NodeID
	To   NodeID
}

// Graph is the node and edge set produced for one workflow definition.
// Node IDs are dense indexes into the node arena. The edge set never holds
// duplicates and keeps insertion order.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes    []*Node
	edges    []Edge
	seen     map[Edge]struct{}
	children map[NodeID][]NodeID
	outgoing map[NodeID][]NodeID
	incoming map[NodeID][]NodeID
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		seen:     make(map[Edge]struct{}),
		children: make(map[NodeID][]NodeID),
		outgoing: make(map[NodeID][]NodeID),
		incoming: make(map[NodeID][]NodeID),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode creates a node contained in parent (NoParent for a root) and
// returns its freshly issued ID.
func (g *Graph) AddNode(label string, kind NodeKind, style Style, parent NodeID) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{
		ID:     id,
		Label:  label,
		Kind:   kind,
		Style:  style,
		Parent: parent,
	})
	if parent != NoParent {
		g.children[parent] = append(g.children[parent], id)
	}
	return id
}

// Decorate merges d into the node. The label is never replaced, only
// extended.
func (g *Graph) Decorate(id NodeID, d Decoration) error {
	n, ok := g.Node(id)
	if !ok {
		return ErrUnknownNode
	}
	if n.sealed {
		return ErrSealedNode
	}
	if d.Label != "" {
		if n.Label == "" {
			n.Label = d.Label
		} else {
			n.Label += "\n" + d.Label
		}
	}
	n.Style.merge(d.Style)
	if d.Kind != NodeKindTask {
		n.Kind = d.Kind
	}
	return nil
}

// Seal freezes the node against further decoration.
func (g *Graph) Seal(id NodeID) error {
	n, ok := g.Node(id)
	if !ok {
		return ErrUnknownNode
	}
	n.sealed = true
	return nil
}

// AddEdge adds the edge from→to. It reports whether the edge was new; adding
// an existing edge is a no-op.
func (g *Graph) AddEdge(from, to NodeID) (bool, error) {
	if _, ok := g.Node(from); !ok {
		return false, ErrUnknownSourceNode
	}
	if _, ok := g.Node(to); !ok {
		return false, ErrUnknownTargetNode
	}
	if from == to {
		return false, ErrSelfEdge
	}
	e := Edge{From: from, To: to}
	if _, dup := g.seen[e]; dup {
		return false, nil
	}
	g.seen[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return true, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[id], true
}

// Nodes returns all nodes in creation order. The pointers refer to the
// graph's own nodes.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to NodeID) bool {
	_, ok := g.seen[Edge{From: from, To: to}]
	return ok
}

// Contained returns the IDs of nodes whose Parent is id, in creation order.
func (g *Graph) Contained(id NodeID) []NodeID { return g.children[id] }

// Successors returns the targets of edges leaving id.
// The returned slice should not be modified.
func (g *Graph) Successors(id NodeID) []NodeID { return g.outgoing[id] }

// Predecessors returns the sources of edges entering id.
// The returned slice should not be modified.
func (g *Graph) Predecessors(id NodeID) []NodeID { return g.incoming[id] }

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id NodeID) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering id.
func (g *Graph) InDegree(id NodeID) int { return len(g.incoming[id]) }

// Roots returns the nodes without a containing node.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Parent == NoParent {
			out = append(out, n)
		}
	}
	return out
}

// LabelPair is an edge expressed through its endpoint labels.
type LabelPair struct {
	From string
	To   string
}

// EdgeLabels returns the edge set as sorted label pairs. Two graphs built
// from the same input produce equal results even though node IDs are
// unrelated across graphs.
func (g *Graph) EdgeLabels() []LabelPair {
	out := make([]LabelPair, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, LabelPair{From: g.nodes[e.From].Label, To: g.nodes[e.To].Label})
	}
	slices.SortFunc(out, func(a, b LabelPair) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}
