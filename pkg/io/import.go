package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/digtower/pkg/dag"
)

// ReadJSON decodes a JSON graph written by [WriteJSON].
//
// Node IDs must be dense and in order (0, 1, 2, ...), since the graph issues
// IDs itself; a parent must precede its children. Every node of the
// returned graph is sealed.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(data.Meta)
	for i, n := range data.Nodes {
		if n.ID != i {
			return nil, fmt.Errorf("node %d: out of order (expected id %d)", n.ID, i)
		}
		parent := dag.NoParent
		if n.Parent != nil {
			if *n.Parent < 0 || *n.Parent >= i {
				return nil, fmt.Errorf("node %d: unknown parent %d", n.ID, *n.Parent)
			}
			parent = dag.NodeID(*n.Parent)
		}
		id := g.AddNode(n.Label, dag.ParseNodeKind(n.Kind), dag.Style{
			Color:    n.Color,
			PenWidth: n.Pen,
			Shape:    n.Shape,
			Tooltip:  n.Tooltip,
			Href:     n.Href,
		}, parent)
		_ = g.Seal(id)
	}
	for _, e := range data.Edges {
		if _, err := g.AddEdge(dag.NodeID(e.From), dag.NodeID(e.To)); err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
	}

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
