package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/digtower/pkg/dag"
)

type graph struct {
	Meta  dag.Metadata `json:"meta,omitempty"`
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
}

type node struct {
	ID      int     `json:"id"`
	Label   string  `json:"label"`
	Kind    string  `json:"kind,omitempty"`
	Parent  *int    `json:"parent,omitempty"`
	Color   string  `json:"color,omitempty"`
	Pen     float64 `json:"penwidth,omitempty"`
	Shape   string  `json:"shape,omitempty"`
	Tooltip string  `json:"tooltip,omitempty"`
	Href    string  `json:"href,omitempty"`
}

type edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// WriteJSON encodes a workflow graph as JSON and writes it to w.
// The output includes all nodes (with style, kind and parent) and edges.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *dag.Graph, w io.Writer) error {
	out := graph{
		Meta:  g.Meta(),
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		nd := node{
			ID:      int(n.ID),
			Label:   n.Label,
			Color:   n.Style.Color,
			Pen:     n.Style.PenWidth,
			Shape:   n.Style.Shape,
			Tooltip: n.Style.Tooltip,
			Href:    n.Style.Href,
		}
		if n.Kind != dag.NodeKindTask {
			nd.Kind = n.Kind.String()
		}
		if n.Parent != dag.NoParent {
			p := int(n.Parent)
			nd.Parent = &p
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: int(e.From), To: int(e.To)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
