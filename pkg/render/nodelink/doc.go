// Package nodelink renders workflow graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	cmapx, err := nodelink.RenderMap(dot)
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with box nodes
// and red edges. Node styles come straight from [dag.Style]; nodes with an
// href become clickable both in the SVG and in the image map. Tasks nested
// inside another task are drawn inside a cluster unless Options.Flat is set.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering,
// so no Graphviz installation is needed.
//
// [dag.Style]: github.com/matzehuels/digtower/pkg/dag.Style
package nodelink
