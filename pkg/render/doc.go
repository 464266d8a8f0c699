// Package render turns compiled workflow graphs into files.
//
// # Overview
//
// Rendering happens in two steps:
//
//   - [nodelink] converts a graph to DOT and lets Graphviz lay it out into
//     SVG, PNG and a clickable image map (cmapx)
//   - [page] assembles the per-workflow HTML page, the project index and the
//     schedule table
//
// Neither package decides node positions or colors: layout is Graphviz's
// job, and colors and shapes arrive as opaque style attributes set by the
// workflow builder.
//
// [nodelink]: github.com/matzehuels/digtower/pkg/render/nodelink
// [page]: github.com/matzehuels/digtower/pkg/render/page
package render
