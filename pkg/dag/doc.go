// Package dag provides the node and edge model for workflow graphs.
//
// # Overview
//
// Each workflow definition becomes one [Graph]. A node is one task box: a
// label that grows as directives are applied, a [NodeKind] (ordinary task,
// decision, call, export marker, empty placeholder, root) and a [Style]
// carrying opaque render attributes (color, pen width, shape, tooltip,
// hyperlink).
//
// # Identity
//
// Node IDs are arena indexes issued by [Graph.AddNode], starting at 0 for
// every graph. There is no global generator, so building the same input
// twice yields the same IDs and the same edges.
//
// # Mutation
//
// Nodes change only through [Graph.Decorate], which appends to the label
// and merges non-zero style fields. Once the owning block is finished the
// builder calls [Graph.Seal]; later decorations fail with [ErrSealedNode].
// Nodes are never deleted.
//
// # Edges
//
// [Graph.AddEdge] ignores duplicates, so the edge set has no repeated
// (from, to) pairs. Acyclicity is not checked here: the workflow builder only
// adds edges from already visited nodes to newly created ones.
//
// # Containment
//
// Every node records the node that contains it ([Node.Parent]). Renderers
// use [Graph.Contained] to draw nested clusters mirroring the workflow's
// task nesting.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use.
package dag
