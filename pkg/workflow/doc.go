// Package workflow compiles workflow definitions into task graphs.
//
// # Overview
//
// A definition is a nested mapping of directives. [Builder.Build] walks it
// top-down, creating one [Block] per task and one [dag.Node] per block.
// Directives fall into a small table:
//
//   - structural (_do, _error and any key starting with "+"): spawn a child
//     block and recurse into the value
//   - parallel (_parallel): mark the current block's children as parallel
//   - decorative (operators such as td>, echo>, if>, schedule, _export):
//     extend the current node's label and style
//   - reference (call>, require>): decorate the current node and link it to
//     the resolved workflow page
//
// Unknown keys are ignored.
//
// # Sequencing
//
// Once the block tree is complete, [Wire] adds the edges. Children of a
// sequential block form a chain: each child receives edges from the
// terminal set of the previous one ([Terminals]). Children of a parallel
// block all receive edges from the same frontier, and the block's terminal
// set is the union of theirs, so whatever follows waits on every branch.
//
// # Errors
//
// A structural directive whose value is neither a mapping, null nor a
// string is a malformed definition; Build returns an INVALID_DEFINITION
// error and the graph is discarded. Unresolved references are collected as
// warnings on the [Result] instead.
package workflow
