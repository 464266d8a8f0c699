// Package io provides JSON import and export for workflow graphs.
//
// The JSON form is written next to the rendered image when the "json"
// output format is requested, and is what "digtower graph --json" prints.
// It can be read back to re-render a graph without the source definition.
//
// # JSON Format
//
//	{
//	  "meta": {"workflow": "main.dig", "path": "proj/main.dig"},
//	  "nodes": [
//	    {"id": 0, "label": "main.dig", "kind": "root", "color": "brown", "href": "../../index.html"},
//	    {"id": 1, "label": "+extract", "parent": 0},
//	    {"id": 2, "label": "+load\nload.dig", "kind": "call", "parent": 0, "penwidth": 3}
//	  ],
//	  "edges": [
//	    {"from": 0, "to": 1},
//	    {"from": 1, "to": 2}
//	  ]
//	}
//
// Node IDs are dense and in creation order. "parent" names the containing
// node and is absent for the root. "kind" is omitted for ordinary tasks.
package io
