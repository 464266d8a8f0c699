// Package digfile loads workflow definition files into ordered mappings.
//
// Definitions are YAML documents whose top level is a mapping of directives.
// Key order is significant (sibling tasks run in declaration order), so the
// loader walks [yaml.Node] trees instead of decoding into Go maps.
//
// # Values
//
// Scalars decode to string, bool, int64, float64 or nil. Sequences become
// []any and mappings become [Mapping]. The `!include` tag is opaque: a
// tagged scalar decodes to the string "include <name>" and is never
// expanded. A bare `!include` key (digdag's top-level include syntax) is
// kept as the key "!include".
//
// # Formatting
//
// [Format] renders any decoded value as compact JSON with ", " and ": "
// separators, keeping mapping order, for use in node labels.
package digfile
