// Package pkg provides the core libraries for Digtower workflow visualization.
//
// # Overview
//
// Digtower compiles digdag workflow definitions (.dig files) into graphs
// that show which task runs after which, where branches run in parallel,
// and which workflows call each other. The pkg directory is organized into
// four main areas:
//
//  1. [digfile], [workflow], [dag] - Compilation (load, build, sequence)
//  2. [resolve], [schedule] - Cross-file references and schedule text
//  3. [render], [io] - Output (DOT, SVG, HTML pages, JSON)
//  4. [pipeline] - Orchestration over a whole project
//
// # Architecture
//
// The typical data flow through Digtower:
//
//	.dig file
//	    ↓
//	[digfile] package (ordered YAML mapping)
//	    ↓
//	[workflow] package (block tree, then edges)
//	    ↓
//	[dag] package (nodes, containment, edges)
//	    ↓
//	[render/nodelink] package (DOT → Graphviz)
//	    ↓
//	SVG/PNG/cmapx + [render/page] HTML
//
// # Quick Start
//
// Compile one definition and print its DOT source:
//
//	import (
//	    "github.com/matzehuels/digtower/pkg/digfile"
//	    "github.com/matzehuels/digtower/pkg/render/nodelink"
//	    "github.com/matzehuels/digtower/pkg/workflow"
//	)
//
//	def, _ := digfile.Load("daily.dig")
//	res, _ := workflow.NewBuilder(workflow.Options{}).Build(def)
//	fmt.Print(nodelink.ToDOT(res.Graph, nodelink.Options{}))
//
// Render a whole project:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	acc, err := runner.Execute(ctx, pipeline.Options{Root: "./project"})
//
// # Infrastructure
//
// [config] - Project settings (digtower.toml) with defaults for every field.
//
// [cache] - Render artifact cache keyed by DOT hash, with file, Redis and
// null backends.
//
// [errors] - Coded errors shared by every package. [errors.IsFatal] decides
// whether a batch stops or skips a file.
//
// [observability] - Hook interfaces for build, render, cache and HTTP
// events. The CLI routes them to its logger.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/workflow/... # Specific package
//	go test -run Example       # Examples only
//
// [digfile]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/digfile
// [workflow]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/workflow
// [dag]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/dag
// [resolve]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/resolve
// [schedule]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/schedule
// [render]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/errors
// [errors.IsFatal]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/errors#IsFatal
// [observability]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/buildinfo
//
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/render/nodelink
// [render/page]: https://pkg.go.dev/github.com/matzehuels/digtower/pkg/render/page
package pkg
