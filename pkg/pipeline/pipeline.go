// Package pipeline runs the batch: every definition file in a project is
// loaded, compiled to a graph, rendered, and written as a page, while a
// project index and a schedule catalog accumulate across files.
//
// # Architecture
//
// Each file goes through three stages:
//
//  1. Build: load the definition and compile it with [workflow.Builder]
//  2. Render: convert the graph to DOT and render SVG, the click map and
//     any extra formats through Graphviz (cached by DOT hash)
//  3. Write: store the artifacts and the HTML page under the output
//     directory
//
// Files are processed one at a time in lexical path order. A file that
// fails to load, build or render is logged and recorded in the
// [Accumulator]; the batch continues with the next file. Only an output
// directory that cannot be written to, or a cancelled context, stops the
// batch.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	acc, err := runner.Execute(ctx, pipeline.Options{Root: "./project"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range acc.Failed() {
//	    fmt.Println(f.Path, f.Err)
//	}
//
// [workflow.Builder]: github.com/matzehuels/digtower/pkg/workflow.Builder
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digtower/pkg/cache"
	"github.com/matzehuels/digtower/pkg/config"
	"github.com/matzehuels/digtower/pkg/errors"
	"github.com/matzehuels/digtower/pkg/render/nodelink"
	"github.com/matzehuels/digtower/pkg/resolve"
	"github.com/matzehuels/digtower/pkg/workflow"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Fixed names inside the output directory.
const (
	GraphsDir     = "graphs"
	IndexPage     = "index.html"
	SchedulesPage = "scheduled_workflows.html"
)

// Options configures a batch run.
type Options struct {
	Root          string   // project root
	OutputDir     string   // output directory; relative paths are under Root
	Extension     string   // definition file extension
	ExcludeDir    string   // directory name skipped during discovery and resolution
	Formats       []string // artifact formats; svg is always written
	PageExtension string   // extension of generated pages
	HomeHref      string   // root node link
	TieBreak      resolve.TieBreak
	EdgeColor     string
	Flat          bool
	CacheTTL      time.Duration
	Refresh       bool // ignore cached artifacts

	// Logger receives per-file progress. Nil means the Runner's logger.
	Logger *log.Logger
}

// FromConfig converts loaded settings into Options for the project at root.
func FromConfig(cfg config.Config, root string) (Options, error) {
	tb, err := resolve.ParseTieBreak(cfg.Resolve.TieBreak)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Root:          root,
		OutputDir:     cfg.Output.Dir,
		Extension:     cfg.Project.Extension,
		ExcludeDir:    cfg.Project.ExcludeDir,
		Formats:       slices.Clone(cfg.Output.Formats),
		PageExtension: cfg.Output.PageExtension,
		HomeHref:      cfg.Output.HomeHref,
		TieBreak:      tb,
		EdgeColor:     cfg.Output.EdgeColor,
		Flat:          cfg.Output.Flat,
		CacheTTL:      cfg.Cache.TTL.Duration,
	}, nil
}

// ValidateAndSetDefaults fills empty fields from config.Default and checks
// the result.
func (o *Options) ValidateAndSetDefaults() error {
	def := config.Default()
	if o.Root == "" {
		o.Root = "."
	}
	if abs, err := filepath.Abs(o.Root); err == nil {
		o.Root = abs
	}
	if o.OutputDir == "" {
		o.OutputDir = def.Output.Dir
	}
	if o.Extension == "" {
		o.Extension = def.Project.Extension
	}
	if o.PageExtension == "" {
		o.PageExtension = def.Output.PageExtension
	}
	if o.HomeHref == "" {
		o.HomeHref = def.Output.HomeHref
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateExtension(o.Extension); err != nil {
		return err
	}
	return errors.ValidateFormats(o.Formats, config.SupportedFormats)
}

// OutputPath returns the absolute-or-root-relative output directory.
func (o *Options) OutputPath() string {
	if filepath.IsAbs(o.OutputDir) {
		return o.OutputDir
	}
	return filepath.Join(o.Root, o.OutputDir)
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return format == FormatSVG || slices.Contains(o.Formats, format)
}

// NewBuilder returns a Builder resolving references within the project.
func (o *Options) NewBuilder() *workflow.Builder {
	return workflow.NewBuilder(workflow.Options{
		Resolver: &resolve.Resolver{
			Root:          o.Root,
			Extension:     o.Extension,
			PageExtension: o.PageExtension,
			TieBreak:      o.TieBreak,
			ExcludeDir:    o.ExcludeDir,
			Logger:        o.Logger,
		},
		HomeHref: o.HomeHref,
		Logger:   o.Logger,
	})
}

// DOTOptions returns the DOT generation settings.
func (o *Options) DOTOptions() nodelink.Options {
	return nodelink.Options{EdgeColor: o.EdgeColor, Flat: o.Flat}
}
