package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digtower/pkg/cache"
	"github.com/matzehuels/digtower/pkg/digfile"
	"github.com/matzehuels/digtower/pkg/errors"
	pkgio "github.com/matzehuels/digtower/pkg/io"
	"github.com/matzehuels/digtower/pkg/observability"
	"github.com/matzehuels/digtower/pkg/render/nodelink"
	"github.com/matzehuels/digtower/pkg/render/page"
	"github.com/matzehuels/digtower/pkg/schedule"
	"github.com/matzehuels/digtower/pkg/workflow"
)

// Runner encapsulates batch execution with caching.
//
// The Runner is stateless except for the cache and logger; everything that
// spans files lives in the Accumulator passed to Run.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute discovers every definition under opts.Root, processes them into
// a fresh Accumulator, and writes the index and schedule pages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Accumulator, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	files, err := Discover(opts.Root, opts.Extension, opts.ExcludeDir, opts.OutputPath(), opts.Logger)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("discovered definitions", "root", opts.Root, "files", len(files))

	acc, err := r.Run(ctx, opts, files, NewAccumulator())
	if err != nil {
		return acc, err
	}
	if err := r.WriteSummary(opts, acc); err != nil {
		return acc, err
	}
	return acc, nil
}

// Run processes files in order, appending to acc, and returns acc. A nil
// acc starts a new one. Per-file failures are recorded in acc.Files and do
// not stop the run; the returned error is non-nil only for fatal failures
// (an unwritable output directory) or a cancelled context.
func (r *Runner) Run(ctx context.Context, opts Options, files []string, acc *Accumulator) (*Accumulator, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return acc, fmt.Errorf("invalid options: %w", err)
	}
	if acc == nil {
		acc = NewAccumulator()
	}

	out := opts.OutputPath()
	if err := os.MkdirAll(out, 0755); err != nil {
		return acc, errors.Wrap(errors.ErrCodeOutputNotWritable, err, "create %s", out)
	}

	builder := opts.NewBuilder()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return acc, err
		}

		start := time.Now()
		res, written := r.processFile(ctx, builder, opts, file)
		res.Duration = time.Since(start)
		acc.Files = append(acc.Files, res)

		if res.Err != nil {
			if errors.IsFatal(res.Err) {
				return acc, res.Err
			}
			opts.Logger.Error("skipping definition", "file", file, "err", res.Err)
			continue
		}

		acc.Index = append(acc.Index, written.entry)
		acc.Schedules.Append(written.schedules...)
		opts.Logger.Info("rendered workflow",
			"file", file,
			"nodes", res.Nodes,
			"edges", res.Edges,
			"cached", res.CacheHit,
			"duration", res.Duration)
	}

	return acc, nil
}

// fileOutput is what one successful file contributes to the accumulator.
type fileOutput struct {
	entry     page.IndexEntry
	schedules []schedule.Entry
}

func (r *Runner) processFile(ctx context.Context, builder *workflow.Builder, opts Options, file string) (FileResult, fileOutput) {
	res := FileResult{Path: file}
	hooks := observability.Pipeline()

	buildStart := time.Now()
	hooks.OnBuildStart(ctx, file)
	built, def, err := BuildFile(builder, file)
	nodes := 0
	if built != nil {
		nodes = built.Graph.NodeCount()
	}
	hooks.OnBuildComplete(ctx, file, nodes, time.Since(buildStart), err)
	if err != nil {
		res.Err = err
		return res, fileOutput{}
	}
	res.Nodes = built.Graph.NodeCount()
	res.Edges = built.Graph.EdgeCount()
	res.Warnings = built.Warnings

	dot := nodelink.ToDOT(built.Graph, opts.DOTOptions())

	renderStart := time.Now()
	hooks.OnRenderStart(ctx, file, opts.Formats)
	artifacts, hit, err := r.Render(ctx, dot, opts)
	hooks.OnRenderComplete(ctx, file, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		res.Err = err
		return res, fileOutput{}
	}
	res.CacheHit = hit

	pagePath, err := writeWorkflow(opts, def, built, dot, artifacts)
	if err != nil {
		res.Err = err
		return res, fileOutput{}
	}
	res.Page = pagePath

	link := PageLink(opts, def)
	written := fileOutput{entry: page.IndexEntry{Name: def.Project() + "/" + def.Name, Href: link}}
	for _, desc := range built.Schedules {
		written.schedules = append(written.schedules, schedule.Entry{
			Workflow:    def.Name,
			Description: desc,
			Link:        link,
		})
	}
	return res, written
}

// BuildFile loads and compiles one definition.
func BuildFile(builder *workflow.Builder, file string) (*workflow.Result, *digfile.Definition, error) {
	def, err := digfile.Load(file)
	if err != nil {
		return nil, nil, err
	}
	built, err := builder.Build(def)
	if err != nil {
		return nil, def, err
	}
	return built, def, nil
}

// PageLink returns the link to a definition's page relative to the output
// directory, e.g. "./graphs/proj/main.html".
func PageLink(opts Options, def *digfile.Definition) string {
	return "./" + path.Join(GraphsDir, def.Project(), def.Stem()+"."+opts.PageExtension)
}

// pageDir is where a definition's files are written.
func pageDir(opts Options, def *digfile.Definition) string {
	return filepath.Join(opts.OutputPath(), GraphsDir, def.Project())
}

func writeWorkflow(opts Options, def *digfile.Definition, built *workflow.Result, dot string, artifacts Artifacts) (string, error) {
	dir := pageDir(opts, def)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutputNotWritable, err, "create %s", dir)
	}
	stem := def.Stem()

	files := map[string][]byte{
		stem + ".svg": artifacts[nodelink.FormatSVG],
	}
	if png, ok := artifacts[nodelink.FormatPNG]; ok {
		files[stem+".png"] = png
	}
	if opts.Wants(FormatDOT) {
		files[stem+".dot"] = []byte(dot)
	}
	if opts.Wants(FormatJSON) {
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(built.Graph, &buf); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "encode %s", def.Path)
		}
		files[stem+".json"] = buf.Bytes()
	}

	var html bytes.Buffer
	if err := page.WriteWorkflow(&html, page.Workflow{
		Title: def.Name,
		Image: stem + ".svg",
		Map:   artifacts[nodelink.FormatCMAPX],
	}); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "assemble page for %s", def.Path)
	}
	pagePath := filepath.Join(dir, stem+"."+opts.PageExtension)
	files[filepath.Base(pagePath)] = html.Bytes()

	for name, data := range files {
		if err := writeFile(filepath.Join(dir, name), data); err != nil {
			return "", err
		}
	}
	return pagePath, nil
}

// WriteSummary writes the project index and the schedule table.
func (r *Runner) WriteSummary(opts Options, acc *Accumulator) error {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	out := opts.OutputPath()

	var idx bytes.Buffer
	if err := page.WriteIndex(&idx, page.Index{
		Title:     filepath.Base(filepath.Clean(opts.Root)),
		Entries:   acc.Index,
		Schedules: SchedulesPage,
	}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "assemble index")
	}
	if err := writeFile(filepath.Join(out, IndexPage), idx.Bytes()); err != nil {
		return err
	}

	var table bytes.Buffer
	if err := page.WriteSchedules(&table, acc.Schedules.Entries()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "assemble schedule table")
	}
	if err := writeFile(filepath.Join(out, SchedulesPage), table.Bytes()); err != nil {
		return err
	}

	opts.Logger.Info("wrote summary",
		"run", acc.RunID,
		"workflows", len(acc.Index),
		"schedules", acc.Schedules.Len())
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputNotWritable, err, "write %s", path)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
