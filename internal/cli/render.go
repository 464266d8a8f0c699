package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digtower/pkg/config"
	"github.com/matzehuels/digtower/pkg/errors"
	"github.com/matzehuels/digtower/pkg/pipeline"
)

// batchFlags are the settings every batch-running command can override.
type batchFlags struct {
	output    string
	exclude   string
	formats   string
	tieBreak  string
	edgeColor string
	flat      bool
	noCache   bool
	refresh   bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default \"site\" under the project)")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "directory name to skip (default \"config\")")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "extra artifact format(s): png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&f.tieBreak, "tie-break", "", "which match wins when a reference is found twice: first, last")
	cmd.Flags().StringVar(&f.edgeColor, "edge-color", "", "edge color")
	cmd.Flags().BoolVar(&f.flat, "flat", false, "do not group nested tasks into clusters")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts")
}

// apply overrides cfg with every flag that was set.
func (f *batchFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Project.ExcludeDir = f.exclude
	}
	if formats := parseFormats(f.formats); formats != nil {
		cfg.Output.Formats = append([]string{pipeline.FormatSVG}, formats...)
	}
	if f.tieBreak != "" {
		cfg.Resolve.TieBreak = f.tieBreak
	}
	if f.edgeColor != "" {
		cfg.Output.EdgeColor = f.edgeColor
	}
	if f.flat {
		cfg.Output.Flat = true
	}
	return cfg.Validate()
}

// settings loads the project settings and applies the flags.
func (c *CLI) settings(cmd *cobra.Command, root string, f *batchFlags) (config.Config, pipeline.Options, error) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	cfg, err := c.loadConfig(root)
	if err != nil {
		return cfg, pipeline.Options{}, err
	}
	if err := f.apply(cmd, &cfg); err != nil {
		return cfg, pipeline.Options{}, err
	}
	opts, err := pipeline.FromConfig(cfg, root)
	if err != nil {
		return cfg, opts, err
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return cfg, opts, nil
}

// renderCommand creates the render command, the batch entry point.
func (c *CLI) renderCommand() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "render [project]",
		Short: "Render every workflow of a project",
		Long: `Render every workflow of a project.

Each definition file below the project directory is compiled into a graph,
rendered to SVG with a clickable image map, and written as an HTML page under
<output>/graphs/<directory>/<name>.html. An index page linking every workflow
and a table of all schedules are written to the output directory.

Files under the excluded directory ("config" by default) are skipped. A
definition that fails to compile is reported and the run continues.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectArg(args)
			cfg, opts, err := c.settings(cmd, root, &flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, opts, flags.noCache)
		},
	}
	flags.register(cmd)

	return cmd
}

// runRender executes one batch and prints its summary.
func (c *CLI) runRender(ctx context.Context, cfg config.Config, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg.Cache, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	acc, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d of %d workflows", acc.Processed(), len(acc.Files)))

	printRunSummary(acc, opts)
	if failed := acc.Failed(); len(failed) > 0 {
		return errors.New(errors.ErrCodeInvalidDefinition, "%d definition(s) failed", len(failed))
	}
	return nil
}

func printRunSummary(acc *pipeline.Accumulator, opts pipeline.Options) {
	printNewline()
	for _, f := range acc.Files {
		rel := f.Path
		if r, err := filepath.Rel(opts.Root, f.Path); err == nil {
			rel = r
		}
		if f.Err != nil {
			printError("%s", rel)
			printDetail("%s", errors.UserMessage(f.Err))
			continue
		}
		printSuccess("%s", rel)
		printStats(f.Nodes, f.Edges, f.CacheHit)
	}

	for _, w := range acc.Warnings() {
		printWarning("%s: unresolved reference %q", filepath.Base(w.File), w.Target)
	}

	printNewline()
	out := opts.OutputPath()
	printFile(filepath.Join(out, pipeline.IndexPage))
	printFile(filepath.Join(out, pipeline.SchedulesPage))
	printKeyValue("Run", acc.RunID)
	printKeyValue("Schedules", fmt.Sprint(acc.Schedules.Len()))
	printNextStep("Preview", appName+" serve "+out)
}
