package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digtower/pkg/config"
	"github.com/matzehuels/digtower/pkg/dag"
	"github.com/matzehuels/digtower/pkg/errors"
	pkgio "github.com/matzehuels/digtower/pkg/io"
	"github.com/matzehuels/digtower/pkg/pipeline"
	"github.com/matzehuels/digtower/pkg/render/nodelink"
)

// graphFlags holds the flags of the graph command.
type graphFlags struct {
	project string
	format  string
	output  string
	pick    bool
	flat    bool
	noCache bool
}

// graphCommand creates the graph command, which compiles a single
// definition and prints it.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Compile one workflow and print its graph",
		Long: `Compile one workflow and print its graph.

The graph is written to stdout as DOT by default. Use --format to print
the JSON node and edge list, or to render SVG or PNG. A previously exported
.json graph can be given instead of a definition to re-render it.

With --pick, choose the workflow interactively from the project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			return c.runGraph(cmd, file, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.project, "project", "p", ".", "project root used to resolve references")
	cmd.Flags().StringVarP(&flags.format, "format", "f", pipeline.FormatDOT, "output format: dot, json, svg, png")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&flags.pick, "pick", false, "choose the workflow interactively")
	cmd.Flags().BoolVar(&flags.flat, "flat", false, "do not group nested tasks into clusters")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, file string, flags graphFlags) error {
	ctx := cmd.Context()
	format := strings.ToLower(flags.format)
	switch format {
	case pipeline.FormatDOT, pipeline.FormatJSON, pipeline.FormatSVG, pipeline.FormatPNG:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want dot, json, svg or png)", flags.format)
	}

	var bf batchFlags
	bf.flat = flags.flat
	cfg, opts, err := c.settings(cmd, flags.project, &bf)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if flags.pick {
		files, err := pipeline.Discover(opts.Root, opts.Extension, opts.ExcludeDir, opts.OutputPath(), opts.Logger)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			printInfo("No workflows found under %s", opts.Root)
			return nil
		}
		file, err = pickWorkflow(opts.Root, files)
		if err != nil || file == "" {
			return err
		}
	}
	if file == "" {
		return errors.New(errors.ErrCodeInvalidPath, "no workflow given (pass a file or --pick)")
	}

	g, err := loadGraph(opts, file)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(g, opts.DOTOptions())

	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatJSON:
		if flags.output != "" {
			if err := pkgio.ExportJSON(g, flags.output); err != nil {
				return errors.Wrap(errors.ErrCodeOutputNotWritable, err, "write %s", flags.output)
			}
			printFile(flags.output)
			return nil
		}
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(g, &buf); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		data, err = c.renderGraph(ctx, cfg.Cache, opts, dot, format, flags.noCache)
		if err != nil {
			return err
		}
	}

	return writeGraphOutput(cmd.OutOrStdout(), flags.output, data)
}

// loadGraph compiles a definition, or reads an exported JSON graph.
func loadGraph(opts pipeline.Options, file string) (*dag.Graph, error) {
	if filepath.Ext(file) == "."+pipeline.FormatJSON {
		return pkgio.ImportJSON(file)
	}
	built, _, err := pipeline.BuildFile(opts.NewBuilder(), file)
	if err != nil {
		return nil, err
	}
	for _, w := range built.Warnings {
		printWarning("unresolved reference %q", w.Target)
	}
	return built.Graph, nil
}

// renderGraph renders dot to svg or png behind a spinner.
func (c *CLI) renderGraph(ctx context.Context, cacheCfg config.Cache, opts pipeline.Options, dot, format string, noCache bool) ([]byte, error) {
	runner, err := c.newRunner(ctx, cacheCfg, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if format == pipeline.FormatPNG {
		opts.Formats = append(opts.Formats, pipeline.FormatPNG)
	}

	spinner := newSpinner(ctx, "Rendering "+format+"...")
	spinner.Start()
	artifacts, _, err := runner.Render(ctx, dot, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()

	data, ok := artifacts[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s missing from render output", format)
	}
	return data, nil
}

func writeGraphOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputNotWritable, err, "write %s", path)
	}
	printFile(path)
	return nil
}
