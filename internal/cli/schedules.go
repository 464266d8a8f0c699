package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/digtower/pkg/pipeline"
	"github.com/matzehuels/digtower/pkg/schedule"
)

// schedulesCommand creates the schedules command, which prints the schedule
// catalog without writing any files.
func (c *CLI) schedulesCommand() *cobra.Command {
	var (
		flags  batchFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "schedules [project]",
		Short: "List every scheduled workflow of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := c.settings(cmd, projectArg(args), &flags)
			if err != nil {
				return err
			}
			catalog, err := collectSchedules(opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeSchedulesJSON(cmd.OutOrStdout(), catalog.Entries())
			}
			if catalog.Len() == 0 {
				printInfo("No scheduled workflows")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderScheduleTable(catalog.Entries()))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.exclude, "exclude", "", "directory name to skip (default \"config\")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	return cmd
}

// collectSchedules compiles every definition and gathers its schedules.
// Files that fail to compile are logged and skipped.
func collectSchedules(opts pipeline.Options) (*schedule.Catalog, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	files, err := pipeline.Discover(opts.Root, opts.Extension, opts.ExcludeDir, opts.OutputPath(), opts.Logger)
	if err != nil {
		return nil, err
	}

	builder := opts.NewBuilder()
	catalog := &schedule.Catalog{}
	for _, file := range files {
		built, def, err := pipeline.BuildFile(builder, file)
		if err != nil {
			opts.Logger.Warn("skipping definition", "file", file, "err", err)
			continue
		}
		for _, desc := range built.Schedules {
			catalog.Append(schedule.Entry{
				Workflow:    def.Name,
				Description: desc,
				Link:        pipeline.PageLink(opts, def),
			})
		}
	}
	return catalog, nil
}

func writeSchedulesJSON(w io.Writer, entries []schedule.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// renderScheduleTable formats the catalog for the terminal. Multi-line
// descriptions keep only their last line, the human-readable sentence.
func renderScheduleTable(entries []schedule.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		desc := e.Description
		if i := strings.LastIndex(desc, "\n"); i >= 0 {
			desc = desc[i+1:]
		}
		rows = append(rows, []string{e.Workflow, desc, e.Link})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Workflow", "Schedule", "Page").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
