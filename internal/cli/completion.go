package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digtower/pkg/config"
	"github.com/matzehuels/digtower/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for digtower.

Besides commands and flags, the scripts complete workflow files for
"graph", project directories for "render", "watch" and "schedules", and the
accepted values of --format and --tie-break.

Bash:
  $ source <(digtower completion bash)

Zsh:
  $ digtower completion zsh > "${fpath[1]}/_digtower"

Fish:
  $ digtower completion fish > ~/.config/fish/completions/digtower.fish

PowerShell:
  PS> digtower completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions attaches argument and flag completion to every
// subcommand of root. Flags are matched by name, so commands sharing
// batchFlags all get the same behavior.
func registerCompletions(root *cobra.Command) {
	cobra.CheckErr(root.RegisterFlagCompletionFunc("config", completeExt("toml")))

	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "graph":
			cmd.ValidArgsFunction = completeWorkflowFile
			registerFlag(cmd, "format", completeOne(graphFormats))
			registerFlag(cmd, "project", completeDirs)
		case "render", "watch", "schedules", "serve":
			cmd.ValidArgsFunction = completeProjectDir
			registerFlag(cmd, "format", completeList(batchFormats))
			registerFlag(cmd, "output", completeDirs)
		}
		registerFlag(cmd, "tie-break", completeOne([]string{"first", "last"}))
		registerFlag(cmd, "exclude", completeDirs)
	}
}

// Formats offered by "graph" and by the batch commands. svg is always
// written by a batch, so it is not offered there.
var (
	graphFormats = []string{pipeline.FormatDOT, pipeline.FormatJSON, pipeline.FormatSVG, pipeline.FormatPNG}
	batchFormats = slices.DeleteFunc(slices.Clone(config.SupportedFormats), func(f string) bool {
		return f == pipeline.FormatSVG
	})
)

type completionFunc = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

func registerFlag(cmd *cobra.Command, name string, fn completionFunc) {
	if cmd.Flags().Lookup(name) == nil {
		return
	}
	cobra.CheckErr(cmd.RegisterFlagCompletionFunc(name, fn))
}

// completeWorkflowFile offers definitions and exported JSON graphs.
func completeWorkflowFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{strings.TrimPrefix(config.Default().Project.Extension, "."), pipeline.FormatJSON},
		cobra.ShellCompDirectiveFilterFileExt
}

func completeProjectDir(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func completeDirs(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func completeExt(exts ...string) completionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeOne offers a single value from choices.
func completeOne(choices []string) completionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, c := range choices {
			if strings.HasPrefix(c, toComplete) {
				out = append(out, c)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeList offers the next element of a comma-separated list, skipping
// values already present.
func completeList(choices []string) completionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix, partial := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix, partial = toComplete[:i+1], toComplete[i+1:]
		}
		used := strings.Split(strings.TrimSuffix(prefix, ","), ",")

		var out []string
		for _, c := range choices {
			if slices.Contains(used, c) || !strings.HasPrefix(c, partial) {
				continue
			}
			out = append(out, prefix+c)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
