package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digtower/pkg/config"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty means no override", "", nil},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "png,dot,json", []string{"png", "dot", "json"}},
		{"spaces trimmed", "png, json", []string{"png", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func parseBatchFlags(t *testing.T, args ...string) (*cobra.Command, *batchFlags) {
	t.Helper()
	var f batchFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return cmd, &f
}

func TestBatchFlagsApply(t *testing.T) {
	cmd, f := parseBatchFlags(t,
		"-o", "public",
		"--exclude", "",
		"-f", "png,json",
		"--tie-break", "first",
		"--edge-color", "blue",
		"--flat",
	)

	cfg := config.Default()
	if err := f.apply(cmd, &cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.Output.Dir != "public" {
		t.Errorf("Output.Dir = %q, want public", cfg.Output.Dir)
	}
	if cfg.Project.ExcludeDir != "" {
		t.Errorf("ExcludeDir = %q, want empty", cfg.Project.ExcludeDir)
	}
	if want := []string{"svg", "png", "json"}; !slices.Equal(cfg.Output.Formats, want) {
		t.Errorf("Formats = %v, want %v", cfg.Output.Formats, want)
	}
	if cfg.Resolve.TieBreak != "first" {
		t.Errorf("TieBreak = %q, want first", cfg.Resolve.TieBreak)
	}
	if cfg.Output.EdgeColor != "blue" {
		t.Errorf("EdgeColor = %q, want blue", cfg.Output.EdgeColor)
	}
	if !cfg.Output.Flat {
		t.Error("Flat should be set")
	}
}

func TestBatchFlagsApplyUnset(t *testing.T) {
	cmd, f := parseBatchFlags(t)

	cfg := config.Default()
	if err := f.apply(cmd, &cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	def := config.Default()
	if cfg.Output.Dir != def.Output.Dir || cfg.Project.ExcludeDir != def.Project.ExcludeDir {
		t.Errorf("unset flags changed settings: %+v", cfg)
	}
}

func TestBatchFlagsApplyInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"-f", "pdf"}},
		{"unknown tie-break", []string{"--tie-break", "middle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := parseBatchFlags(t, tt.args...)
			cfg := config.Default()
			if err := f.apply(cmd, &cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
