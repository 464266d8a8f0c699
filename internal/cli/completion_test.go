package cli

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"
)

// complete runs cobra's hidden completion command and returns the offered
// values and the directive line.
func complete(t *testing.T, args ...string) ([]string, string) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"__complete"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("__complete %v: %v", args, err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	last := len(lines) - 1
	return lines[:last], lines[last]
}

func TestCompleteGraphFormat(t *testing.T) {
	got, directive := complete(t, "graph", "--format", "")
	if want := []string{"dot", "json", "svg", "png"}; !slices.Equal(got, want) {
		t.Errorf("completions = %v, want %v", got, want)
	}
	if directive != ":4" {
		t.Errorf("directive = %s, want :4 (no file completion)", directive)
	}

	got, _ = complete(t, "graph", "-f", "s")
	if !slices.Equal(got, []string{"svg"}) {
		t.Errorf("prefix completions = %v", got)
	}
}

func TestCompleteRenderFormatList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"png", "dot", "json"}},
		{"png,", []string{"png,dot", "png,json"}},
		{"png,dot,j", []string{"png,dot,json"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, directive := complete(t, "render", "--format", tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
			if directive != ":6" {
				t.Errorf("directive = %s, want :6 (no space, no file completion)", directive)
			}
		})
	}
}

func TestCompleteTieBreak(t *testing.T) {
	for _, cmd := range []string{"render", "watch"} {
		got, _ := complete(t, cmd, "--tie-break", "")
		if !slices.Equal(got, []string{"first", "last"}) {
			t.Errorf("%s --tie-break completions = %v", cmd, got)
		}
	}
}

func TestCompleteArguments(t *testing.T) {
	got, directive := complete(t, "graph", "")
	if !slices.Equal(got, []string{"dig", "json"}) || directive != ":8" {
		t.Errorf("graph args = %v %s, want [dig json] :8", got, directive)
	}

	got, directive = complete(t, "render", "")
	if len(got) != 0 || directive != ":16" {
		t.Errorf("render args = %v %s, want directories only", got, directive)
	}

	got, directive = complete(t, "--config", "")
	if !slices.Equal(got, []string{"toml"}) || directive != ":8" {
		t.Errorf("--config = %v %s", got, directive)
	}
}
