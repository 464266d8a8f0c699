package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		tasks  int
		edges  int
		cached bool
		want   []string
	}{
		{"rendered", 4, 3, false, []string{"4 tasks", "3 edges", "rendered"}},
		{"cached singular", 1, 1, true, []string{"1 task", "1 edge", "cached"}},
		{"empty", 0, 0, false, []string{"0 tasks", "0 edges"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			printStats(tt.tasks, tt.edges, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	buf := captureOutput(t)

	printSuccess("wrote %d pages", 3)
	printError("main.dig")
	printDetail("line %d", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "✓") || !strings.Contains(lines[0], "wrote 3 pages") {
		t.Errorf("success line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "✗") {
		t.Errorf("error line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  ") {
		t.Errorf("detail line should be indented: %q", lines[2])
	}
}
