package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/digtower/pkg/schedule"
)

func TestWriteWorkflow(t *testing.T) {
	cmapx := []byte(`<map id="G" name="G">
<area shape="poly" id="node1" href="../../index.html" title="Click to HomePage" alt="" coords="1,2,3,4"/>
</map>
`)
	var buf bytes.Buffer
	if err := WriteWorkflow(&buf, Workflow{Title: "main.dig", Image: "main.svg", Map: cmapx}); err != nil {
		t.Fatalf("WriteWorkflow() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<IMG SRC="main.svg" USEMAP="#workflow"/>`,
		`<map id="workflow" name="workflow">`,
		`href="../../index.html"`,
		"<title>main.dig</title>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q\n%s", want, out)
		}
	}
}

func TestWriteWorkflow_NoMap(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkflow(&buf, Workflow{Title: "a.dig", Image: "a.svg"}); err != nil {
		t.Fatalf("WriteWorkflow() error: %v", err)
	}
	if strings.Contains(buf.String(), "USEMAP") {
		t.Errorf("page without map should not reference one:\n%s", buf.String())
	}
}

func TestWriteIndex(t *testing.T) {
	var buf bytes.Buffer
	err := WriteIndex(&buf, Index{
		Entries: []IndexEntry{
			{Name: "proj/a.dig", Href: "graphs/proj/a.html"},
			{Name: "proj/<b>.dig", Href: "graphs/proj/b.html"},
		},
		Schedules: "scheduled_workflows.html",
	})
	if err != nil {
		t.Fatalf("WriteIndex() error: %v", err)
	}
	out := buf.String()

	a := strings.Index(out, "graphs/proj/a.html")
	b := strings.Index(out, "graphs/proj/b.html")
	if a < 0 || b < 0 || a > b {
		t.Errorf("entries missing or out of order:\n%s", out)
	}
	if !strings.Contains(out, "proj/&lt;b&gt;.dig") {
		t.Error("entry names should be escaped")
	}
	if !strings.Contains(out, `href="scheduled_workflows.html"`) {
		t.Error("index should link the schedule table")
	}
	if !strings.Contains(out, "<title>Workflows</title>") {
		t.Error("default title not applied")
	}
}

func TestWriteSchedules(t *testing.T) {
	entries := []schedule.Entry{
		{Workflow: "a.dig", Description: "Every day at 07:00", Link: "./graphs/p/a.html"},
		{Workflow: "a.dig", Description: "Every day at 07:00", Link: "./graphs/p/a.html"},
	}
	var buf bytes.Buffer
	if err := WriteSchedules(&buf, entries); err != nil {
		t.Fatalf("WriteSchedules() error: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "<td>a.dig</td>"); got != 2 {
		t.Errorf("rows = %d, want 2 (duplicates are kept)", got)
	}
	if !strings.Contains(out, "<th>Workflow Name</th><th>Schedule</th><th>Link to workflow</th>") {
		t.Error("missing header row")
	}
}

func TestRenameMap(t *testing.T) {
	got := string(renameMap([]byte(`<map id="%3" name="%3">x</map>`), "wf"))
	if got != `<map id="wf" name="wf">x</map>` {
		t.Errorf("renameMap() = %q", got)
	}
}
