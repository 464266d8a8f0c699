package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/digtower/pkg/config"
	"github.com/matzehuels/digtower/pkg/pipeline"
	"github.com/matzehuels/digtower/pkg/schedule"
)

func TestCollectSchedules(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.dig":          mainDig,
		"b.dig":          "schedule:\n  cron>: \"0 9 * * 1\"\n+run:\n  sh>: run.sh\n",
		"c.dig":          "+run:\n  sh>: run.sh\n",
		"broken.dig":     "- not a mapping\n",
		"config/x.dig":   "schedule:\n  daily>: \"01:00:00\"\n",
		"site/stale.dig": "schedule:\n  daily>: \"02:00:00\"\n",
	})

	opts, err := pipeline.FromConfig(config.Default(), dir)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := collectSchedules(opts)
	if err != nil {
		t.Fatalf("collectSchedules: %v", err)
	}

	entries := catalog.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	proj := filepath.Base(dir)
	if entries[0].Workflow != "a.dig" || entries[0].Link != "./graphs/"+proj+"/a.html" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if !strings.HasSuffix(entries[0].Description, "Every day at 07:00:00") {
		t.Errorf("entries[0].Description = %q", entries[0].Description)
	}
	if entries[1].Workflow != "b.dig" {
		t.Errorf("entries[1].Workflow = %q, want b.dig", entries[1].Workflow)
	}
}

func TestSchedulesCommandJSON(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.dig": mainDig})

	out, err := runCLI(t, "schedules", "--json", dir)
	if err != nil {
		t.Fatalf("schedules: %v", err)
	}
	var entries []schedule.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Workflow != "a.dig" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRenderScheduleTable(t *testing.T) {
	out := renderScheduleTable([]schedule.Entry{
		{Workflow: "a.dig", Description: "{\"daily>\":\"07:00:00\"}\nEvery day at 07:00:00", Link: "./graphs/p/a.html"},
	})

	for _, want := range []string{"Workflow", "Schedule", "a.dig", "Every day at 07:00:00", "./graphs/p/a.html"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "daily>") {
		t.Errorf("table should show only the description sentence:\n%s", out)
	}
}
