package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/digtower/pkg/render/page"
	"github.com/matzehuels/digtower/pkg/resolve"
	"github.com/matzehuels/digtower/pkg/schedule"
)

// FileResult records the outcome of one definition file.
type FileResult struct {
	Path     string
	Page     string // written page path; empty on failure
	Nodes    int
	Edges    int
	Warnings []resolve.Warning
	CacheHit bool // every artifact came from the cache
	Duration time.Duration
	Err      error
}

// Accumulator holds the state that spans files within one batch: the
// project index, the schedule catalog, and per-file results. It is
// append-only and written only by the Runner, in file-processing order.
type Accumulator struct {
	RunID     string
	Index     []page.IndexEntry
	Schedules schedule.Catalog
	Files     []FileResult
}

// NewAccumulator returns an empty accumulator with a fresh run ID.
func NewAccumulator() *Accumulator {
	return &Accumulator{RunID: uuid.NewString()}
}

// Failed returns the results of files that could not be processed.
func (a *Accumulator) Failed() []FileResult {
	var out []FileResult
	for _, f := range a.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Processed returns the number of files written successfully.
func (a *Accumulator) Processed() int {
	return len(a.Files) - len(a.Failed())
}

// Warnings returns every unresolved reference across files.
func (a *Accumulator) Warnings() []resolve.Warning {
	var out []resolve.Warning
	for _, f := range a.Files {
		out = append(out, f.Warnings...)
	}
	return out
}
