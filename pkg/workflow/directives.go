package workflow

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/digtower/pkg/dag"
	"github.com/matzehuels/digtower/pkg/digfile"
	"github.com/matzehuels/digtower/pkg/schedule"
)

// category is how a directive affects the block tree.
type category int

const (
	// categoryStructural spawns a child block and recurses into the value.
	categoryStructural category = iota
	// categoryParallel sets the current block's parallel flag.
	categoryParallel
	// categoryDecorative mutates the current node only.
	categoryDecorative
	// categoryReference decorates the current node with a workflow link.
	categoryReference
	// categorySchedule decorates the current node and records a schedule.
	categorySchedule
)

// SubtaskPrefix marks keys that always name a child task.
const SubtaskPrefix = "+"

// directive is one row of the dispatch table.
type directive struct {
	category category
	style    dag.Style
	kind     dag.NodeKind
	// label renders the fragment appended to the node label. Nil means the
	// formatted value.
	label func(key string, v any) string
	// tooltip renders the node tooltip. Nil leaves it unchanged.
	tooltip func(def *digfile.Definition, v any) string
}

func valueLabel(_ string, v any) string { return digfile.Format(v) }

func keyedLabel(key string, v any) string { return key + " " + digfile.Format(v) }

func operator(color string, pen float64, keyed bool) directive {
	d := directive{category: categoryDecorative, style: dag.Style{Color: color, PenWidth: pen}, label: valueLabel}
	if keyed {
		d.label = keyedLabel
	}
	return d
}

// directives maps recognized keys to their handling. Keys starting with
// SubtaskPrefix that are not listed here are structural.
var directives = map[string]directive{
	"_do":       {category: categoryStructural, style: dag.Style{Color: "green", PenWidth: 1.0, Shape: "note"}},
	"_error":    {category: categoryStructural, style: dag.Style{Color: "red", PenWidth: 1.0, Shape: "Mcircle"}},
	"_parallel": {category: categoryParallel, style: dag.Style{Color: "purple2"}},

	"call>":    {category: categoryReference, style: dag.Style{Color: "cornflowerblue", PenWidth: 3.0}, kind: dag.NodeKindCall},
	"require>": {category: categoryReference, style: dag.Style{Color: "cornflowerblue", PenWidth: 3.0}, kind: dag.NodeKindCall},

	"schedule": {category: categorySchedule, label: func(_ string, v any) string { return schedule.Describe(v) }},

	"td>":       {category: categoryDecorative, style: dag.Style{Color: "webgreen", PenWidth: 1.5}, label: valueLabel, tooltip: queryTooltip},
	"echo>":     operator("lightslategray", 1.9, false),
	"http>":     operator("darkgreen", 0, false),
	"mail>":     operator("crimson", 0, false),
	"if>":       {category: categoryDecorative, style: dag.Style{Color: "darkorchid2", Shape: "diamond"}, kind: dag.NodeKindDecision, label: func(_ string, v any) string { return "if " + digfile.Format(v) }},
	"sh>":       operator("gray30", 0, true),
	"py>":       operator("royalblue4", 0, true),
	"rb>":       operator("firebrick", 0, true),
	"pg>":       operator("steelblue", 0, true),
	"bq>":       operator("dodgerblue3", 0, true),
	"redshift>": operator("indianred3", 0, true),
	"s3_wait>":  operator("darkorange3", 0, true),
	"emr>":      operator("orange3", 0, true),
	"embulk>":   operator("sienna", 0, true),
	"loop>":     operator("teal", 0, true),
	"for_each>": operator("teal", 0, true),

	"timezone": {category: categoryDecorative, style: dag.Style{Color: "mediumspringgreen"}, label: func(_ string, v any) string { return "timezone: " + digfile.Format(v) }},
	"_export": {
		category: categoryDecorative,
		style:    dag.Style{Color: "goldenrod4", PenWidth: 2.0, Shape: "box3d"},
		kind:     dag.NodeKindExport,
		label: func(key string, v any) string {
			return key + "\n" + strings.ReplaceAll(digfile.FormatJSON(v), ",", "\n")
		},
	},
	digfile.IncludeTag: {category: categoryDecorative, label: func(_ string, v any) string { return "include " + digfile.Format(v) }},
}

// lookup returns the handling for key. Unlisted keys with SubtaskPrefix are
// structural; anything else is not a directive.
func lookup(key string) (directive, bool) {
	if d, ok := directives[key]; ok {
		return d, true
	}
	if strings.HasPrefix(key, SubtaskPrefix) {
		return directive{category: categoryStructural}, true
	}
	return directive{}, false
}

// queryTooltip shows the SQL of a td> task whose value points into a
// queries/ directory. Unreadable files degrade to an empty tooltip.
func queryTooltip(def *digfile.Definition, v any) string {
	ref := digfile.Format(v)
	if !strings.Contains(ref, "queries/") {
		return ref
	}
	data, err := os.ReadFile(filepath.Join(def.Dir, filepath.FromSlash(ref)))
	if err != nil {
		return ""
	}
	return string(data)
}

// isParallel interprets a _parallel value. Mappings (e.g. {limit: 2}) mean
// parallel with a concurrency limit.
func isParallel(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(strings.TrimSpace(x), "true")
	case digfile.Mapping:
		return true
	}
	return false
}
