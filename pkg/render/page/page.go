// Package page assembles the HTML pages around rendered workflow graphs:
// one page per workflow embedding the image and its click map, a project
// index linking every workflow, and a table of every schedule found.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"

	"github.com/matzehuels/digtower/pkg/schedule"
)

// MapName is the name of the image map embedded in workflow pages.
const MapName = "workflow"

var (
	workflowTmpl = template.Must(template.New("workflow").Parse(
		`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<IMG SRC="{{.Image}}"{{if .Map}} USEMAP="#{{.MapName}}"{{end}}/>
{{.Map}}
</body>
</html>
`))

	indexTmpl = template.Must(template.New("index").Parse(
		`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
{{- if .Schedules}}
<p><a href="{{.Schedules}}">Scheduled workflows</a></p>
{{- end}}
</body>
</html>
`))

	scheduleTmpl = template.Must(template.New("schedules").Parse(
		`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Scheduled workflows</title></head>
<body>
<table name="scheduled_workflows" class="scheduled_workflow_table" border="1">
<tr><th>Workflow Name</th><th>Schedule</th><th>Link to workflow</th></tr>
{{- range .}}
<tr><td>{{.Workflow}}</td><td>{{.Description}}</td><td><a href="{{.Link}}">View Workflow</a></td></tr>
{{- end}}
</table>
</body>
</html>
`))
)

// Workflow describes one workflow page.
type Workflow struct {
	Title string // page title, usually the definition file name
	Image string // image source relative to the page
	Map   []byte // cmapx output; nil renders the image without a map
}

// WriteWorkflow writes the page for one workflow. The map's name is
// rewritten to MapName so the IMG tag can refer to it.
func WriteWorkflow(w io.Writer, p Workflow) error {
	data := struct {
		Title   string
		Image   string
		MapName string
		Map     template.HTML
	}{Title: p.Title, Image: p.Image, MapName: MapName}
	if len(p.Map) > 0 {
		data.Map = template.HTML(renameMap(p.Map, MapName))
	}
	return execute(w, workflowTmpl, data)
}

var mapOpenRe = regexp.MustCompile(`<map\s+id="[^"]*"\s+name="[^"]*"\s*>`)

func renameMap(cmapx []byte, name string) []byte {
	repl := fmt.Sprintf(`<map id="%s" name="%s">`, name, name)
	return mapOpenRe.ReplaceAllLiteral(cmapx, []byte(repl))
}

// IndexEntry links one processed workflow from the project index.
type IndexEntry struct {
	Name string // display name
	Href string // link relative to the index page
}

// Index describes the project index page.
type Index struct {
	Title     string
	Entries   []IndexEntry
	Schedules string // link to the schedule table; empty omits it
}

// WriteIndex writes the project index page.
func WriteIndex(w io.Writer, idx Index) error {
	if idx.Title == "" {
		idx.Title = "Workflows"
	}
	return execute(w, indexTmpl, idx)
}

// WriteSchedules writes the schedule table, one row per entry in catalog
// order.
func WriteSchedules(w io.Writer, entries []schedule.Entry) error {
	return execute(w, scheduleTmpl, entries)
}

func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing %s template: %w", t.Name(), err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
