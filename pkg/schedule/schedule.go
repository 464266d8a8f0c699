// Package schedule describes workflow schedules and collects them into a
// project-wide catalog.
package schedule

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lnquy/cron"

	"github.com/matzehuels/digtower/pkg/digfile"
)

// Entry is one catalog row.
type Entry struct {
	Workflow    string `json:"workflow"`    // definition file name
	Description string `json:"description"` // rendered schedule text
	Link        string `json:"link"`        // link to the workflow page
}

// Catalog accumulates schedule entries in the order they are appended.
// Duplicates are kept.
type Catalog struct {
	entries []Entry
}

// Append adds entries to the end of the catalog.
func (c *Catalog) Append(e ...Entry) {
	c.entries = append(c.entries, e...)
}

// Entries returns a copy of the catalog rows.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.entries) }

var (
	descriptorOnce sync.Once
	descriptor     *cron.ExpressionDescriptor
	descriptorErr  error
)

func cronDescriptor() (*cron.ExpressionDescriptor, error) {
	descriptorOnce.Do(func() {
		descriptor, descriptorErr = cron.NewDescriptor(
			cron.Use24HourTimeFormat(true),
			cron.Verbose(false),
		)
	})
	return descriptor, descriptorErr
}

// DescribeCron returns a sentence for a five-field cron expression.
func DescribeCron(expr string) (string, error) {
	d, err := cronDescriptor()
	if err != nil {
		return "", err
	}
	return d.ToDescription(expr, cron.Locale_en)
}

// fixed describes digdag's shorthand schedule operators.
var fixed = map[string]func(v string) string{
	"hourly>":           func(v string) string { return fmt.Sprintf("Every hour at %s past the hour", v) },
	"daily>":            func(v string) string { return fmt.Sprintf("Every day at %s", v) },
	"weekly>":           func(v string) string { return fmt.Sprintf("Every week on %s", v) },
	"monthly>":          func(v string) string { return fmt.Sprintf("Every month on day %s", v) },
	"minutes_interval>": func(v string) string { return fmt.Sprintf("Every %s minutes", v) },
}

// Describe renders the value of a schedule directive.
//
// A mapping with cron> yields its JSON form followed by the cron
// description; a known shorthand operator yields its JSON form followed by
// a fixed sentence. Anything else is "schedule" followed by the JSON form.
// An invalid cron expression degrades to the JSON form alone.
func Describe(v any) string {
	m, ok := v.(digfile.Mapping)
	if !ok {
		return "schedule\n" + digfile.FormatJSON(v)
	}
	js := digfile.FormatJSON(m)

	if expr, ok := m.Get("cron>"); ok {
		desc, err := DescribeCron(strings.TrimSpace(digfile.Format(expr)))
		if err != nil {
			return js
		}
		return js + "\n" + desc
	}
	for _, e := range m {
		if f, ok := fixed[e.Key]; ok {
			return js + "\n" + f(digfile.Format(e.Value))
		}
	}
	return "schedule\n" + js
}
