package document

import (
	"regexp"
	"time"
)

// Clock supplies the current time to variable substitution, injectable for
// deterministic tests. Grounded on the teacher's parser package, which
// resolves the same set of built-in placeholders from wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the default Clock used outside of tests.
var SystemClock Clock = systemClock{}

var varPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// builtins returns the fixed set of time-derived placeholders available in
// every document, evaluated once per render so all occurrences agree.
func builtins(now time.Time) map[string]string {
	return map[string]string{
		"date":       now.Format("Jan 2, 2006"),
		"date_short": now.Format("1/2/06"),
		"day":        now.Format("Monday"),
		"time":       now.Format("15:04"),
		"time_12h":   now.Format("3:04 PM"),
		"datetime":   now.Format("Jan 2, 2006 3:04 PM"),
		"year":       now.Format("2006"),
		"iso_date":   now.Format("2006-01-02"),
	}
}

// ResolveVariables substitutes {{name}} placeholders across every
// text-bearing string field of the document's components (content, names,
// prices, labels, amounts, columns text, markdown, payloads, URLs, table
// headers and cells), in document order. User-provided
// entries in Document.Variables take precedence over the built-ins;
// resolution is single-pass, so a variable's value is never itself expanded.
// An unknown placeholder is left in the output literally, per spec.md
// §4.3 — there is no failure mode here, only degraded output.
func ResolveVariables(d *Document, clock Clock) {
	if clock == nil {
		clock = SystemClock
	}
	values := builtins(clock.Now())
	for k, v := range d.Variables {
		values[k] = v
	}
	resolve := func(s string) string {
		return varPattern.ReplaceAllStringFunc(s, func(m string) string {
			name := varPattern.FindStringSubmatch(m)[1]
			if v, ok := values[name]; ok {
				return v
			}
			return m
		})
	}
	for i := range d.Components {
		resolveComponent(&d.Components[i], resolve)
	}
}

func resolveComponent(c *Component, resolve func(string) string) {
	c.Content = resolve(c.Content)
	c.Name = resolve(c.Name)
	c.Price = resolve(c.Price)
	c.Label = resolve(c.Label)
	c.Amount = resolve(c.Amount)
	c.Left = resolve(c.Left)
	c.Right2 = resolve(c.Right2)
	c.Markdown = resolve(c.Markdown)
	c.Payload = resolve(c.Payload)
	c.URL = resolve(c.URL)
	for i := range c.Headers {
		c.Headers[i] = resolve(c.Headers[i])
	}
	for i := range c.Columns {
		c.Columns[i].Header = resolve(c.Columns[i].Header)
	}
	for i := range c.Rows {
		for j := range c.Rows[i] {
			c.Rows[i][j] = resolve(c.Rows[i][j])
		}
	}
	for i := range c.Children {
		resolveComponent(&c.Children[i], resolve)
	}
}
