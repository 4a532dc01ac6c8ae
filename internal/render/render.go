// Package render formats results for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cronconv/internal/cronexpr"
	"cronconv/internal/storage"
)

// Renderer turns results into printable blocks.
type Renderer struct {
	st  Styles
	now func() time.Time
}

type Option func(*Renderer)

func WithStyles(st Styles) Option { return func(r *Renderer) { r.st = st } }

// WithNow pins the reference instant for relative times.
func WithNow(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{st: DefaultStyles(), now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) row(label, value string) string {
	return r.st.Label.Render(label) + " " + r.st.Value.Render(value)
}

func (r *Renderer) status(ok bool, text string) string {
	if ok {
		return r.st.Success.Render(iconOK + " " + text)
	}
	return r.st.Error.Render(iconBad + " " + text)
}

// Conversion renders a conversion outcome.
func (r *Renderer) Conversion(expr string, res cronexpr.ConversionResult) string {
	var b strings.Builder
	b.WriteString(r.st.Title.Render(fmt.Sprintf("%s -> %s", res.From.Label(), res.To.Label())))
	b.WriteByte('\n')
	b.WriteString(r.row("input", expr))
	b.WriteByte('\n')
	if res.OK {
		b.WriteString(r.row("output", res.Expression))
		b.WriteByte('\n')
		b.WriteString(r.status(true, "converted"))
	} else {
		b.WriteString(r.status(false, res.Reason))
	}
	return b.String()
}

// Parse renders validity, description and upcoming fire times.
func (r *Renderer) Parse(res cronexpr.ParseResult) string {
	var b strings.Builder
	b.WriteString(r.st.Title.Render(res.Dialect.Label()))
	b.WriteByte('\n')
	b.WriteString(r.row("expression", res.Expression))
	b.WriteByte('\n')
	if !res.Valid {
		b.WriteString(r.status(false, res.Description))
		return b.String()
	}
	b.WriteString(r.status(true, "valid"))
	b.WriteByte('\n')
	b.WriteString(r.row("fields", res.Description))
	if len(res.NextFireTimes) > 0 {
		b.WriteByte('\n')
		b.WriteString(r.Times(res.NextFireTimes, res.Times))
	}
	return b.String()
}

// Times lists rendered fire times; when instants are given each line gets
// a relative hint such as "2 hours from now".
func (r *Renderer) Times(rendered []string, at []time.Time) string {
	now := r.now()
	lines := make([]string, 0, len(rendered)+1)
	lines = append(lines, r.st.Title.Render("next fire times"))
	for i, s := range rendered {
		line := fmt.Sprintf("%2d. %s", i+1, s)
		if i < len(at) {
			line += "  " + r.st.Muted.Render(humanize.RelTime(at[i], now, "ago", "from now"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Templates renders templates grouped by dialect in display order.
func (r *Renderer) Templates(byDialect map[cronexpr.Dialect][]cronexpr.Template) string {
	var blocks []string
	for _, d := range cronexpr.Dialects() {
		ts, ok := byDialect[d]
		if !ok {
			continue
		}
		lines := []string{r.st.Title.Render(d.Label())}
		for _, t := range ts {
			lines = append(lines, fmt.Sprintf("  %-20s %-20s %s", t.Name, t.Expression, r.st.Muted.Render(t.Description)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// History renders records newest first, one per line.
func (r *Renderer) History(recs []storage.Record) string {
	if len(recs) == 0 {
		return r.st.Muted.Render("no conversions recorded yet")
	}
	now := r.now()
	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		outcome := rec.Result
		if !rec.OK {
			outcome = rec.Reason
		}
		lines = append(lines, fmt.Sprintf("%s %-14s %s -> %s  %q => %s",
			r.status(rec.OK, ""),
			humanize.RelTime(rec.At, now, "ago", "from now"),
			rec.From, rec.To, rec.Expression, outcome,
		))
	}
	return strings.Join(lines, "\n")
}
