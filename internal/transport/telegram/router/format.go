package router

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cronconv/internal/cronexpr"
	"cronconv/internal/storage"
)

func escape(s string) string { return html.EscapeString(s) }

func code(s string) string { return "<code>" + escape(s) + "</code>" }

func dialectName(d cronexpr.Dialect) string {
	if d.Known() {
		return d.Label()
	}
	return string(d)
}

func formatConversion(expr string, res cronexpr.ConversionResult) string {
	head := fmt.Sprintf("🔁 <b>%s</b> → <b>%s</b>", escape(dialectName(res.From)), escape(dialectName(res.To)))
	if !res.OK {
		return strings.Join([]string{head, code(expr), "❌ " + escape(res.Reason)}, "\n")
	}
	return strings.Join([]string{head, code(expr), "✅ " + code(res.Expression)}, "\n")
}

func formatValidation(expr string, d cronexpr.Dialect, err error) string {
	if err != nil {
		return fmt.Sprintf("❌ %s is not a valid %s expression\n%s", code(expr), escape(dialectName(d)), escape(err.Error()))
	}
	return fmt.Sprintf("✅ %s is a valid %s expression", code(expr), escape(dialectName(d)))
}

func formatParse(res cronexpr.ParseResult) string {
	lines := []string{"🧭 <b>" + escape(dialectName(res.Dialect)) + "</b>", code(res.Expression)}
	if !res.Valid {
		return strings.Join(append(lines, "❌ "+escape(res.Description)), "\n")
	}
	lines = append(lines, "✅ valid", escape(res.Description))
	if len(res.NextFireTimes) > 0 {
		lines = append(lines, "", "<b>next fire times</b>")
		for i, t := range res.NextFireTimes {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, escape(t)))
		}
	}
	return strings.Join(lines, "\n")
}

func formatTimes(expr string, d cronexpr.Dialect, times []string, err error) string {
	lines := []string{"⏰ <b>" + escape(dialectName(d)) + "</b> " + code(expr)}
	for i, t := range times {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, escape(t)))
	}
	if err != nil {
		lines = append(lines, "❌ "+escape(err.Error()))
	}
	return strings.Join(lines, "\n")
}

func formatTemplates(byDialect map[cronexpr.Dialect][]cronexpr.Template) string {
	var blocks []string
	for _, d := range cronexpr.Dialects() {
		ts, ok := byDialect[d]
		if !ok {
			continue
		}
		lines := []string{"📋 <b>" + escape(d.Label()) + "</b>"}
		for _, t := range ts {
			lines = append(lines, fmt.Sprintf("• %s %s", code(t.Expression), escape(t.Name)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func formatHistory(recs []storage.Record, now time.Time) string {
	if len(recs) == 0 {
		return "ℹ️ no conversions recorded yet"
	}
	lines := []string{"🗂 <b>recent conversions</b>"}
	for _, r := range recs {
		mark, out := "✅", code(r.Result)
		if !r.OK {
			mark, out = "❌", escape(r.Reason)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s → %s %s ⇒ %s",
			mark,
			escape(humanize.RelTime(r.At, now, "ago", "from now")),
			escape(r.From), escape(r.To), code(r.Expression), out,
		))
	}
	return strings.Join(lines, "\n")
}
