package router

import (
	"html"
	"strings"
)

// helpText renders HTML help: the command list, or one command when named.
func (r *Router) helpText(args []string) string {
	if len(args) > 0 {
		c, ok := r.lookup(commandWord(args[0]))
		if !ok {
			return "❓ <b>unknown command</b>\nSend <code>/help</code> for the list."
		}
		lines := []string{"📚 <b>/" + html.EscapeString(c.Name) + "</b>"}
		if c.Description != "" {
			lines = append(lines, html.EscapeString(c.Description))
		}
		if c.Usage != "" {
			lines = append(lines, "", "<b>usage</b>: <code>"+html.EscapeString(c.Usage)+"</code>")
		}
		if len(c.Aliases) > 0 {
			lines = append(lines, "<b>aliases</b>: /"+html.EscapeString(strings.Join(c.Aliases, ", /")))
		}
		return strings.Join(lines, "\n")
	}

	r.mu.RLock()
	cmds := append([]Command(nil), r.ordered...)
	r.mu.RUnlock()

	lines := []string{
		"📚 <b>cron converter</b>",
		"Dialects: <code>unix5</code>, <code>spring6</code>, <code>quartz</code>.",
		"",
	}
	for _, c := range cmds {
		line := "• <code>/" + html.EscapeString(c.Name) + "</code>"
		if c.Description != "" {
			line += " - " + html.EscapeString(c.Description)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", "Send <code>/help &lt;command&gt;</code> for usage.")
	return strings.Join(lines, "\n")
}
