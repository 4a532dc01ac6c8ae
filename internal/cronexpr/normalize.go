package cronexpr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// canonicalParser accepts exactly six fields, seconds first. Descriptors such as
// "@daily" are rejected: no dialect here carries them.
var canonicalParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

const (
	wildcard = "*"
	noValue  = "?"
)

// Normalize rewrites expr into the canonical 6-field form understood by the
// parser. It does not validate; a wrong field count is passed through and left
// for Check to reject.
func Normalize(expr string, d Dialect) string {
	if strings.TrimSpace(expr) == "" {
		return ""
	}
	parts := strings.Fields(expr)

	switch d {
	case Unix5:
		if len(parts) == 5 {
			return "0 " + strings.Join(parts, " ")
		}
		return expr
	case Spring:
		return expr
	case Quartz:
		if len(parts) == 7 {
			parts = parts[:6]
		}
		return strings.Join(replaceNoValue(parts), " ")
	default:
		return expr
	}
}

// Check validates expr against d and reports why it is invalid.
func Check(expr string, d Dialect) error {
	_, err := schedule(expr, d)
	return err
}

// Validate reports whether expr is well-formed for d. All failures collapse to false;
// use Check for the cause.
func Validate(expr string, d Dialect) bool {
	return Check(expr, d) == nil
}

func schedule(expr string, d Dialect) (cron.Schedule, error) {
	if !d.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, string(d))
	}
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyInput
	}
	if n := len(strings.Fields(expr)); !d.acceptsFieldCount(n) {
		return nil, fmt.Errorf("%w: %s expects %s, got %d", ErrFieldCount, d, d.fieldCountText(), n)
	}
	if d != Quartz && slices.Contains(strings.Fields(expr), noValue) {
		return nil, fmt.Errorf("%w: %q is only allowed in quartz", ErrParse, noValue)
	}
	sched, err := canonicalParser.Parse(Normalize(expr, d))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return sched, nil
}

// replaceNoValue returns a copy of parts with every "?" token replaced by "*".
func replaceNoValue(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		if p == noValue {
			out[i] = wildcard
			continue
		}
		out[i] = p
	}
	return out
}
