package cronexpr

import (
	"fmt"
	"strings"
)

// Dialect tags the grammar an expression is written in.
type Dialect string

const (
	Unix5  Dialect = "unix5"
	Spring Dialect = "spring6"
	Quartz Dialect = "quartz"
)

// Dialects lists every supported dialect in display order.
func Dialects() []Dialect { return []Dialect{Unix5, Spring, Quartz} }

// ParseDialect accepts the canonical names plus a few common aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unix5", "unix", "linux", "cron", "crontab":
		return Unix5, nil
	case "spring6", "spring":
		return Spring, nil
	case "quartz":
		return Quartz, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
}

func (d Dialect) String() string { return string(d) }

// Known reports whether d is one of the supported dialects.
func (d Dialect) Known() bool {
	switch d {
	case Unix5, Spring, Quartz:
		return true
	}
	return false
}

// Label is the human-facing name shown in selectors and help text.
func (d Dialect) Label() string {
	switch d {
	case Unix5:
		return "Linux Cron (5 fields)"
	case Spring:
		return "Spring Cron (6 fields)"
	case Quartz:
		return "Quartz Cron (6-7 fields)"
	default:
		return string(d)
	}
}

// HasSeconds reports whether the dialect leads with a seconds field.
func (d Dialect) HasSeconds() bool { return d == Spring || d == Quartz }

// acceptsFieldCount reports whether n whitespace-separated tokens are legal for d.
func (d Dialect) acceptsFieldCount(n int) bool {
	switch d {
	case Unix5:
		return n == 5
	case Spring:
		return n == 6
	case Quartz:
		return n == 6 || n == 7
	}
	return false
}

func (d Dialect) fieldCountText() string {
	switch d {
	case Unix5:
		return "5"
	case Spring:
		return "6"
	case Quartz:
		return "6 or 7"
	}
	return "?"
}
