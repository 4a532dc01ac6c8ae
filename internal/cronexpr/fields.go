package cronexpr

import "strings"

// Fields is an expression split into named positions. Positions the dialect
// does not have, or that the expression is missing, are empty.
type Fields struct {
	Second     string `json:"second,omitempty"`
	Minute     string `json:"minute"`
	Hour       string `json:"hour"`
	DayOfMonth string `json:"day_of_month"`
	Month      string `json:"month"`
	DayOfWeek  string `json:"day_of_week"`
	Year       string `json:"year,omitempty"`

	// Extra holds tokens beyond the last position the dialect defines.
	Extra []string `json:"extra,omitempty"`
}

type fieldSlot struct {
	label string
	ptr   func(f *Fields) *string
}

var (
	slotSecond = fieldSlot{"second", func(f *Fields) *string { return &f.Second }}
	slotMinute = fieldSlot{"minute", func(f *Fields) *string { return &f.Minute }}
	slotHour   = fieldSlot{"hour", func(f *Fields) *string { return &f.Hour }}
	slotDom    = fieldSlot{"day-of-month", func(f *Fields) *string { return &f.DayOfMonth }}
	slotMonth  = fieldSlot{"month", func(f *Fields) *string { return &f.Month }}
	slotDow    = fieldSlot{"day-of-week", func(f *Fields) *string { return &f.DayOfWeek }}
	slotYear   = fieldSlot{"year", func(f *Fields) *string { return &f.Year }}
)

func slotsFor(d Dialect) []fieldSlot {
	switch d {
	case Unix5:
		return []fieldSlot{slotMinute, slotHour, slotDom, slotMonth, slotDow}
	case Spring:
		return []fieldSlot{slotSecond, slotMinute, slotHour, slotDom, slotMonth, slotDow}
	case Quartz:
		return []fieldSlot{slotSecond, slotMinute, slotHour, slotDom, slotMonth, slotDow, slotYear}
	}
	return nil
}

// Split assigns the raw tokens of expr to the positions declared by d. It never fails.
func Split(expr string, d Dialect) Fields {
	var f Fields
	parts := strings.Fields(expr)
	slots := slotsFor(d)
	for i, p := range parts {
		if i >= len(slots) {
			f.Extra = append(f.Extra, parts[i:]...)
			break
		}
		*slots[i].ptr(&f) = p
	}
	return f
}

const invalidDescription = "invalid expression"

// Describe renders one "label: value" pair per field of the raw (not normalized)
// expression. It does not validate. Missing positions render as "<missing>", and
// the quartz year is listed only when present.
func Describe(expr string, d Dialect) string {
	slots := slotsFor(d)
	if strings.TrimSpace(expr) == "" || len(slots) == 0 {
		return invalidDescription
	}
	f := Split(expr, d)

	out := make([]string, 0, len(slots)+1)
	for _, s := range slots {
		v := *s.ptr(&f)
		if s.label == slotYear.label && v == "" {
			continue
		}
		if v == "" {
			v = "<missing>"
		}
		out = append(out, s.label+": "+v)
	}
	if len(f.Extra) > 0 {
		out = append(out, "extra: "+strings.Join(f.Extra, " "))
	}
	return strings.Join(out, ", ")
}
