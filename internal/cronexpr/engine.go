package cronexpr

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultLayout renders fire times as local wall-clock date and time.
	DefaultLayout = "2006-01-02 15:04:05"
	// DefaultCount is how many fire times Parse projects.
	DefaultCount = 5
	// MaxCount bounds a single Next call.
	MaxCount = 1000
)

// ErrNoOccurrence is returned when the schedule runs out of fire times
// before the requested count (for example "0 0 0 30 2 *").
var ErrNoOccurrence = errors.New("no further occurrence")

// Clock supplies the instant fire-time projection starts from.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock always returns t.
func FixedClock(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine projects fire times. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	clock  Clock
	loc    *time.Location
	layout string
	count  int
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLocation sets the zone fire times are computed and rendered in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithLayout(layout string) Option {
	return func(e *Engine) {
		if layout != "" {
			e.layout = layout
		}
	}
}

// WithDefaultCount sets how many fire times Parse returns.
func WithDefaultCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.count = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:  systemClock{},
		loc:    time.Local,
		layout: DefaultLayout,
		count:  DefaultCount,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Now() time.Time { return e.clock.Now().In(e.loc) }

// Next returns up to count successive fire times strictly after the clock's now.
// When the schedule stops producing times early, the ones found so far are
// returned together with ErrNoOccurrence.
func (e *Engine) Next(expr string, d Dialect, count int) ([]time.Time, error) {
	sched, err := schedule(expr, d)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return []time.Time{}, nil
	}
	if count > MaxCount {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrCountLimit, count, MaxCount)
	}
	out := make([]time.Time, 0, count)
	t := e.Now()
	for len(out) < count {
		t = sched.Next(t)
		if t.IsZero() {
			return out, fmt.Errorf("%w after %d of %d", ErrNoOccurrence, len(out), count)
		}
		out = append(out, t)
	}
	return out, nil
}

// NextFireTimes is Next rendered with the engine layout. Any failure yields an
// empty slice.
func (e *Engine) NextFireTimes(expr string, d Dialect, count int) []string {
	times, err := e.Next(expr, d, count)
	if err != nil {
		return []string{}
	}
	return e.Format(times)
}

// Format renders times in the engine zone and layout.
func (e *Engine) Format(times []time.Time) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.In(e.loc).Format(e.layout)
	}
	return out
}

// ParseResult is the display record for a single expression.
type ParseResult struct {
	Expression    string   `json:"expression"`
	Dialect       Dialect  `json:"dialect"`
	Valid         bool     `json:"valid"`
	Description   string   `json:"description"`
	NextFireTimes []string `json:"next_fire_times,omitempty"`

	// Times mirrors NextFireTimes as instants for renderers that need them.
	Times []time.Time `json:"-"`
}

// Parse validates expr and, when valid, describes it and projects the default
// number of fire times.
func (e *Engine) Parse(expr string, d Dialect) ParseResult {
	res := ParseResult{Expression: expr, Dialect: d}
	if err := Check(expr, d); err != nil {
		res.Description = "invalid cron expression: " + err.Error()
		return res
	}
	res.Valid = true
	res.Description = Describe(expr, d)
	times, err := e.Next(expr, d, e.count)
	if err == nil {
		res.Times = times
		res.NextFireTimes = e.Format(times)
	}
	return res
}
