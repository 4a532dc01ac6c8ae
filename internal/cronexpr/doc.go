// Package cronexpr normalizes, validates, describes and converts cron expressions
// across three dialects:
//   - unix5:   minute hour day-of-month month day-of-week
//   - spring6: second minute hour day-of-month month day-of-week
//   - quartz:  second minute hour day-of-month month day-of-week [year]
//
// Field tokens are opaque to this package. Ranges, lists, steps and names are
// checked by robfig/cron against a canonical 6-field form (seconds first, no '?').
//
// Everything here is a pure function over its inputs. The only ambient read is the
// current time used for fire-time projection, and Engine takes that from a Clock.
package cronexpr
