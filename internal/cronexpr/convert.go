package cronexpr

import (
	"errors"
	"fmt"
	"strings"
)

// rewriteFunc turns the tokens of a validated source expression into a target expression.
type rewriteFunc func(parts []string) (string, error)

type dialectPair struct {
	from Dialect
	to   Dialect
}

// rules holds one entry per directed conversion. Identity pairs are absent:
// Convert returns the input unchanged before consulting the table.
var rules = map[dialectPair]rewriteFunc{
	{Unix5, Spring}:  unixToSpring,
	{Unix5, Quartz}:  unixToQuartz,
	{Spring, Unix5}:  springToUnix,
	{Spring, Quartz}: springToQuartz,
	{Quartz, Unix5}:  quartzToUnix,
	{Quartz, Spring}: quartzToSpring,
}

// Convert rewrites expr from one dialect into another.
//
// from == to returns expr as-is without validation. Every other failure is a
// *ConversionError; Convert never panics.
func Convert(expr string, from, to Dialect) (out string, err error) {
	if from == to {
		return expr, nil
	}
	if strings.TrimSpace(expr) == "" {
		return "", &ConversionError{Kind: ErrEmptyInput, From: from, To: to}
	}
	if cerr := Check(expr, from); cerr != nil {
		return "", &ConversionError{Kind: ErrInvalidSource, From: from, To: to, Cause: cerr}
	}
	rule, ok := rules[dialectPair{from, to}]
	if !ok {
		return "", &ConversionError{Kind: ErrUnsupportedConversion, From: from, To: to}
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &ConversionError{From: from, To: to, Cause: fmt.Errorf("%v", r)}
		}
	}()

	result, rerr := rule(strings.Fields(expr))
	if rerr != nil {
		ce := &ConversionError{From: from, To: to, Cause: rerr}
		if errors.Is(rerr, ErrSecondFieldIncompatible) {
			ce.Kind, ce.Cause = ErrSecondFieldIncompatible, nil
		}
		return "", ce
	}
	if cerr := Check(result, to); cerr != nil {
		return "", &ConversionError{Kind: ErrInvalidResult, From: from, To: to, Cause: cerr}
	}
	return result, nil
}

// ConversionResult is the tagged outcome of a conversion as shown to users.
type ConversionResult struct {
	OK         bool    `json:"ok"`
	Expression string  `json:"expression,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	From       Dialect `json:"from"`
	To         Dialect `json:"to"`

	Err error `json:"-"`
}

// ConvertResult is Convert folded into a ConversionResult.
func ConvertResult(expr string, from, to Dialect) ConversionResult {
	out, err := Convert(expr, from, to)
	if err != nil {
		return ConversionResult{Reason: err.Error(), From: from, To: to, Err: err}
	}
	return ConversionResult{OK: true, Expression: out, From: from, To: to}
}

func unixToSpring(parts []string) (string, error) {
	return "0 " + strings.Join(parts, " "), nil
}

func unixToQuartz(parts []string) (string, error) {
	minute, hour, dom, month, dow := parts[0], parts[1], parts[2], parts[3], parts[4]
	dom, dow = quartzDayFields(dom, dow)
	return strings.Join([]string{"0", minute, hour, dom, month, dow}, " "), nil
}

func springToUnix(parts []string) (string, error) {
	if err := requireWholeMinute(parts[0]); err != nil {
		return "", err
	}
	return strings.Join(parts[1:], " "), nil
}

func springToQuartz(parts []string) (string, error) {
	out := append([]string(nil), parts...)
	out[3], out[5] = quartzDayFields(parts[3], parts[5])
	return strings.Join(out, " "), nil
}

func quartzToUnix(parts []string) (string, error) {
	parts = parts[:6]
	if err := requireWholeMinute(parts[0]); err != nil {
		return "", err
	}
	return strings.Join(replaceNoValue(parts[1:]), " "), nil
}

func quartzToSpring(parts []string) (string, error) {
	return strings.Join(replaceNoValue(parts[:6]), " "), nil
}

// quartzDayFields resolves the day-of-month / day-of-week pair for a quartz target.
// Quartz cannot restrict both at once, so a restricted weekday forces day-of-month
// to "?". A wildcard weekday leaves both fields untouched. "?" in the source counts
// as a wildcard.
func quartzDayFields(dom, dow string) (string, string) {
	if !isWildcard(dow) {
		return noValue, dow
	}
	return dom, dow
}

func isWildcard(tok string) bool { return tok == wildcard || tok == noValue }

// requireWholeMinute rejects second fields that a minute-resolution dialect cannot express.
func requireWholeMinute(sec string) error {
	if sec != "0" && sec != wildcard {
		return ErrSecondFieldIncompatible
	}
	return nil
}
