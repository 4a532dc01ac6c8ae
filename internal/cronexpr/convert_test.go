package cronexpr

import (
	"errors"
	"strings"
	"testing"
)

func TestConvertIdentitySkipsValidation(t *testing.T) {
	t.Parallel()
	for _, d := range append(Dialects(), Dialect("unknown")) {
		for _, expr := range []string{"", "not a cron", "0 0 9 ? * MON"} {
			got, err := Convert(expr, d, d)
			if err != nil {
				t.Fatalf("Convert(%q, %s, %s) error: %v", expr, d, d, err)
			}
			if got != expr {
				t.Fatalf("Convert(%q, %s, %s) = %q", expr, d, d, got)
			}
		}
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		expr string
		from Dialect
		to   Dialect
		want string
	}{
		{name: "unix5 to spring", expr: "*/5 * * * *", from: Unix5, to: Spring, want: "0 */5 * * * *"},
		{name: "unix5 to quartz both days restricted", expr: "0 9 15 * 1", from: Unix5, to: Quartz, want: "0 0 9 ? * 1"},
		{name: "unix5 to quartz weekday only", expr: "0 9 * * 1-5", from: Unix5, to: Quartz, want: "0 0 9 ? * 1-5"},
		{name: "unix5 to quartz wildcards", expr: "0 9 * * *", from: Unix5, to: Quartz, want: "0 0 9 * * *"},
		{name: "unix5 to quartz day of month only", expr: "0 9 15 * *", from: Unix5, to: Quartz, want: "0 0 9 15 * *"},
		{name: "spring to unix5", expr: "0 0 9 * * *", from: Spring, to: Unix5, want: "0 9 * * *"},
		{name: "spring to unix5 wildcard second", expr: "* 0 9 * * *", from: Spring, to: Unix5, want: "0 9 * * *"},
		{name: "spring to quartz weekday", expr: "0 0 9 * * MON-FRI", from: Spring, to: Quartz, want: "0 0 9 ? * MON-FRI"},
		{name: "spring to quartz keeps seconds", expr: "15 30 8 1 * *", from: Spring, to: Quartz, want: "15 30 8 1 * *"},
		{name: "spring no-value weekday counts as wildcard", expr: "0 0 9 15 * ?", from: Spring, to: Quartz, want: "0 0 9 15 * ?"},
		{name: "quartz to unix5", expr: "0 0 12 ? * MON", from: Quartz, to: Unix5, want: "0 12 * * MON"},
		{name: "quartz to unix5 drops year", expr: "0 0 12 1 * ? 2027", from: Quartz, to: Unix5, want: "0 12 1 * *"},
		{name: "quartz to spring", expr: "0 0 12 ? * MON", from: Quartz, to: Spring, want: "0 0 12 * * MON"},
		{name: "quartz to spring drops year", expr: "30 0 12 ? * MON 2027", from: Quartz, to: Spring, want: "30 0 12 * * MON"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Convert(tt.expr, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert(%q, %s, %s) error: %v", tt.expr, tt.from, tt.to, err)
			}
			if got != tt.want {
				t.Fatalf("Convert(%q, %s, %s) = %q, want %q", tt.expr, tt.from, tt.to, got, tt.want)
			}
			if !Validate(got, tt.to) {
				t.Fatalf("result %q does not validate as %s", got, tt.to)
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		expr       string
		from       Dialect
		to         Dialect
		kind       error
		reason     string
		wrappedErr error
	}{
		{name: "empty", expr: "", from: Unix5, to: Spring, kind: ErrEmptyInput, reason: "expression must not be empty"},
		{name: "blank", expr: "   ", from: Quartz, to: Unix5, kind: ErrEmptyInput, reason: "expression must not be empty"},
		{
			name: "five fields as spring", expr: "30 9 * * *", from: Spring, to: Unix5,
			kind: ErrInvalidSource, reason: "source expression invalid", wrappedErr: ErrFieldCount,
		},
		{
			name: "bad source value", expr: "0 24 * * *", from: Unix5, to: Quartz,
			kind: ErrInvalidSource, reason: "source expression invalid", wrappedErr: ErrParse,
		},
		{
			name: "unknown source dialect", expr: "0 9 * * *", from: Dialect("jenkins"), to: Unix5,
			kind: ErrInvalidSource, reason: "source expression invalid", wrappedErr: ErrUnknownDialect,
		},
		{
			name: "spring seconds lost", expr: "30 0 9 * * *", from: Spring, to: Unix5,
			kind: ErrSecondFieldIncompatible, reason: "conversion failed: second field must be 0 or * to convert to unix5",
		},
		{
			name: "quartz seconds lost", expr: "15 0 12 ? * MON", from: Quartz, to: Unix5,
			kind: ErrSecondFieldIncompatible, reason: "conversion failed: second field must be 0 or * to convert to unix5",
		},
		{
			name: "unknown target", expr: "0 9 * * *", from: Unix5, to: Dialect("jenkins"),
			kind: ErrUnsupportedConversion, reason: "unsupported conversion: unix5 -> jenkins",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Convert(tt.expr, tt.from, tt.to)
			if err == nil {
				t.Fatalf("Convert(%q, %s, %s) = %q, want error", tt.expr, tt.from, tt.to, got)
			}
			if got != "" {
				t.Fatalf("partial result %q returned with error", got)
			}
			var ce *ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *ConversionError", err)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("error %v is not %v", err, tt.kind)
			}
			if err.Error() != tt.reason {
				t.Fatalf("reason = %q, want %q", err.Error(), tt.reason)
			}
			if tt.wrappedErr != nil && !errors.Is(err, tt.wrappedErr) {
				t.Fatalf("error %v does not wrap %v", err, tt.wrappedErr)
			}
		})
	}
}

func TestConvertRoundTripUnixSpring(t *testing.T) {
	t.Parallel()
	for _, expr := range []string{"0 9 * * *", "*/15 * * * *", "0 9 * * 1-5", "30 2 1 * *", "0 0 1 1,7 *"} {
		spring, err := Convert(expr, Unix5, Spring)
		if err != nil {
			t.Fatalf("Convert(%q, unix5, spring6) error: %v", expr, err)
		}
		back, err := Convert(spring, Spring, Unix5)
		if err != nil {
			t.Fatalf("Convert(%q, spring6, unix5) error: %v", spring, err)
		}
		if back != expr {
			t.Fatalf("round trip %q -> %q -> %q", expr, spring, back)
		}
	}
}

func TestConvertResult(t *testing.T) {
	t.Parallel()
	ok := ConvertResult("0 9 15 * 1", Unix5, Quartz)
	if !ok.OK || ok.Expression != "0 0 9 ? * 1" || ok.Reason != "" || ok.Err != nil {
		t.Fatalf("unexpected success result: %+v", ok)
	}
	bad := ConvertResult("", Unix5, Spring)
	if bad.OK || bad.Expression != "" || bad.Reason != "expression must not be empty" {
		t.Fatalf("unexpected failure result: %+v", bad)
	}
	if !errors.Is(bad.Err, ErrEmptyInput) {
		t.Fatalf("Err = %v, want ErrEmptyInput", bad.Err)
	}
}

// The rule table is swapped here, so these tests must not run in parallel.

func TestConvertRejectsInvalidRuleOutput(t *testing.T) {
	key := dialectPair{Unix5, Spring}
	orig := rules[key]
	rules[key] = func(parts []string) (string, error) { return strings.Join(parts, " "), nil }
	defer func() { rules[key] = orig }()

	_, err := Convert("0 9 * * *", Unix5, Spring)
	if !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("Convert error = %v, want ErrInvalidResult", err)
	}
	if err.Error() != "conversion result invalid" {
		t.Fatalf("reason = %q", err.Error())
	}
}

func TestConvertRecoversRulePanic(t *testing.T) {
	key := dialectPair{Spring, Quartz}
	orig := rules[key]
	rules[key] = func(parts []string) (string, error) { return parts[42], nil }
	defer func() { rules[key] = orig }()

	_, err := Convert("0 0 9 * * *", Spring, Quartz)
	if err == nil {
		t.Fatal("expected error from panicking rule")
	}
	if !strings.HasPrefix(err.Error(), "conversion failed: ") {
		t.Fatalf("reason = %q, want conversion failed prefix", err.Error())
	}
}

func TestConvertRejectsNoValueOutsideQuartz(t *testing.T) {
	t.Parallel()
	for _, from := range []Dialect{Unix5, Spring} {
		expr := "0 9 ? * 1"
		if from == Spring {
			expr = "0 " + expr
		}
		_, err := Convert(expr, from, Quartz)
		if !errors.Is(err, ErrInvalidSource) || !errors.Is(err, ErrParse) {
			t.Fatalf("Convert(%q, %s, quartz) err=%v", expr, from, err)
		}
	}
}
