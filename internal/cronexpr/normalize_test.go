package cronexpr

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		expr    string
		dialect Dialect
		want    string
	}{
		{name: "unix5 gains seconds", expr: "*/5 * * * *", dialect: Unix5, want: "0 */5 * * * *"},
		{name: "unix5 collapses whitespace", expr: "  0   9 * * 1-5 ", dialect: Unix5, want: "0 0 9 * * 1-5"},
		{name: "unix5 wrong count untouched", expr: "0 9 * *", dialect: Unix5, want: "0 9 * *"},
		{name: "spring passthrough", expr: "0 0 9 * * *", dialect: Spring, want: "0 0 9 * * *"},
		{name: "quartz no-value", expr: "0 0 12 ? * MON", dialect: Quartz, want: "0 0 12 * * MON"},
		{name: "quartz year dropped", expr: "0 0 12 ? * MON 2027", dialect: Quartz, want: "0 0 12 * * MON"},
		{name: "quartz both no-value", expr: "0 0 12 ? * ?", dialect: Quartz, want: "0 0 12 * * *"},
		{name: "empty", expr: "", dialect: Unix5, want: ""},
		{name: "blank", expr: " \t ", dialect: Quartz, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.expr, tt.dialect); got != tt.want {
				t.Fatalf("Normalize(%q, %s) = %q, want %q", tt.expr, tt.dialect, got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		expr    string
		dialect Dialect
		wantErr error
	}{
		{name: "unix5 every 5 min", expr: "*/5 * * * *", dialect: Unix5},
		{name: "unix5 weekdays", expr: "0 9 * * 1-5", dialect: Unix5},
		{name: "unix5 with seconds", expr: "0 0 9 * * *", dialect: Unix5, wantErr: ErrFieldCount},
		{name: "unix5 minute out of range", expr: "60 * * * *", dialect: Unix5, wantErr: ErrParse},
		{name: "unix5 descriptor", expr: "@daily", dialect: Unix5, wantErr: ErrFieldCount},
		{name: "spring names", expr: "0 0 9 * * MON-FRI", dialect: Spring},
		{name: "spring too short", expr: "0 9 * * *", dialect: Spring, wantErr: ErrFieldCount},
		{name: "spring bad hour", expr: "0 0 25 * * *", dialect: Spring, wantErr: ErrParse},
		{name: "unix5 no-value", expr: "0 9 ? * 1", dialect: Unix5, wantErr: ErrParse},
		{name: "spring no-value", expr: "0 0 9 ? * MON", dialect: Spring, wantErr: ErrParse},
		{name: "quartz six", expr: "0 0 12 ? * MON", dialect: Quartz},
		{name: "quartz seven", expr: "0 0 12 ? * MON 2027", dialect: Quartz},
		{name: "quartz five", expr: "0 0 12 ? *", dialect: Quartz, wantErr: ErrFieldCount},
		{name: "quartz eight", expr: "0 0 12 ? * MON 2027 x", dialect: Quartz, wantErr: ErrFieldCount},
		{name: "empty", expr: "", dialect: Spring, wantErr: ErrEmptyInput},
		{name: "unknown dialect", expr: "* * * * *", dialect: Dialect("cron7"), wantErr: ErrUnknownDialect},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Check(tt.expr, tt.dialect)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Check(%q, %s) error: %v", tt.expr, tt.dialect, err)
				}
				if !Validate(tt.expr, tt.dialect) {
					t.Fatalf("Validate(%q, %s) = false", tt.expr, tt.dialect)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check(%q, %s) = %v, want %v", tt.expr, tt.dialect, err, tt.wantErr)
			}
			if Validate(tt.expr, tt.dialect) {
				t.Fatalf("Validate(%q, %s) = true", tt.expr, tt.dialect)
			}
		})
	}
}

func TestValidateEmptyForEveryDialect(t *testing.T) {
	t.Parallel()
	for _, d := range Dialects() {
		if Validate("", d) {
			t.Fatalf("Validate(\"\", %s) = true", d)
		}
	}
}
