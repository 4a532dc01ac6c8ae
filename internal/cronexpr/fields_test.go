package cronexpr

import "testing"

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		expr    string
		dialect Dialect
		want    string
	}{
		{
			name: "unix5", expr: "0 9 * * 1", dialect: Unix5,
			want: "minute: 0, hour: 9, day-of-month: *, month: *, day-of-week: 1",
		},
		{
			name: "quartz without year", expr: "0 0 12 ? * MON", dialect: Quartz,
			want: "second: 0, minute: 0, hour: 12, day-of-month: ?, month: *, day-of-week: MON",
		},
		{
			name: "quartz with year", expr: "0 0 12 ? * MON 2027", dialect: Quartz,
			want: "second: 0, minute: 0, hour: 12, day-of-month: ?, month: *, day-of-week: MON, year: 2027",
		},
		{
			name: "missing fields", expr: "0 9", dialect: Unix5,
			want: "minute: 0, hour: 9, day-of-month: <missing>, month: <missing>, day-of-week: <missing>",
		},
		{
			name: "surplus fields", expr: "1 2 3 4 5 6 7", dialect: Spring,
			want: "second: 1, minute: 2, hour: 3, day-of-month: 4, month: 5, day-of-week: 6, extra: 7",
		},
		{name: "empty", expr: "", dialect: Spring, want: "invalid expression"},
		{name: "unknown dialect", expr: "* * * * *", dialect: Dialect("x"), want: "invalid expression"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Describe(tt.expr, tt.dialect); got != tt.want {
				t.Fatalf("Describe(%q, %s)\n got: %s\nwant: %s", tt.expr, tt.dialect, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()
	f := Split("0 30 8 1 * ? 2030", Quartz)
	if f.Second != "0" || f.Minute != "30" || f.Hour != "8" || f.DayOfMonth != "1" ||
		f.Month != "*" || f.DayOfWeek != "?" || f.Year != "2030" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	if len(f.Extra) != 0 {
		t.Fatalf("Extra = %v, want none", f.Extra)
	}

	u := Split("*/5 * * * *", Unix5)
	if u.Second != "" || u.Minute != "*/5" || u.DayOfWeek != "*" {
		t.Fatalf("unexpected unix5 fields: %+v", u)
	}
}
