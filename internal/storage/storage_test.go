package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	logx "cronconv/pkg/logx"
)

func openTest(t *testing.T, driver string) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "history."+driver)
	st, err := Open(Config{Driver: driver, Path: path, BusyTimeout: time.Second}, logx.Nop())
	if err != nil {
		t.Fatalf("Open(%s): %v", driver, err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_Disabled(t *testing.T) {
	t.Parallel()
	for _, d := range []string{"", "none", "  NONE "} {
		st, err := Open(Config{Driver: d}, logx.Nop())
		if err != nil || st != nil {
			t.Fatalf("Open(%q) = %v, %v; want nil, nil", d, st, err)
		}
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Driver: "redis", Path: "x"}, logx.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	for _, d := range []string{"file", "sqlite", "bolt"} {
		if _, err := Open(Config{Driver: d}, logx.Nop()); err == nil {
			t.Fatalf("%s: expected error for empty path", d)
		}
	}
}

func TestStore_AppendRecent(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{"file", "sqlite", "bolt"} {
		driver := driver
		t.Run(driver, func(t *testing.T) {
			t.Parallel()
			st := openTest(t, driver)
			ctx := context.Background()
			base := time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

			for i := 0; i < 5; i++ {
				reason := ""
				if i%2 != 0 {
					reason = "source expression invalid"
				}
				rec, err := st.Append(ctx, Record{
					At:         base.Add(time.Duration(i) * time.Second),
					Channel:    "cli",
					Expression: fmt.Sprintf("%d 9 * * *", i),
					From:       "unix5",
					To:         "quartz",
					OK:         i%2 == 0,
					Result:     "0 0 9 * * ?",
					Reason:     reason,
				})
				if err != nil {
					t.Fatalf("Append #%d: %v", i, err)
				}
				if rec.ID == "" {
					t.Fatalf("Append #%d: empty id", i)
				}
			}

			got, err := st.Recent(ctx, 3)
			if err != nil {
				t.Fatalf("Recent: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("Recent len=%d want 3", len(got))
			}
			for i, want := range []string{"4 9 * * *", "3 9 * * *", "2 9 * * *"} {
				if got[i].Expression != want {
					t.Fatalf("Recent[%d].Expression=%q want %q", i, got[i].Expression, want)
				}
			}
			if !got[0].OK || got[1].OK {
				t.Fatalf("ok flags not preserved: %+v", got[:2])
			}
			if got[1].Reason != "source expression invalid" {
				t.Fatalf("reason=%q", got[1].Reason)
			}
			if !got[0].At.Equal(base.Add(4 * time.Second)) {
				t.Fatalf("At=%v", got[0].At)
			}

			all, err := st.Recent(ctx, 0)
			if err != nil {
				t.Fatalf("Recent(0): %v", err)
			}
			if len(all) != 5 {
				t.Fatalf("Recent(0) len=%d want 5", len(all))
			}

			huge, err := st.Recent(ctx, 1<<40)
			if err != nil || len(huge) != 5 {
				t.Fatalf("Recent(huge) len=%d err=%v", len(huge), err)
			}
		})
	}
}

func TestFileStore_SkipsCorruptLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := st.Append(context.Background(), Record{Channel: "cli", Expression: "* * * * *", From: "unix5", To: "spring6", OK: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := st.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Expression != "* * * * *" {
		t.Fatalf("Recent=%+v", got)
	}
}

func TestFileStore_ClosedIsDisabled(t *testing.T) {
	t.Parallel()
	st := openTest(t, "file")
	_ = st.Close()
	if _, err := st.Append(context.Background(), Record{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Append after Close err=%v want ErrDisabled", err)
	}
}

func TestIDSource_Monotonic(t *testing.T) {
	t.Parallel()
	ids := NewIDSource()
	at := time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)
	prev := ""
	for i := 0; i < 100; i++ {
		id := ids.Next(at)
		if id <= prev {
			t.Fatalf("id %q not after %q", id, prev)
		}
		prev = id
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()
	for in, want := range map[int]int{-1: 20, 0: 20, 7: 7, maxRecentLimit: maxRecentLimit, 1 << 40: maxRecentLimit} {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
