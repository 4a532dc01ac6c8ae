package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"cronconv/internal/config"
	"cronconv/internal/cronexpr"
	logx "cronconv/pkg/logx"
)

var fixedNow = time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T, driver string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.Timezone = "UTC"
	if driver != "" {
		cfg.Storage.Driver = driver
		cfg.Storage.Path = filepath.Join(t.TempDir(), "history")
	}
	st, err := OpenStore(cfg, logx.Nop())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	a, err := New(cfg, logx.Nop(), st, WithClock(cronexpr.FixedClock(fixedNow)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_ConvertRecordsHistory(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "file")
	ctx := context.Background()
	origin := Origin{Channel: ChannelTelegram, Actor: "42"}

	res := a.Convert(ctx, origin, "0 9 * * 1-5", "unix", "quartz")
	if !res.OK || res.Expression != "0 0 9 ? * 1-5" {
		t.Fatalf("Convert = %+v", res)
	}
	res = a.Convert(ctx, origin, "30 0 9 * * *", "spring6", "unix5")
	if res.OK || res.Reason != "conversion failed: second field must be 0 or * to convert to unix5" {
		t.Fatalf("Convert = %+v", res)
	}

	recs, err := a.History(ctx, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("History len=%d want 2", len(recs))
	}
	if recs[0].OK || recs[0].From != "spring6" || recs[0].Actor != "42" {
		t.Fatalf("newest record = %+v", recs[0])
	}
	if !recs[1].OK || recs[1].Result != "0 0 9 ? * 1-5" || recs[1].Channel != ChannelTelegram {
		t.Fatalf("oldest record = %+v", recs[1])
	}
}

func TestApp_ConvertDefaultsAndUnknown(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "")

	res := a.Convert(context.Background(), Origin{Channel: ChannelCLI}, "*/5 * * * *", "", "")
	if !res.OK || res.From != cronexpr.Unix5 || res.To != cronexpr.Quartz {
		t.Fatalf("defaults: %+v", res)
	}
	if res.Expression != "0 */5 * * * *" {
		t.Fatalf("Expression=%q", res.Expression)
	}

	res = a.Convert(context.Background(), Origin{Channel: ChannelCLI}, "0 9 * * *", "unix5", "windows")
	if res.OK || !errors.Is(res.Err, cronexpr.ErrUnsupportedConversion) {
		t.Fatalf("unknown target: %+v", res)
	}
}

func TestApp_HistoryDisabled(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "")
	if a.HistoryEnabled() {
		t.Fatalf("HistoryEnabled = true")
	}
	if _, err := a.History(context.Background(), 5); !errors.Is(err, ErrHistoryDisabled) {
		t.Fatalf("err=%v want ErrHistoryDisabled", err)
	}
}

func TestApp_ExplainAndNext(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "")

	pr := a.Explain("0 9 * * 1-5", "unix5")
	if !pr.Valid || len(pr.NextFireTimes) != cronexpr.DefaultCount {
		t.Fatalf("Explain = %+v", pr)
	}
	if pr.NextFireTimes[0] != "2026-10-16 09:00:00" {
		t.Fatalf("first fire time = %q", pr.NextFireTimes[0])
	}

	got, err := a.Next("0 9 * * *", "unix5", 2)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(got) != 2 || got[1] != "2026-10-17 09:00:00" {
		t.Fatalf("Next = %v", got)
	}

	if err := a.Validate("0 9 * * *", "spring"); err == nil {
		t.Fatalf("5 fields must not validate as spring6")
	}
	if err := a.Validate("0 0 9 * * ?", "quartz"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestApp_Templates(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "")
	if got := a.Templates(""); len(got) != 3 {
		t.Fatalf("Templates(all) has %d dialects", len(got))
	}
	got := a.Templates("spring")
	if len(got) != 1 || len(got[cronexpr.Spring]) == 0 {
		t.Fatalf("Templates(spring) = %v", got)
	}
	if got := a.Templates("nope"); len(got) != 0 {
		t.Fatalf("Templates(nope) = %v", got)
	}
}

func TestApp_ApplyConfig(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "")

	cfg := config.Default()
	cfg.Engine.Timezone = "Asia/Jakarta"
	cfg.Engine.DefaultFrom = "spring"
	cfg.Engine.DefaultTo = "unix"
	cfg.Engine.TimeLayout = "15:04"
	if err := a.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	from, to := a.Defaults()
	if from != cronexpr.Spring || to != cronexpr.Unix5 {
		t.Fatalf("Defaults = %s, %s", from, to)
	}
	got, err := a.Next("0 0 9 * * *", "", 1)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	// 08:30 UTC is 15:30 in Jakarta; the next 09:00 is the following morning.
	if len(got) != 1 || got[0] != "09:00" {
		t.Fatalf("Next = %v", got)
	}

	bad := config.Default()
	bad.Engine.Timezone = "Mars/Olympus"
	if err := a.ApplyConfig(bad); err == nil {
		t.Fatalf("expected error for bad timezone")
	}
	if from, _ := a.Defaults(); from != cronexpr.Spring {
		t.Fatalf("failed apply replaced settings")
	}
}

func TestOpenStore_Mapping(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if st, err := OpenStore(cfg, logx.Nop()); err != nil || st != nil {
		t.Fatalf("disabled: %v, %v", st, err)
	}
	cfg.Storage.Driver = "sqlite"
	if _, err := OpenStore(cfg, logx.Nop()); err == nil {
		t.Fatalf("expected error for missing path")
	}
	cfg.Storage.Path = filepath.Join(t.TempDir(), "h.db")
	cfg.Storage.BusyTimeout = "soon"
	if _, err := OpenStore(cfg, logx.Nop()); err == nil {
		t.Fatalf("expected error for bad busy_timeout")
	}
}

type fakeFrontend struct {
	runs    atomic.Int32
	applied atomic.Int32
}

func (f *fakeFrontend) Name() string { return "fake" }

func (f *fakeFrontend) Run(ctx context.Context) error {
	f.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeFrontend) ApplyConfig(*Config) error {
	f.applied.Add(1)
	return nil
}

func TestRuntime_StartApplyStop(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, "")
	fe := &fakeFrontend{}
	rt := NewRuntime(a, nil, nil, logx.Nop(), fe)

	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	prev := config.Default()
	next := config.Default()
	next.Engine.DefaultTo = "spring6"
	rt.apply(prev, next)
	if _, to := a.Defaults(); to != cronexpr.Spring {
		t.Fatalf("apply did not reach app: to=%s", to)
	}
	if fe.applied.Load() != 1 {
		t.Fatalf("frontend ApplyConfig calls = %d", fe.applied.Load())
	}

	rt.apply(next, next)
	if fe.applied.Load() != 1 {
		t.Fatalf("unchanged config must not be re-applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rt.Stop(ctx, StopAppStop); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if fe.runs.Load() != 1 {
		t.Fatalf("frontend runs = %d", fe.runs.Load())
	}
	select {
	case <-rt.Done():
	default:
		t.Fatalf("Done not closed after Stop")
	}
}
