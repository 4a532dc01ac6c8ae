package adapter

import (
	"strings"
	"testing"

	kit "cronconv/internal/transport"
)

func TestSplitTelegramText(t *testing.T) {
	t.Parallel()

	if got := splitTelegramText("short", 10, ""); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short text split: %q", got)
	}

	long := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	got := splitTelegramText(long, 10, "")
	if len(got) != 2 || got[0] != strings.Repeat("a", 8) || got[1] != strings.Repeat("b", 8) {
		t.Fatalf("newline split: %q", got)
	}

	html := "abcdefg<code>x</code>"
	got = splitTelegramText(html, 10, "HTML")
	if got[0] != "abcdefg" {
		t.Fatalf("html split cut inside tag: %q", got)
	}
	if strings.Join(got, "") != html {
		t.Fatalf("html split lost text: %q", got)
	}
}

func TestMenuHash(t *testing.T) {
	t.Parallel()
	a := []kit.BotCommand{{Command: "convert", Description: "convert"}}
	b := []kit.BotCommand{{Command: "convert", Description: "changed"}}
	if menuHash(a) == menuHash(b) {
		t.Fatalf("different menus hash equal")
	}
	if menuHash(a) != menuHash(append([]kit.BotCommand(nil), a...)) {
		t.Fatalf("equal menus hash differently")
	}
}
