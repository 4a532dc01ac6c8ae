package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"cronconv/internal/app"
	"cronconv/internal/cronexpr"
	"cronconv/internal/storage"
)

const maxNextCount = 20

// Service is what the chat commands need from the application.
type Service interface {
	Convert(ctx context.Context, origin app.Origin, expr, from, to string) cronexpr.ConversionResult
	Explain(expr, dialect string) cronexpr.ParseResult
	Validate(expr, dialect string) error
	Next(expr, dialect string, n int) ([]string, error)
	Templates(dialect string) map[cronexpr.Dialect][]cronexpr.Template
	History(ctx context.Context, n int) ([]storage.Record, error)
}

// Commands builds the cron command set backed by svc.
func Commands(svc Service) []Command {
	h := handlers{svc: svc, now: time.Now}
	return []Command{
		{
			Name:        "convert",
			Aliases:     []string{"c"},
			Description: "convert an expression between dialects",
			Usage:       "/convert <from> <to> <expression>",
			Handle:      h.convert,
		},
		{
			Name:        "validate",
			Aliases:     []string{"v"},
			Description: "check an expression",
			Usage:       "/validate <dialect> <expression>",
			Handle:      h.validate,
		},
		{
			Name:        "explain",
			Aliases:     []string{"e"},
			Description: "describe fields and upcoming fire times",
			Usage:       "/explain <dialect> <expression>",
			Handle:      h.explain,
		},
		{
			Name:        "next",
			Aliases:     []string{"n"},
			Description: "list upcoming fire times",
			Usage:       "/next <dialect> [count] <expression>",
			Handle:      h.next,
		},
		{
			Name:        "templates",
			Aliases:     []string{"t"},
			Description: "common ready-made expressions",
			Usage:       "/templates [dialect]",
			Handle:      h.templates,
		},
		{
			Name:        "history",
			Description: "recent conversions",
			Usage:       "/history [count]",
			Handle:      h.history,
		},
	}
}

type handlers struct {
	svc Service
	now func() time.Time
}

func usage(ctx context.Context, req *Request, text string) error {
	return req.Reply(ctx, "usage: <code>"+escape(text)+"</code>")
}

func (h handlers) convert(ctx context.Context, req *Request) error {
	if len(req.Args) < 3 {
		return usage(ctx, req, "/convert <from> <to> <expression>")
	}
	expr := strings.Join(req.Args[2:], " ")
	res := h.svc.Convert(ctx, app.Origin{Channel: app.ChannelTelegram, Actor: req.Actor()}, expr, req.Args[0], req.Args[1])
	return req.Reply(ctx, formatConversion(expr, res))
}

func (h handlers) validate(ctx context.Context, req *Request) error {
	if len(req.Args) < 2 {
		return usage(ctx, req, "/validate <dialect> <expression>")
	}
	d := app.ResolveDialect(req.Args[0], "")
	expr := strings.Join(req.Args[1:], " ")
	return req.Reply(ctx, formatValidation(expr, d, h.svc.Validate(expr, req.Args[0])))
}

func (h handlers) explain(ctx context.Context, req *Request) error {
	if len(req.Args) < 2 {
		return usage(ctx, req, "/explain <dialect> <expression>")
	}
	return req.Reply(ctx, formatParse(h.svc.Explain(strings.Join(req.Args[1:], " "), req.Args[0])))
}

func (h handlers) next(ctx context.Context, req *Request) error {
	if len(req.Args) < 2 {
		return usage(ctx, req, "/next <dialect> [count] <expression>")
	}
	d := app.ResolveDialect(req.Args[0], "")
	n, expr := splitNextArgs(d, req.Args[1:])
	times, err := h.svc.Next(expr, req.Args[0], n)
	return req.Reply(ctx, formatTimes(expr, d, times, err))
}

func (h handlers) templates(ctx context.Context, req *Request) error {
	dialect := ""
	if len(req.Args) > 0 {
		dialect = req.Args[0]
	}
	byDialect := h.svc.Templates(dialect)
	if len(byDialect) == 0 {
		return req.Reply(ctx, "❌ unknown dialect <code>"+escape(dialect)+"</code>")
	}
	return req.Reply(ctx, formatTemplates(byDialect))
}

func (h handlers) history(ctx context.Context, req *Request) error {
	n := 0
	if len(req.Args) > 0 {
		v, err := strconv.Atoi(req.Args[0])
		if err != nil || v <= 0 {
			return usage(ctx, req, "/history [count]")
		}
		n = min(v, 50)
	}
	recs, err := h.svc.History(ctx, n)
	if errors.Is(err, app.ErrHistoryDisabled) {
		return req.Reply(ctx, "ℹ️ conversion history is disabled on this bot")
	}
	if err != nil {
		_ = req.Reply(ctx, "❌ could not read history")
		return err
	}
	return req.Reply(ctx, formatHistory(recs, h.now()))
}

// splitNextArgs separates an optional leading count from the expression.
// A leading integer counts as the count only when the tokens after it are a
// valid expression and the whole token list is not.
func splitNextArgs(d cronexpr.Dialect, args []string) (int, string) {
	whole := strings.Join(args, " ")
	if len(args) < 2 {
		return cronexpr.DefaultCount, whole
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return cronexpr.DefaultCount, whole
	}
	rest := strings.Join(args[1:], " ")
	if cronexpr.Validate(whole, d) || !cronexpr.Validate(rest, d) {
		return cronexpr.DefaultCount, whole
	}
	return min(n, maxNextCount), rest
}
