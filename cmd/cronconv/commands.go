package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cronconv/internal/app"
	"cronconv/internal/cronexpr"
)

func joinExpr(args []string) string { return strings.Join(args, " ") }

func convertCmd(opts *options) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert [flags] <expression>",
		Short: "Convert an expression between dialects",
		Example: `  cronconv convert --from unix5 --to quartz "0 9 * * 1-5"
  cronconv convert -f quartz -t spring6 0 0 12 ? \* MON`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			expr := joinExpr(args)
			res := s.app.Convert(cmd.Context(), app.Origin{Channel: app.ChannelCLI}, expr, from, to)
			if opts.jsonOut {
				if err := opts.printJSON(s.out, res); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(s.out, s.r.Conversion(expr, res))
			}
			if !res.OK {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "source dialect (default engine.default_from)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "target dialect (default engine.default_to)")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	var dialect string
	cmd := &cobra.Command{
		Use:   "validate [flags] <expression>",
		Short: "Check an expression against a dialect",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			expr := joinExpr(args)
			from, _ := s.app.Defaults()
			d := app.ResolveDialect(dialect, from)
			verr := s.app.Validate(expr, dialect)
			if opts.jsonOut {
				out := struct {
					Expression string           `json:"expression"`
					Dialect    cronexpr.Dialect `json:"dialect"`
					Valid      bool             `json:"valid"`
					Error      string           `json:"error,omitempty"`
				}{Expression: expr, Dialect: d, Valid: verr == nil}
				if verr != nil {
					out.Error = verr.Error()
				}
				if err := opts.printJSON(s.out, out); err != nil {
					return err
				}
			} else if verr != nil {
				fmt.Fprintf(s.out, "✗ %q is not a valid %s expression: %v\n", expr, d.Label(), verr)
			} else {
				fmt.Fprintf(s.out, "✓ %q is a valid %s expression\n", expr, d.Label())
			}
			if verr != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "dialect (default engine.default_from)")
	return cmd
}

func explainCmd(opts *options) *cobra.Command {
	var dialect string
	cmd := &cobra.Command{
		Use:   "explain [flags] <expression>",
		Short: "Describe fields and upcoming fire times",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res := s.app.Explain(joinExpr(args), dialect)
			if opts.jsonOut {
				if err := opts.printJSON(s.out, res); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(s.out, s.r.Parse(res))
			}
			if !res.Valid {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "dialect (default engine.default_from)")
	return cmd
}

func nextCmd(opts *options) *cobra.Command {
	var dialect string
	var count int
	cmd := &cobra.Command{
		Use:   "next [flags] <expression>",
		Short: "List upcoming fire times",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if count <= 0 {
				count = s.cfg.Engine.NextCount
			}
			times, nerr := s.app.Next(joinExpr(args), dialect, count)
			if opts.jsonOut {
				if err := opts.printJSON(s.out, times); err != nil {
					return err
				}
			} else {
				for i, t := range times {
					fmt.Fprintf(s.out, "%2d. %s\n", i+1, t)
				}
			}
			switch {
			case errors.Is(nerr, cronexpr.ErrNoOccurrence):
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", nerr)
				return nil
			case nerr != nil:
				return nerr
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "dialect (default engine.default_from)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of fire times (default engine.next_count)")
	return cmd
}

func templatesCmd(opts *options) *cobra.Command {
	var dialect string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Show common ready-made expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			byDialect := s.app.Templates(dialect)
			if len(byDialect) == 0 {
				return fmt.Errorf("unknown dialect %q", dialect)
			}
			if opts.jsonOut {
				return opts.printJSON(s.out, byDialect)
			}
			fmt.Fprintln(s.out, s.r.Templates(byDialect))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "only this dialect")
	return cmd
}

func historyCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions (needs storage.driver)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			recs, err := s.app.History(ctx, limit)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return opts.printJSON(s.out, recs)
			}
			fmt.Fprintln(s.out, s.r.History(recs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of records (default storage.history_limit)")
	return cmd
}
