package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cronconv/internal/app"
	"cronconv/internal/config"
	"cronconv/internal/render"
	logx "cronconv/pkg/logx"
)

// errReported signals a failure whose details were already printed.
var errReported = errors.New("failed")

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	configPath string
	logLevel   string
	jsonOut    bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "cronconv",
		Short:         "Convert, validate and explain cron expressions across unix5, spring6 and quartz",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, args []string) error { return cmd.Help() },
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (JSON or YAML); defaults apply when empty")
	pf.StringVar(&opts.logLevel, "log-level", "", "override logging.level for this run")
	pf.BoolVar(&opts.jsonOut, "json", false, "print machine-readable JSON")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable styled output")

	root.AddCommand(
		convertCmd(opts),
		validateCmd(opts),
		explainCmd(opts),
		nextCmd(opts),
		templatesCmd(opts),
		historyCmd(opts),
		serveCmd(opts),
	)
	return root
}

// loadConfig returns the config and, when a file is used, its manager.
func (o *options) loadConfig() (*config.Config, *config.ConfigManager, error) {
	if strings.TrimSpace(o.configPath) == "" {
		return config.Default(), nil, nil
	}
	cfgm := config.NewConfigManager(o.configPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, cfgm, nil
}

// session is what a one-shot command works with.
type session struct {
	cfg *config.Config
	app *app.App
	log logx.Logger
	out io.Writer
	r   *render.Renderer
}

func (s *session) Close() { _ = s.app.Close() }

func (o *options) open(cmd *cobra.Command) (*session, error) {
	cfg, _, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	switch {
	case o.logLevel != "":
		level = o.logLevel
	case o.configPath == "":
		level = "warn"
	}
	log := logx.NewConsole(level, cmd.ErrOrStderr())

	store, err := app.OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, log, store)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	st := render.DefaultStyles()
	if o.noColor {
		st = render.PlainStyles()
	}
	return &session{cfg: cfg, app: a, log: log, out: cmd.OutOrStdout(), r: render.New(render.WithStyles(st))}, nil
}

func (o *options) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
