package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/notify"
	"github.com/example/tilesmith/internal/session"
	"github.com/example/tilesmith/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	config      *config.Config
	notifier    *notify.Notifier
	log         *zap.Logger
	stdout      io.Writer
	stderr      io.Writer
	debug       bool
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	activeTheme *theme.Theme
	// live is the session shared by interactive mode. File commands open
	// their own when it is nil.
	live *liveSession
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:      flag.NewFlagSet("tilesmith", flag.ExitOnError),
		program: "tilesmith",
		config:  cfg,
		log:     zap.NewNop(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.BoolVar(&r.debug, "debug", false, "enable development logging")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a project")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// newLogger builds the process logger. Production logging only reports
// warnings so command output stays readable.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.live == nil {
		if log, err := newLogger(r.debug); err == nil {
			r.log = log
			zap.ReplaceGlobals(log)
		}
		r.notifier = notify.FromConfig(r.config, r.log)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.activeTheme = r.resolveTheme()
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "new":
		cmd, err = parseNewCmd(subArgs, r)
	case "info":
		cmd, err = parseInfoCmd(subArgs, r)
	case "paint":
		cmd, err = parsePaintCmd(subArgs, r, false)
	case "erase":
		cmd, err = parsePaintCmd(subArgs, r, true)
	case "pick":
		cmd, err = parsePickCmd(subArgs, r)
	case "layer":
		cmd, err = parseLayerCmd(subArgs, r)
	case "clear":
		cmd, err = parseClearCmd(subArgs, r)
	case "resize":
		cmd, err = parseResizeCmd(subArgs, r)
	case "import":
		cmd, err = parseImportCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "copy":
		cmd, err = parseCopyCmd(subArgs, r)
	case "palette":
		cmd, err = parsePaletteCmd(subArgs, r)
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "watch":
		cmd, err = parseWatchCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("TILESMITH_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// cliMessages prints session messages and forwards them to the desktop
// notifier.
type cliMessages struct{ r *root }

func (m cliMessages) Warn(msg string) {
	fmt.Fprintln(m.r.stderr, "warning:", msg)
	m.r.notifier.Warn(msg)
}

func (m cliMessages) Info(msg string) {
	fmt.Fprintln(m.r.stdout, msg)
}

// newSession creates a session wired to the root's config, logger and
// message sink.
func (r *root) newSession() *session.Session {
	cfg := *r.config
	return session.New(
		session.WithConfig(&cfg),
		session.WithLogger(r.log),
		session.WithNotifier(cliMessages{r}),
	)
}

func main() {
	r := newRoot()
	err := r.Run(os.Args[1:])
	_ = r.log.Sync()
	if err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
