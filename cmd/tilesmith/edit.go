package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/example/tilesmith/internal/appstate"
	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/session"
)

// editCmd opens the editor window on a project file.
type editCmd struct {
	*root
	fs       *flag.FlagSet
	file     string
	export   string
	size     int
	autosave time.Duration
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	c := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "project file to open and save to")
	fs.StringVar(&c.export, "export", "", "image written by Ctrl+E (default: the project name with .png)")
	fs.IntVar(&c.size, "size", r.config.TileDim, "tile size for a new project")
	fs.DurationVar(&c.autosave, "autosave", 30*time.Second, "autosave interval while there are unsaved changes (0 disables)")
	flags, positionals, err := splitArgs(fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flags); err != nil {
		return nil, err
	}
	if c.file == "" && len(positionals) == 1 {
		c.file = positionals[0]
	}
	if len(positionals) > 1 {
		return nil, &UsageError{of: c}
	}
	if err := config.ValidateTileDimension(c.size); err != nil {
		return nil, err
	}
	return c, nil
}

// session opens the project, or starts an empty one when the file does not
// exist yet.
func (c *editCmd) session() (*session.Session, error) {
	if c.file != "" {
		if _, err := os.Stat(c.file); err == nil {
			return c.root.openProject(c.file)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	s := c.root.newSession()
	if err := s.SetTileDimension(c.size); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *editCmd) Run() error {
	s, err := c.session()
	if err != nil {
		return err
	}
	app := appstate.New(s,
		appstate.WithOutput(c.file),
		appstate.WithExportPath(c.export),
		appstate.WithTheme(c.root.activeTheme),
		appstate.WithNotifier(c.root.notifier),
		appstate.WithLogger(c.root.log),
		appstate.WithAutosave(c.autosave),
	)
	app.Run()
	return nil
}
