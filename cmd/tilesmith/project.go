package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/appstate"
	"github.com/example/tilesmith/internal/project"
	"github.com/example/tilesmith/internal/session"
)

// task edits or inspects a session and reports whether it changed anything
// worth saving.
type task func(s *session.Session) (modified bool, err error)

// projectCmd is a subcommand that loads a project file, runs one task on it
// and writes the file back when the task changed it.
type projectCmd struct {
	*root
	fs       *flag.FlagSet
	template string
	file     string
	args     []string
	run      task
}

func newProjectCmd(r *root, name string) *projectCmd {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c := &projectCmd{root: r, fs: fs, template: name + ".txt"}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "project file to edit")
	return c
}

func (c *projectCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

// parse splits and parses args, leaving the positionals in c.args.
func (c *projectCmd) parse(args []string) error {
	flags, positionals, err := splitArgs(c.fs, args)
	if err != nil {
		return err
	}
	if err := c.fs.Parse(flags); err != nil {
		return err
	}
	c.args = positionals
	return nil
}

func (c *projectCmd) Run() error {
	return c.root.withSession(c.file, c.run)
}

// liveSession is the session kept open by interactive mode. When a window
// is attached every access goes through it.
type liveSession struct {
	sess *session.Session
	path string

	mu  sync.Mutex
	app *appstate.AppState
}

func (l *liveSession) do(fn func(*session.Session)) {
	l.mu.Lock()
	app := l.app
	l.mu.Unlock()
	if app != nil {
		app.Do(fn)
		return
	}
	fn(l.sess)
}

// attach routes session access through app until detach is called.
func (l *liveSession) attach(app *appstate.AppState) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.app != nil {
		return false
	}
	l.app = app
	return true
}

func (l *liveSession) detach() {
	l.mu.Lock()
	l.app = nil
	l.mu.Unlock()
}

// withSession runs fn against the interactive session, or against the
// project at path which is saved afterwards if fn modified it.
func (r *root) withSession(path string, fn task) error {
	if r.live != nil {
		var err error
		r.live.do(func(s *session.Session) { _, err = fn(s) })
		return err
	}
	if path == "" {
		return errors.New("a project file is required (-file)")
	}
	s, err := r.openProject(path)
	if err != nil {
		return err
	}
	modified, err := fn(s)
	if err != nil {
		return err
	}
	if !modified {
		return nil
	}
	return r.saveProject(s, path)
}

// openProject loads path into a new session.
func (r *root) openProject(path string) (*session.Session, error) {
	doc, err := project.LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("project %s does not exist; create it with '%s new'", path, r.program)
		}
		return nil, err
	}
	s := r.newSession()
	if err := project.Apply(s, doc); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	r.log.Debug("project loaded", zap.String("path", path), zap.Int("layers", s.Stack().Len()))
	return s, nil
}

func (r *root) saveProject(s *session.Session, path string) error {
	doc, err := project.Capture(s, time.Now())
	if err != nil {
		return err
	}
	if err := project.SaveFile(path, doc); err != nil {
		return err
	}
	s.MarkSaved()
	r.notifier.Save(path)
	r.log.Debug("project saved", zap.String("path", path))
	return nil
}
