package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/appstate"
	"github.com/example/tilesmith/internal/session"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd keeps one session open and runs commands against it, one
// per line. File flags on those commands are ignored.
type interactiveCmd struct {
	r     *root
	fs    *flag.FlagSet
	file  string
	size  int
	execs commandList
	in    io.Reader
}

func (i *interactiveCmd) Program() string        { return i.r.Program() }
func (i *interactiveCmd) FlagSet() *flag.FlagSet { return i.fs }

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	if r.live != nil {
		return nil, errors.New("already in interactive mode")
	}
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	c := &interactiveCmd{r: r, fs: fs, in: os.Stdin}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "project file to open; save writes back to it")
	fs.IntVar(&c.size, "size", r.config.TileDim, "tile size when starting without a file")
	fs.Var(&c.execs, "e", "execute a command instead of reading stdin (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && fs.NArg() == 1 {
		c.file = fs.Arg(0)
	}
	return c, nil
}

func (i *interactiveCmd) open() (*session.Session, error) {
	if i.file != "" {
		if _, err := os.Stat(i.file); err == nil {
			return i.r.openProject(i.file)
		}
	}
	s := i.r.newSession()
	if err := s.SetTileDimension(i.size); err != nil {
		return nil, err
	}
	return s, nil
}

func (i *interactiveCmd) Run() error {
	s, err := i.open()
	if err != nil {
		return err
	}
	i.r.live = &liveSession{sess: s, path: i.file}
	defer func() { i.r.live = nil }()

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.r.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.in)
	for {
		fmt.Fprint(i.r.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.r.stderr, strings.TrimSpace(err.Error()))
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command. It reports whether the session should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return false, nil
	}
	live := i.r.live
	switch args[0] {
	case "exit", "quit":
		return true, nil
	case "interactive":
		return false, nil
	case "help":
		return false, &UsageError{of: i.r}
	case "undo":
		live.do(func(s *session.Session) {
			if !s.Undo() {
				fmt.Fprintln(i.r.stdout, "nothing to undo")
			}
		})
		return false, nil
	case "redo":
		live.do(func(s *session.Session) {
			if !s.Redo() {
				fmt.Fprintln(i.r.stdout, "nothing to redo")
			}
		})
		return false, nil
	case "save":
		if len(args) > 1 {
			live.path = args[1]
		}
		if live.path == "" {
			return false, errors.New("save requires a path")
		}
		var err error
		live.do(func(s *session.Session) { err = i.r.saveProject(s, live.path) })
		if err == nil {
			fmt.Fprintf(i.r.stdout, "saved %s\n", live.path)
		}
		return false, err
	case "window":
		return false, i.openWindow()
	}
	return false, i.r.Run(args)
}

// openWindow shows the editor on the live session. Commands typed while it
// is open are serialised with the window's own input.
func (i *interactiveCmd) openWindow() error {
	live := i.r.live
	var app *appstate.AppState
	app = appstate.New(live.sess,
		appstate.WithOutput(live.path),
		appstate.WithTheme(i.r.activeTheme),
		appstate.WithNotifier(i.r.notifier),
		appstate.WithLogger(i.r.log),
		appstate.WithOnClose(func() {
			app.Do(func(s *session.Session) { s.SetNotifier(cliMessages{i.r}) })
			live.detach()
			i.r.log.Debug("editor window closed")
		}),
	)
	if !live.attach(app) {
		return errors.New("the editor window is already open")
	}
	i.r.log.Debug("opening editor window", zap.String("path", live.path))
	go app.Run()
	return nil
}
