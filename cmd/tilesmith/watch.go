package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/project"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/watch"
)

// watchCmd re-exports a project whenever its file changes, so a game engine
// or image viewer can follow edits live.
type watchCmd struct {
	*root
	fs     *flag.FlagSet
	file   string
	output string
	tiled  string
	opts   exportOptions
}

func (c *watchCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseWatchCmd(args []string, r *root) (*watchCmd, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	c := &watchCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "project file to watch")
	fs.StringVar(&c.output, "output", "", "image to write (default: the project name with .png)")
	fs.StringVar(&c.tiled, "tiled", "", "export a COLSxROWS sheet of repeats")
	fs.IntVar(&c.opts.scale, "scale", 1, fmt.Sprintf("integer enlargement (1-%d)", render.MaxScale))
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
	if c.file == "" || len(positionals) > 1 {
		return nil, &UsageError{of: c}
	}
	if c.opts.cols, c.opts.rows, err = parseTiled(c.tiled); err != nil {
		return nil, err
	}
	if c.output == "" {
		base := strings.TrimSuffix(c.file, project.Extension)
		c.output = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}
	return c, nil
}

// export renders the project file once.
func (c *watchCmd) export() error {
	s, err := c.root.openProject(c.file)
	if err != nil {
		return err
	}
	data, err := c.opts.encode(s, gridview.FormatFromPath(c.output))
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.output, err)
	}
	c.root.notifier.Export(c.output, s.Composite())
	fmt.Fprintf(c.root.stdout, "exported %s\n", c.output)
	return nil
}

func (c *watchCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *watchCmd) run(ctx context.Context) error {
	if err := c.export(); err != nil {
		return err
	}
	w, err := watch.WatchFile(c.file, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", c.file, err)
	}
	defer w.Close()
	fmt.Fprintf(c.root.stdout, "watching %s (Ctrl+C to stop)\n", c.file)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			c.root.log.Debug("project changed", zap.String("path", path))
			if err := c.export(); err != nil {
				c.root.log.Warn("re-export failed", zap.String("path", path), zap.Error(err))
				fmt.Fprintln(c.root.stderr, "warning:", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.root.log.Warn("watch error", zap.Error(err))
		}
	}
}
