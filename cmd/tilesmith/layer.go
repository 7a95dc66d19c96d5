package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/tilesmith/internal/layers"
	"github.com/example/tilesmith/internal/session"
)

func parseLayerCmd(args []string, r *root) (*projectCmd, error) {
	c := newProjectCmd(r, "layer")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if len(c.args) < 1 {
		return nil, &UsageError{of: c}
	}
	op := strings.ToLower(c.args[0])
	rest := c.args[1:]

	index := func(i int) (int, error) {
		if i >= len(rest) {
			return 0, fmt.Errorf("layer %s requires a layer index", op)
		}
		n, err := strconv.Atoi(rest[i])
		if err != nil {
			return 0, fmt.Errorf("invalid layer index %q", rest[i])
		}
		return n, nil
	}

	switch op {
	case "list", "ls":
		c.run = func(s *session.Session) (bool, error) {
			printLayers(r, s)
			return false, nil
		}
	case "add":
		name := strings.Join(rest, " ")
		c.run = func(s *session.Session) (bool, error) { return true, s.AddLayer(name) }
	case "remove", "rm", "delete":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.RemoveLayer(i) }
	case "dup", "duplicate":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.DuplicateLayer(i) }
	case "rename":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		if len(rest) < 2 {
			return nil, fmt.Errorf("layer rename requires an index and a name")
		}
		name := strings.Join(rest[1:], " ")
		c.run = func(s *session.Session) (bool, error) { return true, s.RenameLayer(i, name) }
	case "move":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		if len(rest) != 2 {
			return nil, fmt.Errorf("layer move requires an index and up or down")
		}
		var d layers.Direction
		switch strings.ToLower(rest[1]) {
		case "up":
			d = layers.Up
		case "down":
			d = layers.Down
		default:
			return nil, fmt.Errorf("invalid direction %q: want up or down", rest[1])
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.MoveLayer(i, d) }
	case "reorder":
		v, err := expectInts(rest, 2, "layer reorder")
		if err != nil {
			return nil, err
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.ReorderLayer(v[0], v[1]) }
	case "hide", "show":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		visible := op == "show"
		c.run = func(s *session.Session) (bool, error) { return true, s.SetLayerVisible(i, visible) }
	case "opacity":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		if len(rest) != 2 {
			return nil, fmt.Errorf("layer opacity requires an index and a value")
		}
		o, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid opacity %q", rest[1])
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.SetLayerOpacity(i, o) }
	case "select":
		i, err := index(0)
		if err != nil {
			return nil, err
		}
		c.run = func(s *session.Session) (bool, error) { return true, s.SelectLayer(i) }
	default:
		return nil, fmt.Errorf("unknown layer command: %s", op)
	}
	return c, nil
}

// printLayers lists layers in index order, the way the layer panel shows
// them. Index 0 is drawn first.
func printLayers(r *root, s *session.Session) {
	st := s.Stack()
	for i, l := range st.Layers() {
		mark := " "
		if i == st.ActiveIndex() {
			mark = "*"
		}
		vis := "visible"
		if !l.Visible {
			vis = "hidden"
		}
		fmt.Fprintf(r.stdout, "%s %d  %-16s %-7s %3d%%\n", mark, i, l.Name, vis, int(l.Opacity*100+0.5))
	}
}
