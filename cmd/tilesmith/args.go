package main

import (
	"flag"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

var numberLike = regexp.MustCompile(`^-?\d+(,-?\d+)?$`)

type boolFlag interface{ IsBoolFlag() bool }

// splitArgs separates flags known to fs from positional arguments so that
// flags may follow positionals and negative coordinates are not mistaken
// for flags.
func splitArgs(fs *flag.FlagSet, args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" || numberLike.MatchString(arg) {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		f := fs.Lookup(base)
		if f == nil {
			return nil, nil, fmt.Errorf("unknown flag %s", arg)
		}
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if b, ok := f.Value.(boolFlag); ok && b.IsBoolFlag() {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}

// parsePoint reads "x,y".
func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

func parsePoints(args []string) ([]image.Point, error) {
	out := make([]image.Point, 0, len(args))
	for _, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func expectInts(args []string, n int, what string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", what, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseGrid reads "COLSxROWS".
func parseGrid(s string) (int, int, error) {
	cs, rs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid grid %q: want COLSxROWS", s)
	}
	cols, err := strconv.Atoi(cs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q", s)
	}
	rows, err := strconv.Atoi(rs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q", s)
	}
	return cols, rows, nil
}
