//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Without cgo the clipboard talks to the X server directly. A hidden window
// owns the CLIPBOARD selection and answers requests for whatever was last
// written.

var (
	initOnce sync.Once
	initErr  error
	owner    *selectionOwner

	errNoX11 = errors.New("clipboard without cgo requires an X11 DISPLAY")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" {
			if os.Getenv("WAYLAND_DISPLAY") != "" {
				initErr = errNoX11
				return
			}
			initErr = errNoDisplay
			return
		}
		o, err := newSelectionOwner()
		if err != nil {
			initErr = fmt.Errorf("connect to X server: %w", err)
			return
		}
		owner = o
	})
	return initErr
}

func writePNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.offer(map[xproto.Atom][]byte{owner.atoms.png: data})
}

func readPNG() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return owner.atoms.read(owner.atoms.png)
}

func writeText(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	a := owner.atoms
	return owner.offer(map[xproto.Atom][]byte{a.utf8: data, a.textPlain: data, xproto.AtomString: data})
}

func readText() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.atoms.read(owner.atoms.utf8)
	if err != nil {
		if data, err = owner.atoms.read(xproto.AtomString); err != nil {
			return nil, err
		}
	}
	// Some owners NUL-terminate STRING replies.
	if n := len(data); n > 0 && data[n-1] == 0 {
		data = data[:n-1]
	}
	return data, nil
}

type atoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func internAtoms(conn *xgb.Conn) (atoms, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "TILESMITH_CLIPBOARD"}
	got := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("intern %s: %w", name, err)
		}
		got[i] = reply.Atom
	}
	return atoms{
		clipboard: got[0],
		targets:   got[1],
		utf8:      got[2],
		textPlain: got[3],
		png:       got[4],
		property:  got[5],
	}, nil
}

type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atoms

	mu     sync.RWMutex
	offers map[xproto.Atom][]byte
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	a, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, win)
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: win, atoms: a}
	go o.serve()
	return o, nil
}

// offer replaces the clipboard contents and claims the selection.
func (o *selectionOwner) offer(data map[xproto.Atom][]byte) error {
	copied := make(map[xproto.Atom][]byte, len(data))
	for k, v := range data {
		copied[k] = append([]byte(nil), v...)
	}
	o.mu.Lock()
	o.offers = copied
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.offers = nil
			o.mu.Unlock()
		}
	}
}

// answer replies to a paste from another client.
func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}

	o.mu.RLock()
	offers := o.offers
	o.mu.RUnlock()

	if e.Target == o.atoms.targets {
		list := []xproto.Atom{o.atoms.targets}
		for t := range offers {
			list = append(list, t)
		}
		buf := make([]byte, 4*len(list))
		for i, t := range list {
			xgb.Put32(buf[4*i:], uint32(t))
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, uint32(len(list)), buf)
	} else if data, ok := offers[e.Target]; ok {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, e.Target, 8, uint32(len(data)), data)
	} else {
		prop = xproto.AtomNone
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

// read converts the selection to target on a short-lived connection, so a
// paste of our own offer is answered by serve.
func (a atoms) read(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, win)

	if err := xproto.ConvertSelectionChecked(conn, win, a.clipboard, target, a.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, errors.New("X connection closed")
		}
		n, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if n.Property == xproto.AtomNone {
			return nil, ErrEmpty
		}
		reply, perr := xproto.GetProperty(conn, true, win, a.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
