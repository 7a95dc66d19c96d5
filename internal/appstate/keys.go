package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/tilesmith/internal/gridview"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Action is an editor command bound to the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionPencil
	ActionBrush
	ActionEraser
	ActionEyedropper
	ActionRadiusDown
	ActionRadiusUp
	ActionUndo
	ActionRedo
	ActionSave
	ActionExport
	ActionCopy
	ActionPaste
	ActionCancel
	ActionZoomIn
	ActionZoomOut
	ActionZoomReset
	ActionAddLayer
	ActionNextLayer
	ActionToggleLayer
	ActionClearLayer
	ActionSaveColor
	ActionMirror
	ActionHelp
	ActionQuit
)

type binding struct {
	action    Action
	label     string
	shortcuts []KeyShortcut
}

// bindings is matched in order; combinations that add Shift come before
// the plain form.
var bindings = []binding{
	{ActionRedo, "Ctrl+Shift+Z:Redo", []KeyShortcut{{Rune: 'z', Modifiers: key.ModControl | key.ModShift}, {Rune: 'y', Modifiers: key.ModControl}}},
	{ActionUndo, "Ctrl+Z:Undo", []KeyShortcut{{Rune: 'z', Modifiers: key.ModControl}}},
	{ActionSave, "Ctrl+S:Save", []KeyShortcut{{Rune: 's', Modifiers: key.ModControl}}},
	{ActionExport, "Ctrl+E:Export", []KeyShortcut{{Rune: 'e', Modifiers: key.ModControl}}},
	{ActionCopy, "Ctrl+C:Copy", []KeyShortcut{{Rune: 'c', Modifiers: key.ModControl}}},
	{ActionPaste, "Ctrl+V:Paste", []KeyShortcut{{Rune: 'v', Modifiers: key.ModControl}}},
	{ActionQuit, "Q:Quit", []KeyShortcut{{Rune: 'q'}, {Rune: 'q', Modifiers: key.ModControl}}},
	{ActionPencil, "P:Pencil", []KeyShortcut{{Rune: 'p'}}},
	{ActionBrush, "B:Brush", []KeyShortcut{{Rune: 'b'}}},
	{ActionEraser, "E:Eraser", []KeyShortcut{{Rune: 'e'}}},
	{ActionEyedropper, "I:Pick", []KeyShortcut{{Rune: 'i'}}},
	{ActionRadiusDown, "[:Smaller", []KeyShortcut{{Rune: '['}}},
	{ActionRadiusUp, "]:Larger", []KeyShortcut{{Rune: ']'}}},
	{ActionCancel, "Esc:Cancel", []KeyShortcut{{Code: key.CodeEscape}}},
	{ActionZoomIn, "+:Zoom in", []KeyShortcut{{Rune: '+'}, {Rune: '='}}},
	{ActionZoomOut, "-:Zoom out", []KeyShortcut{{Rune: '-'}}},
	{ActionZoomReset, "0:Zoom 1x", []KeyShortcut{{Rune: '0'}}},
	{ActionAddLayer, "N:New layer", []KeyShortcut{{Rune: 'n'}}},
	{ActionNextLayer, "Tab:Next layer", []KeyShortcut{{Code: key.CodeTab}}},
	{ActionToggleLayer, "H:Hide layer", []KeyShortcut{{Rune: 'h'}}},
	{ActionClearLayer, "Del:Clear", []KeyShortcut{{Code: key.CodeDeleteForward}}},
	{ActionSaveColor, "K:Keep colour", []KeyShortcut{{Rune: 'k'}}},
	{ActionHelp, "?:Help", []KeyShortcut{{Rune: '?'}, {Code: key.CodeF1}}},
}

const significant = key.ModControl | key.ModAlt | key.ModMeta

func (s KeyShortcut) matches(e key.Event) bool {
	mask := significant | (s.Modifiers & key.ModShift)
	if e.Modifiers&mask != s.Modifiers {
		return false
	}
	if s.Code != 0 {
		return e.Code == s.Code
	}
	return s.Rune != 0 && unicode.ToLower(e.Rune) == s.Rune
}

// actionFor resolves a key press. Digits 1 to 8 toggle the mirror in that
// row-major slot, skipping the centre; the returned offset is only
// meaningful for ActionMirror.
func actionFor(e key.Event) (Action, gridview.Offset) {
	if e.Direction != key.DirPress {
		return ActionNone, gridview.Offset{}
	}
	if e.Modifiers&significant == 0 {
		if o, ok := mirrorForRune(e.Rune); ok {
			return ActionMirror, o
		}
	}
	for _, b := range bindings {
		for _, s := range b.shortcuts {
			if s.matches(e) {
				return b.action, gridview.Offset{}
			}
		}
	}
	return ActionNone, gridview.Offset{}
}

func mirrorForRune(r rune) (gridview.Offset, bool) {
	if r < '1' || r > '8' {
		return gridview.Offset{}, false
	}
	n := int(r - '1')
	for _, o := range gridview.Offsets() {
		if o == gridview.Centre {
			continue
		}
		if n == 0 {
			return o, true
		}
		n--
	}
	return gridview.Offset{}, false
}

// helpLine lists the bindings for the status bar.
func helpLine() string {
	out := ""
	for _, b := range bindings {
		if out != "" {
			out += "  "
		}
		out += b.label
	}
	return out + "  1-8:Mirrors"
}
