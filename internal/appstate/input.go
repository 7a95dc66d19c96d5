package appstate

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"go.uber.org/zap"

	"github.com/example/tilesmith/internal/brush"
)

// handleMouse feeds a mouse event to the session. It reports whether the
// window needs repainting.
func (a *AppState) handleMouse(l layout, e mouse.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e.Direction == mouse.DirStep {
		switch e.Button {
		case mouse.ButtonWheelUp:
			a.sess.ZoomIn()
		case mouse.ButtonWheelDown:
			a.sess.ZoomOut()
		default:
			return false
		}
		return true
	}

	p, inside := l.pointer(e.X, e.Y, buttonOf(e.Button))
	a.hover, a.hovering = p, inside

	switch e.Direction {
	case mouse.DirPress:
		if !inside || (e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonRight) {
			return false
		}
		if err := a.sess.PointerDown(p); err != nil {
			a.log.Warn("pointer down", zap.Error(err))
		}
	case mouse.DirRelease:
		if !a.sess.Stroking() {
			return false
		}
		if err := a.sess.PointerUp(); err != nil {
			a.log.Warn("pointer up", zap.Error(err))
		}
	case mouse.DirNone:
		if inside && a.sess.Stroking() {
			if err := a.sess.PointerMove(p); err != nil {
				a.log.Warn("pointer move", zap.Error(err))
			}
		}
	}
	return true
}

// handleKey runs the bound action. It reports whether the window needs
// repainting and whether the user asked to quit.
func (a *AppState) handleKey(e key.Event) (repaint, quit bool) {
	act, mirror := actionFor(e)
	if act == ActionNone {
		return false, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.sess
	switch act {
	case ActionPencil:
		s.SetTool(brush.Pencil)
	case ActionBrush:
		s.SetTool(brush.Brush)
	case ActionEraser:
		s.SetTool(brush.Eraser)
	case ActionEyedropper:
		s.SetTool(brush.Eyedropper)
	case ActionRadiusDown:
		if r := s.Tools().Radius; r > 0 {
			_ = s.SetBrushRadius(r - 1)
		}
	case ActionRadiusUp:
		_ = s.SetBrushRadius(s.Tools().Radius + 1)
	case ActionUndo:
		s.Undo()
	case ActionRedo:
		s.Redo()
	case ActionSave:
		a.logErr("save", a.save(false))
	case ActionExport:
		a.logErr("export", a.export())
	case ActionCopy:
		a.logErr("copy", a.copyTile())
	case ActionPaste:
		a.logErr("paste", a.paste())
	case ActionCancel:
		s.CancelStroke()
		a.messageUntil = a.now()
	case ActionZoomIn:
		s.ZoomIn()
	case ActionZoomOut:
		s.ZoomOut()
	case ActionZoomReset:
		s.ResetZoom()
	case ActionAddLayer:
		_ = s.AddLayer("")
	case ActionNextLayer:
		st := s.Stack()
		_ = s.SelectLayer((st.ActiveIndex() + 1) % st.Len())
	case ActionToggleLayer:
		_ = s.ToggleLayerVisibility(s.Stack().ActiveIndex())
	case ActionClearLayer:
		s.ClearActiveLayer()
	case ActionSaveColor:
		s.SaveColor()
	case ActionMirror:
		s.View().ToggleMirror(mirror)
	case ActionHelp:
		a.show(helpLine(), false)
		a.messageUntil = a.now().Add(4 * messageDuration)
	case ActionQuit:
		return false, true
	}
	return true, false
}

func (a *AppState) logErr(op string, err error) {
	if err != nil {
		a.log.Warn(op+" failed", zap.Error(err))
	}
}
