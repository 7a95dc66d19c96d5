package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/example/tilesmith/internal/brush"
	"github.com/example/tilesmith/internal/config"
	"github.com/example/tilesmith/internal/gridview"
	"github.com/example/tilesmith/internal/layers"
)

var red = color.NRGBA{R: 255, A: 255}

type notes struct {
	warns, infos []string
}

func (n *notes) Warn(msg string) { n.warns = append(n.warns, msg) }
func (n *notes) Info(msg string) { n.infos = append(n.infos, msg) }

func testConfig(dim int) *config.Config {
	cfg := config.New()
	cfg.TileDim = dim
	cfg.PixelSize = 1
	return cfg
}

// cellPointer targets the centre of local cell (x, y) on the surface at o
// with a pixel size of 1 and zoom 1.
func cellPointer(o gridview.Offset, x, y int) gridview.Pointer {
	return gridview.Pointer{Offset: o, X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func TestNewSession(t *testing.T) {
	s := New()
	if s.Stack().Len() != 1 || s.Stack().Active().Name != "Layer 1" {
		t.Fatalf("unexpected initial stack")
	}
	if s.History().Len() != 1 || s.History().CanUndo() {
		t.Fatal("expected a single baseline entry")
	}
	if s.Tools().Color != brush.DefaultColor || s.Tools().Tool != brush.Pencil {
		t.Fatalf("tools = %+v", s.Tools())
	}
	if s.View().Dim() != config.DefaultTileDim || s.Dirty() {
		t.Fatal("unexpected view or dirty state")
	}
}

func TestPencilExampleAndMirrors(t *testing.T) {
	s := New(WithConfig(testConfig(32)))
	s.SetColor(red)
	if err := s.PointerDown(cellPointer(gridview.Centre, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.PointerUp(); err != nil {
		t.Fatal(err)
	}

	centre := s.View().Surface(gridview.Centre)
	if centre.NRGBAAt(0, 0) != red {
		t.Fatalf("(0,0) = %+v", centre.NRGBAAt(0, 0))
	}
	painted := 0
	for i := 3; i < len(centre.Pix); i += 4 {
		if centre.Pix[i] != 0 {
			painted++
		}
	}
	if painted != 1 {
		t.Fatalf("painted %d cells", painted)
	}
	diag := s.View().Surface(gridview.Offset{DX: -1, DY: -1})
	if !bytes.Equal(diag.Pix, centre.Pix) {
		t.Fatal("diagonal mirror differs from centre")
	}
	if s.History().Len() != 2 || !s.Dirty() {
		t.Fatalf("history=%d dirty=%v", s.History().Len(), s.Dirty())
	}
}

func TestMirrorClickLandsInTile(t *testing.T) {
	s := New(WithConfig(testConfig(16)))
	s.SetColor(red)
	// Local (3,4) on the right-hand mirror is absolute (19,4), which wraps to (3,4).
	s.PointerDown(cellPointer(gridview.Offset{DX: 1}, 3, 4))
	s.PointerUp()
	if c, _ := s.Stack().Active().Surface.At(3, 4); c != red {
		t.Fatalf("(3,4) = %+v", c)
	}
}

func TestStrokeIsOneHistoryEntry(t *testing.T) {
	s := New(WithConfig(testConfig(16)))
	before := s.Composite()
	s.PointerDown(cellPointer(gridview.Centre, 1, 1))
	for x := 2; x < 10; x++ {
		s.PointerMove(cellPointer(gridview.Centre, x, 1))
	}
	s.PointerUp()
	if s.History().Len() != 2 {
		t.Fatalf("history len = %d", s.History().Len())
	}
	after := s.Composite()

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if !bytes.Equal(s.Composite().Pix, before.Pix) {
		t.Fatal("undo did not restore pre-stroke composite")
	}
	if !s.Redo() {
		t.Fatal("redo failed")
	}
	if !bytes.Equal(s.Composite().Pix, after.Pix) {
		t.Fatal("redo did not restore post-stroke composite")
	}
	if s.Redo() {
		t.Fatal("redo at tail should be a no-op")
	}
}

func TestSecondaryButtonErases(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.SetColor(red)
	s.Paint(2, 2)

	p := cellPointer(gridview.Centre, 2, 2)
	p.Button = gridview.Secondary
	s.PointerDown(p)
	s.PointerUp()
	if c, _ := s.Stack().Active().Surface.At(2, 2); c.A != 0 {
		t.Fatalf("secondary button left %+v", c)
	}
	if s.Tools().Tool != brush.Pencil {
		t.Fatal("secondary button changed the selected tool")
	}

	s.PointerDown(cellPointer(gridview.Centre, 2, 2))
	s.PointerUp()
	if c, _ := s.Stack().Active().Surface.At(2, 2); c != red {
		t.Fatalf("primary button after erase gesture = %+v", c)
	}
}

func TestEyedropper(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.SetColor(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	s.Paint(5, 5)
	s.SetColor(red)
	s.SetTool(brush.Eyedropper)
	entries := s.History().Len()

	s.PointerDown(cellPointer(gridview.Offset{DX: -1, DY: -1}, 5, 5))
	if s.Stroking() {
		t.Fatal("eyedropper must not start a stroke")
	}
	s.PointerUp()
	if got := s.Tools().Color; got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("picked %+v", got)
	}
	if s.History().Len() != entries {
		t.Fatal("eyedropper recorded history")
	}

	if got := s.PickColor(image.Pt(0, 0)); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("transparent pick = %+v", got)
	}
}

func TestCancelRollsBackPartialStroke(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.SetColor(red)
	s.Paint(0, 0)
	committed := s.Composite()

	s.PointerDown(cellPointer(gridview.Centre, 4, 4))
	s.PointerMove(cellPointer(gridview.Centre, 5, 4))
	if c, _ := s.Stack().Active().Surface.At(5, 4); c != red {
		t.Fatal("partial stroke not painted while stroking")
	}
	s.CancelStroke()
	if s.Stroking() {
		t.Fatal("still stroking after cancel")
	}
	if !bytes.Equal(s.Composite().Pix, committed.Pix) {
		t.Fatal("cancel did not roll back partial paint")
	}
	if s.History().Len() != 2 {
		t.Fatalf("cancel recorded history: %d", s.History().Len())
	}
	s.PointerUp()
	if s.History().Len() != 2 {
		t.Fatal("up after cancel committed")
	}
}

func TestThrottledStrokeKeepsFinalMove(t *testing.T) {
	now := time.Unix(0, 0)
	cfg := testConfig(16)
	cfg.ThrottleMS = 50
	s := New(WithConfig(cfg), WithClock(func() time.Time { return now }))
	s.SetColor(red)

	s.PointerDown(cellPointer(gridview.Centre, 0, 0))
	now = now.Add(10 * time.Millisecond)
	s.PointerMove(cellPointer(gridview.Centre, 7, 7))
	s.PointerUp()
	if c, _ := s.Stack().Active().Surface.At(7, 7); c != red {
		t.Fatal("final throttled move was dropped")
	}
}

func TestLayerLimitsNotify(t *testing.T) {
	cfg := testConfig(8)
	cfg.MaxLayers = 2
	n := &notes{}
	s := New(WithConfig(cfg), WithNotifier(n))

	if err := s.RemoveLayer(0); !errors.Is(err, layers.ErrLastLayer) {
		t.Fatalf("expected ErrLastLayer, got %v", err)
	}
	if err := s.AddLayer(""); err != nil {
		t.Fatal(err)
	}
	if err := s.AddLayer(""); !errors.Is(err, layers.ErrMaxLayers) {
		t.Fatalf("expected ErrMaxLayers, got %v", err)
	}
	if err := s.DuplicateLayer(0); !errors.Is(err, layers.ErrMaxLayers) {
		t.Fatalf("expected ErrMaxLayers, got %v", err)
	}
	if s.Stack().Len() != 2 {
		t.Fatalf("len = %d", s.Stack().Len())
	}
	want := []string{"Cannot delete the last layer", "Maximum 2 layers allowed", "Maximum 2 layers allowed"}
	if len(n.warns) != len(want) {
		t.Fatalf("warnings = %v", n.warns)
	}
	for i := range want {
		if n.warns[i] != want[i] {
			t.Fatalf("warnings = %v", n.warns)
		}
	}
	if len(n.infos) != 1 || n.infos[0] != `Layer "Layer 2" added` {
		t.Fatalf("infos = %v", n.infos)
	}
}

func TestNilNotifierIsAllowed(t *testing.T) {
	s := New(WithNotifier(nil))
	if err := s.RemoveLayer(0); !errors.Is(err, layers.ErrLastLayer) {
		t.Fatalf("expected ErrLastLayer, got %v", err)
	}
}

func TestLayerOpsAreUndoable(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.AddLayer("top")
	s.SetLayerOpacity(1, 0.5)
	if !s.Undo() || s.Stack().Active().Opacity != 1 {
		t.Fatal("opacity change not undone")
	}
	if !s.Undo() || s.Stack().Len() != 1 {
		t.Fatal("layer add not undone")
	}
}

func TestSetTileDimension(t *testing.T) {
	s := New(WithConfig(testConfig(16)))
	s.SetColor(red)
	s.Paint(1, 1)
	s.Paint(15, 15)

	if err := s.SetTileDimension(200); !errors.Is(err, config.ErrTileDimension) {
		t.Fatalf("expected ErrTileDimension, got %v", err)
	}
	if s.Stack().Dim() != 16 || s.Config().TileDim != 16 {
		t.Fatal("rejected resize mutated state")
	}

	if err := s.SetTileDimension(8); err != nil {
		t.Fatal(err)
	}
	if s.Config().TileDim != 8 || s.View().Surface(gridview.Offset{DX: 1, DY: 1}).Bounds().Dx() != 8 {
		t.Fatal("resize did not reach config and view")
	}
	if c, _ := s.Stack().Active().Surface.At(1, 1); c != red {
		t.Fatal("content inside the new bounds was lost")
	}
	if s.History().CanUndo() {
		t.Fatal("history should restart after resize")
	}
	if s.Geometry().Dim != 8 {
		t.Fatalf("geometry dim = %d", s.Geometry().Dim)
	}
}

func TestClearAndReset(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.Paint(0, 0)
	s.ClearActiveLayer()
	if !s.Stack().Active().Surface.Empty() {
		t.Fatal("clear left pixels")
	}
	if !s.Undo() || s.Stack().Active().Surface.Empty() {
		t.Fatal("clear was not undoable")
	}

	s.AddLayer("extra")
	s.Reset()
	if s.Stack().Len() != 1 || s.History().Len() != 1 || s.Dirty() {
		t.Fatal("reset did not restore a fresh session")
	}
}

func TestImportAndExport(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	if err := s.ImportImage(src); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Stack().Active().Surface.At(7, 7); c.A != 255 {
		t.Fatalf("import did not fill the tile: %+v", c)
	}
	if !s.Undo() || !s.Stack().Active().Surface.Empty() {
		t.Fatal("import not undoable")
	}
	s.Redo()

	var buf bytes.Buffer
	if err := s.ExportComposite(&buf, gridview.PNG, 2); err != nil {
		t.Fatal(err)
	}
	img, _, err := gridview.Decode(&buf)
	if err != nil || img.Bounds().Dx() != 16 {
		t.Fatalf("export: %v %v", err, img)
	}
	buf.Reset()
	if err := s.ExportTiled(&buf, gridview.PNG, 3, 2, 1); err != nil {
		t.Fatal(err)
	}
	img, _, err = gridview.Decode(&buf)
	if err != nil || img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Fatalf("sheet: %v %v", err, img)
	}
	if err := s.ExportComposite(&buf, gridview.PNG, 0); err == nil {
		t.Fatal("expected error for scale 0")
	}
}

func TestZoomClampsAndUpdatesGeometry(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.ZoomIn()
	if s.Zoom() != 1.1 || s.Geometry().Zoom != 1.1 {
		t.Fatalf("zoom = %v", s.Zoom())
	}
	s.SetZoom(1000)
	if s.Zoom() != MaxZoom {
		t.Fatalf("zoom = %v", s.Zoom())
	}
	s.SetZoom(0)
	if s.Zoom() != MinZoom {
		t.Fatalf("zoom = %v", s.Zoom())
	}
	s.ResetZoom()
	if s.Zoom() != 1 {
		t.Fatalf("zoom = %v", s.Zoom())
	}
}

func TestLoadIsAllOrNothing(t *testing.T) {
	s := New(WithConfig(testConfig(8)))
	s.SetColor(red)
	s.Paint(0, 0)
	before := s.Composite()

	other := layers.New(16, 10)
	recs, _ := other.Records()
	if err := s.Load(8, recs, 0); err == nil {
		t.Fatal("expected dimension mismatch")
	}
	if err := s.Load(4, recs, 0); !errors.Is(err, config.ErrTileDimension) {
		t.Fatalf("expected ErrTileDimension, got %v", err)
	}
	if !bytes.Equal(s.Composite().Pix, before.Pix) {
		t.Fatal("failed load changed the tile")
	}

	if err := s.Load(16, recs, 0); err != nil {
		t.Fatal(err)
	}
	if s.Stack().Dim() != 16 || s.Config().TileDim != 16 || s.History().Len() != 1 {
		t.Fatal("load did not replace the stack")
	}
}
