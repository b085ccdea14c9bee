package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"ScriptBoard/internal/render"
	"ScriptBoard/internal/state"
)

// BoardWidget shows a scene. It repaints whenever any facet of the scene
// changes and draws with the same packing rules as the exports.
type BoardWidget struct {
	widget.BaseWidget
	mu   sync.RWMutex
	snap state.Snapshot
}

var _ fyne.Widget = (*BoardWidget)(nil)

func NewBoardWidget(scene *state.Scene) *BoardWidget {
	b := &BoardWidget{snap: scene.Snapshot()}
	b.ExtendBaseWidget(b)

	update := func() { b.show(scene.Snapshot()) }
	scene.Listen(state.Listener{
		ShapesChanged:     func([]state.Shape) { update() },
		BackgroundChanged: func(state.Color) { update() },
		ZoomChanged:       func(float64) { update() },
	})
	return b
}

func (b *BoardWidget) show(snap state.Snapshot) {
	b.mu.Lock()
	b.snap = snap
	b.mu.Unlock()
	b.Refresh()
}

// Snapshot returns what is currently shown.
func (b *BoardWidget) Snapshot() state.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.raster = canvas.NewRaster(r.draw)
	return r
}

type boardWidgetRenderer struct {
	board  *BoardWidget
	raster *canvas.Raster
}

// draw renders at pixel size, folding the device scale into the zoom so
// scene units stay logical pixels.
func (r *boardWidgetRenderer) draw(w, h int) image.Image {
	snap := r.board.Snapshot()
	if size := r.board.Size(); size.Width > 0 {
		snap.Zoom *= float64(w) / float64(size.Width)
	}
	return render.Image(w, h, snap)
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

// MinSize matches the preferred canvas size of the exports.
func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
