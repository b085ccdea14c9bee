package state

import (
	"math"
	"slices"

	"ScriptBoard/internal/undo"
)

// DefaultZoom is the zoom factor of a fresh scene.
const DefaultZoom = 1.0

// Snapshot is a copy of everything a renderer needs.
type Snapshot struct {
	Shapes     []Shape `json:"shapes"`
	Background Color   `json:"background"`
	Zoom       float64 `json:"zoom"`
	// Revision is the scene clock when the snapshot was taken.
	Revision   uint64  `json:"revision"`
}

// Listener receives scene changes. Any field may be nil. Each callback only
// fires when its own facet changed.
type Listener struct {
	ShapesChanged     func(shapes []Shape)
	BackgroundChanged func(c Color)
	ZoomChanged       func(zoom float64)
}

// Scene is the shared model behind the runner's canvas. All public mutators
// record an undo command; the commands themselves go through the unexported
// apply methods so they never re-enter the history.
type Scene struct {
	shapes     []Shape
	background Color
	zoom       float64
	clock      Clock
	history    *undo.Stack
	listeners  []Listener
}

func NewScene() *Scene {
	return &Scene{
		background: White,
		zoom:       DefaultZoom,
		history:    undo.NewStack(),
	}
}

// Listen registers l for all future changes.
func (s *Scene) Listen(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Shapes returns a copy of the shapes in paint order.
func (s *Scene) Shapes() []Shape { return slices.Clone(s.shapes) }

func (s *Scene) Background() Color { return s.background }

func (s *Scene) Zoom() float64 { return s.zoom }

// History exposes the undo stack so views can show labels and enable state.
func (s *Scene) History() *undo.Stack { return s.history }

func (s *Scene) Snapshot() Snapshot {
	return Snapshot{Shapes: s.Shapes(), Background: s.background, Zoom: s.zoom, Revision: s.clock.Now()}
}

// Revision counts the changes applied so far, undo and redo included.
func (s *Scene) Revision() uint64 { return s.clock.Now() }

// AddShape appends shape as the topmost shape.
func (s *Scene) AddShape(shape Shape) {
	s.history.Push(&addShapeCmd{scene: s, shape: shape})
}

// Clear removes every shape. It records nothing when the scene is already empty.
func (s *Scene) Clear() {
	if len(s.shapes) == 0 {
		return
	}
	s.history.Push(&clearCmd{scene: s, before: slices.Clone(s.shapes)})
}

func (s *Scene) SetBackground(c Color) {
	if s.background.Equal(c) {
		return
	}
	s.history.Push(&backgroundCmd{scene: s, before: s.background, after: c})
}

func (s *Scene) SetZoom(zoom float64) {
	if fuzzyEqual(s.zoom, zoom) {
		return
	}
	s.history.Push(&zoomCmd{scene: s, before: s.zoom, after: zoom})
}

func (s *Scene) Undo() { s.history.Undo() }

func (s *Scene) Redo() { s.history.Redo() }

func (s *Scene) applyShapes(shapes []Shape) {
	s.shapes = shapes
	s.clock.Tick()
	for _, l := range s.listeners {
		if l.ShapesChanged != nil {
			l.ShapesChanged(slices.Clone(shapes))
		}
	}
}

func (s *Scene) applyBackground(c Color) {
	if s.background.Equal(c) {
		return
	}
	s.background = c
	s.clock.Tick()
	for _, l := range s.listeners {
		if l.BackgroundChanged != nil {
			l.BackgroundChanged(c)
		}
	}
}

func (s *Scene) applyZoom(zoom float64) {
	if fuzzyEqual(s.zoom, zoom) {
		return
	}
	s.zoom = zoom
	s.clock.Tick()
	for _, l := range s.listeners {
		if l.ZoomChanged != nil {
			l.ZoomChanged(zoom)
		}
	}
}

// fuzzyEqual treats values within a relative 1e-12 of each other as equal.
func fuzzyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b)*1e12 <= math.Min(math.Abs(a), math.Abs(b))
}

// addShapeCmd relies on the scene only growing through the history, so
// undoing an append is dropping the last element.
type addShapeCmd struct {
	scene *Scene
	shape Shape
}

func (c *addShapeCmd) Redo() {
	shapes := make([]Shape, len(c.scene.shapes), len(c.scene.shapes)+1)
	copy(shapes, c.scene.shapes)
	c.scene.applyShapes(append(shapes, c.shape))
}

func (c *addShapeCmd) Undo() {
	shapes := c.scene.shapes
	if len(shapes) > 0 {
		shapes = slices.Clone(shapes[:len(shapes)-1])
	}
	c.scene.applyShapes(shapes)
}

func (c *addShapeCmd) Text() string { return "Add Shape" }

type clearCmd struct {
	scene  *Scene
	before []Shape
}

func (c *clearCmd) Redo()        { c.scene.applyShapes(nil) }
func (c *clearCmd) Undo()        { c.scene.applyShapes(slices.Clone(c.before)) }
func (c *clearCmd) Text() string { return "Clear Canvas" }

type backgroundCmd struct {
	scene         *Scene
	before, after Color
}

func (c *backgroundCmd) Redo()        { c.scene.applyBackground(c.after) }
func (c *backgroundCmd) Undo()        { c.scene.applyBackground(c.before) }
func (c *backgroundCmd) Text() string { return "Set Background" }

type zoomCmd struct {
	scene         *Scene
	before, after float64
}

func (c *zoomCmd) Redo()        { c.scene.applyZoom(c.after) }
func (c *zoomCmd) Undo()        { c.scene.applyZoom(c.before) }
func (c *zoomCmd) Text() string { return "Set Zoom" }
