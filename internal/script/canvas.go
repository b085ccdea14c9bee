package script

import "ScriptBoard/internal/state"

// Surface is what the canvas draws on. *state.Scene implements it.
type Surface interface {
	AddShape(shape state.Shape)
	Clear()
	SetBackground(c state.Color)
	SetZoom(zoom float64)
}

// Canvas is everything a script is allowed to do. Its method names and
// parameter order are the scripting contract; scripts see them as
// canvas.clear, canvas.line, canvas.rect, canvas.circle, canvas.filledCircle,
// canvas.triangle, canvas.setBackground, canvas.setZoom and print.
//
// Canvas does not validate: negative radii and none colors go through as is.
type Canvas struct {
	surface  Surface
	printers []func(text string)
}

func NewCanvas(surface Surface) *Canvas {
	return &Canvas{surface: surface}
}

// OnPrint registers fn to receive text passed to Print.
func (c *Canvas) OnPrint(fn func(text string)) {
	c.printers = append(c.printers, fn)
}

func (c *Canvas) Clear() {
	if c.surface != nil {
		c.surface.Clear()
	}
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, stroke state.Color, width float64) {
	c.add(state.NewLine(state.Pt(x1, y1), state.Pt(x2, y2), stroke, width))
}

func (c *Canvas) Rect(x, y, w, h float64, fill, stroke state.Color, width float64) {
	c.add(state.NewRect(state.Pt(x, y), w, h, fill, stroke, width))
}

func (c *Canvas) Circle(x, y, radius float64, stroke state.Color, width float64) {
	c.add(state.NewStrokeCircle(state.Pt(x, y), radius, stroke, width))
}

func (c *Canvas) FilledCircle(x, y, radius float64, fill state.Color) {
	c.add(state.NewFilledCircle(state.Pt(x, y), radius, fill))
}

func (c *Canvas) Triangle(x1, y1, x2, y2, x3, y3 float64, fill, stroke state.Color, width float64) {
	c.add(state.NewTriangle(state.Pt(x1, y1), state.Pt(x2, y2), state.Pt(x3, y3), fill, stroke, width))
}

func (c *Canvas) SetBackground(color state.Color) {
	if c.surface != nil {
		c.surface.SetBackground(color)
	}
}

func (c *Canvas) SetZoom(zoom float64) {
	if c.surface != nil {
		c.surface.SetZoom(zoom)
	}
}

// Print leaves the scene alone and hands text to the print listeners.
func (c *Canvas) Print(text string) {
	for _, fn := range c.printers {
		fn(text)
	}
}

func (c *Canvas) add(shape state.Shape) {
	if c.surface != nil {
		c.surface.AddShape(shape)
	}
}
