// Package render rasterizes scene snapshots with gg. The runner's canvas view
// and the PNG export both draw through here.
package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"ScriptBoard/internal/state"
)

// Image renders snap onto a new w×h image.
func Image(w, h int, snap state.Snapshot) image.Image {
	dc := gg.NewContext(w, h)
	Draw(dc, snap)
	return dc.Image()
}

// Draw paints the background over the whole context, then every shape in
// order at the snapshot's zoom. Shapes are never clipped to the context.
func Draw(dc *gg.Context, snap state.Snapshot) {
	dc.Push()
	defer dc.Pop()

	if snap.Background.Valid {
		dc.SetColor(snap.Background.NRGBA())
		dc.Clear()
	}

	zoom := snap.Zoom
	if zoom <= 0 {
		zoom = state.DefaultZoom
	}
	dc.Scale(zoom, zoom)

	for _, s := range snap.Shapes {
		drawShape(dc, s)
	}
}

func drawShape(dc *gg.Context, s state.Shape) {
	switch s.Kind {
	case state.FilledCircle:
		c := s.Center()
		dc.DrawCircle(c.X, c.Y, math.Abs(s.Radius()))
		paint(dc, s.Fill, state.NoColor, 0)
	case state.StrokeCircle:
		c := s.Center()
		dc.DrawCircle(c.X, c.Y, math.Abs(s.Radius()))
		paint(dc, state.NoColor, s.Stroke, s.Width)
	case state.Rect:
		o := s.Origin()
		w, h := s.Size()
		dc.DrawRectangle(o.X, o.Y, w, h)
		paint(dc, s.Fill, s.Stroke, s.Width)
	case state.Triangle:
		v := s.Vertices()
		dc.MoveTo(v[0].X, v[0].Y)
		dc.LineTo(v[1].X, v[1].Y)
		dc.LineTo(v[2].X, v[2].Y)
		dc.ClosePath()
		paint(dc, s.Fill, s.Stroke, s.Width)
	case state.Line:
		a, b := s.Endpoints()
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		paint(dc, state.NoColor, s.Stroke, s.Width)
	default:
		dc.ClearPath()
	}
}

// paint fills then strokes the current path, skipping whichever color is
// unset, and always consumes the path.
func paint(dc *gg.Context, fill, stroke state.Color, width float64) {
	if fill.Valid {
		dc.SetColor(fill.NRGBA())
		dc.FillPreserve()
	}
	if stroke.Valid {
		dc.SetColor(stroke.NRGBA())
		dc.SetLineWidth(lineWidth(width))
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

// lineWidth maps non-positive widths to a one pixel hairline.
func lineWidth(w float64) float64 {
	if w <= 0 || math.IsNaN(w) {
		return 1
	}
	return w
}
