// Package export writes scene snapshots to PDF and PNG files.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"ScriptBoard/internal/state"
)

// Default page size in points, matching the runner canvas' preferred size.
const (
	DefaultWidth  = 480
	DefaultHeight = 360
)

// PDF writes snap as a single page of w×h points. Coordinates map one scene
// unit to one point before zoom.
func PDF(out io.Writer, snap state.Snapshot, w, h float64) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	if snap.Background.Valid {
		setFill(p, snap.Background)
		p.Rect(0, 0, w, h, "F")
	}

	zoom := snap.Zoom
	if zoom <= 0 {
		zoom = state.DefaultZoom
	}
	p.TransformBegin()
	p.TransformScale(zoom*100, zoom*100, 0, 0)
	for _, s := range snap.Shapes {
		drawShape(p, s)
	}
	p.TransformEnd()

	if err := p.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFile is PDF into a new file at path.
func PDFFile(path string, snap state.Snapshot, w, h float64) error {
	return writeFile(path, func(out io.Writer) error { return PDF(out, snap, w, h) })
}

func drawShape(p *gofpdf.Fpdf, s state.Shape) {
	switch s.Kind {
	case state.FilledCircle:
		if style := prepare(p, s.Fill, state.NoColor, 0); style != "" {
			c := s.Center()
			p.Circle(c.X, c.Y, math.Abs(s.Radius()), style)
		}
	case state.StrokeCircle:
		if style := prepare(p, state.NoColor, s.Stroke, s.Width); style != "" {
			c := s.Center()
			p.Circle(c.X, c.Y, math.Abs(s.Radius()), style)
		}
	case state.Rect:
		if style := prepare(p, s.Fill, s.Stroke, s.Width); style != "" {
			o := s.Origin()
			w, h := s.Size()
			p.Rect(o.X, o.Y, w, h, style)
		}
	case state.Triangle:
		if style := prepare(p, s.Fill, s.Stroke, s.Width); style != "" {
			v := s.Vertices()
			p.Polygon([]gofpdf.PointType{
				{X: v[0].X, Y: v[0].Y},
				{X: v[1].X, Y: v[1].Y},
				{X: v[2].X, Y: v[2].Y},
			}, style)
		}
	case state.Line:
		if prepare(p, state.NoColor, s.Stroke, s.Width) != "" {
			a, b := s.Endpoints()
			p.Line(a.X, a.Y, b.X, b.Y)
		}
	}
}

// prepare sets colors and line width and returns the gofpdf style string,
// or "" when there is nothing to paint.
func prepare(p *gofpdf.Fpdf, fill, stroke state.Color, width float64) string {
	style := ""
	alpha := 1.0
	if fill.Valid {
		setFill(p, fill)
		style += "F"
		alpha = float64(fill.A) / 255
	}
	if stroke.Valid {
		p.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
		if width <= 0 {
			width = 1
		}
		p.SetLineWidth(width)
		style += "D"
		if !fill.Valid {
			alpha = float64(stroke.A) / 255
		}
	}
	p.SetAlpha(alpha, "Normal")
	return style
}

func setFill(p *gofpdf.Fpdf, c state.Color) {
	p.SetFillColor(int(c.R), int(c.G), int(c.B))
}
