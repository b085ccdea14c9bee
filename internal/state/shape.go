package state

import "fmt"

// DefaultWidth is the stroke width used when a caller does not pass one.
const DefaultWidth = 1.0

type Kind int

const (
	FilledCircle Kind = iota
	StrokeCircle
	Triangle
	Rect
	Line
)

var kindNames = [...]string{"filledCircle", "strokeCircle", "triangle", "rect", "line"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape kind %q", text)
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Shape is one drawable primitive. The meaning of P1..P3 depends on Kind:
//
//	FilledCircle, StrokeCircle: P1 center, P2.X radius (P2.Y unused)
//	Rect:                       P1 origin, P2 width/height
//	Triangle:                   P1, P2, P3 vertices
//	Line:                       P1, P2 endpoints
//
// Renderers and the script canvas both rely on this packing.
type Shape struct {
	Kind   Kind    `json:"kind"`
	P1     Point   `json:"p1"`
	P2     Point   `json:"p2"`
	P3     Point   `json:"p3"`
	Fill   Color   `json:"fill"`
	Stroke Color   `json:"stroke"`
	Width  float64 `json:"width"`
}

func NewFilledCircle(center Point, radius float64, fill Color) Shape {
	return Shape{Kind: FilledCircle, P1: center, P2: Pt(radius, 0), Fill: fill, Width: DefaultWidth}
}

func NewStrokeCircle(center Point, radius float64, stroke Color, width float64) Shape {
	return Shape{Kind: StrokeCircle, P1: center, P2: Pt(radius, 0), Stroke: stroke, Width: width}
}

func NewRect(origin Point, w, h float64, fill, stroke Color, width float64) Shape {
	return Shape{Kind: Rect, P1: origin, P2: Pt(w, h), Fill: fill, Stroke: stroke, Width: width}
}

func NewTriangle(a, b, c Point, fill, stroke Color, width float64) Shape {
	return Shape{Kind: Triangle, P1: a, P2: b, P3: c, Fill: fill, Stroke: stroke, Width: width}
}

func NewLine(from, to Point, stroke Color, width float64) Shape {
	return Shape{Kind: Line, P1: from, P2: to, Stroke: stroke, Width: width}
}

// Center is meaningful for circles.
func (s Shape) Center() Point { return s.P1 }

// Radius is meaningful for circles.
func (s Shape) Radius() float64 { return s.P2.X }

// Origin is meaningful for Rect.
func (s Shape) Origin() Point { return s.P1 }

// Size is meaningful for Rect.
func (s Shape) Size() (w, h float64) { return s.P2.X, s.P2.Y }

// Vertices is meaningful for Triangle.
func (s Shape) Vertices() [3]Point { return [3]Point{s.P1, s.P2, s.P3} }

// Endpoints is meaningful for Line.
func (s Shape) Endpoints() (Point, Point) { return s.P1, s.P2 }

// HasFill reports whether the shape should be filled.
func (s Shape) HasFill() bool { return s.Fill.Valid }

// HasStroke reports whether the shape should be outlined.
func (s Shape) HasStroke() bool { return s.Stroke.Valid }
