package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"ScriptBoard/internal/state"
)

func nrgbaAt(t *testing.T, snap state.Snapshot, x, y int) color.NRGBA {
	t.Helper()
	img := Image(64, 64, snap)
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func blank() state.Snapshot {
	return state.Snapshot{Background: state.White, Zoom: 1}
}

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

func TestStrokeCircleLeavesCenterEmpty(t *testing.T) {
	snap := blank()
	snap.Shapes = []state.Shape{state.NewStrokeCircle(state.Pt(20, 20), 10, state.ParseColor("red"), 4)}

	assert.Equal(t, red, nrgbaAt(t, snap, 30, 20))
	assert.Equal(t, white, nrgbaAt(t, snap, 20, 20))
}

func TestFilledCircle(t *testing.T) {
	snap := blank()
	snap.Shapes = []state.Shape{state.NewFilledCircle(state.Pt(20, 20), 10, state.ParseColor("blue"))}

	assert.Equal(t, blue, nrgbaAt(t, snap, 20, 20))
	assert.Equal(t, white, nrgbaAt(t, snap, 40, 40))
}

func TestRectWithoutStroke(t *testing.T) {
	snap := blank()
	snap.Shapes = []state.Shape{state.NewRect(state.Pt(10, 10), 20, 10, state.ParseColor("red"), state.NoColor, 5)}

	assert.Equal(t, red, nrgbaAt(t, snap, 20, 15))
	assert.Equal(t, white, nrgbaAt(t, snap, 20, 8), "no stroke means nothing outside the rect")
}

func TestLaterShapesPaintOnTop(t *testing.T) {
	snap := blank()
	snap.Shapes = []state.Shape{
		state.NewRect(state.Pt(0, 0), 40, 40, state.ParseColor("red"), state.NoColor, 1),
		state.NewTriangle(state.Pt(0, 0), state.Pt(40, 0), state.Pt(0, 40), state.ParseColor("blue"), state.NoColor, 1),
	}

	assert.Equal(t, blue, nrgbaAt(t, snap, 5, 5))
	assert.Equal(t, red, nrgbaAt(t, snap, 35, 35))
}

func TestZoomScalesShapesNotBackground(t *testing.T) {
	snap := state.Snapshot{Background: state.ParseColor("black"), Zoom: 2}
	snap.Shapes = []state.Shape{state.NewRect(state.Pt(0, 0), 10, 10, state.ParseColor("red"), state.NoColor, 1)}

	assert.Equal(t, red, nrgbaAt(t, snap, 15, 15))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, nrgbaAt(t, snap, 60, 60))
}

func TestLineWidth(t *testing.T) {
	assert.Equal(t, 1.0, lineWidth(0))
	assert.Equal(t, 1.0, lineWidth(-3))
	assert.Equal(t, 2.5, lineWidth(2.5))
}
