package state

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", RGBA(255, 0, 0, 255)},
		{" Blue ", RGBA(0, 0, 255, 255)},
		{"magenta", RGBA(255, 0, 255, 255)},
		{"#40E0D0", RGBA(0x40, 0xe0, 0xd0, 255)},
		{"#f00", RGBA(255, 0, 0, 255)},
		{"#80ff0000", RGBA(255, 0, 0, 0x80)},
		{"transparent", RGBA(0, 0, 0, 0)},
		{"", NoColor},
		{"none", NoColor},
		{"not-a-color", NoColor},
		{"#12345", NoColor},
		{"#zzzzzz", NoColor},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.in))
		})
	}
}

func TestNoColorsCompareEqual(t *testing.T) {
	assert.Equal(t, NoColor, ParseColor("bogus"))
	assert.True(t, ParseColor("bogus") == Color{})
}

func TestColorEqual(t *testing.T) {
	stray := Color{R: 1, A: 9}
	assert.True(t, stray.Equal(NoColor))
	assert.True(t, NoColor.Equal(stray))
	assert.False(t, stray.Equal(RGBA(1, 0, 0, 9)))
	assert.True(t, RGBA(1, 2, 3, 4).Equal(RGBA(1, 2, 3, 4)))
	assert.False(t, RGBA(1, 2, 3, 4).Equal(RGBA(1, 2, 3, 5)))
}

func TestFromFloatClamps(t *testing.T) {
	assert.Equal(t, RGBA(255, 0, 128, 255), FromFloat(2, -1, 0.5, 1))
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "none", NoColor.String())
	assert.Equal(t, "#ff0000", RGBA(255, 0, 0, 255).String())
	assert.Equal(t, "#80ff0000", RGBA(255, 0, 0, 0x80).String())

	var c Color
	assert.NoError(t, c.UnmarshalText([]byte("#80ff0000")))
	assert.Equal(t, RGBA(255, 0, 0, 0x80), c)
}

func TestFromStd(t *testing.T) {
	assert.Equal(t, RGBA(1, 2, 3, 255), FromStd(color.NRGBA{R: 1, G: 2, B: 3, A: 255}))
	assert.Equal(t, NoColor, FromStd(nil))
	assert.Equal(t, color.NRGBA{}, NoColor.NRGBA())
}
