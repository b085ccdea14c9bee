package state

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an RGBA color that may be "none". The zero value is none. The
// constructors only ever produce NoColor for none; compare with Equal when
// a Color may have been built by hand.
type Color struct {
	R, G, B, A uint8
	Valid      bool
}

// Equal reports whether c and o draw the same. Any two none colors are equal
// regardless of their channels.
func (c Color) Equal(o Color) bool {
	if !c.Valid || !o.Valid {
		return c.Valid == o.Valid
	}
	return c == o
}

// NoColor means "do not fill" or "do not stroke".
var NoColor = Color{}

var White = RGBA(255, 255, 255, 255)

func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a, Valid: true}
}

// FromFloat builds a color from 0..1 components, clamping out of range values.
func FromFloat(r, g, b, a float64) Color {
	return RGBA(unit(r), unit(g), unit(b), unit(a))
}

func unit(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// FromStd converts any image/color value.
func FromStd(c color.Color) Color {
	if c == nil {
		return NoColor
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(n.R, n.G, n.B, n.A)
}

// NRGBA returns the color for drawing. None becomes fully transparent.
func (c Color) NRGBA() color.NRGBA {
	if !c.Valid {
		return color.NRGBA{}
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	if !c.Valid {
		return "none"
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	*c = ParseColor(string(text))
	return nil
}

// ParseColor understands SVG color keywords, "transparent", #rgb, #rrggbb
// and #aarrggbb. Anything else yields NoColor.
func ParseColor(s string) Color {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "none":
		return NoColor
	case s == "transparent":
		return RGBA(0, 0, 0, 0)
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	}
	if named, ok := colornames.Map[s]; ok {
		return RGBA(named.R, named.G, named.B, named.A)
	}
	return NoColor
}

func parseHex(s string) Color {
	switch len(s) {
	case 4, 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return NoColor
		}
		r, g, b := c.RGB255()
		return RGBA(r, g, b, 255)
	case 9:
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return NoColor
		}
		return RGBA(uint8(v>>16), uint8(v>>8), uint8(v), uint8(v>>24))
	}
	return NoColor
}
