package juggle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ErrMalformedColor is returned when a textual color can't be parsed
var ErrMalformedColor = errors.New("malformed color")

// Color is a RGB sample. Alpha is never taken into account
type Color struct {
	R uint8
	G uint8
	B uint8
}

// HSV is a color in HSV space: H in [0, 360), S and V in [0, 1]
type HSV struct {
	H float64
	S float64
	V float64
}

var (
	rgbPattern = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// RGBToHSV converts RGB color to HSV. Achromatic colors get zero hue
func RGBToHSV(c Color) HSV {
	h, s, v := c.colorful().Hsv()
	return HSV{H: h, S: s, V: v}
}

// Hex returns color as lowercase #rrggbb string
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// HexToColor parses #rrggbb string (either case). Short #rgb form is rejected
func HexToColor(s string) (Color, error) {
	if !hexPattern.MatchString(s) {
		return Color{}, errors.Wrapf(ErrMalformedColor, "hex color %q", s)
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrapf(ErrMalformedColor, "hex color %q: %v", s, err)
	}
	r, g, b := parsed.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// ParseColor parses either `rgb(r, g, b)` or `#rrggbb` form
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "rgb"):
		match := rgbPattern.FindStringSubmatch(s)
		if match == nil {
			return Color{}, errors.Wrapf(ErrMalformedColor, "rgb color %q", s)
		}
		var channels [3]uint8
		for i := range channels {
			value, err := strconv.Atoi(match[i+1])
			if err != nil || value > 255 {
				return Color{}, errors.Wrapf(ErrMalformedColor, "rgb component %q of %q", match[i+1], s)
			}
			channels[i] = uint8(value)
		}
		return Color{R: channels[0], G: channels[1], B: channels[2]}, nil
	case strings.HasPrefix(s, "#"):
		return HexToColor(s)
	default:
		return Color{}, errors.Wrapf(ErrMalformedColor, "unknown color form %q", s)
	}
}
