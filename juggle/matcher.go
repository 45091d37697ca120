package juggle

import (
	"image"
	"math"
)

// HSVDistance returns weighted distance between two HSV colors.
// Hue distance is circular and normalized to [0, 1], saturation and value distances are linear
func HSVDistance(a, b HSV, hueWeight float64) float64 {
	hueDiff := math.Abs(a.H - b.H)
	hueDiff = math.Min(hueDiff, 360-hueDiff) / 180
	satDiff := math.Abs(a.S - b.S)
	valDiff := math.Abs(a.V - b.V)
	return math.Sqrt(hueWeight*hueDiff*hueDiff + satDiff*satDiff + valDiff*valDiff)
}

// ColorMatches checks if sample is within tolerancePercent (0-100) of target in weighted HSV space
func ColorMatches(sample, target Color, tolerancePercent, hueWeight float64) bool {
	return HSVDistance(RGBToHSV(sample), RGBToHSV(target), hueWeight) <= tolerancePercent/100.0
}

// Matcher is ColorMatches with target converted to HSV once.
// Build it once per frame: the config can't change mid-frame
type Matcher struct {
	target    HSV
	tolerance float64
	hueWeight float64
}

// NewMatcher creates matcher for config's target color, tolerance and hue weight
func NewMatcher(cfg Config) Matcher {
	return Matcher{
		target:    RGBToHSV(cfg.TargetColor),
		tolerance: cfg.ColorTolerancePercent / 100.0,
		hueWeight: cfg.HueWeight,
	}
}

// Matches checks single RGB sample
func (m Matcher) Matches(r, g, b uint8) bool {
	return HSVDistance(RGBToHSV(Color{R: r, G: g, B: b}), m.target, m.hueWeight) <= m.tolerance
}

// CollectMatchingPixels scans every stride-th pixel of every stride-th row and returns coordinates
// (relative to frame's top-left corner) of samples matching the target color
func CollectMatchingPixels(frame *image.RGBA, m Matcher, stride int) []PixelCoord {
	if frame == nil {
		return nil
	}
	if stride < 1 {
		stride = 1
	}
	bounds := frame.Rect
	matching := make([]PixelCoord, 0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			idx := frame.PixOffset(x, y)
			if m.Matches(frame.Pix[idx], frame.Pix[idx+1], frame.Pix[idx+2]) {
				matching = append(matching, NewPixelCoordFrom(image.Pt(x, y).Sub(bounds.Min)))
			}
		}
	}
	return matching
}
