// Package source provides frames for the counter: image sequences from a directory or a camera
package source

import (
	"context"
	"image"

	"github.com/disintegration/gift"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

var (
	// ErrExhausted is returned when there are no more frames
	ErrExhausted = errors.New("source exhausted")
	// ErrCameraUnavailable is returned when binary is built without camera support
	ErrCameraUnavailable = errors.New("camera support is not compiled in (build with -tags gocv)")
	// ErrReadFailed is returned when a frame can't be acquired
	ErrReadFailed = errors.New("can't read frame")
)

// Source produces frames one by one
type Source interface {
	Next(ctx context.Context) (*image.RGBA, error)
	Close() error
}

// Options is for frame preparation. Zero Width or Height keeps native size, zero Blur disables blurring
type Options struct {
	Width  int
	Height int
	Blur   float64
}

// prepare blurs and scales image and returns it as RGBA with origin at (0, 0)
func prepare(img image.Image, options Options) *image.RGBA {
	if options.Blur > 0 {
		filter := gift.New(gift.GaussianBlur(float32(options.Blur)))
		blurred := image.NewRGBA(filter.Bounds(img.Bounds()))
		filter.Draw(blurred, img)
		img = blurred
	}
	bounds := img.Bounds()
	if options.Width > 0 && options.Height > 0 && (bounds.Dx() != options.Width || bounds.Dy() != options.Height) {
		scaled := image.NewRGBA(image.Rect(0, 0, options.Width, options.Height))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		return scaled
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	frame := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(frame, frame.Bounds(), img, bounds.Min, draw.Src)
	return frame
}
