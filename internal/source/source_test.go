package source

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	first, err := os.Create(filepath.Join(dir, "frame_001.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(first, solid(8, 6, red)))
	require.NoError(t, first.Close())

	second, err := os.Create(filepath.Join(dir, "frame_002.bmp"))
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(second, solid(8, 6, blue)))
	require.NoError(t, second.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a frame"), 0o644))

	source, err := NewDirSource(dir, Options{})
	require.NoError(t, err)
	defer source.Close()
	assert.Equal(t, 2, source.Len())

	ctx := context.Background()
	frame, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), frame.Rect)
	assert.Equal(t, red, frame.RGBAAt(3, 3))

	frame, err = source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, blue, frame.RGBAAt(3, 3))

	_, err = source.Next(ctx)
	assert.True(t, errors.Is(err, ErrExhausted), "got %v", err)
}

func TestDirSourceSkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("garbage"), 0o644))
	source, err := NewDirSource(dir, Options{})
	require.NoError(t, err)

	_, err = source.Next(context.Background())
	assert.True(t, errors.Is(err, ErrReadFailed), "got %v", err)
	_, err = source.Next(context.Background())
	assert.True(t, errors.Is(err, ErrExhausted), "got %v", err)
}

func TestDirSourceStopsOnCancel(t *testing.T) {
	source, err := NewDirSource(t.TempDir(), Options{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepareScalesAndBlurs(t *testing.T) {
	green := color.RGBA{G: 200, A: 255}
	frame := prepare(solid(40, 20, green), Options{Width: 10, Height: 5, Blur: 1.5})
	assert.Equal(t, image.Rect(0, 0, 10, 5), frame.Rect)
	// Blur and scale of a uniform image keep it uniform away from borders
	center := frame.RGBAAt(5, 2)
	assert.InDelta(t, 200, int(center.G), 2)
	assert.InDelta(t, 0, int(center.R), 2)
}

func TestPrepareMovesOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 9, 9))
	img.SetRGBA(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	frame := prepare(img, Options{})
	assert.Equal(t, image.Rect(0, 0, 4, 4), frame.Rect)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, frame.RGBAAt(0, 0))
}
