//go:build gocv

package source

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CameraSource grabs frames from a video capture device
type CameraSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	options Options
}

// OpenCamera opens capture device and requests frame size from options
func OpenCamera(device int, options Options) (Source, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open camera %d", device)
	}
	if options.Width > 0 && options.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(options.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(options.Height))
	}
	return &CameraSource{
		capture: capture,
		mat:     gocv.NewMat(),
		options: options,
	}, nil
}

// Next reads one frame from device
func (source *CameraSource) Next(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok := source.capture.Read(&source.mat); !ok || source.mat.Empty() {
		return nil, errors.Wrap(ErrReadFailed, "camera returned no frame")
	}
	img, err := source.mat.ToImage()
	if err != nil {
		return nil, errors.Wrapf(ErrReadFailed, "can't convert frame: %v", err)
	}
	return prepare(img, source.options), nil
}

// Close releases device
func (source *CameraSource) Close() error {
	source.mat.Close()
	return source.capture.Close()
}
