//go:build !gocv

package source

// OpenCamera is unavailable without the gocv build tag
func OpenCamera(device int, options Options) (Source, error) {
	return nil, ErrCameraUnavailable
}
