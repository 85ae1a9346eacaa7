package capture

import "errors"

var (
	// ErrDeviceUnavailable means the camera is absent or access was denied.
	// Callers fall back to the upload path.
	ErrDeviceUnavailable = errors.New("camera not available or permission denied")

	ErrNoActiveCamera = errors.New("camera is not started")
	ErrEmptyImage     = errors.New("image is empty")
	ErrNotImage       = errors.New("file is not an image")
)
