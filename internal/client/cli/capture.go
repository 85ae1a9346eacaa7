package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
)

// StartCamera turns the camera on. When it is unavailable the user is told
// to upload a file instead and upload keeps working.
func (a *App) StartCamera(ctx context.Context) error {
	if err := a.camera.Start(ctx); err != nil {
		a.log.Info(ctx, "camera unavailable", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Camera is live. Type 'snap' to capture or 'stop' to turn it off.")
	return nil
}

// Snap freezes the current frame as the search image and turns the camera off.
func (a *App) Snap(ctx context.Context) error {
	img, err := a.camera.Capture(ctx)
	if err != nil {
		return err
	}
	a.setPreview(img)
	fmt.Fprintln(a.out, "Image captured. Type 'search' to find it, or 'retake'.")
	return nil
}

// Retake drops the current image and restarts the camera.
func (a *App) Retake(ctx context.Context) error {
	a.preview = capture.Image{}
	a.clearResult()
	return a.StartCamera(ctx)
}

func (a *App) StopCamera(ctx context.Context) error {
	if !a.camera.Active() {
		fmt.Fprintln(a.out, "Camera is off.")
		return nil
	}
	if err := a.camera.Stop(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Camera stopped.")
	return nil
}

// Upload loads an image file as the search image. The camera is released
// first even if the file turns out to be unusable.
func (a *App) Upload(ctx context.Context, path string) error {
	a.stopCamera(ctx)

	img, err := capture.FromFile(path)
	if err != nil {
		return err
	}
	a.setPreview(img)
	fmt.Fprintf(a.out, "Loaded %s (%s). Type 'search' to find it.\n", path, img.MIMEType)
	return nil
}

func (a *App) setPreview(img capture.Image) {
	a.preview = img
	a.clearResult()
}
