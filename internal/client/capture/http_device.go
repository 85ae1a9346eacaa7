package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

const maxFrameBytes = 20 << 20

// HTTPDevice is a network camera that serves a JPEG/PNG still on every GET of
// its snapshot URL. It is expected to point at the environment-facing camera.
type HTTPDevice struct {
	url    string
	client *http.Client
}

// NewHTTPDevice returns a Device for snapshotURL. An empty URL means there is
// no camera configured.
func NewHTTPDevice(snapshotURL string, timeout time.Duration) *HTTPDevice {
	return &HTTPDevice{
		url:    snapshotURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDevice) Open(ctx context.Context) (Stream, error) {
	if d.url == "" {
		return nil, fmt.Errorf("%w: no camera configured", ErrDeviceUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &httpStream{device: d}, nil
}

type httpStream struct {
	device *HTTPDevice
	closed atomic.Bool
}

func (s *httpStream) Frame(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrNoActiveCamera
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.device.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	resp, err := s.device.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: access denied (%s)", ErrDeviceUnavailable, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, resp.Status)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %v", ErrDeviceUnavailable, err)
	}
	return frame, nil
}

func (s *httpStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.device.client.CloseIdleConnections()
	return nil
}
