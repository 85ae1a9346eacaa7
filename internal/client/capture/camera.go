package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Device is a camera that can be opened for exclusive use.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open device. Frame returns the current still; Close releases
// the device and must be safe to call once after any Frame result.
type Stream interface {
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

const defaultFrameInterval = 500 * time.Millisecond

// Camera owns at most one open Stream at a time.
//
// Start acquires the device and runs the live feed; Capture freezes the
// latest frame and releases; Stop releases without capturing. Every path out
// of the active state closes the stream, including failures during Start.
type Camera struct {
	device   Device
	interval time.Duration

	mu     sync.Mutex
	active *handle
}

// NewCamera returns a Camera over device. A nil device behaves as a machine
// without a camera: Start always fails with ErrDeviceUnavailable.
func NewCamera(device Device, frameInterval time.Duration) *Camera {
	if frameInterval <= 0 {
		frameInterval = defaultFrameInterval
	}
	return &Camera{device: device, interval: frameInterval}
}

// Start releases any active stream, then opens the device and primes the
// first frame. Errors wrap ErrDeviceUnavailable.
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.releaseLocked(); err != nil {
		return err
	}
	if c.device == nil {
		return ErrDeviceUnavailable
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		return unavailable(err)
	}

	first, err := stream.Frame(ctx)
	if err != nil {
		_ = stream.Close()
		return unavailable(err)
	}

	liveCtx, cancel := context.WithCancel(context.Background())
	h := &handle{stream: stream, latest: first, frames: 1, cancel: cancel, done: make(chan struct{})}
	go h.feed(liveCtx, c.interval)

	c.active = h
	return nil
}

// Capture freezes the latest live frame into an Image and releases the
// device, whether or not encoding succeeds.
func (c *Camera) Capture(ctx context.Context) (img Image, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.active
	if h == nil {
		return Image{}, ErrNoActiveCamera
	}
	defer func() {
		if rerr := c.releaseLocked(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	return Encode(h.snapshot())
}

// Stop releases the device. It is a no-op when the camera is not active.
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releaseLocked()
}

// Active reports whether a stream is open.
func (c *Camera) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Frames returns how many frames the live feed has received, 0 when inactive.
func (c *Camera) Frames() int {
	c.mu.Lock()
	h := c.active
	c.mu.Unlock()
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (c *Camera) releaseLocked() error {
	h := c.active
	if h == nil {
		return nil
	}
	c.active = nil

	h.cancel()
	<-h.done
	if err := h.stream.Close(); err != nil {
		return fmt.Errorf("release camera: %w", err)
	}
	return nil
}

func unavailable(err error) error {
	if errors.Is(err, ErrDeviceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}

type handle struct {
	stream Stream
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	latest []byte
	frames int
}

// feed keeps latest fresh until ctx is cancelled. A failed frame keeps the
// previous one.
func (h *handle) feed(ctx context.Context, interval time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := h.stream.Frame(ctx)
			if err != nil || len(frame) == 0 {
				continue
			}
			h.mu.Lock()
			h.latest = frame
			h.frames++
			h.mu.Unlock()
		}
	}
}

func (h *handle) snapshot() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.latest...)
}
