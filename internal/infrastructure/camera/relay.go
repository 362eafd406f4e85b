// Package camera provides the video inputs behind the emotion scan.
package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	domaincamera "github.com/janhq/aura-server/internal/domain/camera"
)

// MaxFrameBytes bounds a pushed frame.
const MaxFrameBytes = 4 << 20

// ErrUnsupportedFrame is returned by Push for payloads that are not still images.
var ErrUnsupportedFrame = errors.New("frame must be a jpeg or png image")

var frameTypes = []string{"image/jpeg", "image/png"}

// RelayDevice is fed by the client, which owns the physical camera and pushes frames
// while a stream is open.
type RelayDevice struct {
	log zerolog.Logger

	mu     sync.Mutex
	stream *relayStream
}

// NewRelayDevice creates a relay with no open stream.
func NewRelayDevice(log zerolog.Logger) *RelayDevice {
	return &RelayDevice{log: log.With().Str("component", "camera-relay").Logger()}
}

func (d *RelayDevice) Open(ctx context.Context, constraints domaincamera.Constraints) (domaincamera.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		d.stream.closeLocked()
	}
	d.stream = &relayStream{
		device:      d,
		constraints: constraints,
		arrived:     make(chan struct{}),
	}
	d.log.Debug().
		Str("facing", string(constraints.Facing)).
		Int("width", constraints.Width).
		Int("height", constraints.Height).
		Msg("relay stream opened")
	return d.stream, nil
}

// Push delivers a frame to the open stream.
func (d *RelayDevice) Push(data []byte) error {
	if len(data) == 0 || len(data) > MaxFrameBytes {
		return fmt.Errorf("%w: size %d", ErrUnsupportedFrame, len(data))
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), frameTypes...) {
		return fmt.Errorf("%w: got %s", ErrUnsupportedFrame, mtype.String())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return domaincamera.ErrNotOpen
	}
	d.stream.frame = &domaincamera.Frame{
		Data:       append([]byte(nil), data...),
		MimeType:   mtype.String(),
		CapturedAt: time.Now(),
	}
	if !d.stream.signalled {
		d.stream.signalled = true
		close(d.stream.arrived)
	}
	return nil
}

// Streaming reports whether a stream is open and accepting frames.
func (d *RelayDevice) Streaming() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stream != nil
}

type relayStream struct {
	device      *RelayDevice
	constraints domaincamera.Constraints

	// guarded by device.mu
	frame     *domaincamera.Frame
	arrived   chan struct{}
	signalled bool
	closed    bool
}

// Capture returns the latest pushed frame, waiting for the first one if needed.
func (s *relayStream) Capture(ctx context.Context) (domaincamera.Frame, error) {
	s.device.mu.Lock()
	arrived := s.arrived
	s.device.mu.Unlock()

	select {
	case <-arrived:
	case <-ctx.Done():
		return domaincamera.Frame{}, fmt.Errorf("%w: no frame received: %v", domaincamera.ErrNoDevice, ctx.Err())
	}

	s.device.mu.Lock()
	defer s.device.mu.Unlock()
	if s.closed || s.frame == nil {
		return domaincamera.Frame{}, domaincamera.ErrNotOpen
	}
	frame := *s.frame
	frame.Data = append([]byte(nil), s.frame.Data...)
	return frame, nil
}

func (s *relayStream) Close() error {
	s.device.mu.Lock()
	defer s.device.mu.Unlock()
	s.closeLocked()
	return nil
}

func (s *relayStream) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.frame = nil
	if !s.signalled {
		s.signalled = true
		close(s.arrived)
	}
	if s.device.stream == s {
		s.device.stream = nil
	}
}
