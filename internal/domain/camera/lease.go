package camera

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/infrastructure/metrics"
)

// Lease holds at most one open stream of a device and guarantees it is closed exactly once.
type Lease struct {
	device Device
	log    zerolog.Logger

	mu     sync.Mutex
	stream Stream
}

// NewLease creates a lease over device.
func NewLease(device Device, log zerolog.Logger) *Lease {
	return &Lease{
		device: device,
		log:    log.With().Str("component", "camera-lease").Logger(),
	}
}

// Acquire closes any open stream and opens a new one.
func (l *Lease) Acquire(ctx context.Context, constraints Constraints) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.releaseLocked()

	stream, err := l.device.Open(ctx, constraints)
	if err != nil {
		l.log.Warn().Err(err).Str("reason", string(ReasonFor(err))).Msg("camera open failed")
		return err
	}
	l.stream = stream
	metrics.RecordCameraOpened()
	l.log.Debug().Msg("camera stream opened")
	return nil
}

// Capture grabs one frame from the open stream.
func (l *Lease) Capture(ctx context.Context) (Frame, error) {
	l.mu.Lock()
	stream := l.stream
	l.mu.Unlock()

	if stream == nil {
		return Frame{}, ErrNotOpen
	}
	return stream.Capture(ctx)
}

// Release closes the open stream, if any. It is safe to call repeatedly.
func (l *Lease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releaseLocked()
}

// Active reports whether a stream is open.
func (l *Lease) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stream != nil
}

func (l *Lease) releaseLocked() {
	if l.stream == nil {
		return
	}
	if err := l.stream.Close(); err != nil {
		l.log.Warn().Err(err).Msg("camera stream close failed")
	}
	l.stream = nil
	metrics.RecordCameraClosed()
	l.log.Debug().Msg("camera stream released")
}
