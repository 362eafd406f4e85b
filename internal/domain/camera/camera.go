package camera

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPermissionDenied means the user refused camera access.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrNoDevice means no usable video input exists or it failed to start.
	ErrNoDevice = errors.New("camera device unavailable")
	// ErrNotOpen is returned when capturing without an open stream.
	ErrNotOpen = errors.New("camera stream is not open")
)

// Facing selects the physical camera.
type Facing string

const FacingUser Facing = "user"

// Constraints describe the requested video input.
type Constraints struct {
	Facing Facing
	Width  int
	Height int
}

// ScanConstraints is the front-facing 640x640 request used by the emotion scan.
func ScanConstraints() Constraints {
	return Constraints{Facing: FacingUser, Width: 640, Height: 640}
}

// Frame is one captured still image.
type Frame struct {
	Data       []byte
	MimeType   string
	CapturedAt time.Time
}

// Device grants access to a video input.
type Device interface {
	Open(ctx context.Context, constraints Constraints) (Stream, error)
}

// Stream is an open video input. Close must be called on every exit path.
type Stream interface {
	Capture(ctx context.Context) (Frame, error)
	Close() error
}

// Reason explains why a scan is unavailable.
type Reason string

const (
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonHardware         Reason = "hardware"
)

// ReasonFor classifies an open or capture failure.
func ReasonFor(err error) Reason {
	if errors.Is(err, ErrPermissionDenied) {
		return ReasonPermissionDenied
	}
	return ReasonHardware
}

// Message is the user-facing explanation shown next to the retry and bypass actions.
func (r Reason) Message() string {
	if r == ReasonPermissionDenied {
		return "Camera access was denied. Please check your browser permissions."
	}
	return "Unable to initialize bio-metric sensor. Verify camera connection."
}
