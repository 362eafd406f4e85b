package camera

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"

	domaincamera "github.com/janhq/aura-server/internal/domain/camera"
)

// FileDevice serves a still image from disk on every capture. Useful for kiosks and demos.
type FileDevice struct {
	path string
}

// NewFileDevice creates a device reading path.
func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

func (d *FileDevice) Open(ctx context.Context, _ domaincamera.Constraints) (domaincamera.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(d.path); err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", domaincamera.ErrPermissionDenied, d.path)
		}
		return nil, fmt.Errorf("%w: %v", domaincamera.ErrNoDevice, err)
	}
	return &fileStream{path: d.path}, nil
}

type fileStream struct {
	path   string
	closed bool
}

func (s *fileStream) Capture(ctx context.Context) (domaincamera.Frame, error) {
	if err := ctx.Err(); err != nil {
		return domaincamera.Frame{}, err
	}
	if s.closed {
		return domaincamera.Frame{}, domaincamera.ErrNotOpen
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domaincamera.Frame{}, fmt.Errorf("%w: %v", domaincamera.ErrNoDevice, err)
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), frameTypes...) {
		return domaincamera.Frame{}, fmt.Errorf("%w: %s is %s", domaincamera.ErrNoDevice, s.path, mtype.String())
	}
	return domaincamera.Frame{Data: data, MimeType: mtype.String(), CapturedAt: time.Now()}, nil
}

func (s *fileStream) Close() error {
	s.closed = true
	return nil
}

// Unavailable is a device that never opens, for hosts without any camera.
type Unavailable struct{}

func (Unavailable) Open(context.Context, domaincamera.Constraints) (domaincamera.Stream, error) {
	return nil, domaincamera.ErrNoDevice
}
