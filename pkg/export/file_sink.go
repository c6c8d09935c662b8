package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// FileSink writes each frame to Dir as frame_NNNN.png
type FileSink struct {
	Dir  string
	Size int // Output edge length; 0 keeps the render resolution
}

// NewFileSink creates dir if needed and returns a sink writing into it
func NewFileSink(dir string, size int) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileSink{Dir: dir, Size: size}, nil
}

// FramePath returns the file a frame is written to
func (s *FileSink) FramePath(frame int) string {
	return filepath.Join(s.Dir, FrameName(frame))
}

// WriteFrame saves the frame as PNG
func (s *FileSink) WriteFrame(ctx context.Context, frame int, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Save(Scale(img, s.Size), s.FramePath(frame))
}

// FrameName returns the file name used for a frame number
func FrameName(frame int) string {
	return fmt.Sprintf("frame_%04d.png", frame)
}
