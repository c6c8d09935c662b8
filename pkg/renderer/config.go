package renderer

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidResolution is returned when a frame has no pixels
var ErrInvalidResolution = errors.New("invalid resolution")

// Config contains frame rendering configuration
type Config struct {
	Width      int // Image width in pixels
	Height     int // Image height in pixels, one scanline per row
	NumWorkers int // Number of parallel workers (0 = use CPU count)
	BandSize   int // Scanlines per worker task
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      512,
		Height:     512,
		NumWorkers: runtime.NumCPU(),
		BandSize:   16,
	}
}

// Validate checks the resolution and fills in worker and band defaults
func (c Config) Validate() (Config, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("%w: %dx%d", ErrInvalidResolution, c.Width, c.Height)
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = runtime.NumCPU()
	}
	if c.BandSize <= 0 {
		c.BandSize = DefaultConfig().BandSize
	}
	return c, nil
}
