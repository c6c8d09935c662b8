package renderer

import (
	"fmt"
	"time"
)

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	Lines    int           // Scanlines rendered
	Pixels   int           // Pixels rendered
	Bands    int           // Worker tasks completed
	Workers  int           // Workers used
	Duration time.Duration // Wall time for the frame
}

// LinesPerSecond returns the scanline throughput of the frame
func (s RenderStats) LinesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Lines) / s.Duration.Seconds()
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d lines, %d pixels in %v (%d bands, %d workers)",
		s.Lines, s.Pixels, s.Duration.Round(time.Microsecond), s.Bands, s.Workers)
}
