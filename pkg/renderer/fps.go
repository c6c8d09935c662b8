package renderer

import (
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// FPSCounter logs the frame rate once every Every frames
type FPSCounter struct {
	Every  int
	logger core.Logger
	now    func() time.Time
	start  time.Time
	count  int
}

// NewFPSCounter creates a counter that reports every `every` frames
func NewFPSCounter(every int, logger core.Logger) *FPSCounter {
	if every <= 0 {
		every = 10
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &FPSCounter{
		Every:  every,
		logger: logger,
		now:    time.Now,
		start:  time.Now(),
	}
}

// Tick records a presented frame. When a report is due it logs and returns
// the frames per second since the previous report.
func (f *FPSCounter) Tick() (float64, bool) {
	f.count++
	if f.count < f.Every {
		return 0, false
	}

	now := f.now()
	elapsed := now.Sub(f.start)
	fps := 0.0
	if elapsed > 0 {
		fps = float64(f.count) / elapsed.Seconds()
	}

	f.logger.Printf("FPS %.2f\n", fps)
	f.start = now
	f.count = 0
	return fps, true
}
