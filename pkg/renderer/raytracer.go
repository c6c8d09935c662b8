package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Raytracer renders whole frames by farming scanline bands out to a worker pool
type Raytracer struct {
	config Config
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(config Config, logger core.Logger) (*Raytracer, error) {
	config, err := config.Validate()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Raytracer{config: config, logger: logger}, nil
}

// Config returns the validated configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// RenderFrame renders sc at the configured resolution. The scene is
// snapshotted first, so the caller may move the camera as soon as
// RenderFrame returns. onBand, if not nil, is called from the calling
// goroutine once per finished band in completion order; returning an
// error stops the frame. Cancelling ctx stops the frame early and returns
// ctx.Err().
func (rt *Raytracer) RenderFrame(ctx context.Context, sc *scene.Scene, onBand func(BandResult) error) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()
	width, height := rt.config.Width, rt.config.Height

	snap := sc.Snapshot()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bands := NewBands(height, rt.config.BandSize)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(snap, img, rt.config.NumWorkers, len(bands))
	pool.Start(ctx)
	for _, band := range bands {
		pool.SubmitTask(band)
	}

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	var firstErr error

	// Results are drained in full so that Stop never waits on a blocked worker
	for range bands {
		result, _ := pool.GetResult()
		if firstErr != nil {
			continue
		}
		if result.Error != nil {
			firstErr = result.Error
			cancel()
			continue
		}

		stats.Bands++
		stats.Lines += result.EndLine - result.StartLine

		if onBand != nil {
			if err := onBand(result); err != nil {
				firstErr = err
				cancel()
			}
		}
	}
	pool.Stop()

	stats.Pixels = stats.Lines * width
	stats.Duration = time.Since(startTime)

	if firstErr != nil {
		rt.logger.Printf("Frame aborted after %d of %d bands: %v\n", stats.Bands, len(bands), firstErr)
		return nil, stats, firstErr
	}

	rt.logger.Printf("Rendered %dx%d frame: %v\n", width, height, stats)
	return img, stats, nil
}
