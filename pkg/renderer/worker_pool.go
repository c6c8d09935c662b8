package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// LineTask is a band of consecutive scanlines for one worker
type LineTask struct {
	TaskID    int // Index of the band within the frame
	StartLine int // First scanline, inclusive
	EndLine   int // Last scanline, exclusive
}

// BandResult reports a finished band
type BandResult struct {
	TaskID    int
	StartLine int
	EndLine   int
	Image     *image.RGBA // The band's rows of the frame image
	Error     error
}

// WorkerPool renders scanline bands of one frame in parallel. Each band
// writes to disjoint rows of the shared image.
type WorkerPool struct {
	taskQueue   chan LineTask
	resultQueue chan BandResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual band rendering tasks
type Worker struct {
	ID          int
	scene       *scene.Scene
	img         *image.RGBA
	taskQueue   chan LineTask
	resultQueue chan BandResult
}

// NewWorkerPool creates a worker pool rendering sc into img. maxTasks sizes
// the queues so that submitting a whole frame never blocks.
func NewWorkerPool(sc *scene.Scene, img *image.RGBA, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan LineTask, maxTasks),
		resultQueue: make(chan BandResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			scene:       sc,
			img:         img,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers. Tasks picked up after ctx is done are
// reported with ctx.Err() instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a band task to the worker pool
func (wp *WorkerPool) SubmitTask(task LineTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed band result
func (wp *WorkerPool) GetResult() (BandResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		result := BandResult{
			TaskID:    task.TaskID,
			StartLine: task.StartLine,
			EndLine:   task.EndLine,
		}

		if err := ctx.Err(); err != nil {
			result.Error = err
		} else {
			w.renderBand(task)
			bounds := w.img.Bounds()
			result.Image = w.img.SubImage(image.Rect(bounds.Min.X, task.StartLine, bounds.Max.X, task.EndLine)).(*image.RGBA)
		}

		w.resultQueue <- result
	}
}

// renderBand writes the band's scanlines straight into the image rows
func (w *Worker) renderBand(task LineTask) {
	width, height := w.img.Bounds().Dx(), w.img.Bounds().Dy()

	for l := task.StartLine; l < task.EndLine; l++ {
		offset := w.img.PixOffset(0, l)
		for x, rgb := range w.scene.LineRGB8(width, height, l) {
			i := offset + 4*x
			w.img.Pix[i+0] = rgb[0]
			w.img.Pix[i+1] = rgb[1]
			w.img.Pix[i+2] = rgb[2]
			w.img.Pix[i+3] = 0xff
		}
	}
}

// NewBands splits height scanlines into consecutive bands of bandSize lines
func NewBands(height, bandSize int) []LineTask {
	var tasks []LineTask
	for start, id := 0, 0; start < height; start, id = start+bandSize, id+1 {
		tasks = append(tasks, LineTask{
			TaskID:    id,
			StartLine: start,
			EndLine:   min(start+bandSize, height),
		})
	}
	return tasks
}
