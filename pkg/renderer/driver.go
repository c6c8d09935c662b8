package renderer

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// MouseSensitivity converts relative mouse motion in pixels to radians
const MouseSensitivity = 0.01

// CommandKind identifies a camera command
type CommandKind int

const (
	CommandForward CommandKind = iota
	CommandBack
	CommandRotate
)

// Command is a camera change applied between frames
type Command struct {
	Kind CommandKind
	X, Y float64 // Yaw and pitch in radians, CommandRotate only
}

// Forward moves the camera one step along its direction
func Forward() Command { return Command{Kind: CommandForward} }

// Back moves the camera one step against its direction
func Back() Command { return Command{Kind: CommandBack} }

// Rotate yaws by x and pitches by y radians
func Rotate(x, y float64) Command { return Command{Kind: CommandRotate, X: x, Y: y} }

// Apply performs the command on sc's camera
func (c Command) Apply(sc *scene.Scene) {
	switch c.Kind {
	case CommandForward:
		sc.MoveCameraForward()
	case CommandBack:
		sc.MoveCameraBack()
	case CommandRotate:
		sc.RotateCamera(c.X, c.Y)
	}
}

func (c Command) String() string {
	switch c.Kind {
	case CommandForward:
		return "forward"
	case CommandBack:
		return "back"
	case CommandRotate:
		return fmt.Sprintf("rotate(%g, %g)", c.X, c.Y)
	default:
		return "unknown"
	}
}

// ParseMoves parses a comma separated camera script. Each entry is one of
//
//	w          move forward
//	s          move back
//	r:X:Y      yaw X and pitch Y radians
//	m:DX:DY    relative mouse motion in pixels, scaled by MouseSensitivity
//
// An empty script yields no commands.
func ParseMoves(script string) ([]Command, error) {
	var cmds []Command
	for _, tok := range strings.Split(script, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		parts := strings.Split(tok, ":")
		switch strings.ToLower(parts[0]) {
		case "w", "forward":
			if len(parts) != 1 {
				return nil, fmt.Errorf("invalid move %q", tok)
			}
			cmds = append(cmds, Forward())
		case "s", "back":
			if len(parts) != 1 {
				return nil, fmt.Errorf("invalid move %q", tok)
			}
			cmds = append(cmds, Back())
		case "r", "m":
			if len(parts) != 3 {
				return nil, fmt.Errorf("invalid move %q: expected %s:X:Y", tok, parts[0])
			}
			x, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid move %q: %w", tok, err)
			}
			y, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid move %q: %w", tok, err)
			}
			if parts[0] == "m" {
				x, y = x*MouseSensitivity, y*MouseSensitivity
			}
			cmds = append(cmds, Rotate(x, y))
		default:
			return nil, fmt.Errorf("invalid move %q", tok)
		}
	}
	return cmds, nil
}

// FrameSink receives finished frames, e.g. to write them to disk or upload them
type FrameSink interface {
	WriteFrame(ctx context.Context, frame int, img image.Image) error
}

// FrameSinkFunc adapts a function to FrameSink
type FrameSinkFunc func(ctx context.Context, frame int, img image.Image) error

func (f FrameSinkFunc) WriteFrame(ctx context.Context, frame int, img image.Image) error {
	return f(ctx, frame, img)
}

// Driver runs the per-frame loop: apply queued camera commands, advance the
// scene animation, render a snapshot and hand the image to the sink.
// Commands may be queued from any goroutine.
type Driver struct {
	scene     *scene.Scene
	raytracer *Raytracer
	sink      FrameSink
	fps       *FPSCounter
	logger    core.Logger

	mu      sync.Mutex
	pending []Command
	frame   int
}

// NewDriver creates a driver. sink may be nil to discard frames.
func NewDriver(sc *scene.Scene, rt *Raytracer, sink FrameSink, logger core.Logger) *Driver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Driver{
		scene:     sc,
		raytracer: rt,
		sink:      sink,
		fps:       NewFPSCounter(10, logger),
		logger:    logger,
	}
}

// Queue adds camera commands to apply before the next frame
func (d *Driver) Queue(cmds ...Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, cmds...)
}

// Frame returns the number of frames rendered so far
func (d *Driver) Frame() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// RenderNext renders and presents one frame
func (d *Driver) RenderNext(ctx context.Context) (*image.RGBA, RenderStats, error) {
	d.mu.Lock()
	cmds := d.pending
	d.pending = nil
	frame := d.frame
	d.mu.Unlock()

	for _, cmd := range cmds {
		cmd.Apply(d.scene)
	}
	d.scene.Step()

	img, stats, err := d.raytracer.RenderFrame(ctx, d.scene, nil)
	if err != nil {
		return nil, stats, fmt.Errorf("frame %d: %w", frame, err)
	}

	if d.sink != nil {
		if err := d.sink.WriteFrame(ctx, frame, img); err != nil {
			return nil, stats, fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	d.mu.Lock()
	d.frame++
	d.mu.Unlock()
	d.fps.Tick()

	return img, stats, nil
}

// Run renders frames until n frames are done or ctx is cancelled. moves
// are queued one per frame, so a script plays back as an animation.
func (d *Driver) Run(ctx context.Context, n int, moves []Command) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i < len(moves) {
			d.Queue(moves[i])
		}
		if _, _, err := d.RenderNext(ctx); err != nil {
			return err
		}
	}
	return nil
}
