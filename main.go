package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/df07/go-phong-raytracer/pkg/export"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

type options struct {
	sceneName  string
	scenesDir  string
	resolution int
	width      int
	height     int
	frames     int
	workers    int
	band       int
	scale      int
	outDir     string
	moves      string
	upload     bool
	envFile    string
	saveScene  string
	list       bool
	help       bool
}

func parseOptions(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.sceneName, "scene", "default", "Built-in scene name, json:<name> or a path to a .json scene file")
	fs.StringVar(&opts.scenesDir, "scenes", "scenes", "Directory searched for .json scene files")
	fs.IntVar(&opts.resolution, "resolution", 512, "Square render resolution")
	fs.IntVar(&opts.width, "width", 0, "Render width (overrides -resolution)")
	fs.IntVar(&opts.height, "height", 0, "Render height (overrides -resolution)")
	fs.IntVar(&opts.frames, "frames", 1, "Number of frames to render")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.band, "band", renderer.DefaultConfig().BandSize, "Scanlines per worker task")
	fs.IntVar(&opts.scale, "scale", 0, "Stretch saved frames to this square size (0 = render size)")
	fs.StringVar(&opts.outDir, "out", "output", "Output directory; frames go to <out>/<scene>/")
	fs.StringVar(&opts.moves, "moves", "", "Camera script applied one entry per frame, e.g. w,w,s,r:0.1:0,m:10:-4")
	fs.BoolVar(&opts.upload, "upload", false, "Also upload frames to S3 (configured by S3_* variables)")
	fs.StringVar(&opts.envFile, "env", ".env", "Environment file loaded before reading S3_* variables")
	fs.StringVar(&opts.saveScene, "save-scene", "", "Write the selected scene as JSON to this path and exit")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if opts.width <= 0 {
		opts.width = opts.resolution
	}
	if opts.height <= 0 {
		opts.height = opts.resolution
	}
	if opts.frames <= 0 {
		return opts, fs, fmt.Errorf("-frames must be positive, got %d", opts.frames)
	}
	return opts, fs, nil
}

// sceneDirName turns a scene name into a directory name for its frames
func sceneDirName(name string) string {
	name = strings.TrimPrefix(name, "json:")
	name = strings.TrimSuffix(filepath.Base(name), ".json")
	return name
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Phong Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(w, "  %-14s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Frames are saved to <out>/<scene>/frame_NNNN.png")
}

func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	logger := renderer.NewDefaultLogger()

	sc, err := loaders.ResolveScene(opts.sceneName, opts.scenesDir)
	if err != nil {
		return err
	}

	if opts.saveScene != "" {
		if err := loaders.SaveScene(opts.saveScene, sc); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Scene saved as %s\n", opts.saveScene)
		return nil
	}

	moves, err := renderer.ParseMoves(opts.moves)
	if err != nil {
		return err
	}

	rt, err := renderer.NewRaytracer(renderer.Config{
		Width:      opts.width,
		Height:     opts.height,
		NumWorkers: opts.workers,
		BandSize:   opts.band,
	}, logger)
	if err != nil {
		return err
	}

	outputDir := filepath.Join(opts.outDir, sceneDirName(opts.sceneName))
	fileSink, err := export.NewFileSink(outputDir, opts.scale)
	if err != nil {
		return err
	}
	sinks := []renderer.FrameSink{fileSink}

	if opts.upload {
		cfg := export.S3ConfigFromEnv()
		client, err := export.NewS3Client(cfg)
		if err != nil {
			return err
		}
		s3Sink, err := export.NewS3Sink(client, cfg, opts.scale, logger)
		if err != nil {
			return err
		}
		sinks = append(sinks, s3Sink)
	}

	sink := renderer.FrameSinkFunc(func(ctx context.Context, frame int, img image.Image) error {
		for _, s := range sinks {
			if err := s.WriteFrame(ctx, frame, img); err != nil {
				return err
			}
		}
		return nil
	})

	cfg := rt.Config()
	fmt.Fprintf(stdout, "Rendering %q at %dx%d with %d workers, %d frame(s)...\n",
		opts.sceneName, cfg.Width, cfg.Height, cfg.NumWorkers, opts.frames)

	driver := renderer.NewDriver(sc, rt, sink, logger)
	if err := driver.Run(ctx, opts.frames, moves); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Saved %d frame(s) to %s\n", driver.Frame(), outputDir)
	return nil
}

func main() {
	opts, fs, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.help {
		printHelp(os.Stdout, fs)
		return
	}

	// A missing .env file is fine; variables may come from the environment
	_ = godotenv.Load(opts.envFile)

	if opts.list {
		if err := listScenes(os.Stdout, opts.scenesDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
