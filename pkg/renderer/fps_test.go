package renderer

import (
	"fmt"
	"math"
	"testing"
	"time"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestFPSCounter(t *testing.T) {
	logger := &recordingLogger{}
	counter := NewFPSCounter(4, logger)

	clock := time.Unix(100, 0)
	counter.start = clock
	counter.now = func() time.Time { return clock }

	for i := 1; i <= 3; i++ {
		clock = clock.Add(250 * time.Millisecond)
		if _, reported := counter.Tick(); reported {
			t.Fatalf("Unexpected report after %d frames", i)
		}
	}

	clock = clock.Add(250 * time.Millisecond)
	fps, reported := counter.Tick()
	if !reported {
		t.Fatal("Expected a report after 4 frames")
	}
	if math.Abs(fps-4) > 1e-9 {
		t.Errorf("Expected 4 fps, got %f", fps)
	}
	if len(logger.lines) != 1 {
		t.Errorf("Expected one log line, got %v", logger.lines)
	}

	// The window restarts after each report
	for i := 0; i < 4; i++ {
		clock = clock.Add(500 * time.Millisecond)
		fps, reported = counter.Tick()
	}
	if !reported || math.Abs(fps-2) > 1e-9 {
		t.Errorf("Expected a second report of 2 fps, got %f (reported=%v)", fps, reported)
	}
}
