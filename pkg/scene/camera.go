package scene

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Camera is the viewer pose. Direction is expected to be unit length; its
// magnitude sets both the move step and the width of the field of view.
type Camera struct {
	Position  core.Vec3
	Direction core.Vec3
	Up        core.Vec3
}

// NewCamera creates a camera pose
func NewCamera(position, direction, up core.Vec3) Camera {
	return Camera{Position: position, Direction: direction, Up: up}
}

// MoveForward advances the position by the direction vector
func (c *Camera) MoveForward() {
	c.Position = c.Position.Add(c.Direction)
}

// MoveBack retreats the position by the direction vector
func (c *Camera) MoveBack() {
	c.Position = c.Position.Subtract(c.Direction)
}

// Rotate yaws the direction about Y by xRot, then pitches it by yRot about
// the camera's own horizontal axis. Pitch is done by turning the direction
// into the YZ plane, rotating about X and turning it back, so the pitch
// axis does not depend on the current yaw. Pitch is not clamped.
func (c *Camera) Rotate(xRot, yRot float64) {
	dir := c.Direction.RotateY(xRot)

	// Signed angle between the XZ projection and +Z
	proj := core.NewVec3(dir.X, 0, dir.Z).Normalize()
	angle := math.Acos(math.Max(-1, math.Min(1, proj.Z)))
	if proj.X < 0 {
		angle = -angle
	}

	dir = dir.RotateY(-angle)
	dir = dir.RotateX(yRot)
	dir = dir.RotateY(angle)

	c.Direction = dir.Normalize()
}

// RayFrame holds the image plane geometry for one resolution
type RayFrame struct {
	Origin    core.Vec3 // Camera position, origin of every primary ray
	TopLeft   core.Vec3 // Unnormalized direction of the top-left image corner
	RightStep core.Vec3 // Offset between horizontally adjacent pixels
	DownStep  core.Vec3 // Offset between vertically adjacent scanlines
	Width     int
	Height    int
}

// Frame derives the image plane for an h×v image. The plane spans ±1 along
// the camera's left and up axes at one direction length in front of it.
func (c Camera) Frame(h, v int) RayFrame {
	left := c.Direction.Cross(c.Up).Normalize()
	up := left.Cross(c.Direction).Normalize()

	return RayFrame{
		Origin:    c.Position,
		TopLeft:   left.Add(up).Add(c.Direction),
		RightStep: left.Multiply(-2.0 / float64(h)),
		DownStep:  up.Multiply(-2.0 / float64(v)),
		Width:     h,
		Height:    v,
	}
}

// LineStart returns the accumulator for scanline l, before its first pixel
func (f RayFrame) LineStart(l int) core.Vec3 {
	return f.TopLeft.Add(f.DownStep.Multiply(float64(l)))
}

// Directions returns the normalized primary ray directions for scanline l.
// Each pixel advances the accumulator by one step before it is read.
func (f RayFrame) Directions(l int) []core.Vec3 {
	dirs := make([]core.Vec3, f.Width)
	point := f.LineStart(l)
	for x := range dirs {
		point = point.Add(f.RightStep)
		dirs[x] = point.Normalize()
	}
	return dirs
}
