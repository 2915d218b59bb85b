package engine

import (
	"math"

	"github.com/vovakirdan/cubefall/internal/core"
)

// Axis selects the rotation axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// ValidAngle reports whether degrees is a non-zero multiple of 90.
func ValidAngle(degrees int) bool {
	return degrees != 0 && degrees%90 == 0
}

// Rotate returns the shape rotated about the pivot by degrees around axis,
// using right-handed rotation matrices. Each component is rounded to the
// nearest integer, which removes the floating point error of sin/cos at
// multiples of 90 degrees. The receiver is not modified.
func (s Shape) Rotate(axis Axis, degrees int) Shape {
	sin, cos := math.Sincos(float64(degrees) * math.Pi / 180)
	out := s
	for i, b := range s.Blocks {
		out.Blocks[i] = rotateVec(b, axis, sin, cos)
	}
	return out
}

func rotateVec(v core.Vec3, axis Axis, sin, cos float64) core.Vec3 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	switch axis {
	case AxisX:
		y, z = y*cos-z*sin, y*sin+z*cos
	case AxisY:
		x, z = x*cos+z*sin, -x*sin+z*cos
	case AxisZ:
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	return core.V(roundInt(x), roundInt(y), roundInt(z))
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
