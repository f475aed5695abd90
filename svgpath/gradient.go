package svgpath

import (
	"image/color"
)

// Pattern is either a PlainColor or a Gradient.
// A nil Pattern disables painting.
type Pattern interface {
	isPattern()
}

// PlainColor is an uniform, non premultiplied color.
type PlainColor struct {
	color.NRGBA
}

// NewPlainColor returns a PlainColor from its components.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{color.NRGBA{R: r, G: g, B: b, A: a}}
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern()   {}

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient
type Gradient struct {
	Direction GradientDirection
	Stops     []GradStop
	Bounds    struct{ X, Y, W, H float64 }
	Matrix    Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

// GradientDirection is either Linear or Radial
type GradientDirection interface {
	isRadial() bool
}

// Linear stores x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial stores cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// IsRadial returns true for radial gradients.
func (g Gradient) IsRadial() bool {
	return g.Direction != nil && g.Direction.isRadial()
}

// Points returns the direction of the gradient,
// as x1, y1, x2, y2 for linear gradients and
// cx, cy, fx, fy, r for radial ones. The focal radius is dropped.
func (g Gradient) Points() (out [5]float64) {
	switch dir := g.Direction.(type) {
	case Linear:
		copy(out[:], dir[:])
	case Radial:
		copy(out[:], dir[:5])
	}
	return out
}
