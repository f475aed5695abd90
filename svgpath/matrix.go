package svgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D represents an SVG style matrix
// applying the mapping
//
//	x' = A x + C y + E
//	y' = B x + D y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a*b
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Invert returns the inverse matrix, or the identity
// if `a` is not invertible.
func (a Matrix2D) Invert() Matrix2D {
	det := a.Determinant()
	if det == 0 {
		return Identity
	}
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}
}

// Determinant returns AD - BC
func (a Matrix2D) Determinant() float64 { return a.A*a.D - a.B*a.C }

// MeanScale returns the geometric mean of the scaling factors
// of `a`, used to scale stroke widths.
func (a Matrix2D) MeanScale() float64 {
	return math.Sqrt(math.Abs(a.Determinant()))
}

// Transform applies the matrix to the point (x1, y1)
func (a Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*a.A + y1*a.C + a.E
	y2 = x1*a.B + y1*a.D + a.F
	return
}

// TransformVector applies the matrix to the vector (x1, y1),
// ignoring the translation.
func (a Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*a.A + y1*a.C
	y2 = x1*a.B + y1*a.D
	return
}

// TFixed applies the matrix to a fixed point,
// rounding to the nearest 1/64.
func (a Matrix2D) TFixed(x fixed.Point26_6) fixed.Point26_6 {
	fx, fy := a.Transform(float64(x.X)/64, float64(x.Y)/64)
	return ToFixedP(fx, fy)
}

// Scale returns a * scale(x, y)
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: x, D: y})
}

// Translate returns a * translate(x, y)
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Rotate returns a * rotate(theta), with theta in radians
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{A: cos, B: sin, C: -sin, D: cos})
}

// SkewX returns a * skewX(theta), with theta in radians
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, C: math.Tan(theta), D: 1})
}

// SkewY returns a * skewY(theta), with theta in radians
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, B: math.Tan(theta), D: 1})
}

// trMove, trLine, trQuad and trCubic apply the matrix to operations.

func (a Matrix2D) trMove(op MoveTo) fixed.Point26_6 {
	return a.TFixed(fixed.Point26_6(op))
}

func (a Matrix2D) trLine(op LineTo) fixed.Point26_6 {
	return a.TFixed(fixed.Point26_6(op))
}

func (a Matrix2D) trQuad(op QuadTo) (fixed.Point26_6, fixed.Point26_6) {
	return a.TFixed(op[0]), a.TFixed(op[1])
}

func (a Matrix2D) trCubic(op CubicTo) (fixed.Point26_6, fixed.Point26_6, fixed.Point26_6) {
	return a.TFixed(op[0]), a.TFixed(op[1]), a.TFixed(op[2])
}
