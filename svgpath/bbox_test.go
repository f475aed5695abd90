package svgpath

import (
	"math"
	"math/rand"
	"testing"

	"golang.org/x/image/math/fixed"
)

func randPoint(offsetx, offsety int) fixed.Point26_6 {
	x, y := rand.Intn(1100), rand.Intn(1000)
	return fixed.Point26_6{X: fixed.Int26_6(x + offsetx), Y: fixed.Int26_6(y + offsety)}
}

// sampleBounds approximates the bounding box by evaluating the curve
func sampleBounds(curve bezier) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for i := 0; i <= 1000; i++ {
		x, y := curve.evaluateCurve(float64(i) / 1000)
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	return
}

func TestBoundingBox(t *testing.T) {
	for range [100]int{} {
		a, b, c, d := randPoint(0, 0), randPoint(0, 0), randPoint(0, 0), randPoint(0, 0)
		for _, test := range []struct {
			path  Path
			curve bezier
		}{
			{Path{MoveTo(a), LineTo(b)}, line{a, b}},
			{Path{MoveTo(a), QuadTo{b, c}}, quadBezier{a, b, c}},
			{Path{MoveTo(a), CubicTo{b, c, d}}, cubicBezier{a, b, c, d}},
		} {
			box := test.path.Bounds()
			minX, minY, maxX, maxY := sampleBounds(test.curve)
			const tol = 0.05
			if math.Abs(float64(box.Min.X)/64-minX) > tol || math.Abs(float64(box.Min.Y)/64-minY) > tol ||
				math.Abs(float64(box.Max.X)/64-maxX) > tol || math.Abs(float64(box.Max.Y)/64-maxY) > tol {
				t.Errorf("path %s: bounds %v, sampled (%f %f %f %f)", test.path, box, minX, minY, maxX, maxY)
			}
		}
	}
}

func TestBoundsShapes(t *testing.T) {
	var p Path
	p.AddEllipse(50, 50, 20, 10)
	box := p.Bounds()
	if box.Min != pt(30, 40) || box.Max != pt(70, 60) {
		t.Errorf("unexpected ellipse bounds %v", box)
	}

	p.Clear()
	p.AddRoundRect(0, 0, 100, 40, 10, 80) // ry is clamped
	box = p.Bounds()
	if box.Min != pt(0, 0) || box.Max != pt(100, 40) {
		t.Errorf("unexpected rect bounds %v", box)
	}

	if (Path{}).Bounds() != (fixed.Rectangle26_6{}) {
		t.Error("expected empty bounds")
	}
}

func TestMatrix(t *testing.T) {
	m := Identity.Translate(10, 5).Scale(2, 4).Rotate(math.Pi / 3)
	inv := m.Invert()
	x, y := inv.Transform(m.Transform(3, 7))
	if math.Abs(x-3) > 1e-9 || math.Abs(y-7) > 1e-9 {
		t.Errorf("invert: got (%f, %f)", x, y)
	}
	if s := Identity.Scale(2, 8).MeanScale(); s != 4 {
		t.Errorf("expected mean scale 4, got %f", s)
	}
	if (Matrix2D{}).Invert() != Identity {
		t.Error("singular matrix should invert to identity")
	}

	var p Path
	p.AddRect(0, 0, 1, 1)
	got := p.Transform(Identity.Scale(10, 20))
	if b := got.Bounds(); b.Max != pt(10, 20) {
		t.Errorf("unexpected transformed bounds %v", b)
	}
}

func TestToFixed(t *testing.T) {
	const limit = fixed.Int26_6(MaxCoordinate * 64)
	for _, test := range []struct {
		f   float64
		exp fixed.Int26_6
	}{
		{1.5, 96},
		{-0.25, -16},
		{1. / 128, 1},
		{1e8, limit},
		{-1e30, -limit},
		{math.Inf(1), limit},
		{math.Inf(-1), -limit},
		{math.NaN(), 0},
	} {
		if got := ToFixed(test.f); got != test.exp {
			t.Errorf("%g: expected %d, got %d", test.f, test.exp, got)
		}
	}

	p := Identity.Scale(1e30, 1e30).TFixed(pt(2, -3))
	if p.X != limit || p.Y != -limit {
		t.Errorf("transformed point should be clamped, got %v", p)
	}
}
