package svgpath

import (
	"math"
	"reflect"
	"testing"

	"golang.org/x/image/math/fixed"
)

func pt(x, y float64) fixed.Point26_6 { return ToFixedP(x, y) }

func TestParseFloats(t *testing.T) {
	for _, test := range []struct {
		in       string
		expected []float64
	}{
		{"0 0 100 50", []float64{0, 0, 100, 50}},
		{"1,2 ,3", []float64{1, 2, 3}},
		{"10-5.5.5", []float64{10, -5.5, 0.5}},
		{"1e2 -3E-1", []float64{100, -0.3}},
		{"", nil},
	} {
		got, err := ParseFloats(test.in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %s", test.in, err)
		}
		if len(got) != len(test.expected) {
			t.Fatalf("for %q, expected %v, got %v", test.in, test.expected, got)
		}
		for i := range got {
			if math.Abs(got[i]-test.expected[i]) > 1e-9 {
				t.Errorf("for %q, expected %v, got %v", test.in, test.expected, got)
			}
		}
	}

	if _, err := ParseFloats("1 a"); err == nil {
		t.Error("expected error for invalid number")
	}
}

func TestParsePath(t *testing.T) {
	for _, test := range []struct {
		d        string
		expected Path
	}{
		{"M10 20 L30 40 Z", Path{MoveTo(pt(10, 20)), LineTo(pt(30, 40)), Close{}}},
		{"m1 1 2 2", Path{MoveTo(pt(1, 1)), LineTo(pt(3, 3))}},
		{"M0,0h10v10H0z", Path{
			MoveTo(pt(0, 0)), LineTo(pt(10, 0)), LineTo(pt(10, 10)), LineTo(pt(0, 10)), Close{},
		}},
		{"M0 0 Q5 5 10 0 T20 0", Path{
			MoveTo(pt(0, 0)), QuadTo{pt(5, 5), pt(10, 0)}, QuadTo{pt(15, -5), pt(20, 0)},
		}},
		{"M0 0 C0 5 10 5 10 0 s10 -5 10 0", Path{
			MoveTo(pt(0, 0)), CubicTo{pt(0, 5), pt(10, 5), pt(10, 0)}, CubicTo{pt(10, -5), pt(20, -5), pt(20, 0)},
		}},
		// a command after close restarts at the subpath start
		{"M5 5 L10 5 Z L5 10", Path{
			MoveTo(pt(5, 5)), LineTo(pt(10, 5)), Close{}, MoveTo(pt(5, 5)), LineTo(pt(5, 10)),
		}},
		// arc with a null radius is a line
		{"M0 0 A0 5 0 0 1 10 10", Path{MoveTo(pt(0, 0)), LineTo(pt(10, 10))}},
	} {
		got, err := ParsePath(test.d)
		if err != nil {
			t.Fatalf("unexpected error for %q: %s", test.d, err)
		}
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("for %q, expected\n%s\ngot\n%s", test.d, test.expected, got)
		}
	}
}

func TestParseArc(t *testing.T) {
	// half circle from (0,0) to (10,0), compact flags
	p, err := ParsePath("M0 0a5 5 0 0010 0")
	if err != nil {
		t.Fatal(err)
	}
	if len(p) < 2 {
		t.Fatalf("expected cubic splines, got %s", p)
	}
	last, ok := p[len(p)-1].(CubicTo)
	if !ok {
		t.Fatalf("expected a cubic, got %T", p[len(p)-1])
	}
	if last[2] != pt(10, 0) {
		t.Errorf("arc should end exactly at (10, 0), got %v", last[2])
	}
	bounds := p.Bounds()
	// the arc bulges by its radius on one side only
	height := float64(bounds.Max.Y-bounds.Min.Y) / 64
	if math.Abs(height-5) > 0.1 {
		t.Errorf("unexpected arc height %f", height)
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{
		"L10 10",
		"M10",
		"M0 0 L1",
		"M0 0 Z 3",
		"M 0 0 X 5",
		"junk M0 0",
	} {
		if _, err := ParsePath(d); err == nil {
			t.Errorf("expected error for %q", d)
		}
	}
	// data before the error is kept
	p, err := ParsePath("M0 0 L10 10 L5")
	if err == nil || len(p) != 2 {
		t.Errorf("expected partial path and error, got %s, %v", p, err)
	}
}

func TestParseTransform(t *testing.T) {
	for _, test := range []struct {
		v      string
		x, y   float64 // image of (1, 1)
		ex, ey float64
	}{
		{"translate(10,20)", 1, 1, 11, 21},
		{"translate(10)", 1, 1, 11, 1},
		{"translate(10,20) scale(2)", 1, 1, 12, 22},
		{"scale(2)", 1, 1, 2, 2},
		{"scale(2, 3)", 1, 1, 2, 3},
		{"rotate(90)", 1, 0, 0, 1},
		{"rotate(180, 1, 1)", 0, 0, 2, 2},
		{"matrix(1 0 0 1 5 6)", 0, 0, 5, 6},
		{"skewX(45)", 0, 1, 1, 1},
		{"", 3, 4, 3, 4},
	} {
		m, err := ParseTransform(test.v)
		if err != nil {
			t.Fatalf("unexpected error for %q: %s", test.v, err)
		}
		x, y := m.Transform(test.x, test.y)
		if math.Abs(x-test.ex) > 1e-9 || math.Abs(y-test.ey) > 1e-9 {
			t.Errorf("for %q, expected (%f, %f), got (%f, %f)", test.v, test.ex, test.ey, x, y)
		}
	}

	for _, v := range []string{"translate(1,2,3)", "foo(1)", "scale(2", "rotate()"} {
		if _, err := ParseTransform(v); err == nil {
			t.Errorf("expected error for %q", v)
		}
	}
}
