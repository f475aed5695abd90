package svgraster

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// subScanlines is the number of samples per pixel row
const subScanlines = 16

var _ rasterx.Scanner = (*Scanner)(nil) // assert interface conformance

// edge is a segment of the path, oriented top to bottom
type edge struct {
	x0, y0, y1 float64
	slope      float64 // dx/dy
	dir        int     // +1 if the original segment goes down, -1 otherwise
}

func (e edge) xAt(y float64) float64 { return e.x0 + (y-e.y0)*e.slope }

type crossing struct {
	x   float64
	dir int
}

// Scanner accumulates line segments and fills the enclosed area,
// according to the nonzero or even-odd winding rule.
// Coverage is computed with 16 samples per pixel row and
// exact horizontal coverage, then composited onto Dest with
// the alpha-over operator.
// Segments are not implicitly closed: the caller (a rasterx.Filler)
// is responsible for closing sub-paths.
type Scanner struct {
	Dest draw.Image

	width, height int
	clip          image.Rectangle
	nonZero       bool
	source        image.Image

	edges   []edge
	current fixed.Point26_6
	extent  fixed.Rectangle26_6
	empty   bool // no point added since the last Clear

	mask      *image.Alpha
	cover     []float64
	delta     []float64
	active    []edge
	crossings []crossing
}

// NewScanner returns a scanner drawing into `dest`, restricted
// to the rectangle (0, 0, width, height).
func NewScanner(dest draw.Image, width, height int) *Scanner {
	s := &Scanner{Dest: dest, nonZero: true, source: image.NewUniform(color.Black)}
	s.SetBounds(width, height)
	return s
}

// SetBounds sets the maximum width and height of the rasterized image,
// in pixels, and clears the accumulated path.
func (s *Scanner) SetBounds(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width, s.height = width, height
	s.mask = image.NewAlpha(image.Rect(0, 0, width, height))
	s.cover = make([]float64, width+2)
	s.delta = make([]float64, width+2)
	s.Clear()
}

// SetClip restricts rendering to `rect`. An empty rectangle
// removes the clip.
func (s *Scanner) SetClip(rect image.Rectangle) { s.clip = rect }

// SetWinding selects the nonzero (true) or even-odd (false) rule.
func (s *Scanner) SetWinding(useNonZeroWinding bool) { s.nonZero = useNonZeroWinding }

// SetColor accepts a color.Color or a rasterx.ColorFunc.
func (s *Scanner) SetColor(clr interface{}) {
	switch c := clr.(type) {
	case rasterx.ColorFunc:
		s.source = colorFuncImage(c)
	case color.Color:
		s.source = image.NewUniform(c)
	}
}

// Clear removes the accumulated segments.
func (s *Scanner) Clear() {
	s.edges = s.edges[:0]
	s.current = fixed.Point26_6{}
	s.extent = fixed.Rectangle26_6{}
	s.empty = true
}

func (s *Scanner) addPoint(p fixed.Point26_6) {
	if s.empty {
		s.extent = fixed.Rectangle26_6{Min: p, Max: p}
		s.empty = false
		return
	}
	if p.X < s.extent.Min.X {
		s.extent.Min.X = p.X
	}
	if p.X > s.extent.Max.X {
		s.extent.Max.X = p.X
	}
	if p.Y < s.extent.Min.Y {
		s.extent.Min.Y = p.Y
	}
	if p.Y > s.extent.Max.Y {
		s.extent.Max.Y = p.Y
	}
}

// Start moves the current point to `a`, without adding a segment.
func (s *Scanner) Start(a fixed.Point26_6) {
	s.current = a
	s.addPoint(a)
}

// Line adds a segment from the current point to `b`.
func (s *Scanner) Line(b fixed.Point26_6) {
	a := s.current
	s.current = b
	s.addPoint(b)
	if a.Y == b.Y { // horizontal segments never cross a sample line
		return
	}
	ax, ay := float64(a.X)/64, float64(a.Y)/64
	bx, by := float64(b.X)/64, float64(b.Y)/64
	e := edge{dir: 1}
	if ay > by {
		ax, ay, bx, by = bx, by, ax, ay
		e.dir = -1
	}
	e.x0, e.y0, e.y1 = ax, ay, by
	e.slope = (bx - ax) / (by - ay)
	s.edges = append(s.edges, e)
}

// GetPathExtent returns the bounding box of the points added
// since the last Clear.
func (s *Scanner) GetPathExtent() fixed.Rectangle26_6 { return s.extent }

// drawingBounds returns the pixels which may be touched by the
// current path.
func (s *Scanner) drawingBounds() image.Rectangle {
	bounds := image.Rect(0, 0, s.width, s.height)
	if s.Dest != nil {
		bounds = bounds.Intersect(s.Dest.Bounds())
	}
	if !s.clip.Empty() {
		bounds = bounds.Intersect(s.clip)
	}
	if s.empty {
		return image.Rectangle{}
	}
	ext := image.Rect(
		s.extent.Min.X.Floor(), s.extent.Min.Y.Floor(),
		s.extent.Max.X.Ceil(), s.extent.Max.Y.Ceil(),
	)
	return bounds.Intersect(ext)
}

// addSpan adds the coverage of [xa, xb[ on one sample line,
// clamped to [minX, maxX[
func (s *Scanner) addSpan(xa, xb float64, minX, maxX int) {
	xa = math.Max(xa, float64(minX))
	xb = math.Min(xb, float64(maxX))
	if xb <= xa {
		return
	}
	const weight = 1. / subScanlines
	ia, ib := int(math.Floor(xa)), int(math.Floor(xb))
	ia, ib = ia-minX, ib-minX // relative to the row start
	xa, xb = xa-float64(minX), xb-float64(minX)
	if ia == ib {
		s.cover[ia] += (xb - xa) * weight
		return
	}
	s.cover[ia] += (float64(ia+1) - xa) * weight
	s.delta[ia+1] += weight
	s.delta[ib] -= weight
	s.cover[ib] += (xb - float64(ib)) * weight
}

func (s *Scanner) isInside(winding int) bool {
	if s.nonZero {
		return winding != 0
	}
	return winding%2 != 0
}

// Draw fills the accumulated path onto Dest with the current color.
// The path is kept until Clear is called.
func (s *Scanner) Draw() {
	rect := s.drawingBounds()
	if rect.Empty() || len(s.edges) == 0 || s.Dest == nil {
		return
	}
	sort.Slice(s.edges, func(i, j int) bool { return s.edges[i].y0 < s.edges[j].y0 })

	w := rect.Dx()
	next := 0
	active := s.active[:0]
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for i := 0; i <= w; i++ {
			s.cover[i], s.delta[i] = 0, 0
		}
		for sub := 0; sub < subScanlines; sub++ {
			y := float64(py) + (float64(sub)+0.5)/subScanlines

			for next < len(s.edges) && s.edges[next].y0 <= y {
				active = append(active, s.edges[next])
				next++
			}
			crossings := s.crossings[:0]
			kept := active[:0]
			for _, e := range active {
				if e.y1 <= y {
					continue
				}
				kept = append(kept, e)
				crossings = append(crossings, crossing{x: e.xAt(y), dir: e.dir})
			}
			active = kept
			sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

			winding := 0
			for i, c := range crossings {
				winding += c.dir
				if i+1 < len(crossings) && s.isInside(winding) {
					s.addSpan(c.x, crossings[i+1].x, rect.Min.X, rect.Max.X)
				}
			}
			s.crossings = crossings
		}

		var acc float64
		row := s.mask.Pix[s.mask.PixOffset(rect.Min.X, py):]
		for i := 0; i < w; i++ {
			acc += s.delta[i]
			cov := s.cover[i] + acc
			row[i] = uint8(math.Round(math.Max(0, math.Min(1, cov)) * 255))
		}
	}
	s.active = active[:0]

	draw.DrawMask(s.Dest, rect, s.source, rect.Min, s.mask, rect.Min, draw.Over)

	// reset the mask for the next path
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		row := s.mask.Pix[s.mask.PixOffset(rect.Min.X, py):]
		for i := 0; i < w; i++ {
			row[i] = 0
		}
	}
}

// colorFuncImage exposes a color function as an infinite image
type colorFuncImage rasterx.ColorFunc

func (colorFuncImage) ColorModel() color.Model { return color.NRGBAModel }

func (colorFuncImage) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (f colorFuncImage) At(x, y int) color.Color { return f(x, y) }
