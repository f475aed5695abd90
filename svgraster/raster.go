// Implements a raster backend to render SVG images,
// by wrapping rasterx.
package svgraster

import (
	"fmt"
	"image"
	"math"

	"github.com/benoitkugler/svg2png/svgicon"
	"github.com/benoitkugler/svg2png/svgpath"
	"github.com/srwiley/rasterx"
)

// ErrInvalidGeometry is returned for null or negative output sizes.
var ErrInvalidGeometry = svgicon.ErrInvalidGeometry

var _ svgicon.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer paints into an image, using a rasterx.Filler for the fills
// and a rasterx.Dasher for the strokes. Both share the same scanner.
type Renderer struct {
	filler fillDrawer
	dasher strokeDrawer
}

// NewRenderer returns a renderer with default values.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{
		filler: fillDrawer{Filler: rasterx.NewFiller(width, height, scanner)},
		dasher: strokeDrawer{Dasher: rasterx.NewDasher(width, height, scanner)},
	}
}

// Rasterize paints the icon into a new, transparent image of size (width, height),
// using `m` to map the user space of the icon to pixels.
// Content outside of the image is clipped.
func Rasterize(icon *svgicon.SvgIcon, m svgpath.Matrix2D, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d", ErrInvalidGeometry, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := NewScanner(img, width, height)
	icon.Draw(NewRenderer(width, height, scanner), m)
	return img, nil
}

// SetupDrawers implements svgicon.Driver
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgicon.Filler, s svgicon.Stroker) {
	if willFill {
		f = &rd.filler
	}
	if willStroke {
		s = &rd.dasher
	}
	return f, s
}

type fillDrawer struct {
	*rasterx.Filler
	noPaint bool
}

func (fd *fillDrawer) SetColor(paint svgicon.Paint) {
	fd.noPaint = !setColorFromPaint(paint, fd.Filler.Scanner)
}

func (fd *fillDrawer) Draw() {
	if !fd.noPaint {
		fd.Filler.Draw()
	}
}

type strokeDrawer struct {
	*rasterx.Dasher
	noPaint bool
}

// Clear also resets the winding rule: outlines are always
// filled with the nonzero rule.
func (sd *strokeDrawer) Clear() {
	sd.Dasher.Clear()
	sd.Dasher.SetWinding(true)
}

func (sd *strokeDrawer) SetColor(paint svgicon.Paint) {
	sd.noPaint = !setColorFromPaint(paint, sd.Dasher.Scanner)
}

func (sd *strokeDrawer) Draw() {
	if !sd.noPaint {
		sd.Dasher.Draw()
	}
}

func (sd *strokeDrawer) SetStrokeOptions(options svgicon.StrokeOptions) {
	sd.Dasher.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], gapToFunc[options.Join.LineGap],
		joinToJoin[options.Join.LineJoin], options.Dash.Dash, options.Dash.DashOffset,
	)
}

func toRasterxGradient(grad svgpath.Gradient) rasterx.Gradient {
	// rasterx sorts the stops in place
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i := range grad.Stops {
		stops[i] = rasterx.GradStop(grad.Stops[i])
	}
	return rasterx.Gradient{
		Points:   grad.Points(), // in rasterx fr is ignored
		Stops:    stops,
		Bounds:   grad.Bounds,
		Matrix:   rasterx.Matrix2D(grad.Matrix),
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.GradientUnits(grad.Units),
		IsRadial: grad.IsRadial(),
	}
}

// setColorFromPattern resolves the paint and sets it on the scanner.
// It returns false if nothing should be painted.
func setColorFromPaint(paint svgicon.Paint, scanner rasterx.Scanner) bool {
	opacity := math.Max(0, math.Min(1, paint.Opacity))
	switch pattern := paint.Pattern.(type) {
	case svgpath.PlainColor:
		c := pattern.NRGBA
		c.A = uint8(math.Round(float64(c.A) * opacity))
		if c.A == 0 {
			return false
		}
		scanner.SetColor(c)
	case svgpath.Gradient:
		if len(pattern.Stops) < 2 {
			return false
		}
		grad := toRasterxGradient(pattern)
		objMatrix := rasterx.Identity
		if pattern.Units == svgpath.ObjectBoundingBox {
			fRect := paint.Bounds
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			if mxx <= mnx || mxy <= mny { // the bounding box is degenerated
				return false
			}
			grad.Bounds.X, grad.Bounds.Y = mnx, mny
			grad.Bounds.W, grad.Bounds.H = mxx-mnx, mxy-mny
		} else {
			objMatrix = rasterx.Matrix2D(paint.Transform)
		}
		scanner.SetColor(grad.GetColorFunctionUS(opacity, objMatrix))
	default:
		return false
	}
	return true
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgicon.Round:     rasterx.Round,
		svgicon.Bevel:     rasterx.Bevel,
		svgicon.Miter:     rasterx.Miter,
		svgicon.MiterClip: rasterx.MiterClip,
		svgicon.Arc:       rasterx.Arc,
		svgicon.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgicon.ButtCap:      rasterx.ButtCap,
		svgicon.SquareCap:    rasterx.SquareCap,
		svgicon.RoundCap:     rasterx.RoundCap,
		svgicon.CubicCap:     rasterx.CubicCap,
		svgicon.QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgicon.FlatGap:      rasterx.FlatGap,
		svgicon.RoundGap:     rasterx.RoundGap,
		svgicon.CubicGap:     rasterx.CubicGap,
		svgicon.QuadraticGap: rasterx.QuadraticGap,
	}
)
