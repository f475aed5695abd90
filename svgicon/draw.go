package svgicon

import (
	"github.com/benoitkugler/svg2png/svgpath"
	"golang.org/x/image/math/fixed"
)

// Given a parsed SVG document, implements how to
// draw it on screen.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images.

// Paint describes the color of a path.
type Paint struct {
	Pattern svgpath.Pattern // PlainColor or Gradient
	Opacity float64

	// Bounds is the bounding box of the geometry in device space,
	// used by gradients with ObjectBoundingBox units.
	Bounds fixed.Rectangle26_6
	// Transform maps the user space of the element to
	// device space, used by gradients with UserSpaceOnUse units.
	Transform svgpath.Matrix2D
}

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG kwowledge
// In particular, tranformations matrix are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	svgpath.Adder

	// SetColor set the color for the current path
	SetColor(paint Paint)

	// Draw fills or strokes the accumulated path using the current settings
	// depending on the filling mode
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, the filler is used first, then the stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
// ArcClip mode is like MiterClip applied to arcs, and is not part of the SVG2.0
// standard.
const (
	Arc JoinMode = iota // New in SVG2
	Round
	Bevel
	Miter
	MiterClip // New in SVG2
	ArcClip   // Like MiterClip applied to arcs, and is not part of the SVG2.0 standard.
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	case MiterClip:
		return "MiterClip"
	case Arc:
		return "Arc"
	case ArcClip:
		return "ArcClip"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	NilCap CapMode = iota // default value
	ButtCap
	SquareCap
	RoundCap
	CubicCap     // Not part of the SVG2.0 standard.
	QuadraticCap // Not part of the SVG2.0 standard.
)

func (c CapMode) String() string {
	switch c {
	case NilCap:
		return "NilCap"
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	case CubicCap:
		return "CubicCap"
	case QuadraticCap:
		return "QuadraticCap"
	default:
		return "<unknown CapMode>"
	}
}

// GapMode defines how to bridge gaps when the miter limit is exceeded,
// and is not part of the SVG2.0 standard.
type GapMode uint8

const (
	NilGap GapMode = iota
	FlatGap
	RoundGap
	CubicGap
	QuadraticGap
)

type JoinOptions struct {
	MiterLimit   fixed.Int26_6 // the miter cutoff value for miter, arc, miterclip and arcClip joinModes
	LineJoin     JoinMode      // JoinMode for curve segments
	TrailLineCap CapMode       // capping functions for leading and trailing line ends. If one is nil, the other function is used at both ends.

	LeadLineCap CapMode // not part of the standard specification
	LineGap     GapMode // not part of the standard specification. determines how a gap on the convex side of two lines joining is filled
}

type StrokeOptions struct {
	LineWidth fixed.Int26_6 // width of the line, in device space
	Join      JoinOptions
	Dash      DashOptions // in device space
}

// Draw the compiled SVG icon into the driver `d`,
// using `m` to map the user space of the root element
// to device space.
// Nodes are painted in document order.
func (s *SvgIcon) Draw(d Driver, m svgpath.Matrix2D) {
	if s.Root != nil {
		s.Root.draw(d, m)
	}
}

func (g *Group) draw(d Driver, m svgpath.Matrix2D) {
	m = m.Mult(g.Transform)
	for _, child := range g.Children {
		switch child := child.(type) {
		case *Group:
			child.draw(d, m)
		case Shape:
			drawShape(d, child, m)
		}
	}
}

// drawShape draws the shape into the driver while applying transform m.
func drawShape(d Driver, shape Shape, m svgpath.Matrix2D) {
	base := shape.base()
	style := &base.Style
	if style.Hidden {
		return
	}
	m = m.Mult(base.Transform)

	willFill, willStroke := style.FillerColor != nil, style.LinerColor != nil && style.LineWidth > 0
	if !willFill && !willStroke {
		return
	}
	path := shape.Path().Transform(m)
	if len(path) == 0 {
		return
	}
	bounds := path.Bounds()

	filler, stroker := d.SetupDrawers(willFill, willStroke)
	if filler != nil { // nil color disable filling
		filler.Clear()
		filler.SetWinding(style.UseNonZeroWinding)
		path.AddTo(filler, svgpath.Identity)
		filler.SetColor(Paint{
			Pattern:   style.FillerColor,
			Opacity:   style.FillOpacity * style.Opacity,
			Bounds:    bounds,
			Transform: m,
		})
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil color disable lining
		stroker.Clear()
		stroker.SetStrokeOptions(style.strokeOptions(m.MeanScale()))
		path.AddTo(stroker, svgpath.Identity)
		stroker.SetColor(Paint{
			Pattern:   style.LinerColor,
			Opacity:   style.LineOpacity * style.Opacity,
			Bounds:    bounds,
			Transform: m,
		})
		stroker.Draw()
	}
}

// strokeOptions resolves the default caps and gaps,
// and scales the lengths by `scale`.
func (style *PathStyle) strokeOptions(scale float64) StrokeOptions {
	lineGap := style.Join.LineGap
	if lineGap == NilGap {
		lineGap = FlatGap
	}
	lineCap := style.Join.TrailLineCap
	if lineCap == NilCap {
		lineCap = ButtCap
	}
	leadLineCap := lineCap
	if style.Join.LeadLineCap != NilCap {
		leadLineCap = style.Join.LeadLineCap
	}
	var dash DashOptions
	if len(style.Dash.Dash) != 0 {
		dash.Dash = make([]float64, len(style.Dash.Dash))
		for i, v := range style.Dash.Dash {
			dash.Dash[i] = v * scale
		}
		dash.DashOffset = style.Dash.DashOffset * scale
	}
	return StrokeOptions{
		LineWidth: fToFixed(style.LineWidth * scale),
		Join: JoinOptions{
			MiterLimit:   style.Join.MiterLimit,
			LineJoin:     style.Join.LineJoin,
			LeadLineCap:  leadLineCap,
			TrailLineCap: lineCap,
			LineGap:      lineGap,
		},
		Dash: dash,
	}
}
