package svgicon

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/benoitkugler/svg2png/svgpath"
	"golang.org/x/image/math/fixed"
)

// PathStyle holds the state of the SVG style
type PathStyle struct {
	FillOpacity, LineOpacity float64
	// Opacity is the product of the opacity of the element
	// and of its ancestors
	Opacity           float64
	LineWidth         float64 // in user space
	UseNonZeroWinding bool
	Hidden            bool // visibility:hidden

	Join                    JoinOptions
	Dash                    DashOptions
	FillerColor, LinerColor svgpath.Pattern // either PlainColor or Gradient, nil for none

	// CurrentColor is the value of the color property
	CurrentColor color.NRGBA

	// not inherited properties
	transform   svgpath.Matrix2D
	opacity     float64
	displayNone bool
}

func fToFixed(f float64) fixed.Int26_6 { return svgpath.ToFixed(f) }

// DefaultStyle sets the default PathStyle to fill black, nonzero winding rule,
// full opacity, no stroke, ButtCap line end and Miter line connect.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	Opacity:           1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   fToFixed(4),
		LineJoin:     Miter,
		TrailLineCap: ButtCap,
	},
	FillerColor:  svgpath.NewPlainColor(0x00, 0x00, 0x00, 0xff),
	CurrentColor: color.NRGBA{A: 0xff},
	transform:    svgpath.Identity,
	opacity:      1,
}

// declaration is a property: value pair, either from a presentation
// attribute, a style sheet or a style attribute.
type declaration struct {
	property, value string
}

// parseDeclarations parses a CSS declaration block, such as the
// content of a style attribute.
func parseDeclarations(s string) []declaration {
	var out []declaration
	for _, pair := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
		if k == "" {
			continue
		}
		out = append(out, declaration{k, v})
	}
	return out
}

// inherit returns the style used as starting point for
// a child of an element with style `parent`
func (parent PathStyle) inherit() PathStyle {
	out := parent
	out.transform = svgpath.Identity
	out.opacity = 1
	out.displayNone = false
	return out
}

// declarations returns the properties of `el`, in this order: presentation attributes,
// style sheet rules, style attribute.
func (b *builder) declarations(el *Element) []declaration {
	decls := make([]declaration, 0, len(el.Attr))
	var inline string
	for _, attr := range el.Attr {
		if attr.Name.Local == "style" {
			inline = attr.Value
			continue
		}
		decls = append(decls, declaration{attr.Name.Local, strings.TrimSpace(attr.Value)})
	}
	decls = append(decls, b.sheet.match(el)...)
	return append(decls, parseDeclarations(inline)...)
}

// pushStyle computes the style of `el`, given the style of its parent.
func (b *builder) pushStyle(el *Element, parent PathStyle) (PathStyle, error) {
	decls := b.declarations(el)
	curStyle := parent.inherit()
	// color is needed to resolve currentColor
	for _, decl := range decls {
		if decl.property != "color" || decl.value == "inherit" {
			continue
		}
		if decl.value == "currentColor" {
			continue // no-op
		}
		col, err := parseSVGColor(decl.value, curStyle.CurrentColor)
		if err != nil {
			return curStyle, err
		}
		if col.valid {
			curStyle.CurrentColor = col.c
		}
	}
	for _, decl := range decls {
		if decl.value == "inherit" {
			continue
		}
		if err := b.readStyleAttr(&curStyle, decl.property, decl.value); err != nil {
			return curStyle, fmt.Errorf("invalid property %s=%q on <%s>: %s", decl.property, decl.value, el.Name.Local, err)
		}
	}
	curStyle.Opacity = parent.Opacity * curStyle.opacity
	return curStyle, nil
}

// parseOpacity accepts numbers and percentages, clamped to [0, 1]
func parseOpacity(v string) (float64, error) {
	op, err := readFraction(v)
	if err != nil {
		return 0, err
	}
	return math.Max(0, math.Min(1, op)), nil
}

// readPaint parses a fill or stroke value
func (b *builder) readPaint(v string, current color.NRGBA) (svgpath.Pattern, error) {
	if strings.HasPrefix(v, "url(") {
		end := strings.IndexByte(v, ')')
		if end == -1 {
			return nil, fmt.Errorf("invalid url reference %q", v)
		}
		ref := strings.Trim(strings.TrimSpace(v[4:end]), `"'`)
		if grad, ok := b.gradient(strings.TrimPrefix(ref, "#")); ok {
			return grad, nil
		}
		// use the fallback, if any
		fallback := strings.TrimSpace(v[end+1:])
		if fallback == "" {
			Logger().Debug("paint server not found", "ref", ref)
			return nil, nil
		}
		v = fallback
	}
	col, err := parseSVGColor(v, current)
	return col.asPattern(), err
}

func (b *builder) readStyleAttr(curStyle *PathStyle, k, v string) error {
	switch k {
	case "fill":
		p, err := b.readPaint(v, curStyle.CurrentColor)
		if err != nil {
			return err
		}
		curStyle.FillerColor = p
	case "stroke":
		p, err := b.readPaint(v, curStyle.CurrentColor)
		if err != nil {
			return err
		}
		curStyle.LinerColor = p
	case "fill-rule":
		switch v {
		case "evenodd":
			curStyle.UseNonZeroWinding = false
		case "nonzero":
			curStyle.UseNonZeroWinding = true
		default:
			return fmt.Errorf("unknown fill rule")
		}
	case "stroke-linegap":
		switch v {
		case "flat":
			curStyle.Join.LineGap = FlatGap
		case "round":
			curStyle.Join.LineGap = RoundGap
		case "cubic":
			curStyle.Join.LineGap = CubicGap
		case "quadratic":
			curStyle.Join.LineGap = QuadraticGap
		}
	case "stroke-leadlinecap":
		curStyle.Join.LeadLineCap = parseCap(v)
	case "stroke-linecap":
		if c := parseCap(v); c != NilCap {
			curStyle.Join.TrailLineCap = c
		}
	case "stroke-linejoin":
		switch v {
		case "miter":
			curStyle.Join.LineJoin = Miter
		case "miter-clip":
			curStyle.Join.LineJoin = MiterClip
		case "arc-clip":
			curStyle.Join.LineJoin = ArcClip
		case "round":
			curStyle.Join.LineJoin = Round
		case "arc":
			curStyle.Join.LineJoin = Arc
		case "bevel":
			curStyle.Join.LineJoin = Bevel
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		if mLimit < 1 {
			mLimit = 1
		}
		curStyle.Join.MiterLimit = fToFixed(mLimit)
	case "stroke-width":
		width, err := b.parseLength(v, diagonalPercentage)
		if err != nil {
			return err
		}
		if width < 0 {
			return fmt.Errorf("negative stroke width")
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := b.parseLength(v, diagonalPercentage)
		if err != nil {
			return err
		}
		curStyle.Dash.DashOffset = dashOffset
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := b.parseLength(dstr, diagonalPercentage)
			if err != nil {
				return err
			}
			if d < 0 {
				return fmt.Errorf("negative dash length")
			}
			dList[i] = d
		}
		if len(dList)%2 == 1 { // repeated to get an even number of values
			dList = append(dList, dList...)
		}
		curStyle.Dash.Dash = dList
	case "opacity":
		op, err := parseOpacity(v)
		if err != nil {
			return err
		}
		curStyle.opacity = op
	case "fill-opacity":
		op, err := parseOpacity(v)
		if err != nil {
			return err
		}
		curStyle.FillOpacity = op
	case "stroke-opacity":
		op, err := parseOpacity(v)
		if err != nil {
			return err
		}
		curStyle.LineOpacity = op
	case "display":
		curStyle.displayNone = v == "none"
	case "visibility":
		curStyle.Hidden = v == "hidden" || v == "collapse"
	case "transform":
		m, err := svgpath.ParseTransform(v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	}
	return nil
}

func parseCap(v string) CapMode {
	switch v {
	case "butt":
		return ButtCap
	case "round":
		return RoundCap
	case "square":
		return SquareCap
	case "cubic":
		return CubicCap
	case "quadratic":
		return QuadraticCap
	}
	return NilCap
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}
