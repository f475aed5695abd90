package svgicon

import (
	"image/color"
	"math"
	"strings"

	"github.com/benoitkugler/svg2png/svgpath"
)

func isGradient(el *Element) bool {
	return el != nil && (el.Name.Local == "linearGradient" || el.Name.Local == "radialGradient")
}

// gradientKey identifies a resolved gradient: percentages
// depend on the viewport referencing it.
type gradientKey struct {
	id       string
	viewport Bounds
}

// gradient resolves the paint server with the given id.
// The returned pattern is nil for gradients without stops,
// and a PlainColor for gradients with one stop.
func (b *builder) gradient(id string) (svgpath.Pattern, bool) {
	key := gradientKey{id, b.viewport}
	if p, ok := b.grads[key]; ok {
		return p, true
	}
	el := b.ids[id]
	if !isGradient(el) {
		return nil, false
	}

	// follow the href chain: attributes and stops not
	// defined are inherited
	attrs := make(map[string]string)
	var stops []*Element
	visited := make(map[*Element]bool)
	for cur := el; isGradient(cur) && !visited[cur]; {
		visited[cur] = true
		for _, attr := range cur.Attr {
			if _, set := attrs[attr.Name.Local]; !set {
				attrs[attr.Name.Local] = attr.Value
			}
		}
		if stops == nil {
			for _, child := range cur.Children {
				if child, ok := child.(*Element); ok && child.Name.Local == "stop" {
					stops = append(stops, child)
				}
			}
		}
		href, has := cur.Get("href")
		if !has {
			break
		}
		cur = b.ids[strings.TrimPrefix(href, "#")]
	}

	grad := svgpath.Gradient{Matrix: svgpath.Identity}
	grad.Bounds.X, grad.Bounds.Y = b.viewport.X, b.viewport.Y
	grad.Bounds.W, grad.Bounds.H = b.viewport.W, b.viewport.H
	if attrs["gradientUnits"] == "userSpaceOnUse" {
		grad.Units = svgpath.UserSpaceOnUse
	}
	switch attrs["spreadMethod"] {
	case "reflect":
		grad.Spread = svgpath.ReflectSpread
	case "repeat":
		grad.Spread = svgpath.RepeatSpread
	}
	if v, ok := attrs["gradientTransform"]; ok {
		m, err := svgpath.ParseTransform(v)
		if err != nil {
			Logger().Debug("ignoring invalid gradientTransform", "value", v, "error", err)
		} else {
			grad.Matrix = m
		}
	}

	// coord reads a gradient coordinate: fractions of the bounding box
	// for ObjectBoundingBox, lengths for UserSpaceOnUse
	coord := func(name string, ref percentageReference, defaut string) float64 {
		read := b.parseLength
		if grad.Units == svgpath.ObjectBoundingBox {
			read = func(v string, _ percentageReference) (float64, error) { return readFraction(v) }
		}
		if v, ok := attrs[name]; ok {
			f, err := read(v, ref)
			if err == nil {
				return f
			}
			Logger().Debug("invalid gradient coordinate", "attribute", name, "value", v)
		}
		f, _ := read(defaut, ref)
		return f
	}

	if el.Name.Local == "linearGradient" {
		grad.Direction = svgpath.Linear{
			coord("x1", widthPercentage, "0%"),
			coord("y1", heightPercentage, "0%"),
			coord("x2", widthPercentage, "100%"),
			coord("y2", heightPercentage, "0%"),
		}
	} else {
		cx, cy := coord("cx", widthPercentage, "50%"), coord("cy", heightPercentage, "50%")
		dir := svgpath.Radial{cx, cy, cx, cy, coord("r", diagonalPercentage, "50%"), coord("fr", diagonalPercentage, "0%")}
		if _, ok := attrs["fx"]; ok {
			dir[2] = coord("fx", widthPercentage, "50%")
		}
		if _, ok := attrs["fy"]; ok {
			dir[3] = coord("fy", heightPercentage, "50%")
		}
		grad.Direction = dir
	}

	var pattern svgpath.Pattern
	grad.Stops = b.readStops(stops)
	switch len(grad.Stops) {
	case 0: // painted as none
	case 1:
		s := grad.Stops[0]
		c := s.StopColor.(color.NRGBA)
		c.A = uint8(math.Round(s.Opacity * 255))
		pattern = svgpath.PlainColor{NRGBA: c}
	default:
		pattern = grad
	}
	b.grads[key] = pattern
	return pattern, true
}

// readStops returns stops with opaque colors,
// the alpha being stored in the opacity.
// Offsets are clamped and made increasing.
func (b *builder) readStops(stops []*Element) []svgpath.GradStop {
	out := make([]svgpath.GradStop, 0, len(stops))
	lastOffset := 0.
	for _, el := range stops {
		stop := svgpath.GradStop{StopColor: color.NRGBA{A: 0xff}, Opacity: 1}
		current := color.NRGBA{A: 0xff}
		decls := b.declarations(el)
		for _, decl := range decls {
			if decl.property == "color" {
				if col, err := parseSVGColor(decl.value, current); err == nil && col.valid {
					current = col.c
				}
			}
		}
		var alpha uint8 = 0xff
		for _, decl := range decls {
			switch decl.property {
			case "offset":
				f, err := readFraction(decl.value)
				if err != nil {
					Logger().Debug("invalid stop offset", "value", decl.value)
					continue
				}
				stop.Offset = f
			case "stop-color":
				col, err := parseSVGColor(decl.value, current)
				if err != nil {
					Logger().Debug("invalid stop color", "value", decl.value)
					continue
				}
				c := col.asColor()
				alpha = c.A
				c.A = 0xff
				stop.StopColor = c
			case "stop-opacity":
				op, err := parseOpacity(decl.value)
				if err != nil {
					Logger().Debug("invalid stop opacity", "value", decl.value)
					continue
				}
				stop.Opacity = op
			}
		}
		stop.Opacity *= float64(alpha) / 255
		stop.Offset = math.Max(lastOffset, math.Min(1, stop.Offset))
		lastOffset = stop.Offset
		out = append(out, stop)
	}
	return out
}
