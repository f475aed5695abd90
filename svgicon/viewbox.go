package svgicon

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/benoitkugler/svg2png/svgpath"
)

// ErrInvalidGeometry is returned for degenerated viewBox or output sizes.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// Warning signals a recoverable issue with a document.
// It implements error for convenience, but is never returned as one.
type Warning uint8

const (
	NoWarning Warning = iota
	// MissingViewBoxGuessed is emitted when the viewBox has been
	// deduced from the width and height attributes.
	MissingViewBoxGuessed
	// MissingViewBoxUnresolvable is emitted when the document
	// can't be resized since it has no viewBox.
	MissingViewBoxUnresolvable
)

func (w Warning) Error() string {
	switch w {
	case NoWarning:
		return "no warning"
	case MissingViewBoxGuessed:
		return "Missing viewBox in svg file, one was guessed using width and height"
	case MissingViewBoxUnresolvable:
		return "Missing viewBox in svg file, the svg will not be resized"
	default:
		return fmt.Sprintf("<unknown Warning %d>", uint8(w))
	}
}

func (w Warning) String() string { return w.Error() }

// parseDimension accepts plain positive numbers only:
// "100px" or "50%" are rejected.
func parseDimension(v string, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ResolveViewBox fixes a missing viewBox on the root element, when
// `allowFix` is true, using its width and height attributes, if they are numbers.
// It then always sets the width and height attributes to the given ones.
// The returned warning is NoWarning if the document has a viewBox.
func (doc *Document) ResolveViewBox(width, height float64, allowFix bool) Warning {
	root := doc.Root
	warning := NoWarning
	if _, has := root.Get("viewBox"); !has {
		w, okW := parseDimension(root.Get("width"))
		h, okH := parseDimension(root.Get("height"))
		if allowFix && okW && okH {
			root.Set("viewBox", "0 0 "+formatFloat(w)+" "+formatFloat(h))
			warning = MissingViewBoxGuessed
		} else {
			warning = MissingViewBoxUnresolvable
		}
	}
	root.Set("width", formatFloat(width))
	root.Set("height", formatFloat(height))
	return warning
}

// ViewBox reads the viewBox of the root element.
// `ok` is false if it is missing or malformed, in which case
// it should be ignored.
// An error wrapping ErrInvalidGeometry is returned for
// null or negative sizes.
func (doc *Document) ViewBox() (vb Bounds, ok bool, err error) {
	v, has := doc.Root.Get("viewBox")
	if !has {
		return Bounds{}, false, nil
	}
	return parseViewBox(v)
}

func parseViewBox(v string) (Bounds, bool, error) {
	points, err := svgpath.ParseFloats(v)
	if err != nil || len(points) != 4 {
		Logger().Debug("ignoring malformed viewBox", "viewBox", v)
		return Bounds{}, false, nil
	}
	vb := Bounds{X: points[0], Y: points[1], W: points[2], H: points[3]}
	if vb.W <= 0 || vb.H <= 0 {
		return vb, false, fmt.Errorf("%w: viewBox %q has a null or negative size", ErrInvalidGeometry, v)
	}
	return vb, true, nil
}

// NormalizeTransform returns the transformation mapping the viewBox to
// the rectangle (0, 0, width, height). The X and Y scales are independent,
// so that the aspect ratio is not preserved.
// When `ok` is false, the identity is returned.
func NormalizeTransform(vb Bounds, ok bool, width, height float64) svgpath.Matrix2D {
	if !ok {
		return svgpath.Identity
	}
	scaleX, scaleY := width/vb.W, height/vb.H
	return svgpath.Matrix2D{A: scaleX, D: scaleY, E: -vb.X * scaleX, F: -vb.Y * scaleY}
}
