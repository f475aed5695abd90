package svgicon

import (
	"io"
	"os"

	"github.com/benoitkugler/svg2png/svgpath"
)

// SvgIcon holds data from parsed SVGs.
// See the `Draw` methods to use it.
type SvgIcon struct {
	ViewBox    Bounds
	HasViewBox bool // false if the viewBox was missing or ignored

	Width, Height string // top level width and height attributes

	Root *Group

	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here
}

// ReadIconStream reads the Icon from the given io.Reader
// This only supports a sub-set of SVG, but
// is enough to draw many icons. errMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
func ReadIconStream(stream io.Reader, errMode ErrorMode) (*SvgIcon, error) {
	doc, err := Parse(stream)
	if err != nil {
		return nil, err
	}
	return doc.Icon(errMode)
}

// ReadIcon reads the Icon from the named file
func ReadIcon(iconFile string, errMode ErrorMode) (*SvgIcon, error) {
	fin, err := os.Open(iconFile)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return ReadIconStream(fin, errMode)
}

// Node is an element of the typed tree: either a *Group
// or a Shape.
type Node interface {
	base() *nodeBase
	// Parent returns the enclosing group, or nil for the root.
	Parent() *Group
}

// Shape is a node with a geometry.
type Shape interface {
	Node
	// Path returns the outline of the shape, in its own user space.
	Path() svgpath.Path
}

type nodeBase struct {
	ID        string
	Style     PathStyle
	Transform svgpath.Matrix2D // local transform, applied after the ancestors ones

	parent *Group
}

func (n *nodeBase) base() *nodeBase { return n }

func (n *nodeBase) Parent() *Group { return n.parent }

// Group is a container (<g>, <svg>, <a>, instantiated <use>).
type Group struct {
	nodeBase
	Children []Node
}

func (g *Group) append(n Node) {
	n.base().parent = g
	g.Children = append(g.Children, n)
}

// Walk calls fn for every node of the tree rooted at g,
// in document order, parents before children.
func (g *Group) Walk(fn func(Node)) {
	fn(g)
	for _, child := range g.Children {
		if sub, ok := child.(*Group); ok {
			sub.Walk(fn)
		} else {
			fn(child)
		}
	}
}

// PathNode is a <path> element.
type PathNode struct {
	nodeBase
	D svgpath.Path
}

func (p *PathNode) Path() svgpath.Path { return p.D }

// Rect is a <rect> element, with optional rounded corners.
type Rect struct {
	nodeBase
	X, Y, Width, Height float64
	Rx, Ry              float64
}

func (r *Rect) Path() svgpath.Path {
	var p svgpath.Path
	if r.Width <= 0 || r.Height <= 0 {
		return p
	}
	p.AddRoundRect(r.X, r.Y, r.X+r.Width, r.Y+r.Height, r.Rx, r.Ry)
	return p
}

// Circle is a <circle> element.
type Circle struct {
	nodeBase
	Cx, Cy, R float64
}

func (c *Circle) Path() svgpath.Path {
	var p svgpath.Path
	if c.R <= 0 {
		return p
	}
	p.AddEllipse(c.Cx, c.Cy, c.R, c.R)
	return p
}

// Ellipse is an <ellipse> element.
type Ellipse struct {
	nodeBase
	Cx, Cy, Rx, Ry float64
}

func (e *Ellipse) Path() svgpath.Path {
	var p svgpath.Path
	if e.Rx <= 0 || e.Ry <= 0 {
		return p
	}
	p.AddEllipse(e.Cx, e.Cy, e.Rx, e.Ry)
	return p
}

// Line is a <line> element.
type Line struct {
	nodeBase
	X1, Y1, X2, Y2 float64
}

func (l *Line) Path() svgpath.Path {
	var p svgpath.Path
	p.Start(svgpath.ToFixedP(l.X1, l.Y1))
	p.Line(svgpath.ToFixedP(l.X2, l.Y2))
	return p
}

// Polyline is a <polyline> or a <polygon> element.
type Polyline struct {
	nodeBase
	Points []float64 // x, y pairs
	Closed bool      // true for <polygon>
}

func (pl *Polyline) Path() svgpath.Path {
	var p svgpath.Path
	p.AddPolyline(pl.Points, pl.Closed)
	return p
}
