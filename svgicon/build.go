package svgicon

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/svg2png/svgpath"
)

// builder is used to compile a raw Document into a typed tree
type builder struct {
	mode ErrorMode
	icon *SvgIcon

	ids   map[string]*Element
	grads map[gradientKey]svgpath.Pattern // resolved paint servers, nil for empty gradients
	sheet styleSheet

	viewport Bounds     // used for percentages
	useStack []*Element // <use> targets being instantiated, to cut reference cycles
}

// Icon compiles the document into a typed tree.
// This only supports a sub-set of SVG, but
// is enough to draw many icons. `mode` determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the document.
// An invalid viewBox size is reported with an error wrapping ErrInvalidGeometry.
func (doc *Document) Icon(mode ErrorMode) (*SvgIcon, error) {
	b := builder{
		mode:  mode,
		icon:  &SvgIcon{},
		ids:   make(map[string]*Element),
		grads: make(map[gradientKey]svgpath.Pattern),
	}
	b.index(doc.Root)

	root := doc.Root
	b.icon.Width, _ = root.Get("width")
	b.icon.Height, _ = root.Get("height")
	vb, ok, err := doc.ViewBox()
	if err != nil {
		return nil, err
	}
	b.icon.ViewBox, b.icon.HasViewBox = vb, ok
	if ok {
		b.viewport = vb
	} else {
		b.viewport = Bounds{W: b.lengthAttr(root, "width", widthPercentage, 0), H: b.lengthAttr(root, "height", heightPercentage, 0)}
	}

	style, err := b.pushStyle(root, DefaultStyle)
	if err != nil {
		if err = mode.handleError(err); err != nil {
			return nil, err
		}
		style = DefaultStyle
	}
	b.icon.Root = &Group{nodeBase: nodeBase{Style: style, Transform: style.transform}}
	b.icon.Root.ID, _ = root.Get("id")
	if err := b.buildChildren(root, b.icon.Root); err != nil {
		return nil, err
	}
	return b.icon, nil
}

// index registers the elements with an id and
// the style sheets.
func (b *builder) index(el *Element) {
	if id, ok := el.Get("id"); ok && id != "" {
		if _, dup := b.ids[id]; !dup { // the first one wins
			b.ids[id] = el
		}
	}
	if el.Name.Local == "style" {
		b.sheet.parse(el.Text())
	}
	for _, child := range el.Children {
		if child, ok := child.(*Element); ok {
			b.index(child)
		}
	}
}

// lengthAttr returns the length value of the attribute `name`, or `defaut` if missing or invalid.
func (b *builder) lengthAttr(el *Element, name string, ref percentageReference, defaut float64) float64 {
	v, ok := el.Get(name)
	if !ok {
		return defaut
	}
	f, err := b.parseLength(v, ref)
	if err != nil {
		return defaut
	}
	return f
}

func (b *builder) buildChildren(el *Element, parent *Group) error {
	for _, child := range el.Children {
		child, ok := child.(*Element)
		if !ok {
			continue
		}
		if err := b.buildElement(child, parent); err != nil {
			return err
		}
	}
	return nil
}

// notRendered are never painted directly
var notRendered = map[string]bool{
	"defs":           true,
	"symbol":         true,
	"linearGradient": true,
	"radialGradient": true,
	"stop":           true,
	"style":          true,
	"metadata":       true,
}

func (b *builder) buildElement(el *Element, parent *Group) error {
	name := el.Name.Local
	if el.Name.Space != "" && el.Name.Space != "svg" {
		Logger().Debug("ignoring foreign element", "element", qualifiedName(el.Name))
		return nil
	}
	switch name {
	case "title":
		b.icon.Titles = append(b.icon.Titles, el.Text())
		return nil
	case "desc":
		b.icon.Descriptions = append(b.icon.Descriptions, el.Text())
		return nil
	}
	if notRendered[name] {
		return nil
	}

	style, err := b.pushStyle(el, parent.Style)
	if err != nil {
		return b.mode.handleError(err)
	}
	if style.displayNone {
		return nil
	}

	switch name {
	case "g", "a", "switch":
		group := &Group{nodeBase: b.newBase(el, style)}
		parent.append(group)
		return b.buildChildren(el, group)
	case "svg":
		return b.buildNestedSVG(el, style, parent)
	case "use":
		return b.buildUse(el, style, parent)
	}

	shape, err := b.buildShape(el, style)
	if err != nil {
		if err = b.mode.handleError(fmt.Errorf("<%s>: %w", name, err)); err != nil {
			return err
		}
	}
	if shape != nil {
		parent.append(shape)
	}
	return nil
}

func (b *builder) newBase(el *Element, style PathStyle) nodeBase {
	id, _ := el.Get("id")
	return nodeBase{ID: id, Style: style, Transform: style.transform}
}

// buildShape returns a nil shape for unsupported elements
func (b *builder) buildShape(el *Element, style PathStyle) (Shape, error) {
	base := b.newBase(el, style)
	var err error
	// length reads a length attribute, stopping at the first error
	length := func(name string, ref percentageReference) float64 {
		v, ok := el.Get(name)
		if !ok || err != nil {
			return 0
		}
		var f float64
		f, err = b.parseLength(v, ref)
		if err != nil {
			err = fmt.Errorf("invalid attribute %s=%q: %s", name, v, err)
		}
		return f
	}
	switch el.Name.Local {
	case "rect":
		r := &Rect{
			nodeBase: base,
			X:        length("x", widthPercentage),
			Y:        length("y", heightPercentage),
			Width:    length("width", widthPercentage),
			Height:   length("height", heightPercentage),
			Rx:       length("rx", widthPercentage),
			Ry:       length("ry", heightPercentage),
		}
		if err != nil {
			return nil, err
		}
		if r.Width < 0 || r.Height < 0 || r.Rx < 0 || r.Ry < 0 {
			return nil, fmt.Errorf("negative size")
		}
		// a missing radius takes the value of the other one
		if _, has := el.Get("rx"); !has {
			r.Rx = r.Ry
		}
		if _, has := el.Get("ry"); !has {
			r.Ry = r.Rx
		}
		return r, nil
	case "circle":
		c := &Circle{
			nodeBase: base,
			Cx:       length("cx", widthPercentage),
			Cy:       length("cy", heightPercentage),
			R:        length("r", diagonalPercentage),
		}
		if err != nil {
			return nil, err
		}
		if c.R < 0 {
			return nil, fmt.Errorf("negative radius")
		}
		return c, nil
	case "ellipse":
		e := &Ellipse{
			nodeBase: base,
			Cx:       length("cx", widthPercentage),
			Cy:       length("cy", heightPercentage),
			Rx:       length("rx", widthPercentage),
			Ry:       length("ry", heightPercentage),
		}
		if err != nil {
			return nil, err
		}
		if e.Rx < 0 || e.Ry < 0 {
			return nil, fmt.Errorf("negative radius")
		}
		if _, has := el.Get("rx"); !has {
			e.Rx = e.Ry
		}
		if _, has := el.Get("ry"); !has {
			e.Ry = e.Rx
		}
		return e, nil
	case "line":
		l := &Line{
			nodeBase: base,
			X1:       length("x1", widthPercentage),
			Y1:       length("y1", heightPercentage),
			X2:       length("x2", widthPercentage),
			Y2:       length("y2", heightPercentage),
		}
		if err != nil {
			return nil, err
		}
		return l, nil
	case "polyline", "polygon":
		v, _ := el.Get("points")
		points, err := svgpath.ParseFloats(v)
		if len(points)%2 != 0 { // render up to the error
			points = points[:len(points)-1]
			if err == nil {
				err = fmt.Errorf("odd number of coordinates")
			}
		}
		pl := &Polyline{nodeBase: base, Points: points, Closed: el.Name.Local == "polygon"}
		return pl, err
	case "path":
		d, _ := el.Get("d")
		path, err := svgpath.ParsePath(d)
		return &PathNode{nodeBase: base, D: path}, err
	case "text", "image", "filter", "mask", "clipPath", "foreignObject", "script",
		"pattern", "marker", "animate", "animateTransform", "animateMotion", "set":
		return nil, fmt.Errorf("unsupported element")
	default:
		return nil, fmt.Errorf("unknown element")
	}
}

// buildNestedSVG handles an inner <svg> element, which
// establishes a new viewport.
func (b *builder) buildNestedSVG(el *Element, style PathStyle, parent *Group) error {
	x := b.lengthAttr(el, "x", widthPercentage, 0)
	y := b.lengthAttr(el, "y", heightPercentage, 0)
	w := b.lengthAttr(el, "width", widthPercentage, b.viewport.W)
	h := b.lengthAttr(el, "height", heightPercentage, b.viewport.H)

	group := &Group{nodeBase: b.newBase(el, style)}
	group.Transform = group.Transform.Translate(x, y)

	savedViewport := b.viewport
	defer func() { b.viewport = savedViewport }()
	b.viewport = Bounds{W: w, H: h}

	if v, has := el.Get("viewBox"); has {
		vb, ok, err := parseViewBox(v)
		if err != nil { // disables rendering of the element
			return b.mode.handleError(err)
		}
		if ok {
			group.Transform = group.Transform.Mult(NormalizeTransform(vb, ok, w, h))
			b.viewport = vb
		}
	}
	parent.append(group)
	return b.buildChildren(el, group)
}

// buildUse instantiates the element referenced by a <use>
// as a new subtree.
func (b *builder) buildUse(el *Element, style PathStyle, parent *Group) error {
	href, _ := el.Get("href")
	if !strings.HasPrefix(href, "#") {
		return b.mode.handleError(fmt.Errorf("<use>: only local references are supported, got %q", href))
	}
	if href == "#" {
		return b.mode.handleError(fmt.Errorf("<use>: %w", errZeroLengthID))
	}
	ref, ok := b.ids[href[1:]]
	if !ok {
		return b.mode.handleError(fmt.Errorf("<use>: element %q not found", href))
	}
	for _, inProgress := range b.useStack {
		if inProgress == ref {
			return b.mode.handleError(fmt.Errorf("<use>: circular reference to %q", href))
		}
	}
	b.useStack = append(b.useStack, ref)
	defer func() { b.useStack = b.useStack[:len(b.useStack)-1] }()

	x := b.lengthAttr(el, "x", widthPercentage, 0)
	y := b.lengthAttr(el, "y", heightPercentage, 0)
	group := &Group{nodeBase: b.newBase(el, style)}
	group.Transform = group.Transform.Translate(x, y)
	parent.append(group)

	if ref.Name.Local != "symbol" {
		return b.buildElement(ref, group)
	}

	// a symbol is rendered like a nested svg
	symbolStyle, err := b.pushStyle(ref, style)
	if err != nil {
		return b.mode.handleError(err)
	}
	symbol := &Group{nodeBase: b.newBase(ref, symbolStyle)}
	if v, has := ref.Get("viewBox"); has {
		vb, ok, err := parseViewBox(v)
		if err != nil {
			return b.mode.handleError(err)
		}
		w := b.lengthAttr(el, "width", widthPercentage, b.viewport.W)
		h := b.lengthAttr(el, "height", heightPercentage, b.viewport.H)
		symbol.Transform = symbol.Transform.Mult(NormalizeTransform(vb, ok, w, h))
	}
	group.append(symbol)
	return b.buildChildren(ref, symbol)
}
