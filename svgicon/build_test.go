package svgicon

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/benoitkugler/svg2png/svgpath"
)

func buildIcon(t *testing.T, s string, mode ErrorMode) *SvgIcon {
	t.Helper()
	icon, err := ReadIconStream(strings.NewReader(s), mode)
	if err != nil {
		t.Fatal(err)
	}
	return icon
}

// shapes returns the shapes of the icon, in painting order
func shapes(icon *SvgIcon) []Shape {
	var out []Shape
	icon.Root.Walk(func(n Node) {
		if s, ok := n.(Shape); ok {
			out = append(out, s)
		}
	})
	return out
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestIconShapes(t *testing.T) {
	icon := buildIcon(t, `<svg viewBox="0 0 200 100">
		<title>Icon</title>
		<desc>Some shapes</desc>
		<rect x="1" y="2" width="50%" height="50%" rx="3"/>
		<circle cx="5" cy="6" r="10%"/>
		<ellipse cx="1" cy="2" rx="4"/>
		<line x1="0" y1="0" x2="1in" y2="2mm"/>
		<polygon points="0,0 10,0 10,10"/>
		<polyline points="0 0 5 5"/>
		<path d="M 0 0 L 10 10 Z"/>
		<g id="group"><rect width="1" height="1"/></g>
	</svg>`, StrictErrorMode)

	if !icon.HasViewBox || icon.ViewBox != (Bounds{0, 0, 200, 100}) {
		t.Fatalf("unexpected viewBox %v", icon.ViewBox)
	}
	if !reflect.DeepEqual(icon.Titles, []string{"Icon"}) || !reflect.DeepEqual(icon.Descriptions, []string{"Some shapes"}) {
		t.Fatalf("unexpected title and description %q %q", icon.Titles, icon.Descriptions)
	}

	list := shapes(icon)
	if len(list) != 8 {
		t.Fatalf("expected 8 shapes, got %d", len(list))
	}
	rect := list[0].(*Rect)
	if rect.X != 1 || rect.Y != 2 || rect.Width != 100 || rect.Height != 50 || rect.Rx != 3 || rect.Ry != 3 {
		t.Errorf("unexpected rect %+v", rect)
	}
	circle := list[1].(*Circle)
	if !closeTo(circle.R, math.Sqrt(25000)/10) {
		t.Errorf("unexpected radius %g", circle.R)
	}
	ellipse := list[2].(*Ellipse)
	if ellipse.Rx != 4 || ellipse.Ry != 4 {
		t.Errorf("unexpected ellipse %+v", ellipse)
	}
	line := list[3].(*Line)
	if line.X2 != 96 || !closeTo(line.Y2, 2*96/25.4) {
		t.Errorf("unexpected line %+v", line)
	}
	if pl := list[4].(*Polyline); !pl.Closed || len(pl.Points) != 6 {
		t.Errorf("unexpected polygon %+v", pl)
	}
	if pl := list[5].(*Polyline); pl.Closed || len(pl.Points) != 4 {
		t.Errorf("unexpected polyline %+v", pl)
	}
	if p := list[6].(*PathNode); len(p.Path()) != 3 {
		t.Errorf("unexpected path %v", p.Path())
	}
	if parent := list[7].Parent(); parent == nil || parent.ID != "group" {
		t.Errorf("unexpected parent %v", parent)
	}
	if list[7].Parent().Parent() != icon.Root {
		t.Errorf("group should be a child of the root")
	}
}

func TestIconSkippedElements(t *testing.T) {
	icon := buildIcon(t, `<svg viewBox="0 0 10 10" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
		<defs><rect id="r" width="1" height="1"/></defs>
		<symbol id="s"><rect width="1" height="1"/></symbol>
		<metadata>data</metadata>
		<inkscape:custom/>
		<rect width="1" height="1" display="none"/>
		<g style="display:none"><rect width="1" height="1"/></g>
		<rect width="1" height="1" visibility="hidden"/>
	</svg>`, StrictErrorMode)
	list := shapes(icon)
	if len(list) != 1 {
		t.Fatalf("expected only the hidden rect, got %d shapes", len(list))
	}
	if !list[0].base().Style.Hidden {
		t.Fatalf("expected a hidden shape")
	}
}

func TestErrorMode(t *testing.T) {
	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	defer SetLogger(nil)

	for _, input := range []string{
		`<svg><text>Hello</text></svg>`,
		`<svg><unknownElement/></svg>`,
		`<svg><rect width="-1" height="1"/></svg>`,
		`<svg><rect width="abc" height="1"/></svg>`,
		`<svg><rect fill="notacolor" width="1" height="1"/></svg>`,
		`<svg><polyline points="0 0 1"/></svg>`,
		`<svg><path d="M 0 0 L 1"/></svg>`,
		`<svg><use href="#missing"/></svg>`,
		`<svg><use href="#"/></svg>`,
		`<svg><use href="other.svg#a"/></svg>`,
		`<svg><g id="a"><use href="#a"/></g></svg>`,
		`<svg><svg viewBox="0 0 0 1"/></svg>`,
	} {
		if _, err := ReadIconStream(strings.NewReader(input), StrictErrorMode); err == nil {
			t.Errorf("%s: expected an error in strict mode", input)
		}

		logs.Reset()
		if _, err := ReadIconStream(strings.NewReader(input), WarnErrorMode); err != nil {
			t.Errorf("%s: unexpected error %s", input, err)
		}
		if !strings.Contains(logs.String(), "svg content skipped") {
			t.Errorf("%s: expected a warning, got %q", input, logs.String())
		}

		if _, err := ReadIconStream(strings.NewReader(input), IgnoreErrorMode); err != nil {
			t.Errorf("%s: unexpected error %s", input, err)
		}
	}
}

func TestInvalidRootViewBox(t *testing.T) {
	_, err := ReadIconStream(strings.NewReader(`<svg viewBox="0 0 10 0"/>`), IgnoreErrorMode)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestPartialPath(t *testing.T) {
	icon := buildIcon(t, `<svg><polyline points="0 0 10 10 5"/><path d="M 0 0 L 10 10 L"/></svg>`, WarnErrorMode)
	list := shapes(icon)
	if len(list) != 2 {
		t.Fatalf("invalid shapes should be rendered up to the error, got %d shapes", len(list))
	}
	if pl := list[0].(*Polyline); len(pl.Points) != 4 {
		t.Errorf("unexpected points %v", pl.Points)
	}
}

// deviceTransform returns the cumulative transform of a shape
func deviceTransform(s Shape) func(x, y float64) (float64, float64) {
	m := s.base().Transform
	for g := s.Parent(); g != nil; g = g.Parent() {
		m = g.Transform.Mult(m)
	}
	return m.Transform
}

func TestNestedSVG(t *testing.T) {
	icon := buildIcon(t, `<svg viewBox="0 0 10 10">
		<svg x="5" y="5" width="5" height="5" viewBox="0 0 1 1">
			<rect width="100%" height="1"/>
		</svg>
	</svg>`, StrictErrorMode)
	list := shapes(icon)
	if len(list) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(list))
	}
	rect := list[0].(*Rect)
	if rect.Width != 1 {
		t.Errorf("percentages should refer to the inner viewBox, got width %g", rect.Width)
	}
	x, y := deviceTransform(rect)(1, 1)
	if !closeTo(x, 10) || !closeTo(y, 10) {
		t.Errorf("unexpected corner (%g, %g)", x, y)
	}
}

func TestUse(t *testing.T) {
	icon := buildIcon(t, `<svg xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 100 100">
		<defs>
			<rect id="r" width="10" height="10" fill="red"/>
			<symbol id="s" viewBox="0 0 1 1"><circle cx="0.5" cy="0.5" r="0.5"/></symbol>
		</defs>
		<use xlink:href="#r" x="20" y="30" fill="blue" transform="scale(2)"/>
		<use href="#s" width="50" height="50"/>
	</svg>`, StrictErrorMode)
	list := shapes(icon)
	if len(list) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(list))
	}

	rect := list[0].(*Rect)
	// the fill of the referenced element wins over the inherited one
	if c := rect.Style.FillerColor; c != svgpath.NewPlainColor(0xff, 0, 0, 0xff) {
		t.Errorf("unexpected fill %v", c)
	}
	x, y := deviceTransform(rect)(0, 0)
	if !closeTo(x, 40) || !closeTo(y, 60) {
		t.Errorf("unexpected origin (%g, %g)", x, y)
	}

	circle := list[1].(*Circle)
	x, y = deviceTransform(circle)(1, 1)
	if !closeTo(x, 50) || !closeTo(y, 50) {
		t.Errorf("unexpected symbol corner (%g, %g)", x, y)
	}
}

func TestUseCycle(t *testing.T) {
	icon := buildIcon(t, `<svg>
		<g id="a"><rect width="1" height="1"/><use href="#b"/></g>
		<g id="b"><use href="#a"/></g>
	</svg>`, IgnoreErrorMode)
	if n := len(shapes(icon)); n != 3 {
		t.Fatalf("expected 3 rects (one direct, two through <use>), got %d", n)
	}
}

func TestParseLength(t *testing.T) {
	b := builder{viewport: Bounds{W: 200, H: 100}}
	for _, test := range []struct {
		v   string
		ref percentageReference
		exp float64
	}{
		{"12", widthPercentage, 12},
		{" 12.5 ", widthPercentage, 12.5},
		{"1e1", widthPercentage, 10},
		{"2px", widthPercentage, 2},
		{"3pt", widthPercentage, 4},
		{"1pc", widthPercentage, 16},
		{"1in", widthPercentage, 96},
		{"2.54cm", widthPercentage, 96},
		{"25.4mm", widthPercentage, 96},
		{"1em", widthPercentage, 16},
		{"50%", widthPercentage, 100},
		{"50%", heightPercentage, 50},
		{"10%", diagonalPercentage, math.Sqrt(25000) / 10},
	} {
		got, err := b.parseLength(test.v, test.ref)
		if err != nil {
			t.Errorf("%q: %s", test.v, err)
		} else if !closeTo(got, test.exp) {
			t.Errorf("%q: expected %g, got %g", test.v, test.exp, got)
		}
	}
	for _, invalid := range []string{"", "px", "abc", "12kg", "NaN", "%"} {
		if _, err := b.parseLength(invalid, widthPercentage); err == nil {
			t.Errorf("%q: expected an error", invalid)
		}
	}
}
