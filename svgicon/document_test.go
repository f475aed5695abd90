package svgicon

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func parseString(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"<svg",
		"<svg><g></svg>",
		"<svg></g>",
		"<rect width='10'/>",
		"<svg/><svg/>",
		"text<svg/>",
		"<svg width='10></svg>",
		"not xml at all",
	} {
		_, err := Parse(strings.NewReader(input))
		if !errors.Is(err, ErrInvalidSVG) {
			t.Errorf("%q: expected ErrInvalidSVG, got %v", input, err)
		}
	}
}

func TestParseTree(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0"?>
<!-- generator -->
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 10 10">
	<title>A &amp; B</title>
	<use xlink:href="#r"/>
</svg>
`)
	if doc.Root.Name.Local != "svg" {
		t.Fatalf("unexpected root %v", doc.Root.Name)
	}
	var elements []*Element
	for _, c := range doc.Root.Children {
		if el, ok := c.(*Element); ok {
			elements = append(elements, el)
		}
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 children, got %d", len(elements))
	}
	if got := elements[0].Text(); got != "A & B" {
		t.Fatalf("unexpected title %q", got)
	}
	use := elements[1]
	if href, _ := use.Get("href"); href != "#r" {
		t.Fatalf("unexpected href %q", href)
	}
	if use.Attr[0].Name.Space != "xlink" {
		t.Fatalf("expected prefix to be kept, got %v", use.Attr[0].Name)
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	input := `<!-- generator --><svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" data="a&lt;b&quot;c"><g><text>x &amp; y</text><use xlink:href="#a"/></g></svg>`
	doc := parseString(t, input)
	out := doc.Bytes()
	if !bytes.HasPrefix(out, []byte("<!-- generator -->\n")) {
		t.Fatalf("missing comment in %s", out)
	}
	if !bytes.Contains(out, []byte(`xlink:href="#a"`)) {
		t.Fatalf("missing prefixed attribute in %s", out)
	}

	doc2 := parseString(t, string(out))
	if v, _ := doc2.Root.Get("data"); v != `a<b"c` {
		t.Fatalf("unexpected attribute value %q", v)
	}
	if got := doc2.Root.Text(); got != "x & y" {
		t.Fatalf("unexpected text %q", got)
	}
	if out2 := doc2.Bytes(); !bytes.Equal(out, out2) {
		t.Fatalf("serialization is not stable:\n%s\n%s", out, out2)
	}
}

func TestParseCharset(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><title>caf\xe9</title></svg>"
	doc := parseString(t, input)
	icon, err := doc.Icon(StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	if len(icon.Titles) != 1 || icon.Titles[0] != "café" {
		t.Fatalf("unexpected titles %q", icon.Titles)
	}
	// the output is always UTF-8, without the encoding declaration
	if out := doc.Bytes(); bytes.Contains(out, []byte("ISO-8859-1")) || !bytes.Contains(out, []byte("café")) {
		t.Fatalf("unexpected serialization %s", out)
	}
}

func TestResolveViewBox(t *testing.T) {
	tests := []struct {
		root     string
		allowFix bool
		warning  Warning
		viewBox  string // empty for missing
	}{
		{`<svg viewBox="0 0 5 5" width="10" height="10"/>`, true, NoWarning, "0 0 5 5"},
		{`<svg viewBox="0 0 5 5"/>`, false, NoWarning, "0 0 5 5"},
		{`<svg width="10" height="5"/>`, true, MissingViewBoxGuessed, "0 0 10 5"},
		{`<svg width="10.5" height="5"/>`, true, MissingViewBoxGuessed, "0 0 10.5 5"},
		{`<svg width="10" height="5"/>`, false, MissingViewBoxUnresolvable, ""},
		{`<svg width="10px" height="5"/>`, true, MissingViewBoxUnresolvable, ""},
		{`<svg width="100%" height="5"/>`, true, MissingViewBoxUnresolvable, ""},
		{`<svg width="10"/>`, true, MissingViewBoxUnresolvable, ""},
		{`<svg width="0" height="5"/>`, true, MissingViewBoxUnresolvable, ""},
		{`<svg/>`, true, MissingViewBoxUnresolvable, ""},
	}
	for _, test := range tests {
		doc := parseString(t, test.root)
		if w := doc.ResolveViewBox(20, 30, test.allowFix); w != test.warning {
			t.Errorf("%s: expected warning %v, got %v", test.root, test.warning, w)
		}
		vb, has := doc.Root.Get("viewBox")
		if test.viewBox == "" && has {
			t.Errorf("%s: unexpected viewBox %q", test.root, vb)
		} else if vb != test.viewBox {
			t.Errorf("%s: expected viewBox %q, got %q", test.root, test.viewBox, vb)
		}
		if w, _ := doc.Root.Get("width"); w != "20" {
			t.Errorf("%s: unexpected width %q", test.root, w)
		}
		if h, _ := doc.Root.Get("height"); h != "30" {
			t.Errorf("%s: unexpected height %q", test.root, h)
		}
	}
}

func TestViewBox(t *testing.T) {
	tests := []struct {
		viewBox string
		ok      bool
		invalid bool
		vb      Bounds
	}{
		{"0 0 10 20", true, false, Bounds{0, 0, 10, 20}},
		{"-5,-5,10,10", true, false, Bounds{-5, -5, 10, 10}},
		{" 1  2 3 4 ", true, false, Bounds{1, 2, 3, 4}},
		{"0 0 10", false, false, Bounds{}},
		{"a b c d", false, false, Bounds{}},
		{"0 0 0 10", false, true, Bounds{}},
		{"0 0 10 -1", false, true, Bounds{}},
	}
	for _, test := range tests {
		doc := parseString(t, `<svg viewBox="`+test.viewBox+`"/>`)
		vb, ok, err := doc.ViewBox()
		if test.invalid {
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("%q: expected ErrInvalidGeometry, got %v", test.viewBox, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %s", test.viewBox, err)
		}
		if ok != test.ok || (ok && vb != test.vb) {
			t.Errorf("%q: expected %v %v, got %v %v", test.viewBox, test.vb, test.ok, vb, ok)
		}
	}

	_, ok, err := parseString(t, `<svg/>`).ViewBox()
	if ok || err != nil {
		t.Fatalf("missing viewBox should be ignored, got %v %v", ok, err)
	}
}

func TestNormalizeTransform(t *testing.T) {
	vb := Bounds{X: 10, Y: 20, W: 100, H: 50}
	m := NormalizeTransform(vb, true, 200, 200)
	for _, p := range [][4]float64{
		{10, 20, 0, 0},
		{110, 70, 200, 200},
		{60, 45, 100, 100},
	} {
		x, y := m.Transform(p[0], p[1])
		if math.Abs(x-p[2]) > 1e-9 || math.Abs(y-p[3]) > 1e-9 {
			t.Errorf("(%g, %g) mapped to (%g, %g), expected (%g, %g)", p[0], p[1], x, y, p[2], p[3])
		}
	}

	m = NormalizeTransform(vb, false, 200, 200)
	if x, y := m.Transform(3, 4); x != 3 || y != 4 {
		t.Fatalf("expected identity, got %v", m)
	}
}
