package svgicon

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svg2png/svgpath"
	"golang.org/x/image/colornames"
)

// optionnalColor is the result of a color parsing,
// where valid is false for 'none'
type optionnalColor struct {
	c     color.NRGBA
	valid bool
}

func (o optionnalColor) asPattern() svgpath.Pattern {
	if !o.valid {
		return nil
	}
	return svgpath.PlainColor{NRGBA: o.c}
}

// asColor returns a transparent color for 'none'
func (o optionnalColor) asColor() color.NRGBA {
	if !o.valid {
		return color.NRGBA{}
	}
	return o.c
}

func parseHexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// parseHexColor parses the 3, 4, 6 or 8 digits following '#'
func parseHexColor(v string) (color.NRGBA, error) {
	digits := make([]uint8, len(v))
	for i := range v {
		d, ok := parseHexDigit(v[i])
		if !ok {
			return color.NRGBA{}, fmt.Errorf("invalid hex color #%s", v)
		}
		digits[i] = d
	}
	switch len(digits) {
	case 3, 4:
		c := color.NRGBA{digits[0] * 17, digits[1] * 17, digits[2] * 17, 0xff}
		if len(digits) == 4 {
			c.A = digits[3] * 17
		}
		return c, nil
	case 6, 8:
		c := color.NRGBA{digits[0]<<4 | digits[1], digits[2]<<4 | digits[3], digits[4]<<4 | digits[5], 0xff}
		if len(digits) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
		return c, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color #%s", v)
	}
}

func clampToByte(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, f))))
}

// parseColorComponent parses an integer or a percentage in [0, 255]
func parseColorComponent(v string) (uint8, error) {
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, err
		}
		return clampToByte(f * 255 / 100), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return clampToByte(f), nil
}

// parseFunctionalColor parses the arguments of rgb() and rgba(),
// separated by commas or spaces, with an optional '/' before the alpha.
func parseFunctionalColor(args string) (color.NRGBA, error) {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid color arguments (%s)", args)
	}
	var (
		c   = color.NRGBA{A: 0xff}
		err error
	)
	if c.R, err = parseColorComponent(fields[0]); err != nil {
		return c, err
	}
	if c.G, err = parseColorComponent(fields[1]); err != nil {
		return c, err
	}
	if c.B, err = parseColorComponent(fields[2]); err != nil {
		return c, err
	}
	if len(fields) == 4 {
		a, err := readFraction(fields[3])
		if err != nil {
			return c, err
		}
		c.A = clampToByte(a * 255)
	}
	return c, nil
}

// parseSVGColor parses a color value, as found in fill, stroke,
// color or stop-color properties.
// `current` is used to resolve 'currentColor'.
func parseSVGColor(v string, current color.NRGBA) (optionnalColor, error) {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	switch lower {
	case "none", "":
		return optionnalColor{}, nil
	case "transparent":
		return optionnalColor{valid: true}, nil
	case "currentcolor":
		return optionnalColor{c: current, valid: true}, nil
	}
	if strings.HasPrefix(v, "#") {
		c, err := parseHexColor(v[1:])
		return optionnalColor{c: c, valid: err == nil}, err
	}
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		start, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
		if end < start {
			return optionnalColor{}, fmt.Errorf("invalid color %s", v)
		}
		c, err := parseFunctionalColor(v[start+1 : end])
		return optionnalColor{c: c, valid: err == nil}, err
	}
	if named, ok := colornames.Map[lower]; ok {
		// named colors are opaque
		return optionnalColor{c: color.NRGBA(named), valid: true}, nil
	}
	return optionnalColor{}, fmt.Errorf("unsupported color %s", v)
}

// ParseColor parses a CSS color, such as "#fff", "rgb(0, 0, 0)" or "white".
// "none" and "currentColor" are rejected.
func ParseColor(v string) (color.NRGBA, error) {
	if strings.EqualFold(strings.TrimSpace(v), "currentColor") {
		return color.NRGBA{}, fmt.Errorf("unsupported color %s", v)
	}
	c, err := parseSVGColor(v, color.NRGBA{})
	if err != nil {
		return color.NRGBA{}, err
	}
	if !c.valid {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", v)
	}
	return c.c, nil
}
