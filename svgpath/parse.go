package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errParamMismatch  = errors.New("svgpath: param mismatch")
	errCommandUnknown = errors.New("svgpath: unknown command")
	errNoMoveTo       = errors.New("svgpath: path data must start with a moveto")
)

// pathCursor is used while compiling SVG path data.
type pathCursor struct {
	path Path

	points []float64

	placeX, placeY         float64 // current point
	cntlPtX, cntlPtY       float64 // last control point, for smooth curves
	pathStartX, pathStartY float64
	lastKey                byte
	inPath                 bool // false at start, and after a close command
}

// ParsePath compiles the path data `d` (the content of the `d` attribute
// of a path element).
// In case of error, the returned path holds the commands read so far,
// which is how SVG renderers are expected to handle broken data.
func ParsePath(d string) (Path, error) {
	var c pathCursor
	err := c.compilePath(d)
	return c.path, err
}

// isCommand returns true for the SVG path commands letters.
// 'e' and 'E' are used in exponents, and never are commands.
func isCommand(r byte) bool {
	switch r {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v',
		'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

func (c *pathCursor) compilePath(v string) error {
	start := -1
	for i := 0; i < len(v); i++ {
		if !isCommand(v[i]) {
			continue
		}
		if start != -1 {
			if err := c.addSeg(v[start], v[start+1:i]); err != nil {
				return err
			}
		} else if strings.TrimSpace(v[:i]) != "" {
			return fmt.Errorf("svgpath: unexpected data before first command: %q", v[:i])
		}
		start = i
	}
	if start == -1 {
		if strings.TrimSpace(v) != "" {
			return errNoMoveTo
		}
		return nil
	}
	return c.addSeg(v[start], v[start+1:])
}

// readNumber reads the float starting at s[i:], after skipping separators.
// It returns the index following the number.
func readNumber(s string, i int) (float64, int, error) {
	i = skipSeparators(s, i)
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	var seenDigit, seenDot bool
	for ; i < len(s); i++ {
		ch := s[i]
		if '0' <= ch && ch <= '9' {
			seenDigit = true
		} else if ch == '.' && !seenDot {
			seenDot = true
		} else {
			break
		}
	}
	if !seenDigit {
		return 0, i, fmt.Errorf("svgpath: invalid number in %q", s)
	}
	// exponent
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && '0' <= s[k] && s[k] <= '9' {
			k++
		}
		if k > j { // only accept complete exponents
			i = k
		}
	}
	f, err := strconv.ParseFloat(s[start:i], 64)
	return f, i, err
}

// readFlag reads a single '0' or '1', used by arcs, which may be
// written without separators.
func readFlag(s string, i int) (float64, int, error) {
	i = skipSeparators(s, i)
	if i < len(s) {
		switch s[i] {
		case '0':
			return 0, i + 1, nil
		case '1':
			return 1, i + 1, nil
		}
	}
	return 0, i, fmt.Errorf("svgpath: invalid arc flag in %q", s)
}

func skipSeparators(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', ',', '\t', '\n', '\r', '\f':
			i++
		default:
			return i
		}
	}
	return i
}

// getPoints reads the numbers in `dataPoints`, handling
// the compact syntax of SVG: "10-5.5.5" is read as [10, -5.5, 0.5].
// If `arcFlags` is true, the 4th and 5th of every 7 numbers are read
// as single digit flags.
func (c *pathCursor) getPoints(dataPoints string, arcFlags bool) error {
	c.points = c.points[:0]
	for i := skipSeparators(dataPoints, 0); i < len(dataPoints); i = skipSeparators(dataPoints, i) {
		var (
			f   float64
			err error
		)
		if pos := len(c.points) % 7; arcFlags && (pos == 3 || pos == 4) {
			f, i, err = readFlag(dataPoints, i)
		} else {
			f, i, err = readNumber(dataPoints, i)
		}
		if err != nil {
			return err
		}
		c.points = append(c.points, f)
	}
	return nil
}

// ParseFloats reads a list of numbers separated by commas and/or spaces,
// such as the ones found in viewBox or points attributes.
func ParseFloats(s string) ([]float64, error) {
	var c pathCursor
	err := c.getPoints(s, false)
	return c.points, err
}

func (c *pathCursor) reflectControlQuad() {
	switch c.lastKey {
	case 'q', 'Q', 'T', 't':
		c.cntlPtX, c.cntlPtY = 2*c.placeX-c.cntlPtX, 2*c.placeY-c.cntlPtY
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

func (c *pathCursor) reflectControlCube() {
	switch c.lastKey {
	case 'c', 'C', 's', 'S':
		c.cntlPtX, c.cntlPtY = 2*c.placeX-c.cntlPtX, 2*c.placeY-c.cntlPtY
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

// ensureStart restarts a subpath at the last start point, after a close command.
func (c *pathCursor) ensureStart() {
	if !c.inPath {
		c.path.Start(ToFixedP(c.pathStartX, c.pathStartY))
		c.inPath = true
	}
}

// checkPoints verifies that the number of points is a non zero multiple of n.
func (c *pathCursor) checkPoints(n int) error {
	if len(c.points) == 0 || len(c.points)%n != 0 {
		return errParamMismatch
	}
	return nil
}

// addSeg decodes one command and its parameters.
func (c *pathCursor) addSeg(key byte, args string) error {
	if c.lastKey == 0 && key != 'M' && key != 'm' {
		return errNoMoveTo
	}
	if err := c.getPoints(args, key == 'A' || key == 'a'); err != nil {
		return err
	}
	rel := 'a' <= key && key <= 'z'
	l := len(c.points)

	switch key {
	case 'Z', 'z':
		if l != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
		}
		c.placeX, c.placeY = c.pathStartX, c.pathStartY
		c.inPath = false
	case 'M', 'm':
		if err := c.checkPoints(2); err != nil {
			return err
		}
		if rel {
			c.placeX += c.points[0]
			c.placeY += c.points[1]
		} else {
			c.placeX, c.placeY = c.points[0], c.points[1]
		}
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.path.Start(ToFixedP(c.placeX, c.placeY))
		c.inPath = true
		// extra pairs are implicit lineto commands
		for i := 2; i < l; i += 2 {
			if rel {
				c.placeX += c.points[i]
				c.placeY += c.points[i+1]
			} else {
				c.placeX, c.placeY = c.points[i], c.points[i+1]
			}
			c.path.Line(ToFixedP(c.placeX, c.placeY))
		}
	case 'L', 'l':
		if err := c.checkPoints(2); err != nil {
			return err
		}
		c.ensureStart()
		for i := 0; i < l; i += 2 {
			if rel {
				c.placeX += c.points[i]
				c.placeY += c.points[i+1]
			} else {
				c.placeX, c.placeY = c.points[i], c.points[i+1]
			}
			c.path.Line(ToFixedP(c.placeX, c.placeY))
		}
	case 'H', 'h':
		if err := c.checkPoints(1); err != nil {
			return err
		}
		c.ensureStart()
		for _, x := range c.points {
			if rel {
				c.placeX += x
			} else {
				c.placeX = x
			}
			c.path.Line(ToFixedP(c.placeX, c.placeY))
		}
	case 'V', 'v':
		if err := c.checkPoints(1); err != nil {
			return err
		}
		c.ensureStart()
		for _, y := range c.points {
			if rel {
				c.placeY += y
			} else {
				c.placeY = y
			}
			c.path.Line(ToFixedP(c.placeX, c.placeY))
		}
	case 'Q', 'q':
		if err := c.checkPoints(4); err != nil {
			return err
		}
		c.ensureStart()
		for i := 0; i < l; i += 4 {
			if rel {
				c.offsetPoints(i, 4)
			}
			c.cntlPtX, c.cntlPtY = c.points[i], c.points[i+1]
			c.placeX, c.placeY = c.points[i+2], c.points[i+3]
			c.path.QuadBezier(ToFixedP(c.cntlPtX, c.cntlPtY), ToFixedP(c.placeX, c.placeY))
		}
	case 'T', 't':
		if err := c.checkPoints(2); err != nil {
			return err
		}
		c.ensureStart()
		for i := 0; i < l; i += 2 {
			c.reflectControlQuad()
			if rel {
				c.offsetPoints(i, 2)
			}
			c.placeX, c.placeY = c.points[i], c.points[i+1]
			c.path.QuadBezier(ToFixedP(c.cntlPtX, c.cntlPtY), ToFixedP(c.placeX, c.placeY))
			c.lastKey = key
		}
	case 'C', 'c':
		if err := c.checkPoints(6); err != nil {
			return err
		}
		c.ensureStart()
		for i := 0; i < l; i += 6 {
			if rel {
				c.offsetPoints(i, 6)
			}
			c.cntlPtX, c.cntlPtY = c.points[i+2], c.points[i+3]
			c.placeX, c.placeY = c.points[i+4], c.points[i+5]
			c.path.CubeBezier(ToFixedP(c.points[i], c.points[i+1]),
				ToFixedP(c.cntlPtX, c.cntlPtY), ToFixedP(c.placeX, c.placeY))
		}
	case 'S', 's':
		if err := c.checkPoints(4); err != nil {
			return err
		}
		c.ensureStart()
		for i := 0; i < l; i += 4 {
			c.reflectControlCube()
			if rel {
				c.offsetPoints(i, 4)
			}
			firstX, firstY := c.cntlPtX, c.cntlPtY
			c.cntlPtX, c.cntlPtY = c.points[i], c.points[i+1]
			c.placeX, c.placeY = c.points[i+2], c.points[i+3]
			c.path.CubeBezier(ToFixedP(firstX, firstY),
				ToFixedP(c.cntlPtX, c.cntlPtY), ToFixedP(c.placeX, c.placeY))
			c.lastKey = key
		}
	case 'A', 'a':
		if err := c.checkPoints(7); err != nil {
			return err
		}
		c.ensureStart()
		for i := 0; i < l; i += 7 {
			pts := c.points[i : i+7]
			if rel {
				pts[5] += c.placeX
				pts[6] += c.placeY
			}
			c.addArcFromA(pts)
		}
	default:
		return errCommandUnknown
	}
	c.lastKey = key
	return nil
}

// offsetPoints adds the current point to the n coordinates
// starting at c.points[i].
func (c *pathCursor) offsetPoints(i, n int) {
	for j := i; j < i+n; j += 2 {
		c.points[j] += c.placeX
		c.points[j+1] += c.placeY
	}
}

// addArcFromA adds the arc described by the 7 `pts`,
// with an absolute end point.
func (c *pathCursor) addArcFromA(pts []float64) {
	endX, endY := pts[5], pts[6]
	if endX == c.placeX && endY == c.placeY {
		return // omitted, as required by SVG
	}
	pts[0], pts[1] = math.Abs(pts[0]), math.Abs(pts[1])
	if pts[0] == 0 || pts[1] == 0 { // degenerated to a line
		c.placeX, c.placeY = endX, endY
		c.path.Line(ToFixedP(endX, endY))
		return
	}
	cx, cy := findEllipseCenter(&pts[0], &pts[1], pts[2]*math.Pi/180, c.placeX,
		c.placeY, endX, endY, pts[4] == 0, pts[3] == 0)
	c.placeX, c.placeY = c.path.addArc(pts, cx, cy, c.placeX, c.placeY)
	c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
}

func (c *pathCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, fmt.Errorf("svgpath: unknown transform %q", k)
	}
	return m1, nil
}

// ParseTransform parses the value of a transform attribute,
// such as "translate(10, 20) rotate(45)", and returns the
// corresponding matrix.
func ParseTransform(v string) (Matrix2D, error) {
	var c pathCursor
	ts := strings.Split(v, ")")
	m1 := Identity
	for i, t := range ts {
		t = strings.Trim(t, " \t\n\r,")
		if len(t) == 0 {
			continue
		}
		if i == len(ts)-1 { // missing closing parenthesis
			return Identity, errParamMismatch
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return Identity, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1], false)
		if err != nil {
			return Identity, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return Identity, err
		}
	}
	return m1, nil
}
