package svgicon

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// percentageReference defines the length a percentage refers to.
type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagonalPercentage
)

// unitToPx gives the size of the absolute units, in pixels (user units)
var unitToPx = map[string]float64{
	"px": 1,
	"pt": 4. / 3,
	"pc": 16,
	"mm": 96. / 25.4,
	"cm": 96. / 2.54,
	"in": 96,
	"em": 16, // default font size
	"ex": 8,
}

var errEmptyValue = errors.New("empty value")

// parseBasicFloat parses a number without unit.
func parseBasicFloat(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, errEmptyValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("invalid number " + v)
	}
	return f, nil
}

// readFraction parses a number or a percentage, returned as a fraction
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}

// parseLength parses a length with an optional unit,
// and converts it to user units.
// Percentages refer to the current viewport.
func (b *builder) parseLength(v string, ref percentageReference) (float64, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		f, err := parseBasicFloat(strings.TrimSuffix(v, "%"))
		if err != nil {
			return 0, err
		}
		var length float64
		switch ref {
		case widthPercentage:
			length = b.viewport.W
		case heightPercentage:
			length = b.viewport.H
		default:
			length = math.Sqrt((b.viewport.W*b.viewport.W + b.viewport.H*b.viewport.H) / 2)
		}
		return f * length / 100, nil
	}
	if len(v) > 2 {
		if factor, ok := unitToPx[strings.ToLower(v[len(v)-2:])]; ok {
			f, err := parseBasicFloat(v[:len(v)-2])
			return f * factor, err
		}
	}
	return parseBasicFloat(v)
}
