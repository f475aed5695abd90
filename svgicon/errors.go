package svgicon

import (
	"errors"
	"fmt"
)

// ErrInvalidSVG is returned for data which is not well formed XML,
// or whose root element is not <svg>.
var ErrInvalidSVG = errors.New("the SVG data is malformed")

var errZeroLengthID = errors.New("zero length id")

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unparsed SVG elements
	IgnoreErrorMode ErrorMode = iota

	// WarnErrorMode outputs a warning through the package logger
	// when an unparsed SVG element is found
	WarnErrorMode

	// StrictErrorMode causes a error when an unparsed SVG element is found
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return fmt.Sprintf("<unknown ErrorMode %d>", m)
	}
}

// handleError reacts to a non fatal error according to `m`:
// it is only returned in StrictErrorMode.
func (m ErrorMode) handleError(err error) error {
	switch m {
	case StrictErrorMode:
		return err
	case WarnErrorMode:
		Logger().Warn("svg content skipped", "error", err)
	default:
		Logger().Debug("svg content skipped", "error", err)
	}
	return nil
}
