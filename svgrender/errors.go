package svgrender

import (
	"errors"

	"github.com/benoitkugler/svg2png/svgicon"
	"github.com/benoitkugler/svg2png/svgraster"
)

// Errors returned by a render, possibly wrapped: use errors.Is
// to test them.
var (
	// ErrInvalidSVGData is returned for malformed XML, or when
	// the root element is not <svg>.
	ErrInvalidSVGData = svgicon.ErrInvalidSVG

	// ErrInvalidGeometry is returned for a degenerated viewBox
	// or target size.
	ErrInvalidGeometry = svgraster.ErrInvalidGeometry

	// ErrRenderingInProgress is returned when a render is requested
	// while another one is running on the same Converter.
	ErrRenderingInProgress = errors.New("svgrender: a render is already in progress on this converter")

	// ErrEncodingFailed is returned when the PNG serialization fails.
	ErrEncodingFailed = errors.New("svgrender: png encoding failed")
)
