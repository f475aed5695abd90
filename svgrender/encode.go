package svgrender

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// translucent hides the opacity of the image, so that
// the encoder keeps the alpha channel.
type translucent struct{ *image.RGBA }

func (translucent) Opaque() bool { return false }

// encodePNG serializes the image, as RGB if `removeAlpha` is true
// (the image is then expected to be opaque), as RGBA otherwise.
func encodePNG(img *image.RGBA, level png.CompressionLevel, removeAlpha bool) ([]byte, error) {
	var src image.Image = img
	if !removeAlpha {
		src = translucent{img}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncodingFailed, err)
	}
	return buf.Bytes(), nil
}
