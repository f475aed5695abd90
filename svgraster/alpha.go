package svgraster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// RemoveAlpha returns a new image, with the same bounds as `img`,
// where `img` is composited over an opaque background.
// A nil background defaults to white; the alpha
// component of `background` is ignored.
func RemoveAlpha(img *image.RGBA, background color.Color) *image.RGBA {
	bg := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if background != nil {
		bg = color.NRGBAModel.Convert(background).(color.NRGBA)
		bg.A = 0xff
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
