package anim

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/util"
)

const placeholderSize = 96

// Placeholder renders the stand-in frame drawn when no clip frame can
// be decoded: a soft vignette blended through Hcl space so it reads as
// "asset missing" rather than a hard black square.
func Placeholder() image.Image {
	inner, _ := colorful.Hex("#8a6cc8")
	outer, _ := colorful.Hex("#1d1530")

	lut := util.GenerateLut(placeholderSize)
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			gain := lut[x] * lut[y]
			r, g, b := outer.BlendHcl(inner, gain).Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
