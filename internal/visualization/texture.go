package visualization

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const textureSize = 256

// generateTexture builds the fill texture for one body: a radial gradient
// from a lightened version of the body color in the center down to a darker
// rim, so the triangle-fan fill reads as a soft volume instead of a flat
// disc.
func generateTexture(base color.RGBA) *ebiten.Image {
	pixels := make([]byte, textureSize*textureSize*4)
	center := float64(textureSize) / 2

	for y := 0; y < textureSize; y++ {
		for x := 0; x < textureSize; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			// Distance as a fraction of the half-size, capped at the corner.
			d := math.Min(math.Hypot(dx, dy)/center, 1)

			// Lighten toward the center, darken toward the rim.
			light := 1.25 - 0.55*d
			i := (y*textureSize + x) * 4
			pixels[i] = shade(base.R, light)
			pixels[i+1] = shade(base.G, light)
			pixels[i+2] = shade(base.B, light)
			pixels[i+3] = 255
		}
	}

	tex := ebiten.NewImage(textureSize, textureSize)
	tex.WritePixels(pixels)
	return tex
}

func shade(c uint8, factor float64) uint8 {
	v := float64(c) * factor
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
