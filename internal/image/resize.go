package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize scales an image to exactly width x height using Catmull-Rom
// interpolation.
func Resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
