package studio

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Layer 待合成的图层及其在画布上的左上角
type Layer struct {
	Image image.Image
	At    image.Point
}

// Compose 新建不透明画布，按顺序把各图层 alpha 混合（over）上去，超出画布的部分被裁掉
func Compose(w, h int, background color.Color, layers ...Layer) *image.NRGBA {
	canvas := imaging.New(w, h, background)
	for _, l := range layers {
		if l.Image == nil || l.Image.Bounds().Empty() {
			continue
		}
		canvas = imaging.Overlay(canvas, l.Image, l.At, 1.0)
	}
	return canvas
}
