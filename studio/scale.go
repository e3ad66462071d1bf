package studio

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// FitSize 计算等比缩放后的尺寸，保证不超过画布的 fillW/fillH 比例
func FitSize(w, h, canvasW, canvasH int, fillW, fillH float64) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	targetW := int(float64(canvasW) * fillW)
	targetH := int(float64(canvasH) * fillH)
	scale := math.Min(float64(targetW)/float64(w), float64(targetH)/float64(h))

	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// ScaleToFit 等比缩放主体到目标区域内（Lanczos3，避免锯齿）
func ScaleToFit(img *image.NRGBA, canvasW, canvasH int, fillW, fillH float64) *image.NRGBA {
	b := img.Bounds()
	newW, newH := FitSize(b.Dx(), b.Dy(), canvasW, canvasH, fillW, fillH)
	if b.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, newW, newH))
	}

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return toNRGBA(resized)
}
