package studio

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// MakeShadow 由主体剪影生成贴地软阴影（整车下方，不只是车轮）
//
//	垂直压扁到 squash 倍高度
//	高斯模糊 blur
//	alpha 乘以 opacity，RGB 为黑色
func MakeShadow(mask *image.Gray, squash, blur, opacity float64) *image.NRGBA {
	w := mask.Bounds().Dx()
	h := max(1, int(float64(mask.Bounds().Dy())*squash))
	if w == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, h))
	}

	flat := image.NewGray(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(flat, flat.Bounds(), mask, mask.Bounds(), draw.Src, nil)

	// 灰度图模糊后 R=G=B=原灰度
	soft := imaging.Blur(flat, blur)

	shadow := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := soft.Pix[y*soft.Stride:]
		dst := shadow.Pix[y*shadow.Stride:]
		for x := 0; x < w; x++ {
			dst[x*4+3] = uint8(float64(src[x*4]) * opacity)
		}
	}
	return shadow
}

// ShadowOrigin 阴影左上角：与主体同 x，下移主体高度的 offset 倍
func ShadowOrigin(objAt image.Point, objH int, offset float64) image.Point {
	return image.Pt(objAt.X, objAt.Y+int(float64(objH)*offset))
}
