package studio

import "image"

// GroundLine 找到主体最低的实心像素行（车轮/底部），用于对齐地面线
// 没有 alpha > threshold 的像素时返回最后一行
func GroundLine(mask *image.Gray, threshold uint8) int {
	b := mask.Bounds()
	for y := b.Dy() - 1; y >= 0; y-- {
		off := mask.PixOffset(b.Min.X, b.Min.Y+y)
		for _, a := range mask.Pix[off : off+b.Dx()] {
			if a > threshold {
				return y
			}
		}
	}
	return b.Dy() - 1
}

// Place 主体在画布上的左上角：水平居中，底部落在 groundY
func Place(objW, bottom, canvasW, groundY int) image.Point {
	return image.Pt(floorDiv(canvasW-objW, 2), groundY-bottom)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
