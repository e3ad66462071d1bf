package studio

import (
	"image"
	"math"
)

// AlphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold 的像素当作“主体”，没有主体像素时 ok 为 false
func AlphaBBox(img *image.NRGBA, threshold uint8) (bbox image.Rectangle, ok bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := 0, 0

	for y := 0; y < h; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] <= threshold {
				continue
			}
			ok = true
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(b.Min), true
}

// TightCrop 按主体外接框裁剪，四周各留 pad 像素
// 全透明时原样返回（拷贝）
func TightCrop(img *image.NRGBA, pad int, threshold uint8) *image.NRGBA {
	bbox, ok := AlphaBBox(img, threshold)
	if !ok {
		return toNRGBA(img)
	}
	rect := bbox.Inset(-max(pad, 0)).Intersect(img.Bounds())
	return toNRGBA(img.SubImage(rect))
}

// Defringe 去掉抠图边缘的白边/背景色残留：
//
//	alpha 做一次椭圆核腐蚀，收缩约 1 像素
//	按腐蚀后的 alpha 把 RGB 重新合成到白底上
func Defringe(img *image.NRGBA, kernel, iterations int) *image.NRGBA {
	alpha := AlphaMask(img)
	se := ellipseKernel(kernel)
	for i := 0; i < iterations; i++ {
		alpha = erode(alpha, se)
	}

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			ea := alpha.Pix[y*alpha.Stride+x]
			a := float32(ea) / 255
			i := x * 4
			for c := 0; c < 3; c++ {
				v := float32(src[i+c])*a + 255*(1-a)
				dst[i+c] = uint8(math.Min(float64(v), 255))
			}
			dst[i+3] = ea
		}
	}
	return out
}

// ellipseKernel 与 OpenCV MORPH_ELLIPSE 相同的结构元素，3x3 时为十字
func ellipseKernel(size int) [][]bool {
	size = max(size, 1)
	r := size / 2
	c := size / 2
	var invR2 float64
	if r > 0 {
		invR2 = 1 / float64(r*r)
	}

	k := make([][]bool, size)
	for i := range k {
		k[i] = make([]bool, size)
		dy := i - r
		if abs(dy) > r {
			continue
		}
		dx := int(math.Round(float64(c) * math.Sqrt(float64(r*r-dy*dy)*invR2)))
		for j := max(c-dx, 0); j < min(c+dx+1, size); j++ {
			k[i][j] = true
		}
	}
	return k
}

// erode 灰度腐蚀：取结构元素覆盖范围内的最小值，图像外的像素不参与
func erode(src *image.Gray, se [][]bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	r := len(se) / 2
	dst := image.NewGray(b)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := src.Pix[y*src.Stride+x]
			for ky, row := range se {
				sy := y + ky - r
				if sy < 0 || sy >= h {
					continue
				}
				for kx, on := range row {
					sx := x + kx - r
					if !on || sx < 0 || sx >= w {
						continue
					}
					v = min(v, src.Pix[sy*src.Stride+sx])
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
