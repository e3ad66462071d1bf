package studio

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 220, G: 20, B: 20, A: 255}

func TestAlphaBBox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		img       *image.NRGBA
		threshold uint8
		want      image.Rectangle
		wantOK    bool
	}{
		{
			name:      "单个矩形",
			img:       block(50, 40, image.Rect(10, 5, 20, 15), red),
			threshold: 8,
			want:      image.Rect(10, 5, 20, 15),
			wantOK:    true,
		},
		{
			name:      "全透明",
			img:       image.NewNRGBA(image.Rect(0, 0, 8, 8)),
			threshold: 8,
		},
		{
			name:      "alpha 等于阈值不算主体",
			img:       block(8, 8, image.Rect(2, 2, 4, 4), color.NRGBA{A: 8}),
			threshold: 8,
		},
		{
			name:      "阈值为 0",
			img:       block(8, 8, image.Rect(2, 3, 4, 5), color.NRGBA{A: 1}),
			threshold: 0,
			want:      image.Rect(2, 3, 4, 5),
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := AlphaBBox(tt.img, tt.threshold)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlphaBBox_SubImage(t *testing.T) {
	t.Parallel()

	img := block(50, 40, image.Rect(10, 5, 20, 15), red)
	sub := img.SubImage(image.Rect(8, 4, 30, 30)).(*image.NRGBA)

	got, ok := AlphaBBox(sub, 8)
	require.True(t, ok)
	assert.Equal(t, image.Rect(10, 5, 20, 15), got)
}

func TestTightCrop(t *testing.T) {
	t.Parallel()

	img := block(50, 40, image.Rect(10, 5, 20, 15), red)
	// 低于阈值的噪点不影响裁剪
	img.SetNRGBA(45, 35, color.NRGBA{A: 8})

	got := TightCrop(img, 8, 8)
	assert.Equal(t, image.Rect(0, 0, 26, 23), got.Bounds())
	assert.Equal(t, red, got.NRGBAAt(8, 5))
	assert.Zero(t, alphaAt(got, 0, 0))

	noPad := TightCrop(img, 0, 8)
	assert.Equal(t, image.Rect(0, 0, 10, 10), noPad.Bounds())
	assert.Equal(t, red, noPad.NRGBAAt(0, 0))
}

func TestTightCrop_EmptyMaskUnchanged(t *testing.T) {
	t.Parallel()

	img := block(30, 20, image.Rect(0, 0, 30, 20), color.NRGBA{R: 100, G: 100, B: 100, A: 5})

	got := TightCrop(img, 8, 8)
	require.NotNil(t, got)
	assert.Equal(t, img.Bounds(), got.Bounds())
	assert.Equal(t, img.Pix, got.Pix)
}

func TestEllipseKernel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, [][]bool{
		{false, true, false},
		{true, true, true},
		{false, true, false},
	}, ellipseKernel(3))

	assert.Equal(t, [][]bool{
		{false, false, true, false, false},
		{true, true, true, true, true},
		{true, true, true, true, true},
		{true, true, true, true, true},
		{false, false, true, false, false},
	}, ellipseKernel(5))

	assert.Equal(t, [][]bool{{true}}, ellipseKernel(1))
}

func TestDefringe_ErodesOnePixel(t *testing.T) {
	t.Parallel()

	img := block(20, 20, image.Rect(5, 5, 15, 15), red)
	got := Defringe(img, 3, 1)

	assert.Zero(t, alphaAt(got, 5, 5))
	assert.Zero(t, alphaAt(got, 5, 10))
	assert.Zero(t, alphaAt(got, 10, 14))
	assert.Equal(t, uint8(255), alphaAt(got, 6, 6))
	assert.Equal(t, uint8(255), alphaAt(got, 13, 13))

	// 完全不透明处颜色不变，完全透明处变白
	assert.Equal(t, red, got.NRGBAAt(10, 10))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255}, got.NRGBAAt(5, 5))
}

func TestDefringe_ImageBorderDoesNotErode(t *testing.T) {
	t.Parallel()

	img := solid(5, 5, red)
	got := Defringe(img, 3, 1)
	assert.Equal(t, img.Pix, got.Pix)
}

func TestDefringe_CompositesOnWhite(t *testing.T) {
	t.Parallel()

	img := solid(3, 3, color.NRGBA{A: 128})
	got := Defringe(img, 3, 1)

	c := got.NRGBAAt(1, 1)
	assert.Equal(t, uint8(128), c.A)
	assert.InDelta(t, 127, int(c.R), 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.R, c.B)
}

func TestDefringe_NeverExpandsOpacity(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			a := uint8((x*37 + y*91 + x*y*13) % 256)
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 10), B: 77, A: a})
		}
	}

	once := Defringe(img, 3, 1)
	twice := Defringe(once, 3, 1)

	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			require.LessOrEqual(t, alphaAt(once, x, y), alphaAt(img, x, y), "once (%d,%d)", x, y)
			require.LessOrEqual(t, alphaAt(twice, x, y), alphaAt(once, x, y), "twice (%d,%d)", x, y)
		}
	}
}

func TestDefringe_ZeroIterations(t *testing.T) {
	t.Parallel()

	img := block(10, 10, image.Rect(2, 2, 8, 8), red)
	got := Defringe(img, 3, 0)
	assert.Equal(t, uint8(255), alphaAt(got, 2, 2))
	assert.Zero(t, alphaAt(got, 1, 1))
}
