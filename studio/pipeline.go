package studio

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/chaos-io/studioshot/studio/rembg"
)

// Processor 把任意产品照片变成统一的棚拍风格图：
//
//	背景去除，裁边去白边
//	等比缩放，水平居中，底部对齐地面线
//	主体下方加柔和阴影，白底
type Processor struct {
	RemBG   rembg.Remover
	Options Options

	logger *zap.Logger
}

func NewProcessor(remover rembg.Remover, opts Options, logger *zap.Logger) (*Processor, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if remover == nil {
		remover = rembg.NewDefaultRemBG()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{RemBG: remover, Options: opts, logger: logger}, nil
}

// Layout 主体和阴影在画布上的摆放结果
type Layout struct {
	Object   *image.NRGBA
	ObjectAt image.Point
	Shadow   *image.NRGBA
	ShadowAt image.Point
	// Bottom 主体内最低实心像素行
	Bottom int
}

// Process 完整流水线：抠图 -> 裁剪去边 -> 缩放 -> 对齐地面 -> 阴影 -> 合成
func (p *Processor) Process(ctx context.Context, input image.Image) (*image.NRGBA, error) {
	cut, err := p.Extract(ctx, input)
	if err != nil {
		return nil, err
	}

	obj := p.Refine(cut)
	layout := p.Arrange(obj)

	p.logger.Debug("arranged object",
		zap.Int("width", layout.Object.Bounds().Dx()),
		zap.Int("height", layout.Object.Bounds().Dy()),
		zap.Int("bottom", layout.Bottom),
		zap.Stringer("at", layout.ObjectAt),
	)

	return p.Compose(layout), nil
}

// Extract 转为 NRGBA 并去除背景
func (p *Processor) Extract(ctx context.Context, input image.Image) (*image.NRGBA, error) {
	if input == nil || input.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	src := toNRGBA(input)
	src = resizeWithinMax(src, p.Options.MaxInputSize)

	if p.Options.ReuseAlpha && hasUsefulAlpha(src) {
		p.logger.Debug("input already has alpha, skip background removal")
		return src, nil
	}

	cut, err := p.RemBG.Remove(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}
	if cut == nil || cut.Bounds().Empty() {
		return nil, fmt.Errorf("remove background: %w", ErrEmptyImage)
	}
	return toNRGBA(cut), nil
}

// Refine 先裁剪再去白边，顺序固定
func (p *Processor) Refine(cut *image.NRGBA) *image.NRGBA {
	o := p.Options
	obj := TightCrop(cut, o.CropPad, o.CropThreshold)
	return Defringe(obj, o.ErodeKernel, o.ErodeIterations)
}

// Arrange 缩放主体，计算主体与阴影的位置
func (p *Processor) Arrange(obj *image.NRGBA) Layout {
	o := p.Options
	scaled := ScaleToFit(obj, o.CanvasWidth, o.CanvasHeight, o.WidthFill, o.HeightFill)

	mask := AlphaMask(scaled)
	bottom := GroundLine(mask, o.GroundThreshold)
	at := Place(scaled.Bounds().Dx(), bottom, o.CanvasWidth, o.GroundY())

	return Layout{
		Object:   scaled,
		ObjectAt: at,
		Shadow:   MakeShadow(mask, o.ShadowSquash, o.ShadowBlur, o.ShadowOpacity),
		ShadowAt: ShadowOrigin(at, scaled.Bounds().Dy(), o.ShadowOffset),
		Bottom:   bottom,
	}
}

// Compose 白底画布 + 阴影 + 主体
func (p *Processor) Compose(l Layout) *image.NRGBA {
	return Compose(p.Options.CanvasWidth, p.Options.CanvasHeight, color.White,
		Layer{Image: l.Shadow, At: l.ShadowAt},
		Layer{Image: l.Object, At: l.ObjectAt},
	)
}
