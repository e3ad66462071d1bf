package studio

import (
	"errors"
	"fmt"
)

// Options 合成流水线的全部可调参数
type Options struct {
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`

	// 主体占画布的比例（留白）
	WidthFill  float64 `yaml:"width_fill"`
	HeightFill float64 `yaml:"height_fill"`

	// 地面线所在高度（占画布高度的比例）
	GroundLine      float64 `yaml:"ground_line"`
	GroundThreshold uint8   `yaml:"ground_threshold"`

	CropThreshold uint8 `yaml:"crop_threshold"`
	CropPad       int   `yaml:"crop_pad"`

	ErodeKernel     int `yaml:"erode_kernel"`
	ErodeIterations int `yaml:"erode_iterations"`

	ShadowOpacity float64 `yaml:"shadow_opacity"`
	ShadowBlur    float64 `yaml:"shadow_blur"`
	ShadowSquash  float64 `yaml:"shadow_squash"`
	ShadowOffset  float64 `yaml:"shadow_offset"`

	// MaxInputSize 抠图前最长边限制，0 表示不限制
	MaxInputSize int `yaml:"max_input_size"`
	// ReuseAlpha 输入已带透明通道时跳过抠图
	ReuseAlpha bool `yaml:"reuse_alpha"`
}

// DefaultOptions 600x400 横版产品图的默认参数
func DefaultOptions() Options {
	return Options{
		CanvasWidth:     600,
		CanvasHeight:    400,
		WidthFill:       0.88,
		HeightFill:      0.82,
		GroundLine:      0.80,
		GroundThreshold: 20,
		CropThreshold:   8,
		CropPad:         8,
		ErodeKernel:     3,
		ErodeIterations: 1,
		ShadowOpacity:   0.25,
		ShadowBlur:      18,
		ShadowSquash:    0.35,
		ShadowOffset:    0.65,
	}
}

// GroundY 地面线的像素行
func (o Options) GroundY() int {
	return int(float64(o.CanvasHeight) * o.GroundLine)
}

func (o Options) Validate() error {
	var errs []error
	if o.CanvasWidth <= 0 || o.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", o.CanvasWidth, o.CanvasHeight))
	}
	if !inUnit(o.WidthFill) || o.WidthFill == 0 {
		errs = append(errs, fmt.Errorf("width_fill must be in (0, 1], got %v", o.WidthFill))
	}
	if !inUnit(o.HeightFill) || o.HeightFill == 0 {
		errs = append(errs, fmt.Errorf("height_fill must be in (0, 1], got %v", o.HeightFill))
	}
	if !inUnit(o.GroundLine) {
		errs = append(errs, fmt.Errorf("ground_line must be in [0, 1], got %v", o.GroundLine))
	}
	if o.CropPad < 0 {
		errs = append(errs, fmt.Errorf("crop_pad must be >= 0, got %d", o.CropPad))
	}
	if o.ErodeKernel < 1 || o.ErodeKernel%2 == 0 {
		errs = append(errs, fmt.Errorf("erode_kernel must be a positive odd number, got %d", o.ErodeKernel))
	}
	if o.ErodeIterations < 0 {
		errs = append(errs, fmt.Errorf("erode_iterations must be >= 0, got %d", o.ErodeIterations))
	}
	if !inUnit(o.ShadowOpacity) {
		errs = append(errs, fmt.Errorf("shadow_opacity must be in [0, 1], got %v", o.ShadowOpacity))
	}
	if o.ShadowBlur < 0 {
		errs = append(errs, fmt.Errorf("shadow_blur must be >= 0, got %v", o.ShadowBlur))
	}
	if !inUnit(o.ShadowSquash) || o.ShadowSquash == 0 {
		errs = append(errs, fmt.Errorf("shadow_squash must be in (0, 1], got %v", o.ShadowSquash))
	}
	if o.ShadowOffset < 0 {
		errs = append(errs, fmt.Errorf("shadow_offset must be >= 0, got %v", o.ShadowOffset))
	}
	if o.MaxInputSize < 0 {
		errs = append(errs, fmt.Errorf("max_input_size must be >= 0, got %d", o.MaxInputSize))
	}
	return errors.Join(errs...)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
