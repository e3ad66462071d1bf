package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/chaos-io/studioshot/util"
)

// Processor 单张图片的处理流水线
type Processor interface {
	Process(ctx context.Context, img image.Image) (*image.NRGBA, error)
}

// Runner 顺序处理目录下的所有图片，单张失败不影响其他图片
type Runner struct {
	Processor Processor
	// SkipExisting 输出文件已存在时跳过（定时模式使用）
	SkipExisting bool

	out    io.Writer
	logger *zap.Logger
	ok     *color.Color
	fail   *color.Color
}

func NewRunner(p Processor, out io.Writer, logger *zap.Logger) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Processor: p,
		out:       out,
		logger:    logger,
		ok:        color.New(color.FgGreen),
		fail:      color.New(color.FgRed),
	}
}

// Summary 一次批处理的结果
type Summary struct {
	RunID     string
	OutputDir string
	Succeeded []string
	Failed    map[string]error
	Skipped   []string
}

// Run 处理 inputDir 下的图片写入 outputDir
// 只有输出目录无法创建、输入目录无法读取时返回错误
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	defer util.Trace("batch run")()

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files, err := util.ListImages(inputDir)
	if err != nil {
		return nil, fmt.Errorf("list input dir: %w", err)
	}

	s := &Summary{
		RunID:     ksuid.New().String(),
		OutputDir: outputDir,
		Failed:    map[string]error{},
	}
	logger := r.logger.With(zap.String("run_id", s.RunID))

	if len(files) == 0 {
		_, _ = fmt.Fprintln(r.out, "No files in", inputDir)
		return s, nil
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		outName := util.OutputName(name)
		outPath := filepath.Join(outputDir, outName)

		if r.SkipExisting && exists(outPath) {
			s.Skipped = append(s.Skipped, name)
			continue
		}

		if err := r.processFile(ctx, filepath.Join(inputDir, name), outPath); err != nil {
			s.Failed[name] = err
			_, _ = r.fail.Fprintln(r.out, "FAIL:", name, "->", err)
			logger.Error("process failed", zap.String("file", name), zap.Error(err))
			continue
		}

		s.Succeeded = append(s.Succeeded, outName)
		_, _ = r.ok.Fprintln(r.out, "OK:", outName)
		logger.Info("processed", zap.String("file", name), zap.String("output", outPath))
	}

	_, _ = fmt.Fprintln(r.out, "DONE. Files in:", outputDir)
	return s, nil
}

// processFile 处理单个文件，panic 也按失败处理
func (r *Runner) processFile(ctx context.Context, inPath, outPath string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()

	img, err := util.OpenImage(inPath)
	if err != nil {
		return err
	}

	result, err := r.Processor.Process(ctx, img)
	if err != nil {
		return err
	}

	return util.SavePNG(outPath, result)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
