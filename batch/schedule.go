package batch

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedule 按 cron 表达式定时处理新图片，直到 ctx 结束
// 上一次还没跑完时跳过本次
func Schedule(ctx context.Context, r *Runner, spec, inputDir, outputDir string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(spec, func() {
		s, err := r.Run(ctx, inputDir, outputDir)
		if err != nil {
			r.logger.Error("scheduled run failed", zap.Error(err))
			return
		}
		r.logger.Info("scheduled run finished",
			zap.String("run_id", s.RunID),
			zap.Int("succeeded", len(s.Succeeded)),
			zap.Int("failed", len(s.Failed)),
			zap.Int("skipped", len(s.Skipped)),
		)
	})
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
