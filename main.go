package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/chaos-io/studioshot/batch"
	"github.com/chaos-io/studioshot/config"
	"github.com/chaos-io/studioshot/logging"
	"github.com/chaos-io/studioshot/server"
	"github.com/chaos-io/studioshot/studio"
	"github.com/chaos-io/studioshot/studio/rembg"
	"github.com/chaos-io/studioshot/util"
	nhttp "github.com/chaos-io/studioshot/util/http"
)

const usage = `Usage: studioshot [run|serve|watch] [flags]

  run    process every image in the input directory once (default)
  serve  start the HTTP service
  watch  process new images on a schedule
`

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to a YAML config file")
	inputDir := fs.String("in", "", "input directory (overrides config)")
	outputDir := fs.String("out", "", "output directory (overrides config)")
	extractor := fs.String("extractor", "", "background remover: none | http")
	rembgURL := fs.String("rembg-url", "", "base URL of the rembg HTTP server")
	imageURL := fs.String("url", "", "run: process a single remote image instead of the input directory")
	addr := fs.String("addr", "", "serve: listen address")
	schedule := fs.String("schedule", "", "watch: cron schedule, e.g. @every 30s")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	override(&cfg.InputDir, *inputDir)
	override(&cfg.OutputDir, *outputDir)
	override(&cfg.Extractor.Kind, *extractor)
	override(&cfg.Extractor.URL, *rembgURL)
	override(&cfg.Server.Addr, *addr)
	override(&cfg.Watch.Schedule, *schedule)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	p, err := studio.NewProcessor(newRemover(cfg.Extractor, logger), cfg.Pipeline, logger)
	if err != nil {
		logger.Fatal("Failed to create processor", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(p, os.Stdout, logger)

	switch cmd {
	case "run":
		if *imageURL != "" {
			err = processURL(ctx, p, *imageURL, cfg.OutputDir)
			break
		}
		_, err = runner.Run(ctx, cfg.InputDir, cfg.OutputDir)
	case "serve":
		err = server.Run(ctx, cfg.Server.Addr, server.New(p, cfg.Server.MaxUploadMB, logger), logger)
	case "watch":
		runner.SkipExisting = true
		err = batch.Schedule(ctx, runner, cfg.Watch.Schedule, cfg.InputDir, cfg.OutputDir)
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(cmd+" failed", zap.Error(err))
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func newRemover(cfg config.ExtractorConfig, logger *zap.Logger) rembg.Remover {
	if cfg.Kind == config.ExtractorNone {
		return rembg.NewDefaultRemBG()
	}
	return rembg.NewHTTPRemBG(cfg.URL, cfg.Model, cfg.Timeout, logger)
}

// processURL 下载单张图片处理后写入 outputDir
func processURL(ctx context.Context, p *studio.Processor, rawURL, outputDir string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	img, err := util.DownloadImage(ctx, nhttp.NewHTTPClient(), rawURL)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}

	result, err := p.Process(ctx, img)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outputDir, util.OutputName(path.Base(u.Path)))
	if err := util.SavePNG(outPath, result); err != nil {
		return err
	}
	fmt.Println("OK:", outPath)
	return nil
}
