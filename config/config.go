package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chaos-io/studioshot/logging"
	"github.com/chaos-io/studioshot/studio"
)

const (
	ExtractorNone = "none"
	ExtractorHTTP = "http"
)

type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	Pipeline  studio.Options  `yaml:"pipeline"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Log       logging.Config  `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ExtractorConfig 抠图服务
type ExtractorConfig struct {
	Kind    string        `yaml:"kind"`
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxUploadMB 单张上传图片大小限制
	MaxUploadMB int `yaml:"max_upload_mb"`
}

type WatchConfig struct {
	Schedule string `yaml:"schedule"`
}

func Default() Config {
	return Config{
		InputDir:  "cars_input",
		OutputDir: "cars_output",
		Pipeline:  studio.DefaultOptions(),
		Extractor: ExtractorConfig{
			Kind:    ExtractorHTTP,
			URL:     "http://127.0.0.1:7000",
			Model:   "u2net",
			Timeout: 2 * time.Minute,
		},
		Log: logging.DefaultConfig(),
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
		Watch: WatchConfig{Schedule: "@every 1m"},
	}
}

// Load 默认值 -> YAML 文件 -> .env -> STUDIO_* 环境变量
// path 为空时跳过 YAML 文件
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.InputDir = GetEnvOrDefault("STUDIO_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = GetEnvOrDefault("STUDIO_OUTPUT_DIR", cfg.OutputDir)

	cfg.Extractor.Kind = GetEnvOrDefault("STUDIO_EXTRACTOR", cfg.Extractor.Kind)
	cfg.Extractor.URL = GetEnvOrDefault("STUDIO_REMBG_URL", cfg.Extractor.URL)
	cfg.Extractor.Model = GetEnvOrDefault("STUDIO_REMBG_MODEL", cfg.Extractor.Model)
	cfg.Extractor.Timeout = ParseDurationEnv("STUDIO_REMBG_TIMEOUT", cfg.Extractor.Timeout)

	cfg.Log.Level = GetEnvOrDefault("STUDIO_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = GetEnvOrDefault("STUDIO_LOG_FILE", cfg.Log.File)
	cfg.Log.Development = ParseBoolEnv("STUDIO_LOG_DEV", cfg.Log.Development)

	cfg.Server.Addr = GetEnvOrDefault("STUDIO_ADDR", cfg.Server.Addr)
	cfg.Watch.Schedule = GetEnvOrDefault("STUDIO_SCHEDULE", cfg.Watch.Schedule)

	p := &cfg.Pipeline
	p.CanvasWidth = ParseIntEnv("STUDIO_CANVAS_WIDTH", p.CanvasWidth)
	p.CanvasHeight = ParseIntEnv("STUDIO_CANVAS_HEIGHT", p.CanvasHeight)
	p.ShadowOpacity = ParseFloat64Env("STUDIO_SHADOW_OPACITY", p.ShadowOpacity)
	p.ShadowBlur = ParseFloat64Env("STUDIO_SHADOW_BLUR", p.ShadowBlur)
	p.MaxInputSize = ParseIntEnv("STUDIO_MAX_INPUT_SIZE", p.MaxInputSize)
	p.ReuseAlpha = ParseBoolEnv("STUDIO_REUSE_ALPHA", p.ReuseAlpha)
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Pipeline.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Extractor.Kind {
	case ExtractorNone:
	case ExtractorHTTP:
		if c.Extractor.URL == "" {
			errs = append(errs, errors.New("extractor url is required for kind http"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown extractor kind %q", c.Extractor.Kind))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	return errors.Join(errs...)
}
