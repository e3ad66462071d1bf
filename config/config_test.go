package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 600, cfg.Pipeline.CanvasWidth)
	assert.Equal(t, 400, cfg.Pipeline.CanvasHeight)
	assert.Equal(t, 320, cfg.Pipeline.GroundY())
	assert.Equal(t, 18.0, cfg.Pipeline.ShadowBlur)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "studio.yaml", `
input_dir: in
output_dir: out
pipeline:
  canvas_width: 1200
  canvas_height: 800
  crop_pad: 0
  shadow_blur: 12
extractor:
  kind: none
  timeout: 30s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "in", cfg.InputDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 1200, cfg.Pipeline.CanvasWidth)
	assert.Equal(t, 0, cfg.Pipeline.CropPad)
	assert.Equal(t, 12.0, cfg.Pipeline.ShadowBlur)
	// 未配置的字段保留默认值
	assert.Equal(t, 0.88, cfg.Pipeline.WidthFill)
	assert.Equal(t, uint8(20), cfg.Pipeline.GroundThreshold)
	assert.Equal(t, ExtractorNone, cfg.Extractor.Kind)
	assert.Equal(t, 30*time.Second, cfg.Extractor.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STUDIO_OUTPUT_DIR", "env_out")
	t.Setenv("STUDIO_SHADOW_OPACITY", "0.1")
	t.Setenv("STUDIO_REUSE_ALPHA", "yes")
	t.Setenv("STUDIO_REMBG_TIMEOUT", "5s")
	t.Setenv("STUDIO_CANVAS_WIDTH", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env_out", cfg.OutputDir)
	assert.Equal(t, 0.1, cfg.Pipeline.ShadowOpacity)
	assert.True(t, cfg.Pipeline.ReuseAlpha)
	assert.Equal(t, 5*time.Second, cfg.Extractor.Timeout)
	assert.Equal(t, 600, cfg.Pipeline.CanvasWidth)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "pipeline: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "extractor:\n  kind: magic\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown extractor kind "magic"`)

	_, err = Load(writeFile(t, "nourl.yaml", "extractor:\n  kind: http\n  url: \"\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extractor url")

	_, err = Load(writeFile(t, "canvas.yaml", "pipeline:\n  canvas_height: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas size")
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"TRUE", false, true},
		{"on", false, true},
		{"0", true, false},
		{"Off", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Setenv("STUDIO_TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, ParseBoolEnv("STUDIO_TEST_BOOL", tt.def), tt.value)
	}
}
