package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 3, cfg.OCR.PageSegMode)
	assert.True(t, cfg.Preprocess.Sharpen)
	assert.Equal(t, 1000, cfg.Preprocess.MinHeight)
	assert.InDelta(t, 0.35, cfg.Preprocess.DarkThreshold, 1e-9)
	assert.True(t, cfg.Parse.RepairMarkers)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("LABEL_MCP_LOG_LEVEL", "DEBUG")
	t.Setenv("LABEL_MCP_WORKERS", "8")
	t.Setenv("LABEL_MCP_REPAIR_MARKERS", "false")
	t.Setenv("LABEL_MCP_CACHE_TTL", "30s")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.False(t, cfg.Parse.RepairMarkers)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "/opt/tessdata", cfg.OCR.TessdataPrefix)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.yaml")
	yaml := `
log:
  format: json
ocr:
  language: deu
  page_seg_mode: 6
scan:
  workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv(PathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, 6, cfg.OCR.PageSegMode)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys fall back to defaults")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv(PathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "missing.yaml")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("LABEL_MCP_WORKERS", "0")
	t.Setenv("LABEL_MCP_DARK_THRESHOLD", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "scan.workers")
	assert.ErrorContains(t, err, "preprocess.dark_threshold")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:   LogConfig{Level: "info", Format: "console"},
			OCR:   OCRConfig{Language: "eng"},
			Scan:  ScanConfig{Workers: 1},
			Cache: CacheConfig{TTL: time.Minute},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Log.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "log.format")

	cfg = valid()
	cfg.OCR.Language = ""
	assert.ErrorContains(t, cfg.Validate(), "ocr.language")

	cfg = valid()
	cfg.OCR.PageSegMode = 14
	assert.ErrorContains(t, cfg.Validate(), "page_seg_mode")

	cfg = valid()
	cfg.Cache.TTL = 0
	assert.ErrorContains(t, cfg.Validate(), "cache.ttl")
}
