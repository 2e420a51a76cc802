package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the environment variable holding an optional YAML config file.
const PathEnv = "LABEL_MCP_CONFIG"

// Config is the root configuration of the label server.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	OCR        OCRConfig        `yaml:"ocr"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
	Parse      ParseConfig      `yaml:"parse"`
	Scan       ScanConfig       `yaml:"scan"`
	Cache      CacheConfig      `yaml:"cache"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LABEL_MCP_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LABEL_MCP_LOG_FORMAT" env-default:"console"`
}

// OCRConfig holds Tesseract settings.
type OCRConfig struct {
	Language       string `yaml:"language"        env:"LABEL_MCP_OCR_LANGUAGE" env-default:"eng"`
	TessdataPrefix string `yaml:"tessdata_prefix" env:"TESSDATA_PREFIX"`
	PageSegMode    int    `yaml:"page_seg_mode"   env:"LABEL_MCP_OCR_PSM"      env-default:"3"`
}

// PreprocessConfig holds the image preparation applied before OCR.
type PreprocessConfig struct {
	Sharpen       bool    `yaml:"sharpen"        env:"LABEL_MCP_SHARPEN"        env-default:"true"`
	MinHeight     int     `yaml:"min_height"     env:"LABEL_MCP_MIN_HEIGHT"     env-default:"1000"`
	DarkThreshold float64 `yaml:"dark_threshold" env:"LABEL_MCP_DARK_THRESHOLD" env-default:"0.35"`
}

// ParseConfig holds text pipeline settings.
type ParseConfig struct {
	RepairMarkers bool `yaml:"repair_markers" env:"LABEL_MCP_REPAIR_MARKERS" env-default:"true"`
}

// ScanConfig holds batch scanning settings.
type ScanConfig struct {
	Workers int `yaml:"workers" env:"LABEL_MCP_WORKERS" env-default:"4"`
}

// CacheConfig holds image cache settings.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"LABEL_MCP_CACHE_TTL" env-default:"10m"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file is only read when LABEL_MCP_CONFIG is set, and then it must exist.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv(PathEnv); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges that the tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	c.Log.Level = strings.ToLower(c.Log.Level)
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be one of %v", c.Log.Level, logLevels))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q must be one of %v", c.Log.Format, logFormats))
	}
	if c.OCR.Language == "" {
		errs = append(errs, errors.New("ocr.language is required"))
	}
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		errs = append(errs, fmt.Errorf("ocr.page_seg_mode %d must be in 0..13", c.OCR.PageSegMode))
	}
	if c.Preprocess.MinHeight < 0 {
		errs = append(errs, fmt.Errorf("preprocess.min_height %d must not be negative", c.Preprocess.MinHeight))
	}
	if c.Preprocess.DarkThreshold < 0 || c.Preprocess.DarkThreshold > 1 {
		errs = append(errs, fmt.Errorf("preprocess.dark_threshold %v must be in 0..1", c.Preprocess.DarkThreshold))
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers %d must be at least 1", c.Scan.Workers))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl %v must be positive", c.Cache.TTL))
	}

	return errors.Join(errs...)
}
