package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"ggufconv/internal/common/fsutil"
	"ggufconv/internal/convert"
)

// Defaults applied by WithDefaults when the corresponding field is unset.
const (
	DefaultAddr         = ":8080"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultMaxBodyBytes = int64(1 << 20)
)

// Config holds toolchain and runtime parameters.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Python        string `json:"python" yaml:"python" toml:"python"`
	ConvertScript string `json:"convert_script" yaml:"convert_script" toml:"convert_script"`
	QuantizeBin   string `json:"quantize_bin" yaml:"quantize_bin" toml:"quantize_bin"`
	WorkDir       string `json:"work_dir" yaml:"work_dir" toml:"work_dir"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	Addr         string   `json:"addr" yaml:"addr" toml:"addr"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled  bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods  []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders  []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Env variable names read by FromEnv.
const (
	EnvPython        = "GGUFCONV_PYTHON"
	EnvConvertScript = "GGUFCONV_CONVERT_SCRIPT"
	EnvQuantizeBin   = "GGUFCONV_QUANTIZE_BIN"
	EnvWorkDir       = "GGUFCONV_WORK_DIR"
	EnvLogLevel      = "GGUFCONV_LOG_LEVEL"
	EnvLogFormat     = "GGUFCONV_LOG_FORMAT"
	EnvAddr          = "GGUFCONV_ADDR"
	EnvMaxBodyBytes  = "GGUFCONV_MAX_BODY_BYTES"
)

// FromEnv overlays non-empty GGUFCONV_* variables onto cfg.
func FromEnv(cfg Config) Config {
	cfg.Python = envStr(EnvPython, cfg.Python)
	cfg.ConvertScript = envStr(EnvConvertScript, cfg.ConvertScript)
	cfg.QuantizeBin = envStr(EnvQuantizeBin, cfg.QuantizeBin)
	cfg.WorkDir = envStr(EnvWorkDir, cfg.WorkDir)
	cfg.LogLevel = envStr(EnvLogLevel, cfg.LogLevel)
	cfg.LogFormat = envStr(EnvLogFormat, cfg.LogFormat)
	cfg.Addr = envStr(EnvAddr, cfg.Addr)
	cfg.MaxBodyBytes = envInt64(EnvMaxBodyBytes, cfg.MaxBodyBytes)
	return cfg
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	def := convert.DefaultToolchain()
	if c.Python == "" {
		c.Python = def.Python
	}
	if c.ConvertScript == "" {
		c.ConvertScript = def.ConvertScript
	}
	if c.QuantizeBin == "" {
		c.QuantizeBin = def.QuantizeBin
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// Toolchain expands '~' in path fields and returns the converter toolchain.
func (c Config) Toolchain() (convert.Toolchain, error) {
	var t convert.Toolchain
	var err error
	if t.Python, err = fsutil.ExpandHome(c.Python); err != nil {
		return t, err
	}
	if t.ConvertScript, err = fsutil.ExpandHome(c.ConvertScript); err != nil {
		return t, err
	}
	if t.QuantizeBin, err = fsutil.ExpandHome(c.QuantizeBin); err != nil {
		return t, err
	}
	if t.Dir, err = fsutil.ExpandHome(c.WorkDir); err != nil {
		return t, err
	}
	return t, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
