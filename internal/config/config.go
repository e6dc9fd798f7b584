package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "trackerhelper"

type Config struct {
	Dedupe DedupeConfig `koanf:"dedupe"`
	Fpcalc FpcalcConfig `koanf:"fpcalc"`
	Cache  CacheConfig  `koanf:"cache"`
	Log    LogConfig    `koanf:"log"`
}

// DedupeConfig holds scan and output settings.
type DedupeConfig struct {
	Roots       []string `koanf:"roots"`       // folders to scan (default: Albums, Singles)
	Exts        []string `koanf:"exts"`        // extra audio extensions, merged with the built-in set
	OutDir      string   `koanf:"out_dir"`     // report directory (default: _dedupe_reports)
	Jobs        int      `koanf:"jobs"`        // parallel fpcalc processes (default: NumCPU)
	Collections []string `koanf:"collections"` // collection folder names, in priority order
}

// FpcalcConfig holds Chromaprint settings.
type FpcalcConfig struct {
	Path    string `koanf:"path"`    // binary name or path (default: fpcalc)
	Timeout string `koanf:"timeout"` // per-file timeout, Go duration (default: 2m)
	Length  int    `koanf:"length"`  // seconds of audio to analyse, 0 = fpcalc default
}

// CacheConfig holds fingerprint cache settings.
type CacheConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Path    string `koanf:"path"`    // default: $XDG_DATA_HOME/trackerhelper/fingerprints.db
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error (default: warn)
	File       string `koanf:"file"`  // empty disables the log file
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// Load reads the user config, then ./trackerhelper.toml, then explicitPath.
// Later files override earlier ones. Missing implicit files are skipped; a
// missing explicit file is an error.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if explicitPath != "" {
		path := expandPath(explicitPath)
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, root := range cfg.Dedupe.Roots {
		cfg.Dedupe.Roots[i] = expandPath(root)
	}
	cfg.Dedupe.OutDir = expandPath(cfg.Dedupe.OutDir)
	cfg.Fpcalc.Path = expandPath(cfg.Fpcalc.Path)
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	if cfg.Fpcalc.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Fpcalc.Timeout); err != nil {
			return nil, fmt.Errorf("fpcalc.timeout: %w", err)
		}
	}
	if cfg.Fpcalc.Length < 0 {
		return nil, errors.New("fpcalc.length must not be negative")
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/trackerhelper/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./trackerhelper.toml (pwd)
		appName + ".toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetDedupeConfig returns the dedupe configuration with defaults applied.
// Exts is left as configured.
func (c *Config) GetDedupeConfig() DedupeConfig {
	cfg := c.Dedupe

	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"Albums", "Singles"}
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "_dedupe_reports"
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
	if len(cfg.Collections) == 0 {
		cfg.Collections = []string{"Albums", "Singles"}
	}

	return cfg
}

// GetFpcalcConfig returns the fpcalc configuration with defaults applied.
func (c *Config) GetFpcalcConfig() FpcalcConfig {
	cfg := c.Fpcalc

	if cfg.Path == "" {
		cfg.Path = "fpcalc"
	}
	if cfg.Timeout == "" {
		cfg.Timeout = "2m"
	}

	return cfg
}

// FpcalcTimeout returns the parsed per-file timeout.
func (c *Config) FpcalcTimeout() time.Duration {
	d, err := time.ParseDuration(c.GetFpcalcConfig().Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// CacheEnabled reports whether the fingerprint cache is used (default: true).
func (c *Config) CacheEnabled() bool {
	if c.Cache.Enabled == nil {
		return true
	}
	return *c.Cache.Enabled
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = "warn"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 28
	}

	return cfg
}
