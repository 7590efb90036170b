// Package config loads settings from the environment and an optional YAML
// file, and sets up logging.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/dedup-go/internal/engine"
	"github.com/raphaelgruber/dedup-go/internal/fileio"
)

// Config holds all configuration values.
type Config struct {
	// Engine
	ShortHashBytes  int64
	HashWidth       int
	Strategy        string
	ProgressPercent int

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Path of the YAML file that was applied, empty if none.
	File string
}

// fileConfig mirrors the YAML file. Absent keys leave defaults alone.
type fileConfig struct {
	ShortHashBytes  *int64  `yaml:"short_hash_bytes"`
	HashWidth       *int    `yaml:"hash_width"`
	Strategy        *string `yaml:"strategy"`
	ProgressPercent *int    `yaml:"progress_percent"`
	LogFile         *string `yaml:"log_file"`
	LogLevel        *string `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ShortHashBytes:  engine.DefaultShortHashBytes,
		HashWidth:       int(fileio.DefaultHashWidth),
		Strategy:        string(engine.StrategyTiered),
		ProgressPercent: engine.DefaultProgressPercent,
		LogFile:         filepath.Join(os.TempDir(), "dedup.log"),
		LogLevel:        slog.LevelInfo,
	}
}

// Load builds the configuration from defaults, then the YAML file, then
// environment variables. The file is taken from DEDUP_CONFIG, falling back
// to $XDG_CONFIG_HOME/dedup/config.yaml when that exists.
func Load() (Config, error) {
	cfg := Defaults()

	path, explicit := configPath()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.ShortHashBytes < 0 {
		return fmt.Errorf("short hash bytes must not be negative: %d", c.ShortHashBytes)
	}
	if _, err := fileio.ParseHashWidth(c.HashWidth); err != nil {
		return err
	}
	if _, err := engine.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.ProgressPercent < 1 || c.ProgressPercent > 100 {
		return fmt.Errorf("progress percent must be between 1 and 100: %d", c.ProgressPercent)
	}
	return nil
}

func configPath() (path string, explicit bool) {
	if p := os.Getenv("DEDUP_CONFIG"); p != "" {
		return p, true
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dedup", "config.yaml"), false
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.ShortHashBytes != nil {
		c.ShortHashBytes = *fc.ShortHashBytes
	}
	if fc.HashWidth != nil {
		c.HashWidth = *fc.HashWidth
	}
	if fc.Strategy != nil {
		c.Strategy = *fc.Strategy
	}
	if fc.ProgressPercent != nil {
		c.ProgressPercent = *fc.ProgressPercent
	}
	if fc.LogFile != nil {
		c.LogFile = *fc.LogFile
	}
	if fc.LogLevel != nil {
		c.LogLevel = parseLogLevel(*fc.LogLevel)
	}
	c.File = path
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.ShortHashBytes, err = getEnvInt64("DEDUP_SHORT_HASH_BYTES", c.ShortHashBytes); err != nil {
		return err
	}
	if c.HashWidth, err = getEnvInt("DEDUP_HASH_WIDTH", c.HashWidth); err != nil {
		return err
	}
	if c.ProgressPercent, err = getEnvInt("DEDUP_PROGRESS_PERCENT", c.ProgressPercent); err != nil {
		return err
	}
	c.Strategy = getEnv("DEDUP_STRATEGY", c.Strategy)
	c.LogFile = getEnv("DEDUP_LOG_FILE", c.LogFile)
	if level := os.Getenv("DEDUP_LOG_LEVEL"); level != "" {
		c.LogLevel = parseLogLevel(level)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
