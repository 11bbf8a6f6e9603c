package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the routine CLI.
type Config struct {
	DBPath      string `yaml:"db_path"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	LogUseCases bool   `yaml:"log_use_cases"`
}

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultConfig places the database under ~/.routine and logs warnings only.
func DefaultConfig(home string) Config {
	return Config{
		DBPath:    filepath.Join(home, ".routine", "routine.db"),
		LogLevel:  "warn",
		LogFormat: FormatText,
	}
}

// Load builds the configuration from defaults, then ~/.routine/config.yaml
// (or ROUTINE_CONFIG), then environment variables. A .env file in the
// working directory is loaded into the environment first if present.
func Load() (Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := DefaultConfig(home)

	path := os.Getenv("ROUTINE_CONFIG")
	if path == "" {
		path = filepath.Join(home, ".routine", "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if file.DBPath != "" {
		c.DBPath = expandHome(file.DBPath)
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
	}
	if file.LogUseCases {
		c.LogUseCases = true
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ROUTINE_DB"); v != "" {
		c.DBPath = expandHome(v)
	}
	if v := os.Getenv("ROUTINE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ROUTINE_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("ROUTINE_LOG_USE_CASES"); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
}

// Level parses LogLevel, defaulting to warn for unknown values.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
