package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FileName            = "timebox.yaml"
	defaultTimezone     = "Local"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultTickInterval = time.Second
	defaultHistoryLimit = 100
	defaultReminder     = "0 20 * * *"
)

type Config struct {
	DataDir          string        `yaml:"-"`
	DBPath           string        `yaml:"database_path"`
	PluginsDir       string        `yaml:"plugins_dir"`
	Timezone         string        `yaml:"timezone"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	TickInterval     time.Duration `yaml:"tick_interval"`
	HistoryLimit     int           `yaml:"history_limit"`
	ReminderSchedule string        `yaml:"reminder_schedule"`
	MetricsAddr      string        `yaml:"metrics_addr"`
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{DataDir: dataDir}
	cfg.applyDefaults()
	return cfg, nil
}

// Load reads an optional YAML file; a missing file yields the defaults for dataDir.
func Load(path, dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		path = filepath.Join(dataDir, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.applyDefaults()
	if cfg.HistoryLimit < 0 {
		return Config{}, fmt.Errorf("history_limit must be non-negative")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "timebox.db")
	} else if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(c.DataDir, c.DBPath)
	}
	if c.PluginsDir == "" {
		c.PluginsDir = filepath.Join(c.DataDir, "plugins")
	} else if !filepath.IsAbs(c.PluginsDir) {
		c.PluginsDir = filepath.Join(c.DataDir, c.PluginsDir)
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
	if c.ReminderSchedule == "" {
		c.ReminderSchedule = defaultReminder
	}
}

func (c Config) GetTimezone() *time.Location {
	if c.Timezone == "" || c.Timezone == defaultTimezone {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultDataDir is ~/.timebox, falling back to the working directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timebox"
	}
	return filepath.Join(home, ".timebox")
}
