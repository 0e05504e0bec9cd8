package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries runtime options for brt. Values are read once at
// startup; nothing reconfigures at runtime.
type Config struct {
	Interval    time.Duration // process sampling period
	AuxInterval time.Duration // battery/uptime polling period
	FrameRate   float64       // render frames per second
	HistoryLen  int           // CPU readings kept per process
	Thresholds  [4]float64    // sparkline intensity bounds
	PageSize    int           // rows moved by page up/down
	Sort        string        // initial sort key
	LogLevel    string
	DataDir     string // log file location; empty means user cache dir
}

func Default() Config {
	return Config{
		Interval:    2 * time.Second,
		AuxInterval: 5 * time.Second,
		FrameRate:   15,
		HistoryLen:  10,
		Thresholds:  [4]float64{0.1, 20, 50, 70},
		PageSize:    20,
		Sort:        "pid",
		LogLevel:    "info",
	}
}

// fileConfig mirrors Config for the optional YAML file. Pointer fields
// distinguish "absent" from zero.
type fileConfig struct {
	Interval    *time.Duration `yaml:"interval"`
	AuxInterval *time.Duration `yaml:"aux_interval"`
	FrameRate   *float64       `yaml:"frame_rate"`
	HistoryLen  *int           `yaml:"history"`
	Thresholds  *[4]float64    `yaml:"thresholds"`
	PageSize    *int           `yaml:"page"`
	Sort        *string        `yaml:"sort"`
	LogLevel    *string        `yaml:"log_level"`
	DataDir     *string        `yaml:"data_dir"`
}

// FromFlags builds the config from defaults, then the optional YAML
// file named by -config, then flags, then environment overrides.
func FromFlags(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("brt", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "process sampling interval")
	fs.DurationVar(&cfg.AuxInterval, "aux-interval", cfg.AuxInterval, "battery/uptime polling interval")
	fs.Float64Var(&cfg.FrameRate, "frame-rate", cfg.FrameRate, "render frames per second")
	fs.IntVar(&cfg.HistoryLen, "history", cfg.HistoryLen, "CPU readings kept per process")
	fs.IntVar(&cfg.PageSize, "page", cfg.PageSize, "rows moved by page up/down")
	fs.StringVar(&cfg.Sort, "sort", cfg.Sort, "initial sort key: pid|name|command|threads|cpu")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the log file")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		if err := cfg.applyFile(*configPath); err != nil {
			return cfg, err
		}
		// Flags win over the file; re-parse them on top.
		if err := fs.Parse(args); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("BRT_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Interval = parsed
		}
	}
	if v := os.Getenv("BRT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BRT_DATA"); v != "" {
		cfg.DataDir = v
	}

	return cfg, cfg.validate()
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if fc.Interval != nil {
		c.Interval = *fc.Interval
	}
	if fc.AuxInterval != nil {
		c.AuxInterval = *fc.AuxInterval
	}
	if fc.FrameRate != nil {
		c.FrameRate = *fc.FrameRate
	}
	if fc.HistoryLen != nil {
		c.HistoryLen = *fc.HistoryLen
	}
	if fc.Thresholds != nil {
		c.Thresholds = *fc.Thresholds
	}
	if fc.PageSize != nil {
		c.PageSize = *fc.PageSize
	}
	if fc.Sort != nil {
		c.Sort = *fc.Sort
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.DataDir != nil {
		c.DataDir = *fc.DataDir
	}
	return nil
}

func (c *Config) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.AuxInterval <= 0 {
		return fmt.Errorf("aux-interval must be positive, got %v", c.AuxInterval)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame-rate must be positive, got %v", c.FrameRate)
	}
	if c.HistoryLen <= 0 {
		return fmt.Errorf("history must be positive, got %d", c.HistoryLen)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page must be positive, got %d", c.PageSize)
	}
	for i := 1; i < len(c.Thresholds); i++ {
		if c.Thresholds[i] <= c.Thresholds[i-1] {
			return fmt.Errorf("thresholds must be strictly increasing, got %v", c.Thresholds)
		}
	}
	return nil
}

// FramePeriod converts the frame rate to a tick duration.
func (c Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}
