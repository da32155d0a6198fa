// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// Commands depend on it so tests can hand them a prepared config.
type Interface interface {
	Logger() LoggerConfig
	Layout() LayoutConfig
	Text() TextConfig
	Output() OutputConfig

	// Layout Setters
	SetLayoutViewport(width, height float64)
	SetLayoutWorkers(int)

	// Output Setters
	SetOutputFormat(string)
	SetOutputAbsolute(bool)
}

// Config holds the entire application configuration. Fields are exported for
// viper's decoder; callers go through the Interface getters.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	LayoutCfg LayoutConfig `mapstructure:"layout" yaml:"layout"`
	TextCfg   TextConfig   `mapstructure:"text" yaml:"text"`
	OutputCfg OutputConfig `mapstructure:"output" yaml:"output"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Layout() LayoutConfig { return c.LayoutCfg }
func (c *Config) Text() TextConfig     { return c.TextCfg }
func (c *Config) Output() OutputConfig { return c.OutputCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetLayoutViewport(width, height float64) {
	c.LayoutCfg.ViewportWidth = width
	c.LayoutCfg.ViewportHeight = height
}
func (c *Config) SetLayoutWorkers(w int) { c.LayoutCfg.Workers = w }

func (c *Config) SetOutputFormat(f string) { c.OutputCfg.Format = f }
func (c *Config) SetOutputAbsolute(b bool) { c.OutputCfg.Absolute = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// LayoutConfig configures the layout engine.
type LayoutConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	// AutoRepeatLimit caps repetitions generated by auto-fill and auto-fit.
	AutoRepeatLimit int `mapstructure:"auto_repeat_limit" yaml:"auto_repeat_limit"`
	// Workers bounds the goroutines laying out sibling subtrees. 1 is sequential.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// Timeout bounds a whole command run, scene loading included. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// TextConfig configures the approximate text measurer.
type TextConfig struct {
	FontSize     float64 `mapstructure:"font_size" yaml:"font_size"`
	LineHeight   float64 `mapstructure:"line_height" yaml:"line_height"`
	AdvanceRatio float64 `mapstructure:"advance_ratio" yaml:"advance_ratio"`
	FontFamily   string  `mapstructure:"font_family" yaml:"font_family"`
}

// OutputConfig selects how layout results are printed.
type OutputConfig struct {
	Format   string `mapstructure:"format" yaml:"format"`
	Absolute bool   `mapstructure:"absolute" yaml:"absolute"`
}

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxlayout")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Layout --
	v.SetDefault("layout.viewport_width", 800.0)
	v.SetDefault("layout.viewport_height", 600.0)
	v.SetDefault("layout.auto_repeat_limit", 1000)
	v.SetDefault("layout.workers", 1)
	v.SetDefault("layout.timeout", "30s")

	// -- Text --
	v.SetDefault("text.font_size", 16.0)
	v.SetDefault("text.line_height", 1.2)
	v.SetDefault("text.advance_ratio", 0.5)
	v.SetDefault("text.font_family", "sans-serif")

	// -- Output --
	v.SetDefault("output.format", FormatTable)
	v.SetDefault("output.absolute", false)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.LayoutCfg.Validate(); err != nil {
		return fmt.Errorf("layout configuration invalid: %w", err)
	}
	if err := c.TextCfg.Validate(); err != nil {
		return fmt.Errorf("text configuration invalid: %w", err)
	}
	switch strings.ToLower(c.OutputCfg.Format) {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatTable, FormatJSON, c.OutputCfg.Format)
	}
	return nil
}

// Validate checks the LayoutConfig settings.
func (l *LayoutConfig) Validate() error {
	if l.ViewportWidth <= 0 || l.ViewportHeight <= 0 {
		return fmt.Errorf("viewport_width and viewport_height must be positive")
	}
	if l.AutoRepeatLimit <= 0 {
		return fmt.Errorf("auto_repeat_limit must be a positive integer")
	}
	if l.Workers <= 0 {
		return fmt.Errorf("workers must be a positive integer")
	}
	if l.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Validate checks the TextConfig settings.
func (t *TextConfig) Validate() error {
	if t.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive")
	}
	if t.LineHeight <= 0 {
		return fmt.Errorf("line_height must be positive")
	}
	if t.AdvanceRatio <= 0 {
		return fmt.Errorf("advance_ratio must be positive")
	}
	return nil
}
