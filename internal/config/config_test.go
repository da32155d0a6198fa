// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "boxlayout", cfg.Logger().ServiceName)
	assert.Equal(t, "green", cfg.Logger().Colors.Info)
	assert.Equal(t, 800.0, cfg.Layout().ViewportWidth)
	assert.Equal(t, 600.0, cfg.Layout().ViewportHeight)
	assert.Equal(t, 1000, cfg.Layout().AutoRepeatLimit)
	assert.Equal(t, 1, cfg.Layout().Workers)
	assert.Equal(t, 30*time.Second, cfg.Layout().Timeout)
	assert.Equal(t, 16.0, cfg.Text().FontSize)
	assert.Equal(t, "sans-serif", cfg.Text().FontFamily)
	assert.Equal(t, FormatTable, cfg.Output().Format)
	assert.False(t, cfg.Output().Absolute)
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "Valid Defaults", mutate: func(c *Config) {}},
		{
			name:    "Zero Viewport",
			mutate:  func(c *Config) { c.SetLayoutViewport(0, 600) },
			wantErr: "viewport_width and viewport_height must be positive",
		},
		{
			name:    "Zero Auto Repeat Limit",
			mutate:  func(c *Config) { c.LayoutCfg.AutoRepeatLimit = 0 },
			wantErr: "auto_repeat_limit must be a positive integer",
		},
		{
			name:    "Negative Workers",
			mutate:  func(c *Config) { c.SetLayoutWorkers(-2) },
			wantErr: "workers must be a positive integer",
		},
		{
			name:    "Negative Timeout",
			mutate:  func(c *Config) { c.LayoutCfg.Timeout = -time.Second },
			wantErr: "timeout must not be negative",
		},
		{
			name:    "Zero Font Size",
			mutate:  func(c *Config) { c.TextCfg.FontSize = 0 },
			wantErr: "font_size must be positive",
		},
		{
			name:    "Zero Advance",
			mutate:  func(c *Config) { c.TextCfg.AdvanceRatio = 0 },
			wantErr: "advance_ratio must be positive",
		},
		{
			name:    "Unknown Output Format",
			mutate:  func(c *Config) { c.SetOutputFormat("xml") },
			wantErr: `output.format must be "table" or "json"`,
		},
		{name: "Output Format Is Case Insensitive", mutate: func(c *Config) { c.SetOutputFormat("JSON") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Overrides From YAML", func(t *testing.T) {
		yamlBytes := []byte(`
logger:
  level: debug
  format: json
layout:
  viewport_width: 1024
  workers: 4
  timeout: 5s
text:
  font_family: monospace
output:
  format: json
  absolute: true
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger().Level)
		assert.Equal(t, "json", cfg.Logger().Format)
		assert.Equal(t, 1024.0, cfg.Layout().ViewportWidth)
		assert.Equal(t, 600.0, cfg.Layout().ViewportHeight, "unset keys keep their defaults")
		assert.Equal(t, 4, cfg.Layout().Workers)
		assert.Equal(t, 5*time.Second, cfg.Layout().Timeout)
		assert.Equal(t, "monospace", cfg.Text().FontFamily)
		assert.Equal(t, FormatJSON, cfg.Output().Format)
		assert.True(t, cfg.Output().Absolute)
	})

	t.Run("Invalid Values Fail Validation", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("layout.auto_repeat_limit", -1)

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Type Mismatch Fails Unmarshal", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("layout.workers", "many")

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error unmarshaling config")
	})
}
