// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// flagKeys maps command flags onto the config keys they override.
var flagKeys = map[string]string{
	"width":             "layout.viewport_width",
	"height":            "layout.viewport_height",
	"workers":           "layout.workers",
	"auto-repeat-limit": "layout.auto_repeat_limit",
	"timeout":           "layout.timeout",
	"format":            "output.format",
	"absolute":          "output.absolute",
	"font-size":         "text.font_size",
	"log-level":         "logger.level",
}

// NewRootCommand builds a fresh command tree with its own viper instance, so
// repeated executions share no flag or config state.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "boxlayout",
		Short:         "boxlayout computes CSS box geometry for block, flex and grid scenes.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetDefaults(v)
			if err := initializeConfig(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			if err := bindFlags(cmd, v); err != nil {
				return err
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "boxlayout"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting boxlayout",
				zap.String("version", Version),
				zap.String("config_file", v.ConfigFileUsed()),
			)

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./boxlayout.yaml, then ~/.boxlayout/boxlayout.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newLayoutCmd())
	rootCmd.AddCommand(newTracksCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with the given context and logs any failure.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			observability.GetLogger().Warn("Command cancelled")
		} else {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		}
	}
	observability.Sync()
	return err
}

// initializeConfig reads the config file, if any, and enables BOXLAYOUT_*
// environment overrides.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".boxlayout"))
		}
		v.SetConfigName("boxlayout")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BOXLAYOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// bindFlags lets flags the running command defines override config values.
// Only flags set on the command line take effect.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// configFromContext returns the config stored by PersistentPreRunE.
func configFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, errors.New("configuration missing from command context")
	}
	return cfg, nil
}
