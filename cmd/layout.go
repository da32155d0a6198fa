// File: cmd/layout.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
	"github.com/xkilldash9x/boxlayout/internal/browser/text"
	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/internal/scene"
)

// newLayoutCmd creates the `layout` command.
func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout <scene>",
		Short: "Lays out a scene file and prints the geometry of every box",
		Long: `Lays out a scene described in TOML, YAML or HTML (optionally .br or .gz
compressed) and prints each box's border box as a table or JSON.

A viewport set in the scene file wins over the configured one; --width and
--height win over both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			run := layoutRun{
				cfg:              cfg,
				path:             args[0],
				viewportFromFlag: flags.Changed("width") || flags.Changed("height"),
				out:              cmd.OutOrStdout(),
				logger:           observability.GetLogger(),
			}
			return run.execute(cmd.Context())
		},
	}

	layoutCmd.Flags().Float64("width", 0, "viewport width in px")
	layoutCmd.Flags().Float64("height", 0, "viewport height in px")
	layoutCmd.Flags().StringP("format", "f", config.FormatTable, "output format: table or json")
	layoutCmd.Flags().Bool("absolute", false, "report positions in viewport coordinates")
	layoutCmd.Flags().IntP("workers", "w", 1, "goroutines laying out sibling subtrees")
	layoutCmd.Flags().Int("auto-repeat-limit", layout.DefaultAutoRepeatLimit, "cap on auto-fill/auto-fit repetitions")
	layoutCmd.Flags().Float64("font-size", 0, "default font size in px")
	layoutCmd.Flags().Duration("timeout", 0, "abort the run after this long")
	return layoutCmd
}

// layoutRun is one execution of the layout command.
type layoutRun struct {
	cfg              config.Interface
	path             string
	viewportFromFlag bool
	out              io.Writer
	logger           *zap.Logger
}

func (r layoutRun) execute(ctx context.Context) error {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return err
	}
	if strings.EqualFold(r.cfg.Output().Format, config.FormatJSON) {
		return scene.WriteJSON(r.out, snap)
	}
	return scene.WriteTable(r.out, snap)
}

// snapshot loads and lays out the scene.
func (r layoutRun) snapshot(ctx context.Context) (*scene.BoxSnapshot, error) {
	runID := uuid.New().String()
	logger := r.logger.With(zap.String("run_id", runID))
	layoutCfg := r.cfg.Layout()

	if layoutCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, layoutCfg.Timeout)
		defer cancel()
	}

	viewport := layout.Size{Width: layoutCfg.ViewportWidth, Height: layoutCfg.ViewportHeight}
	tc := r.cfg.Text()
	s, err := scene.NewLoader(logger, viewport, scene.WithBaseFont(tc.FontSize, tc.FontFamily)).Load(r.path)
	if err != nil {
		return nil, err
	}
	if s.Diagnostics != nil {
		logger.Warn("Scene has invalid declarations; they were ignored",
			zap.String("path", r.path),
			zap.Error(s.Diagnostics),
		)
	}
	if s.Viewport != (layout.Size{}) && !r.viewportFromFlag {
		viewport = s.Viewport
	}

	engine := newEngine(r.cfg, s.Images, logger)
	start := time.Now()
	if err := engine.Layout(ctx, s.Tree, viewport); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("layout of %s timed out after %s: %w", r.path, layoutCfg.Timeout, err)
		}
		return nil, fmt.Errorf("layout of %s failed: %w", r.path, err)
	}
	logger.Info("Layout complete",
		zap.String("path", r.path),
		zap.Int("boxes", s.Tree.Len()),
		zap.Float64("viewport_width", viewport.Width),
		zap.Float64("viewport_height", viewport.Height),
		zap.Duration("elapsed", time.Since(start)),
	)
	return scene.Snapshot(s.Tree, r.cfg.Output().Absolute), nil
}

// newEngine builds a layout engine from configuration.
func newEngine(cfg config.Interface, images layout.ImageSizer, logger *zap.Logger) *layout.Engine {
	tc := cfg.Text()
	measurer := text.NewMeasurer(text.Options{
		FontSize:     tc.FontSize,
		LineHeight:   tc.LineHeight,
		AdvanceRatio: tc.AdvanceRatio,
		FontFamily:   tc.FontFamily,
	})
	return layout.NewEngine(measurer, images,
		layout.WithLogger(logger),
		layout.WithAutoRepeatLimit(cfg.Layout().AutoRepeatLimit),
		layout.WithParallelism(cfg.Layout().Workers),
	)
}
