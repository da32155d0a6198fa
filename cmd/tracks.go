// File: cmd/tracks.go
package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
	"github.com/xkilldash9x/boxlayout/internal/browser/parser"
	"github.com/xkilldash9x/boxlayout/internal/browser/style"
	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/observability"
)

// trackRow is one line of tracks output.
type trackRow struct {
	Track     int      `json:"track"`
	Position  float64  `json:"position"`
	Size      float64  `json:"size"`
	Collapsed bool     `json:"collapsed,omitempty"`
	LineNames []string `json:"line_names,omitempty"`
}

// newTracksCmd creates the `tracks` command.
func newTracksCmd() *cobra.Command {
	var (
		available float64
		gap       string
		rows      bool
	)
	tracksCmd := &cobra.Command{
		Use:   "tracks <template>",
		Short: "Expands and sizes a grid track template",
		Example: `  boxlayout tracks "repeat(auto-fill, minmax(120px, 1fr))" --available 500 --gap 10px
  boxlayout tracks "[header] 60px [main] 1fr" --rows --available 400`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			axis, prop := layout.Horizontal, "grid-template-columns"
			if rows {
				axis, prop = layout.Vertical, "grid-template-rows"
			}
			if !cmd.Flags().Changed("available") {
				available = cfg.Layout().ViewportWidth
				if rows {
					available = cfg.Layout().ViewportHeight
				}
			}

			// Semicolons would smuggle in other declarations.
			if strings.ContainsAny(args[0]+gap, ";{}") {
				return fmt.Errorf("invalid template %q", args[0])
			}
			css := fmt.Sprintf("display: grid; %s: %s; gap: %s", prop, args[0], gap)
			s, err := style.NewComputer(available, available).Compute(parser.ParseInline(css), nil)
			if err != nil {
				return fmt.Errorf("invalid template: %w", err)
			}

			engine := newEngine(cfg, nil, observability.GetLogger())
			tracks, err := engine.ResolveTracks(s, axis, available)
			if err != nil {
				return err
			}
			return writeTracks(cmd.OutOrStdout(), tracks, cfg.Output().Format)
		},
	}
	tracksCmd.Flags().Float64Var(&available, "available", 0, "definite size of the grid container's content box (default viewport size)")
	tracksCmd.Flags().StringVar(&gap, "gap", "0px", "gap between tracks")
	tracksCmd.Flags().BoolVar(&rows, "rows", false, "treat the template as grid-template-rows")
	tracksCmd.Flags().StringP("format", "f", config.FormatTable, "output format: table or json")
	return tracksCmd
}

func writeTracks(w io.Writer, tracks []layout.TrackInfo, format string) error {
	out := make([]trackRow, len(tracks))
	for i, t := range tracks {
		out[i] = trackRow{
			Track:     i + 1,
			Position:  roundPx(t.Position),
			Size:      roundPx(t.Size),
			Collapsed: t.Collapsed,
			LineNames: t.LineNames,
		}
	}

	if strings.EqualFold(format, config.FormatJSON) {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tracks: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACK\tPOSITION\tSIZE\tLINE NAMES")
	for _, r := range out {
		size := fmt.Sprintf("%.2f", r.Size)
		if r.Collapsed {
			size += " (collapsed)"
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\n", r.Track, r.Position, size, strings.Join(r.LineNames, " "))
	}
	return tw.Flush()
}

func roundPx(v float64) float64 {
	return math.Round(v*100) / 100
}
