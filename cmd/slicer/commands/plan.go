package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"image-splitter/internal/config"
	"image-splitter/internal/export"
	"image-splitter/internal/guide"
)

func planCmd(opts *rootOptions) *cobra.Command {
	var (
		f      sliceFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "plan IMAGE",
		Short: "Show the slices split would write, without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bind(cmd, map[string]string{
				"snap":   config.KeySnapMode,
				"grid":   config.KeySnapGridSize,
				"format": config.KeyExportFormat,
			}); err != nil {
				return err
			}
			fmtVal, ok := guide.ParseExportFormat(viper.GetString(config.KeyExportFormat))
			if !ok {
				return fmt.Errorf("unknown format %q", viper.GetString(config.KeyExportFormat))
			}

			ctrl, err := newController(opts, cmd.ErrOrStderr(), args[0], f.lines)
			if err != nil {
				return err
			}

			width, height, _ := ctrl.ImageSize()
			plan := export.NewPlan(height, guide.Ys(ctrl.SortedLines()))
			ext, enc := export.Resolve(fmtVal, filepath.Ext(ctrl.ImagePath()))
			pad := export.PadWidth(len(plan.Valid))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s x %s px, encoder %s\n", filepath.Base(ctrl.ImagePath()),
				humanize.Comma(int64(width)), humanize.Comma(int64(height)), enc.Name())

			bounds := make([]string, len(plan.Boundaries))
			for i, b := range plan.Boundaries {
				bounds[i] = fmt.Sprint(b)
			}
			fmt.Fprintf(out, "boundaries: %s\n", strings.Join(bounds, " "))

			n := 0
			for _, seg := range plan.Candidates {
				if !seg.Valid() {
					fmt.Fprintf(out, "%-12s %-16s\n", "(skipped)", seg)
					continue
				}
				n++
				fmt.Fprintf(out, "%-12s %-16s %8s px\n", export.FileName(n, pad, ext), seg,
					humanize.Comma(int64(seg.Height())))
			}
			return nil
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", string(guide.FormatPNG), "output format: png, jpeg or keep")
	return cmd
}
