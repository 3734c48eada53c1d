package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"image-splitter/internal/app"
	"image-splitter/internal/config"
	"image-splitter/internal/guide"
	"image-splitter/pkg/geometry"
)

type sliceFlags struct {
	lines   []float64
	snap    string
	grid    int
	outDir  string
	format  string
	quality int
}

func (f *sliceFlags) register(fs *pflag.FlagSet) {
	fs.Float64SliceVarP(&f.lines, "line", "l", nil, "guide line y coordinate (repeatable or comma separated)")
	fs.StringVar(&f.snap, "snap", "pixel", "snap mode: off, pixel or grid")
	fs.IntVar(&f.grid, "grid", 10, "grid size in pixels for --snap grid")
}

// bind maps the command's flags onto their config keys so that explicitly
// set flags override the config file and environment.
func bind(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

// newController loads path into a controller configured from viper and adds
// every requested line. Status messages are rendered to w.
func newController(opts *rootOptions, w io.Writer, path string, ys []float64) (*app.Controller, error) {
	mode, ok := geometry.ParseSnapMode(viper.GetString(config.KeySnapMode))
	if !ok {
		return nil, fmt.Errorf("unknown snap mode %q", viper.GetString(config.KeySnapMode))
	}

	for _, y := range ys {
		if !geometry.Finite(y) {
			return nil, fmt.Errorf("invalid line position %v", y)
		}
	}

	ctrl := app.NewController()
	ctrl.SetSnapMode(mode)
	ctrl.SetGridSize(config.GridSize())
	ctrl.On(app.EventStatus, func(data interface{}) {
		if s, ok := data.(app.Status); ok {
			fmt.Fprintln(w, opts.tr.Status(s))
		}
	})

	if !ctrl.LoadImage(path) {
		return nil, fmt.Errorf("cannot load image %s", path)
	}
	for _, y := range ys {
		ctrl.AddLine(y)
	}
	return ctrl, nil
}

func splitCmd(opts *rootOptions) *cobra.Command {
	var (
		f        sliceFlags
		asJSON   bool
		snapKeys = map[string]string{
			"snap":    config.KeySnapMode,
			"grid":    config.KeySnapGridSize,
			"out":     config.KeyExportOutputDir,
			"format":  config.KeyExportFormat,
			"quality": config.KeyExportQuality,
		}
	)

	cmd := &cobra.Command{
		Use:   "split IMAGE",
		Short: "Cut IMAGE along the given lines and write one file per slice",
		Long: `Cut IMAGE along the given lines and write one file per slice.

Slices are written to a new timestamped directory under --out and numbered
from the top: 001.png, 002.png, ... Lines that land on the same row after
snapping count once; lines on the image edges produce no file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bind(cmd, snapKeys); err != nil {
				return err
			}
			format, ok := guide.ParseExportFormat(viper.GetString(config.KeyExportFormat))
			if !ok {
				return fmt.Errorf("unknown format %q", viper.GetString(config.KeyExportFormat))
			}

			ctrl, err := newController(opts, cmd.ErrOrStderr(), args[0], f.lines)
			if err != nil {
				return err
			}

			result, _ := ctrl.Export(config.GetString(config.KeyExportOutputDir), format, config.JPEGQuality())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printWritten(cmd.OutOrStdout(), result)
			}

			if !result.Success() {
				for _, e := range result.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
				}
				return fmt.Errorf("%s", result.Summary())
			}
			return nil
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "parent directory for the export (default export.outputDir, else the home directory)")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(guide.FormatPNG), "output format: png, jpeg or keep")
	cmd.Flags().IntVarP(&f.quality, "quality", "q", 90, "JPEG quality 1-100")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the export result as JSON")
	return cmd
}

func printWritten(w io.Writer, result guide.ExportResult) {
	var total uint64
	for _, path := range result.Written {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintln(w, path)
			continue
		}
		size := uint64(info.Size())
		total += size
		fmt.Fprintf(w, "%-48s %10s\n", path, humanize.Bytes(size))
	}
	for _, seg := range result.Skipped {
		fmt.Fprintf(w, "skipped empty slice %s\n", seg)
	}
	fmt.Fprintf(w, "%s, %s total\n", result.Summary(), humanize.Bytes(total))
}
