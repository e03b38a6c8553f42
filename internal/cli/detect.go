package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/detect"
	imgloader "github.com/jmylchreest/sett/internal/image"
)

type detectOptions struct {
	detect   detect.Options
	format   outputFormat
	runs     bool
	cache    bool
	cacheDir string
}

func newDetectCmd(a *app) *cobra.Command {
	o := &detectOptions{detect: detect.DefaultOptions(), format: outputText}

	cmd := &cobra.Command{
		Use:   "detect <image|url>",
		Short: "Recover a threadcount from an image",
		Long: `Recover a threadcount from an image of striped or woven cloth.

A single row is sampled (the middle row by default), split into runs of
similar colour and matched to the nearest palette colours. For images
produced by "sett render" use --woven, which samples the diagonal where
each thread crosses itself.

Examples:
  sett detect cloth.jpg
  sett detect fabric.png --woven --thread-width 6
  sett detect https://example.com/tartan.png --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.detect.Row, "row", o.detect.Row, "Pixel row to sample (-1 for middle)")
	f.BoolVar(&o.detect.Woven, "woven", o.detect.Woven, "Sample the diagonal of a woven image")
	f.Float64Var(&o.detect.ThreadWidth, "thread-width", o.detect.ThreadWidth, "Pixel width of one thread")
	f.Float64Var(&o.detect.Tolerance, "tolerance", o.detect.Tolerance, "Colour distance that still extends a run")
	f.IntVar(&o.detect.MaxWidth, "max-width", o.detect.MaxWidth, "Downscale wider images to this width (0 disables)")
	f.BoolVar(&o.detect.TrimEdges, "trim-edges", o.detect.TrimEdges, "Drop the partial runs at both ends")
	f.BoolVar(&o.detect.Fold, "fold", o.detect.Fold, "Return only the half sett between mirror pivots")
	f.Var(&o.format, "format", "Output format (text, json)")
	f.BoolVar(&o.runs, "runs", false, "Also print the measured pixel runs")
	f.BoolVar(&o.cache, "cache", false, "Keep downloaded images and reuse them on later runs")
	f.StringVar(&o.cacheDir, "cache-dir", "", "Download cache directory (default user cache dir)")

	return cmd
}

func (o *detectOptions) options(a *app, cmd *cobra.Command) detect.Options {
	opts := a.cfg.DetectOptions()
	changed := cmd.Flags().Changed
	if changed("row") {
		opts.Row = o.detect.Row
	}
	if changed("woven") {
		opts.Woven = o.detect.Woven
	}
	if changed("thread-width") {
		opts.ThreadWidth = o.detect.ThreadWidth
	}
	if changed("tolerance") {
		opts.Tolerance = o.detect.Tolerance
	}
	if changed("max-width") {
		opts.MaxWidth = o.detect.MaxWidth
	}
	if changed("trim-edges") {
		opts.TrimEdges = o.detect.TrimEdges
	}
	if changed("fold") {
		opts.Fold = o.detect.Fold
	}
	opts.Logger = a.logger.Named("detect")
	return opts
}

func (o *detectOptions) run(a *app, cmd *cobra.Command, path string) error {
	if err := imgloader.ValidateImagePath(path); err != nil {
		return err
	}
	loader := imgloader.NewSmartLoader()
	if o.cache || o.cacheDir != "" {
		loader = loader.WithCache(o.cacheDir)
	}
	img, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	opts := o.options(a, cmd)
	res, err := detect.Detect(img, a.pal, opts)
	if err != nil {
		return fmt.Errorf("failed to detect threadcount in %s: %w", path, err)
	}
	if opts.Fold && !res.Folded {
		a.logger.Info("no mirror pivot found, threadcount is not folded")
	}

	out := cmd.OutOrStdout()
	if o.format == outputJSON {
		data, err := res.Threadcount.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to encode threadcount: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, res.Threadcount.String())
	if o.runs {
		table := NewTable([]string{"CODE", "PIXELS"})
		for _, r := range res.Runs {
			table.AddRow([]string{string(r.Code), strconv.Itoa(r.Width)})
		}
		fmt.Fprint(out, "\n"+table.Render())
	}
	return nil
}
