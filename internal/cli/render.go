package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/export"
	"github.com/jmylchreest/sett/internal/source"
	"github.com/jmylchreest/sett/internal/threadcount"
	"github.com/jmylchreest/sett/internal/weave"
)

type renderOptions struct {
	input    string
	sources  *source.Registry
	weave    weave.Options
	seedMode seedModeValue
	seed     int64
	output   string
	format   formatValue
	terminal bool
	cols     int
}

func newRenderCmd(a *app) *cobra.Command {
	o := &renderOptions{
		input:    "text",
		sources:  source.DefaultRegistry(),
		weave:    weave.DefaultOptions(),
		seedMode: seedModeValue(weave.SeedModeContent),
		format:   formatValue(export.FormatPNG),
	}

	cmd := &cobra.Command{
		Use:   "render [threadcount...]",
		Short: "Render a threadcount as a woven fabric image",
		Long: `Render a threadcount as a square woven fabric image.

The threadcount is mirrored into a symmetric sett, tiled, woven and cropped
to --size. Write the result to a file with --output ("-" for stdout) or
preview it in the terminal with --terminal.

Inputs:
  text     - threadcount from positional arguments or --text.threadcount
  catalog  - named tartan from the catalog
  image    - threadcount detected from an image file or URL

Examples:
  sett render R18 K12 B6 -o fabric.png
  sett render --input catalog "Black Watch" --twill --terminal
  sett render --input image cloth.jpg --image.woven -o copy.tiff
  sett render K4 R24 --texture --seed-mode manual --seed 42 -o cloth.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", o.input, "Threadcount source ("+strings.Join(o.sources.List(), ", ")+")")
	f.IntVar(&o.weave.Size, "size", o.weave.Size, "Output side length in pixels")
	f.Float64Var(&o.weave.ThreadWidth, "thread-width", o.weave.ThreadWidth, "Pixels per thread")
	f.IntVar(&o.weave.MaxRunWidth, "max-run-width", o.weave.MaxRunWidth, "Maximum pixel width of a single run")
	f.BoolVar(&o.weave.Twill, "twill", o.weave.Twill, "Shade a 2/2 twill pattern")
	f.Float64Var(&o.weave.TwillStrength, "twill-strength", o.weave.TwillStrength, "Twill brightness change (0-1)")
	f.Float64Var(&o.weave.EdgeEmphasis, "edge", o.weave.EdgeEmphasis, "Edge emphasis applied with twill (0-1)")
	f.BoolVar(&o.weave.Texture, "texture", o.weave.Texture, "Add per-pixel yarn noise")
	f.IntVar(&o.weave.TextureAmplitude, "texture-amplitude", o.weave.TextureAmplitude, "Maximum noise per channel")
	f.Var(&o.seedMode, "seed-mode", "Texture seed mode")
	f.Int64Var(&o.seed, "seed", 0, "Texture seed (with --seed-mode manual)")
	f.StringVarP(&o.output, "output", "o", "", `Output file ("-" for stdout)`)
	f.Var(&o.format, "format", "Output image format (default from --output extension)")
	f.BoolVar(&o.terminal, "terminal", false, "Print a truecolour preview to the terminal")
	f.IntVar(&o.cols, "columns", 0, "Preview width in columns (default terminal width)")

	o.sources.RegisterFlags(cmd)

	return cmd
}

// weaveOptions starts from the configured defaults and applies any flag the
// user set explicitly.
func (o *renderOptions) weaveOptions(a *app, cmd *cobra.Command) weave.Options {
	opts := a.cfg.WeaveOptions()
	changed := cmd.Flags().Changed
	if changed("size") {
		opts.Size = o.weave.Size
	}
	if changed("thread-width") {
		opts.ThreadWidth = o.weave.ThreadWidth
	}
	if changed("max-run-width") {
		opts.MaxRunWidth = o.weave.MaxRunWidth
	}
	if changed("twill") {
		opts.Twill = o.weave.Twill
	}
	if changed("twill-strength") {
		opts.TwillStrength = o.weave.TwillStrength
	}
	if changed("edge") {
		opts.EdgeEmphasis = o.weave.EdgeEmphasis
	}
	if changed("texture") {
		opts.Texture = o.weave.Texture
	}
	if changed("texture-amplitude") {
		opts.TextureAmplitude = o.weave.TextureAmplitude
	}
	return opts
}

func (o *renderOptions) outputFormat(a *app, cmd *cobra.Command) export.Format {
	if cmd.Flags().Changed("format") {
		return export.Format(o.format)
	}
	if o.output != "" && o.output != "-" && filepath.Ext(o.output) != "" {
		return export.FormatFromPath(o.output)
	}
	f, _ := export.ParseFormat(a.cfg.Render.Format)
	return f
}

func (o *renderOptions) run(a *app, cmd *cobra.Command, args []string) error {
	if o.output == "" && !o.terminal {
		return errors.New("nothing to do: use --output and/or --terminal")
	}

	src, ok := o.sources.Get(o.input)
	if !ok {
		return fmt.Errorf("unknown input %q (available: %s)", o.input, strings.Join(o.sources.List(), ", "))
	}
	if err := src.Validate(); err != nil {
		return err
	}

	detectOpts := a.cfg.DetectOptions()
	tc, err := src.Threadcount(cmd.Context(), source.Options{
		Palette:      a.pal,
		Args:         args,
		CatalogFiles: a.cfg.Catalogs,
		Detect:       &detectOpts,
		Logger:       a.logger.Named(src.Name()),
	})
	if err != nil {
		return err
	}
	if tc.Empty() {
		a.logger.Warn("threadcount is empty, nothing to render")
		return nil
	}

	opts := o.weaveOptions(a, cmd)
	if opts.Texture {
		if opts.Seed, err = o.textureSeed(a, cmd, tc, opts); err != nil {
			return err
		}
	}

	fabric, err := weave.Render(tc, a.pal, opts)
	if err != nil {
		return err
	}
	a.logger.Info("rendered fabric",
		"threadcount", tc.String(),
		"size", opts.Size,
		"repeat", fabric.RepeatWidth,
		"repeats", fabric.Repeats)

	if o.output != "" {
		if err := o.write(a, cmd, fabric); err != nil {
			return err
		}
	}

	if o.terminal {
		cols := o.cols
		if cols <= 0 {
			cols = export.TerminalWidth(os.Stdout)
		}
		if err := export.Terminal(cmd.OutOrStdout(), fabric.Image, cols); err != nil {
			return err
		}
	}

	return nil
}

func (o *renderOptions) textureSeed(a *app, cmd *cobra.Command, tc threadcount.Threadcount, opts weave.Options) (int64, error) {
	mode := weave.SeedMode(o.seedMode)
	if !cmd.Flags().Changed("seed-mode") {
		if cfgMode, err := weave.ParseSeedMode(a.cfg.Render.SeedMode); err == nil {
			mode = cfgMode
		}
	}

	var value *int64
	if cmd.Flags().Changed("seed") {
		value = &o.seed
	}

	seed, err := weave.CalculateSeed(mode, tc, opts, value)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate seed: %w", err)
	}
	a.logger.Debug("texture seed", "mode", string(mode), "seed", seed)
	return seed, nil
}

func (o *renderOptions) write(a *app, cmd *cobra.Command, fabric *weave.Fabric) error {
	format := o.outputFormat(a, cmd)
	if o.output == "-" {
		return export.Encode(cmd.OutOrStdout(), fabric.Image, format)
	}
	if err := export.WriteFile(o.output, fabric.Image, format); err != nil {
		return err
	}
	a.logger.Info("wrote image", "path", o.output, "format", string(format))
	return nil
}
