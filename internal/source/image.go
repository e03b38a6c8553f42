package source

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/sett/internal/detect"
	imgloader "github.com/jmylchreest/sett/internal/image"
	"github.com/jmylchreest/sett/internal/threadcount"
)

// Image detects a threadcount from a photo or rendered image.
type Image struct {
	path   string
	opts   detect.Options
	flags  *pflag.FlagSet
	loader imgloader.Loader
}

// NewImage creates a new image source using a SmartLoader.
func NewImage() *Image {
	return NewImageWithLoader(imgloader.NewSmartLoader())
}

// NewImageWithLoader creates a new image source that loads through l.
func NewImageWithLoader(l imgloader.Loader) *Image {
	return &Image{opts: detect.DefaultOptions(), loader: l}
}

// Name returns the source name.
func (s *Image) Name() string {
	return "image"
}

// Description returns the source description.
func (s *Image) Description() string {
	return "Detect a threadcount from an image file or URL"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Image) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.path, "image.path", "", "Image file or URL (alternative to positional argument)")
	cmd.Flags().IntVar(&s.opts.Row, "image.row", s.opts.Row, "Pixel row to sample (-1 for middle)")
	cmd.Flags().BoolVar(&s.opts.Woven, "image.woven", s.opts.Woven, "Sample the diagonal of a woven image")
	cmd.Flags().Float64Var(&s.opts.ThreadWidth, "image.thread-width", s.opts.ThreadWidth, "Pixel width of one thread in the image")
	cmd.Flags().Float64Var(&s.opts.Tolerance, "image.tolerance", s.opts.Tolerance, "Colour distance that still extends a run")
	cmd.Flags().BoolVar(&s.opts.Fold, "image.fold", s.opts.Fold, "Return only the half sett between mirror pivots")
	s.flags = cmd.Flags()
}

// Validate checks the detection options.
func (s *Image) Validate() error {
	if s.opts.ThreadWidth <= 0 {
		return fmt.Errorf("--image.thread-width must be positive")
	}
	if s.opts.Tolerance < 0 {
		return fmt.Errorf("--image.tolerance must not be negative")
	}
	return nil
}

// Threadcount loads the image and runs detection on it.
func (s *Image) Threadcount(ctx context.Context, opts Options) (threadcount.Threadcount, error) {
	path := s.path
	if path == "" {
		path = opts.joinedArgs()
	}
	if err := imgloader.ValidateImagePath(path); err != nil {
		return nil, err
	}

	img, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	dopts := s.detectOptions(opts)
	dopts.Logger = opts.logger()
	res, err := detect.Detect(img, opts.Palette, dopts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect threadcount in %s: %w", path, err)
	}
	return res.Threadcount, nil
}

// detectOptions starts from the configured detector settings and applies
// the --image.* flags that were set explicitly.
func (s *Image) detectOptions(opts Options) detect.Options {
	dopts := detect.DefaultOptions()
	if opts.Detect != nil {
		dopts = *opts.Detect
	}
	if s.flags == nil {
		return dopts
	}

	changed := s.flags.Changed
	if changed("image.row") {
		dopts.Row = s.opts.Row
	}
	if changed("image.woven") {
		dopts.Woven = s.opts.Woven
	}
	if changed("image.thread-width") {
		dopts.ThreadWidth = s.opts.ThreadWidth
	}
	if changed("image.tolerance") {
		dopts.Tolerance = s.opts.Tolerance
	}
	if changed("image.fold") {
		dopts.Fold = s.opts.Fold
	}
	return dopts
}
