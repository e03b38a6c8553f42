package source

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/threadcount"
)

// Text parses a threadcount given on the command line.
type Text struct {
	value string
}

// NewText creates a new text source.
func NewText() *Text {
	return &Text{}
}

// Name returns the source name.
func (s *Text) Name() string {
	return "text"
}

// Description returns the source description.
func (s *Text) Description() string {
	return "Parse a threadcount string (flag or positional arguments)"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Text) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.value, "text.threadcount", "", "Threadcount to render (alternative to positional arguments)")
}

// Validate accepts any value; parse errors are reported when resolved.
func (s *Text) Validate() error {
	return nil
}

// Threadcount parses the flag value, or the positional arguments when the
// flag is unset. No input yields an empty threadcount.
func (s *Text) Threadcount(_ context.Context, opts Options) (threadcount.Threadcount, error) {
	text := s.value
	if text == "" {
		text = opts.joinedArgs()
	}
	opts.logger().Debug("parsing threadcount", "source", s.Name(), "text", text)
	return threadcount.Parse(text, opts.Palette)
}
