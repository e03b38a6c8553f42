package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/sett/internal/export"
	"github.com/jmylchreest/sett/internal/weave"
)

// seedModeValue is a pflag.Value that only accepts known seed modes.
type seedModeValue weave.SeedMode

var _ pflag.Value = (*seedModeValue)(nil)

func (v *seedModeValue) String() string { return string(*v) }

func (v *seedModeValue) Set(s string) error {
	mode, err := weave.ParseSeedMode(s)
	if err != nil {
		return err
	}
	*v = seedModeValue(mode)
	return nil
}

func (v *seedModeValue) Type() string {
	modes := weave.ValidSeedModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

// formatValue is a pflag.Value for image output formats.
type formatValue export.Format

var _ pflag.Value = (*formatValue)(nil)

func (v *formatValue) String() string { return string(*v) }

func (v *formatValue) Set(s string) error {
	f, err := export.ParseFormat(s)
	if err != nil {
		return err
	}
	*v = formatValue(f)
	return nil
}

func (v *formatValue) Type() string { return "png|tiff|bmp" }

// outputFormat is the text/json switch used by commands that print data.
type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
)

func (v *outputFormat) String() string { return string(*v) }

func (v *outputFormat) Set(s string) error {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case outputText, outputJSON:
		*v = f
		return nil
	default:
		return fmt.Errorf("invalid format %q (valid: text, json)", s)
	}
}

func (v *outputFormat) Type() string { return "text|json" }
