package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/threadcount"
)

type parseOptions struct {
	format  outputFormat
	preview bool
}

func newParseCmd(a *app) *cobra.Command {
	o := &parseOptions{format: outputText}

	cmd := &cobra.Command{
		Use:   "parse <threadcount...>",
		Short: "Parse a threadcount and show its runs and mirrored sett",
		Long: `Parse a threadcount and print its runs and the mirrored sett.

Tokens are a colour code and a thread count in either order, separated by
spaces or commas. Counts may be decimals or fractions.

Examples:
  sett parse R18 K12 B6
  sett parse "dr4, 12g, Y1/2" --format json
  sett parse K8 R4 --preview`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args)
		},
	}

	cmd.Flags().Var(&o.format, "format", "Output format (text, json)")
	cmd.Flags().BoolVar(&o.preview, "preview", false, "Show colour swatches")

	return cmd
}

func (o *parseOptions) run(a *app, cmd *cobra.Command, args []string) error {
	tc, err := threadcount.Parse(strings.Join(args, " "), a.pal)
	if err != nil {
		return err
	}
	if tc.Empty() {
		a.logger.Warn("threadcount is empty")
	}

	out := cmd.OutOrStdout()
	if o.format == outputJSON {
		data, err := tc.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to encode threadcount: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	return writeThreadcount(out, tc, a.pal, o.preview)
}

// writeThreadcount prints a threadcount, its sett and a table of its runs.
func writeThreadcount(w io.Writer, tc threadcount.Threadcount, pal *palette.Palette, preview bool) error {
	sett := tc.Mirror()
	fmt.Fprintf(w, "Threadcount: %s\n", tc)
	fmt.Fprintf(w, "Sett:        %s\n", sett)
	fmt.Fprintf(w, "Threads:     %s per repeat\n\n", strconv.FormatFloat(sett.Total(), 'f', -1, 64))

	headers := []string{"CODE", "COLOUR", "COUNT", "HEX"}
	if preview {
		headers = append(headers, "SWATCH")
	}
	table := NewTable(headers)
	for _, run := range tc {
		entry, ok := pal.Lookup(run.Code)
		if !ok {
			return fmt.Errorf("colour code %s is not in the palette", run.Code)
		}
		row := []string{string(run.Code), entry.Name, strconv.FormatFloat(run.Count, 'f', -1, 64), entry.RGB.Hex()}
		if preview {
			row = append(row, palette.Swatch(entry.RGB, 4))
		}
		table.AddRow(row)
	}

	_, err := io.WriteString(w, table.Render())
	return err
}
