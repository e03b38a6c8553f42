package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/palette"
)

func newPaletteCmd(a *app) *cobra.Command {
	format := outputText
	var swatches, noSwatches bool

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List colour codes and their colours",
		Long: `List the colour codes a threadcount may use, including any overrides
from the config file. Swatches are shown when stdout is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := a.pal.Entries()
			out := cmd.OutOrStdout()

			if format == outputJSON {
				type jsonEntry struct {
					Code string `json:"code"`
					Name string `json:"name"`
					Hex  string `json:"hex"`
				}
				list := make([]jsonEntry, len(entries))
				for i, e := range entries {
					list[i] = jsonEntry{Code: string(e.Code), Name: e.Name, Hex: e.RGB.Hex()}
				}
				data, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode palette: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			show := palette.IsTerminal(os.Stdout)
			if swatches {
				show = true
			}
			if noSwatches {
				show = false
			}
			for _, e := range entries {
				fmt.Fprintln(out, palette.FormatEntry(e, show))
			}
			return nil
		},
	}

	cmd.Flags().Var(&format, "format", "Output format (text, json)")
	cmd.Flags().BoolVar(&swatches, "swatches", false, "Always show colour swatches")
	cmd.Flags().BoolVar(&noSwatches, "no-swatches", false, "Never show colour swatches")
	cmd.MarkFlagsMutuallyExclusive("swatches", "no-swatches")

	return cmd
}
