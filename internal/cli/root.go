// Package cli provides the command-line interface for sett.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/config"
	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/version"
)

// app carries state shared by every subcommand once the root command has
// parsed its persistent flags.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	logger hclog.Logger
	cfg    *config.Config
	pal    *palette.Palette
}

// NewRootCmd builds the sett command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sett",
		Short: "Tartan threadcount parser and fabric renderer",
		Long: `sett turns a tartan threadcount such as "R18 K12 B6" into a woven fabric image.

It parses threadcounts, renders the mirrored sett as a square image or a
terminal preview, looks up named tartans in a catalog and recovers
threadcounts from images of striped or woven cloth.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newDetectCmd(a))
	rootCmd.AddCommand(newCatalogCmd(a))
	rootCmd.AddCommand(newPaletteCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup builds the logger and loads configuration before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := hclog.Info
	switch {
	case a.verbose:
		level = hclog.Debug
	case a.quiet:
		level = hclog.Error
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "sett",
		Level:  level,
		Output: cmd.ErrOrStderr(),
	})

	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		a.logger.Debug("loaded config", "path", cfg.Path)
	}

	pal, err := cfg.BuildPalette()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.pal = pal
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		// Version needs neither config nor logging.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
