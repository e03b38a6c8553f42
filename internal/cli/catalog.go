package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/sett/internal/catalog"
	"github.com/jmylchreest/sett/internal/export"
	"github.com/jmylchreest/sett/internal/security"
	"github.com/jmylchreest/sett/internal/weave"
)

type catalogOptions struct {
	files  []string
	format outputFormat
}

func newCatalogCmd(a *app) *cobra.Command {
	o := &catalogOptions{format: outputText}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and render the tartan catalog",
		Long: `Browse the catalog of named tartans.

The built-in catalog can be extended with YAML or CSV files, optionally
compressed (.gz, .bz2, .xz), given with --file or listed under "catalogs"
in the config file. Later files replace same-named tartans.`,
	}

	cmd.PersistentFlags().StringArrayVar(&o.files, "file", nil, "Extra catalog file (repeatable)")
	cmd.PersistentFlags().Var(&o.format, "format", "Output format (text, json)")

	cmd.AddCommand(
		newCatalogListCmd(a, o),
		newCatalogSearchCmd(a, o),
		newCatalogShowCmd(a, o),
		newCatalogValidateCmd(a, o),
		newCatalogRenderAllCmd(a, o),
		newCatalogExportCmd(a, o),
	)

	return cmd
}

func (o *catalogOptions) load(a *app) (*catalog.Catalog, error) {
	files := append(append([]string{}, a.cfg.Catalogs...), o.files...)
	return catalog.LoadAll(files, a.logger.Named("catalog"))
}

func (o *catalogOptions) writeEntries(cmd *cobra.Command, entries []catalog.Entry) error {
	out := cmd.OutOrStdout()
	if o.format == outputJSON {
		if entries == nil {
			entries = []catalog.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	table := NewTable([]string{"NAME", "THREADCOUNT", "DESCRIPTION"})
	table.SetColumnMaxWidth(2, 48)
	for _, e := range entries {
		table.AddRow([]string{e.Name, e.Threadcount, e.Description})
	}
	fmt.Fprint(out, table.Render())
	return nil
}

func newCatalogListCmd(a *app, o *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every tartan in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := o.load(a)
			if err != nil {
				return err
			}
			return o.writeEntries(cmd, c.Search(""))
		},
	}
}

func newCatalogSearchCmd(a *app, o *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <prefix>",
		Short: "Find tartans whose name starts with a prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load(a)
			if err != nil {
				return err
			}
			matches := c.Search(strings.Join(args, " "))
			if len(matches) == 0 {
				a.logger.Info("no tartans match", "prefix", strings.Join(args, " "))
			}
			return o.writeEntries(cmd, matches)
		},
	}
}

func newCatalogShowCmd(a *app, o *catalogOptions) *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a tartan's threadcount and sett",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load(a)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			entry, ok := c.Get(name)
			if !ok {
				return fmt.Errorf("tartan %q not found in catalog", name)
			}
			tc, err := entry.Parse(a.pal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if o.format == outputJSON {
				data, err := json.MarshalIndent(struct {
					catalog.Entry
					Sett string `json:"sett"`
				}{entry, tc.Mirror().String()}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode tartan: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "%s\n", entry.Name)
			if entry.Description != "" {
				fmt.Fprintf(out, "%s\n", entry.Description)
			}
			fmt.Fprintln(out)
			return writeThreadcount(out, tc, a.pal, preview)
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "Show colour swatches")
	return cmd
}

func newCatalogValidateCmd(a *app, o *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every catalog threadcount parses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := o.load(a)
			if err != nil {
				return err
			}
			if err := c.Validate(a.pal); err != nil {
				return fmt.Errorf("catalog is invalid:\n%w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tartans OK\n", c.Len())
			return nil
		},
	}
}

func newCatalogExportCmd(a *app, o *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the merged catalog as YAML",
		Long: `Print the built-in catalog merged with any extra files as YAML, in the
layout accepted by --file and the "catalogs" config list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := o.load(a)
			if err != nil {
				return err
			}
			data, err := c.EncodeYAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

type renderAllOptions struct {
	dir    string
	size   int
	twill  bool
	format formatValue
	jobs   int
}

func newCatalogRenderAllCmd(a *app, o *catalogOptions) *cobra.Command {
	r := &renderAllOptions{format: formatValue(export.FormatPNG), jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render-all <dir>",
		Short: "Render every tartan in the catalog into a directory",
		Long: `Render every tartan in the catalog into a directory, one file per tartan
named after it (e.g. "black-watch.png"). Renders run concurrently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r.dir = args[0]
			c, err := o.load(a)
			if err != nil {
				return err
			}
			return r.run(cmd.Context(), a, cmd, c)
		},
	}

	cmd.Flags().IntVar(&r.size, "size", 0, "Output side length in pixels (default from config)")
	cmd.Flags().BoolVar(&r.twill, "twill", false, "Shade a 2/2 twill pattern")
	cmd.Flags().Var(&r.format, "image-format", "Output image format")
	cmd.Flags().IntVarP(&r.jobs, "jobs", "j", r.jobs, "Maximum concurrent renders")

	return cmd
}

func (r *renderAllOptions) run(ctx context.Context, a *app, cmd *cobra.Command, c *catalog.Catalog) error {
	opts := a.cfg.WeaveOptions()
	if r.size > 0 {
		opts.Size = r.size
	}
	if cmd.Flags().Changed("twill") {
		opts.Twill = r.twill
	}
	format := export.Format(r.format)
	if !cmd.Flags().Changed("image-format") {
		if f, err := export.ParseFormat(a.cfg.Render.Format); err == nil {
			format = f
		}
	}

	entries := c.Entries()
	paths, err := r.outputPaths(entries, format)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.jobs))

	for i, entry := range entries {
		path := paths[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tc, err := entry.Parse(a.pal)
			if err != nil {
				return err
			}
			entryOpts := opts
			if entryOpts.Texture {
				entryOpts.Seed = weave.ContentSeed(tc, entryOpts)
			}
			fabric, err := weave.Render(tc, a.pal, entryOpts)
			if err != nil {
				return fmt.Errorf("tartan %q: %w", entry.Name, err)
			}

			if err := export.WriteFile(path, fabric.Image, format); err != nil {
				return fmt.Errorf("tartan %q: %w", entry.Name, err)
			}
			a.logger.Debug("rendered tartan", "name", entry.Name, "path", path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("rendered catalog", "tartans", c.Len(), "dir", r.dir)
	return nil
}

// outputPaths names one file per entry inside r.dir. Names that collide
// after sanitising get a numeric suffix.
func (r *renderAllOptions) outputPaths(entries []catalog.Entry, format export.Format) ([]string, error) {
	seen := make(map[string]int, len(entries))
	paths := make([]string, len(entries))
	for i, e := range entries {
		stem := security.SafeFilename(e.Name)
		if stem == "" {
			stem = "tartan"
		}
		seen[stem]++
		if n := seen[stem]; n > 1 {
			stem = fmt.Sprintf("%s-%d", stem, n)
		}

		name := stem + format.Extension()
		if err := security.ValidateFilePath(name, r.dir); err != nil {
			return nil, fmt.Errorf("tartan %q: %w", e.Name, err)
		}
		paths[i] = filepath.Join(r.dir, name)
	}
	return paths, nil
}
