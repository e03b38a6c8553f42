// Package source provides the inputs a threadcount can be taken from.
package source

import (
	"context"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/detect"
	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/threadcount"
)

// Options holds values passed to a source when it is resolved.
type Options struct {
	// Palette the threadcount is parsed or matched against.
	Palette *palette.Palette

	// Args are the positional command-line arguments.
	Args []string

	// CatalogFiles are extra catalog files merged over the built-in catalog.
	CatalogFiles []string

	// Detect holds the configured detector settings. Nil means
	// detect.DefaultOptions.
	Detect *detect.Options

	Logger hclog.Logger
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

// joinedArgs returns the positional arguments as one string.
func (o Options) joinedArgs() string {
	return strings.TrimSpace(strings.Join(o.Args, " "))
}

// Source produces a threadcount.
type Source interface {
	// Name returns the source's name (e.g., "text", "catalog").
	Name() string

	// Description returns a human-readable description of the source.
	Description() string

	// RegisterFlags registers source-specific flags with cobra command.
	RegisterFlags(cmd *cobra.Command)

	// Validate checks the source's flag values before it is resolved.
	Validate() error

	// Threadcount resolves the source into a threadcount.
	Threadcount(ctx context.Context, opts Options) (threadcount.Threadcount, error)
}

// Registry holds all registered sources.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates a new source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// DefaultRegistry returns a registry with the built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewText())
	r.Register(NewCatalog())
	r.Register(NewImage())
	return r
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	r.sources[s.Name()] = s
}

// Get retrieves a source by name.
func (r *Registry) Get(name string) (Source, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// List returns all registered source names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterFlags registers the flags of every source on cmd.
func (r *Registry) RegisterFlags(cmd *cobra.Command) {
	for _, name := range r.List() {
		r.sources[name].RegisterFlags(cmd)
	}
}
