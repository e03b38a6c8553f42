package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/sett/internal/compression"
)

// Format is a catalog file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks the format from a filename, ignoring any
// compression extension.
func FormatFromPath(path string) (Format, error) {
	_, base := compression.Detect(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported catalog file %q (supported: .yaml, .yml, .csv, optionally .gz, .bz2 or .xz compressed)", filepath.Base(path))
	}
}

type yamlFile struct {
	Tartans []Entry `yaml:"tartans"`
}

// ParseYAML parses a YAML document with a top-level "tartans" list.
func ParseYAML(data []byte) (*Catalog, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return New(f.Tartans)
}

// ParseCSV parses rows of name, threadcount and an optional description.
// A header row naming the columns is skipped.
func ParseCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var entries []Entry
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog CSV: %w", err)
		}
		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("catalog CSV line %d: want name,threadcount[,description], got %d fields", line, len(record))
		}
		e := Entry{Name: record[0], Threadcount: record[1]}
		if len(record) > 2 {
			e.Description = record[2]
		}
		entries = append(entries, e)
	}

	return New(entries)
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "name" || first == "tartanname" || first == "tartan"
}

// Load reads a catalog file. Compressed files (.gz, .bz2, .xz) are
// decompressed transparently.
func Load(path string, logger hclog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	kind, _ := compression.Detect(path)

	file, err := os.Open(path) // #nosec G304 - User-specified catalog path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	r, err := compression.NewReader(file, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}

	logger.Debug("loading catalog", "path", path, "format", format, "compression", string(kind))

	var c *Catalog
	switch format {
	case FormatYAML:
		data, readErr := io.ReadAll(r)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, readErr)
		}
		c, err = ParseYAML(data)
	case FormatCSV:
		c, err = ParseCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("loaded catalog", "path", path, "tartans", c.Len())
	return c, nil
}

// LoadAll starts from the built-in catalog and merges each file in order.
func LoadAll(paths []string, logger hclog.Logger) (*Catalog, error) {
	c := Default()
	for _, p := range paths {
		extra, err := Load(p, logger)
		if err != nil {
			return nil, err
		}
		c = c.Merge(extra)
	}
	return c, nil
}

// EncodeYAML renders the catalog in the same layout ParseYAML reads.
func (c *Catalog) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlFile{Tartans: c.entries}); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
