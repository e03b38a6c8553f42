package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Table lays rows out in aligned columns under a header and a dashed rule.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // 0 or absent means no limit
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		padding:   2,
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth wraps text in column col at word boundaries so that it
// is at most width characters wide.
func (t *Table) SetColumnMaxWidth(col, width int) {
	t.maxWidths[col] = width
}

// AddRow adds a row, padded or truncated to the number of headers.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats the table.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Each row becomes one or more lines once long cells are wrapped.
	wrapped := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		wrapped[r] = make([][]string, len(row))
		for c, cell := range row {
			wrapped[r][c] = wrapText(cell, t.maxWidths[c])
		}
	}

	widths := make([]int, len(t.headers))
	for c, h := range t.headers {
		widths[c] = displayWidth(h)
	}
	for _, row := range wrapped {
		for c, lines := range row {
			for _, line := range lines {
				widths[c] = max(widths[c], displayWidth(line))
			}
		}
	}

	var b strings.Builder
	gap := strings.Repeat(" ", t.padding)
	writeLine := func(cells []string) {
		for c, cell := range cells {
			if c > 0 {
				b.WriteString(gap)
			}
			if c == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(padRight(cell, widths[c]))
		}
		b.WriteString("\n")
	}

	writeLine(t.headers)
	rule := make([]string, len(widths))
	for c, w := range widths {
		rule[c] = strings.Repeat("-", w)
	}
	writeLine(rule)

	for _, row := range wrapped {
		height := 1
		for _, lines := range row {
			height = max(height, len(lines))
		}
		for i := range height {
			cells := make([]string, len(row))
			for c, lines := range row {
				if i < len(lines) {
					cells[c] = lines[i]
				}
			}
			writeLine(cells)
		}
	}

	return b.String()
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// displayWidth counts printed characters, ignoring ANSI colour sequences.
func displayWidth(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

func padRight(s string, width int) string {
	if n := displayWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrapText splits text into lines of at most width characters, breaking at
// spaces and splitting words that are longer than a line.
func wrapText(text string, width int) []string {
	if width <= 0 || displayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}
