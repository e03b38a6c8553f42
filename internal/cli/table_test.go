package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"NAME", "THREADCOUNT"})
	table.AddRow([]string{"Black Watch"})
	table.AddRow([]string{"Royal Stewart", "R8 B4", "extra"})

	if len(table.rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.rows))
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}
	if table.rows[0][1] != "" {
		t.Errorf("padded cell = %q, want empty", table.rows[0][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"CODE", "COLOUR", "COUNT"})
	table.AddRow([]string{"R", "red", "18"})
	table.AddRow([]string{"DG", "dark green", "4"})

	want := "CODE  COLOUR      COUNT\n" +
		"----  ----------  -----\n" +
		"R     red         18\n" +
		"DG    dark green  4\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}

	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() without headers = %q, want empty", got)
	}
}

func TestTableRenderWrapped(t *testing.T) {
	table := NewTable([]string{"NAME", "DESCRIPTION"})
	table.SetColumnMaxWidth(1, 12)
	table.AddRow([]string{"Campbell", "Clan Campbell of Argyll"})

	lines := strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n")
	want := []string{
		"NAME      DESCRIPTION",
		"--------  -----------",
		"Campbell  Clan",
		"          Campbell of",
		"          Argyll",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableIgnoresANSIWidth(t *testing.T) {
	table := NewTable([]string{"SWATCH", "CODE"})
	table.AddRow([]string{"\x1b[48;2;200;0;0m    \x1b[0m", "R"})

	lines := strings.Split(table.Render(), "\n")
	if lines[1] != "------  ----" {
		t.Errorf("rule = %q, want widths from visible text", lines[1])
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"short", 10, []string{"short"}},
		{"no limit at all", 0, []string{"no limit at all"}},
		{"one two three", 7, []string{"one two", "three"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
	}
	for _, tt := range tests {
		got := wrapText(tt.text, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
