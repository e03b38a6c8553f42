package palette

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 4
)

// Swatch returns an ANSI-coloured block for a colour.
// Width specifies how many characters wide the block should be.
func Swatch(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return Background(c) + strings.Repeat(" ", width) + ansiReset
}

// Background returns the escape sequence selecting c as background colour.
func Background(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

// Foreground returns the escape sequence selecting c as foreground colour.
func Foreground(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}

// Reset returns the escape sequence restoring default colours.
func Reset() string {
	return ansiReset
}

// FormatEntry formats an entry with its swatch, code, name and hex value.
func FormatEntry(e Entry, withSwatch bool) string {
	line := fmt.Sprintf("%-3s %-12s %s", e.Code, e.Name, e.RGB.Hex())
	if withSwatch {
		return Swatch(e.RGB, defaultWidth) + " " + line
	}
	return line
}

// IsTerminal reports whether f is attached to a terminal. Swatches are only
// printed by default when it is, so piped output stays plain text.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
