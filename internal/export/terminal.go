package export

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/term"

	"github.com/jmylchreest/sett/internal/palette"
)

// DefaultTerminalWidth is used when the terminal width cannot be determined.
const DefaultTerminalWidth = 80

// TerminalWidth returns the column count of f if it is a terminal, or
// DefaultTerminalWidth otherwise.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return DefaultTerminalWidth
	}
	fd := int(f.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return DefaultTerminalWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultTerminalWidth
	}
	return w
}

// Terminal draws img as cols columns of upper half blocks, each cell showing
// two vertically stacked pixels with truecolour foreground and background.
func Terminal(w io.Writer, img image.Image, cols int) error {
	if cols <= 0 {
		return fmt.Errorf("preview width must be positive, got %d", cols)
	}
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("image is empty")
	}

	rows := max(1, cols*b.Dy()/b.Dx())
	// Two pixel rows per text line.
	if rows%2 == 1 {
		rows++
	}
	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.NearestNeighbor.Scale(small, small.Bounds(), img, b, draw.Src, nil)

	bw := bufio.NewWriter(w)
	for y := 0; y < rows; y += 2 {
		for x := range cols {
			top := palette.ToRGB(small.RGBAAt(x, y))
			bottom := palette.ToRGB(small.RGBAAt(x, y+1))
			fmt.Fprintf(bw, "%s%s▀", palette.Foreground(top), palette.Background(bottom))
		}
		fmt.Fprintf(bw, "%s\n", palette.Reset())
	}
	return bw.Flush()
}
