package render

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const textColumns = 48

type textRenderer struct {
	columns int
}

// NewText returns a renderer drawing the top view with box-drawing characters.
func NewText() LayoutRenderer {
	return textRenderer{columns: textColumns}
}

func (textRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render prints one character cell grid per pallet; terminal cells are about
// twice as tall as wide, so rows are halved.
func (r textRenderer) Render(w io.Writer, l Layout) error {
	if err := l.ValidateDrawn(1, DefaultMaxBoxes); err != nil {
		return err
	}

	scale := float64(r.columns) / math.Max(l.PalletLength, l.PalletWidth)
	cols := max(1, int(math.Round(l.PalletLength*scale)))
	rows := max(1, int(math.Round(l.PalletWidth*scale/2)))

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(".", cols))
	}

	cellW := l.BoxDims.X * scale
	cellH := l.BoxDims.Y * scale / 2
	for x := 0; x < l.XCount; x++ {
		for y := 0; y < l.YCount; y++ {
			x0, x1 := int(float64(x)*cellW), int(float64(x+1)*cellW)-1
			y0, y1 := int(float64(y)*cellH), int(float64(y+1)*cellH)-1
			drawBox(grid, x0, y0, max(x0, x1), max(y0, y1))
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	sb.WriteString(l.Caption())
	sb.WriteByte('\n')

	_, err := fmt.Fprint(w, sb.String())
	return err
}

func drawBox(grid [][]rune, x0, y0, x1, y1 int) {
	set := func(x, y int, r rune) {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = r
		}
	}
	for x := x0; x <= x1; x++ {
		set(x, y0, '-')
		set(x, y1, '-')
	}
	for y := y0; y <= y1; y++ {
		set(x0, y, '|')
		set(x1, y, '|')
	}
	set(x0, y0, '+')
	set(x1, y0, '+')
	set(x0, y1, '+')
	set(x1, y1, '+')
}
