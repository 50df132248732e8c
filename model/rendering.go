package model

import (
	"bufio"
	"io"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	clearScreen = "\033[2J\033[H"
)

// TerminalRenderer writes grids to a terminal-like writer
type TerminalRenderer struct {
	Out io.Writer
}

// NewTerminalRenderer returns a renderer writing to out
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{Out: out}
}

// Display renders the grid, two characters per cell so cells look square
func (r *TerminalRenderer) Display(g *Grid) error {
	w := bufio.NewWriter(r.Out)
	for row := range g.Rows() {
		for col := range g.Cols() {
			if g.Alive(row, col) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Clear clears the terminal screen and homes the cursor
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.Out, clearScreen)
	return err
}
