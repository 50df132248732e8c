package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDensity is the probability of a cell being alive after Randomize when the
// caller has no preference
const DefaultDensity = 0.25

// Grid is an immutable rows x cols board of cells.
//
// Every operation that changes a cell returns a new Grid, so a *Grid handed to a
// renderer stays valid while the simulation moves on.
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewGrid creates a new grid with the specified dimensions, all cells dead
func NewGrid(rows, cols int) (*Grid, error) {
	if err := checkDimensions("NewGrid", rows, cols); err != nil {
		return nil, err
	}
	return &Grid{rows: rows, cols: cols, cells: allocCells(rows, cols)}, nil
}

// Clear returns a fresh all-dead grid, equivalent to NewGrid
func Clear(rows, cols int) (*Grid, error) {
	if err := checkDimensions("Clear", rows, cols); err != nil {
		return nil, err
	}
	return &Grid{rows: rows, cols: cols, cells: allocCells(rows, cols)}, nil
}

func allocCells(rows, cols int) [][]bool {
	// one backing array keeps the rows contiguous
	backing := make([]bool, rows*cols)
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return cells
}

// Rows returns the number of rows in the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns in the grid
func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Get returns the state of a cell
func (g *Grid) Get(row, col int) (bool, error) {
	if !g.inBounds(row, col) {
		return false, errors.Wrapf(ErrOutOfBounds, "[Get] (%d,%d) outside %dx%d grid", row, col, g.rows, g.cols)
	}
	return g.cells[row][col], nil
}

// Alive reports the state of a cell, treating anything outside the grid as dead
func (g *Grid) Alive(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	return g.cells[row][col]
}

// WithToggled returns a copy of the grid with the cell at (row, col) flipped
func (g *Grid) WithToggled(row, col int) (*Grid, error) {
	if !g.inBounds(row, col) {
		return nil, errors.Wrapf(ErrOutOfBounds, "[WithToggled] (%d,%d) outside %dx%d grid", row, col, g.rows, g.cols)
	}
	next := g.clone()
	next.cells[row][col] = !next.cells[row][col]
	return next, nil
}

// Randomize returns a new grid of the same size where each cell is independently
// alive with probability p. A nil rng falls back to the global source.
func (g *Grid) Randomize(p float64, rng *rand.Rand) *Grid {
	roll := rand.Float64
	if rng != nil {
		roll = rng.Float64
	}

	next := &Grid{rows: g.rows, cols: g.cols, cells: allocCells(g.rows, g.cols)}
	for r := range g.rows {
		for c := range g.cols {
			next.cells[r][c] = roll() < p
		}
	}
	return next
}

func (g *Grid) clone() *Grid {
	next := &Grid{rows: g.rows, cols: g.cols, cells: allocCells(g.rows, g.cols)}
	for r := range g.rows {
		copy(next.cells[r], g.cells[r])
	}
	return next
}

// Cells returns a deep copy of the cell matrix
func (g *Grid) Cells() [][]bool {
	return g.clone().cells
}

// Equal reports whether two grids have the same size and cell states
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// Hash returns an MD5 digest of the grid state, used for cycle detection
func (g *Grid) Hash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.rows, g.cols)
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// String renders the grid with '#' for live and '.' for dead cells, one row per line
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Builder fills in a new grid exactly once. Set may be called concurrently as long
// as each goroutine writes its own rows.
type Builder struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewBuilder returns a builder for an all-dead rows x cols grid
func NewBuilder(rows, cols int) (*Builder, error) {
	if err := checkDimensions("NewBuilder", rows, cols); err != nil {
		return nil, err
	}
	return &Builder{rows: rows, cols: cols, cells: allocCells(rows, cols)}, nil
}

// Set marks a cell alive or dead, ignoring coordinates outside the grid
func (b *Builder) Set(row, col int, alive bool) {
	if row >= 0 && row < b.rows && col >= 0 && col < b.cols {
		b.cells[row][col] = alive
	}
}

// Build hands the cells over to a new Grid. The builder must not be used afterwards.
func (b *Builder) Build() *Grid {
	g := &Grid{rows: b.rows, cols: b.cols, cells: b.cells}
	b.cells = nil
	return g
}
