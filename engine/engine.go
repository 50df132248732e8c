// Package engine computes Game of Life generations on bounded grids.
//
// Step is a pure function of its input: cells outside the grid are never counted as
// neighbors, and every next state is computed from the input grid alone.
package engine

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-interactive/model"
	"github.com/sheikhrachel/go-gol-interactive/rules"
)

// grids with fewer rows than this are stepped on the caller's goroutine
const parallelThreshold = 32

// Engine advances grids by one generation
type Engine struct {
	rule    rules.Rule
	workers int
}

// Option configures an Engine
type Option func(*Engine)

// WithRule replaces the Conway rule
func WithRule(rule rules.Rule) Option {
	return func(e *Engine) {
		if rule != nil {
			e.rule = rule
		}
	}
}

// WithWorkers sets how many row bands are computed in parallel. Values <= 0 use
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New returns an Engine applying Conway's rules
func New(opts ...Option) *Engine {
	e := &Engine{rule: rules.Conway}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// Step returns the next generation of g. g is not modified.
func (e *Engine) Step(g *model.Grid) *model.Grid {
	rows, cols := g.Rows(), g.Cols()
	next, err := model.NewBuilder(rows, cols)
	if err != nil {
		// a well-formed grid always has positive dimensions
		panic(err)
	}

	if e.workers == 1 || rows < parallelThreshold {
		e.stepRows(g, next, 0, rows)
		return next.Build()
	}

	var (
		eg            errgroup.Group
		numWorkers    = min(e.workers, rows)
		rowsPerWorker = (rows + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, rows)
		)
		if startRow >= rows {
			break
		}

		eg.Go(func() error {
			e.stepRows(g, next, startRow, endRow)
			return nil
		})
	}

	// workers never fail
	_ = eg.Wait()

	return next.Build()
}

func (e *Engine) stepRows(g *model.Grid, next *model.Builder, startRow, endRow int) {
	for row := startRow; row < endRow; row++ {
		for col := range g.Cols() {
			if e.rule(CountNeighbors(g, row, col), g.Alive(row, col)) {
				next.Set(row, col, true)
			}
		}
	}
}

// CountNeighbors counts the live cells among the up to eight in-bounds cells
// adjacent to (row, col)
func CountNeighbors(g *model.Grid, row, col int) int {
	count := 0

	minRow := max(0, row-1)
	maxRow := min(g.Rows()-1, row+1)
	minCol := max(0, col-1)
	maxCol := min(g.Cols()-1, col+1)

	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			if r == row && c == col {
				continue
			}
			if g.Alive(r, c) {
				count++
			}
		}
	}

	return count
}
