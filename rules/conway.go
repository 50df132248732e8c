package rules

// Rule decides whether a cell is alive in the next generation given its current
// state and the number of live neighbors
type Rule func(neighbors int, alive bool) bool

/*
Conway applies Conway's Game of Life rules (B3/S23):

  - a live cell with 2 or 3 live neighbors survives
  - a dead cell with exactly 3 live neighbors is born
  - every other cell is dead in the next generation
*/
func Conway(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}
