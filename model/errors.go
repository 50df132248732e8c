package model

import "github.com/pkg/errors"

var (
	// ErrInvalidDimension is returned when a grid is requested with a non-positive size
	ErrInvalidDimension = errors.New("model: grid dimensions must be positive")

	// ErrOutOfBounds is returned when a coordinate falls outside the grid
	ErrOutOfBounds = errors.New("model: cell coordinate out of bounds")
)

func checkDimensions(fn string, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return errors.Wrapf(ErrInvalidDimension, "[%s] rows=%d cols=%d", fn, rows, cols)
	}
	return nil
}
