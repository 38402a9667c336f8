package pixl

import (
	"github.com/pkg/errors"
)

// Errors reported by grid construction and cell access.
var (
	ErrInvalidSize = errors.New("grid side must be positive")
	ErrOutOfBounds = errors.New("cell coordinates out of bounds")
)

// DefaultSide is the side length of a grid when none is configured.
const DefaultSide = 32

// Grid is an immutable square matrix of colors representing the drawable
// surface. Editing methods return a new snapshot and never touch the
// receiver, which keeps every snapshot referenced by a History valid
// forever. The dimensions never change after construction.
type Grid struct {
	side  int
	cells []Color
}

// NewGrid creates a side x side grid with every cell set to white.
func NewGrid(side int) (Grid, error) {
	if side <= 0 {
		return Grid{}, errors.Wrapf(ErrInvalidSize, "side %d", side)
	}
	cells := make([]Color, side*side)
	for i := range cells {
		cells[i] = White
	}
	return Grid{side: side, cells: cells}, nil
}

// Side returns the grid dimension.
func (g Grid) Side() int { return g.side }

// Cell returns the color at (row, col).
func (g Grid) Cell(row, col int) (Color, error) {
	if !g.contains(row, col) {
		return Color{}, errors.Wrapf(ErrOutOfBounds, "cell (%d,%d) on a %dx%d grid", row, col, g.side, g.side)
	}
	return g.cells[row*g.side+col], nil
}

// SetCell returns a new snapshot identical to the receiver except for
// the cell at (row, col). On a bounds violation the receiver is left
// untouched and no snapshot is produced.
func (g Grid) SetCell(row, col int, c Color) (Grid, error) {
	if !g.contains(row, col) {
		return Grid{}, errors.Wrapf(ErrOutOfBounds, "cell (%d,%d) on a %dx%d grid", row, col, g.side, g.side)
	}
	cells := make([]Color, len(g.cells))
	copy(cells, g.cells)
	cells[row*g.side+col] = c
	return Grid{side: g.side, cells: cells}, nil
}

// blank returns a snapshot of the same dimensions with every cell white.
func (g Grid) blank() Grid {
	cells := make([]Color, len(g.cells))
	for i := range cells {
		cells[i] = White
	}
	return Grid{side: g.side, cells: cells}
}

func (g Grid) contains(row, col int) bool {
	return row >= 0 && row < g.side && col >= 0 && col < g.side
}
