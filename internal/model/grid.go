package model

import (
	"errors"
	"fmt"
)

// MaxNeighbors is the size of a full Moore neighborhood.
const MaxNeighbors = 8

var (
	ErrInvalidDimensions = errors.New("model: grid rows and cols must be positive")
	ErrNegativeK         = errors.New("model: k must be non-negative")
)

// Cell is a (row, col) coordinate inside a grid.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// mooreOffsets lists neighbor offsets in the order NW, N, NE, W, E, SW, S, SE.
var mooreOffsets = [MaxNeighbors][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid is a rectangular array of cells. The zero value is an empty grid.
type Grid struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// NewGrid returns a grid of the given size, rejecting non-positive dimensions.
func NewGrid(rows, cols int) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return Grid{}, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	return Grid{Rows: rows, Cols: cols}, nil
}

// Size returns the number of cells.
func (g Grid) Size() int {
	if g.Rows <= 0 || g.Cols <= 0 {
		return 0
	}
	return g.Rows * g.Cols
}

// InBounds reports whether c lies within the grid.
func (g Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Index maps c to its row-major index.
func (g Grid) Index(c Cell) int {
	return c.Row*g.Cols + c.Col
}

// Cells returns every cell in row-major order.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Size())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// Neighbors returns the Moore neighborhood of c clipped to the grid.
// Corners have 3 neighbors, edges 5 and interior cells 8.
func (g Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, MaxNeighbors)
	for _, d := range mooreOffsets {
		n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// NeighborMap maps each cell to its ordered neighbor list.
type NeighborMap map[Cell][]Cell

// NeighborMap computes the neighbor list of every cell once.
func (g Grid) NeighborMap() NeighborMap {
	nm := make(NeighborMap, g.Size())
	for _, c := range g.Cells() {
		nm[c] = g.Neighbors(c)
	}
	return nm
}

// MaxDegree returns the largest neighbor count of any cell in the grid.
func (g Grid) MaxDegree() int {
	if g.Size() == 0 {
		return 0
	}
	// The cell closest to the center always has the most neighbors.
	return len(g.Neighbors(Cell{Row: g.Rows / 2, Col: g.Cols / 2}))
}

// Request is a single solve input.
type Request struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
	K    int `json:"k" yaml:"k"`
}

// Validate rejects non-positive dimensions and negative k.
func (r Request) Validate() error {
	if r.Rows <= 0 || r.Cols <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, r.Rows, r.Cols)
	}
	if r.K < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeK, r.K)
	}
	return nil
}

// Grid returns the grid described by the request.
func (r Request) Grid() (Grid, error) {
	return NewGrid(r.Rows, r.Cols)
}
