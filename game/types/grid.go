package types

import (
	"errors"
	"fmt"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Grid represents the square board: Size cells per side, each TileSize
// pixels wide when rendered.
type Grid struct {
	Size     int
	TileSize float32
}

func NewGrid(size int, tileSize float32) (Grid, error) {
	if size < MinGridSize {
		return Grid{}, fmt.Errorf("%w: size %d is below %d", ErrInvalidGrid, size, MinGridSize)
	}
	if tileSize <= 0 {
		return Grid{}, fmt.Errorf("%w: tile size %v must be positive", ErrInvalidGrid, tileSize)
	}
	return Grid{Size: size, TileSize: tileSize}, nil
}

// CellToWorld maps a cell to the pixel center of its tile, with the board
// centered on the origin. No bounds checking is done.
func (g Grid) CellToWorld(p Point) (float32, float32) {
	offset := -float32(g.Size)*g.TileSize/2 + g.TileSize/2
	return offset + float32(p.X)*g.TileSize, offset + float32(p.Y)*g.TileSize
}

// InBounds reports whether p lies on the board.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// FoodRegion returns the half-open range [lo, hi) food may spawn in on
// both axes.
func (g Grid) FoodRegion() (lo, hi int) {
	return FoodInset, g.Size - FoodInset
}

// StartingBody returns the body seeded on every new game: three cells in a
// row heading right, head first.
func (g Grid) StartingBody() []Point {
	x := g.Size/2 - 5
	y := g.Size / 2
	body := make([]Point, InitialLength)
	for i := range body {
		body[i] = Point{X: x - i, Y: y}
	}
	return body
}
