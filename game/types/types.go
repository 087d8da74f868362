package types

import "fmt"

// Game constants
const (
	MinGridSize         = 20  // Smallest board the food inset still leaves room on
	DefaultGridSize     = 20  // Cells per side
	DefaultTileSize     = 30. // Pixels per cell
	FoodInset           = 5   // Cells kept free of food along every edge
	InitialLength       = 3   // Segments seeded on every BeforeGame entry
	MaxQueuedDirections = 3   // Pending directions the head will buffer
)

// Point is a grid cell. Coordinates may leave the board for one tick,
// which is how a wall collision shows up.
type Point struct {
	X, Y int
}

// Add returns p moved one step in d.
func (p Point) Add(d Direction) Point {
	delta := d.Delta()
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four cardinal directions. Up is +Y.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta converts a Direction into a one cell displacement
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: 1}
	case Down:
		return Point{X: 0, Y: -1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// DirectionBetween returns the direction travelled from one cell to an
// orthogonally adjacent one. ok is false for any other pair, including
// equal points.
func DirectionBetween(from, to Point) (dir Direction, ok bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	switch {
	case dx == 0 && dy == 1:
		return Up, true
	case dx == 0 && dy == -1:
		return Down, true
	case dx == 1 && dy == 0:
		return Right, true
	case dx == -1 && dy == 0:
		return Left, true
	}
	return Up, false
}
