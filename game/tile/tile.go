// Package tile maps snake segments to the sprite they are drawn with.
package tile

import (
	"fmt"

	"snake-game/game/types"
)

// Tile identifies one cell of the sprite sheet.
type Tile int

const (
	HeadUp Tile = iota
	HeadDown
	HeadLeft
	HeadRight
	TailUp
	TailDown
	TailLeft
	TailRight
	BodyHorizontal
	BodyVertical
	BodyTopLeft
	BodyTopRight
	BodyBottomLeft
	BodyBottomRight
	Food

	Count = int(Food) + 1
)

var names = [Count]string{
	"HeadUp", "HeadDown", "HeadLeft", "HeadRight",
	"TailUp", "TailDown", "TailLeft", "TailRight",
	"BodyHorizontal", "BodyVertical",
	"BodyTopLeft", "BodyTopRight", "BodyBottomLeft", "BodyBottomRight",
	"Food",
}

func (t Tile) String() string {
	if t >= 0 && int(t) < Count {
		return names[t]
	}
	return fmt.Sprintf("Tile(%d)", int(t))
}

// ForHead picks the head sprite from the direction the snake is moving.
func ForHead(current types.Direction) Tile {
	switch current {
	case types.Up:
		return HeadUp
	case types.Down:
		return HeadDown
	case types.Left:
		return HeadLeft
	default:
		return HeadRight
	}
}

// ForTail picks the tail sprite from the direction leading from the
// pre-tail to the tail.
func ForTail(preTail, tail types.Point) (Tile, bool) {
	dir, ok := types.DirectionBetween(preTail, tail)
	if !ok {
		return 0, false
	}
	switch dir {
	case types.Up:
		return TailUp, true
	case types.Down:
		return TailDown, true
	case types.Left:
		return TailLeft, true
	default:
		return TailRight, true
	}
}

// pairs is indexed by the bit set of the two neighbour directions.
var pairs = map[int]Tile{
	bit(types.Up) | bit(types.Down):    BodyVertical,
	bit(types.Left) | bit(types.Right): BodyHorizontal,
	bit(types.Up) | bit(types.Right):   BodyTopRight,
	bit(types.Up) | bit(types.Left):    BodyTopLeft,
	bit(types.Down) | bit(types.Right): BodyBottomRight,
	bit(types.Down) | bit(types.Left):  BodyBottomLeft,
}

func bit(d types.Direction) int {
	return 1 << uint(d)
}

// ForPair classifies a body segment by the directions from it to its two
// neighbours. Order does not matter; a direction paired with itself has no
// tile.
func ForPair(a, b types.Direction) (Tile, bool) {
	if a == b {
		return 0, false
	}
	t, ok := pairs[bit(a)|bit(b)]
	return t, ok
}

// Classify returns one tile per segment, head first. body must come from
// the movement and growth paths: consecutive segments one step apart, except
// for a freshly grown tail that may still sit on the segment before it.
func Classify(body []types.Point, current types.Direction) ([]Tile, error) {
	tiles := make([]Tile, len(body))
	if len(body) == 0 {
		return tiles, nil
	}

	// A stacked tail takes the tile of the segment it shares a cell with.
	end := len(body)
	for end > 1 && body[end-1] == body[end-2] {
		end--
	}

	tiles[0] = ForHead(current)
	for i := 1; i < end-1; i++ {
		toHead, ok := types.DirectionBetween(body[i], body[i-1])
		if !ok {
			return nil, fmt.Errorf("segment %d at %v is detached from %v", i, body[i], body[i-1])
		}
		toTail, ok := types.DirectionBetween(body[i], body[i+1])
		if !ok {
			return nil, fmt.Errorf("segment %d at %v is detached from %v", i, body[i], body[i+1])
		}
		t, ok := ForPair(toHead, toTail)
		if !ok {
			return nil, fmt.Errorf("segment %d at %v folds back on itself", i, body[i])
		}
		tiles[i] = t
	}
	if end > 1 {
		t, ok := ForTail(body[end-2], body[end-1])
		if !ok {
			return nil, fmt.Errorf("tail at %v is detached from %v", body[end-1], body[end-2])
		}
		tiles[end-1] = t
	}
	for i := end; i < len(body); i++ {
		tiles[i] = tiles[end-1]
	}
	return tiles, nil
}
