package manager

import (
	"snake-game/game/entity"
	"snake-game/game/types"
)

// CollisionType is a set of the collisions found on one tick.
type CollisionType int

const (
	NoCollision   CollisionType = 0
	WallCollision CollisionType = 1 << iota
	SelfCollision
)

// Has reports whether every collision in other is present in c.
func (c CollisionType) Has(other CollisionType) bool {
	return c&other == other && other != NoCollision
}

func (c CollisionType) String() string {
	switch c {
	case NoCollision:
		return "none"
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case WallCollision | SelfCollision:
		return "wall+self"
	}
	return "unknown"
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// Check runs both the wall and the self test against the head, after the
// snake has moved. Both tests always run.
func (cm *CollisionManager) Check(snake *entity.Snake) CollisionType {
	head := snake.GetHead()
	result := NoCollision
	if cm.isWallCollision(head) {
		result |= WallCollision
	}
	if cm.isSelfCollision(head, snake) {
		result |= SelfCollision
	}
	return result
}

// isWallCollision checks if a position is off the board
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.InBounds(pos)
}

// isSelfCollision checks the head against every other segment
func (cm *CollisionManager) isSelfCollision(pos types.Point, snake *entity.Snake) bool {
	for _, part := range snake.Body[1:] {
		if pos == part {
			return true
		}
	}
	return false
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Point, food types.Point) bool {
	return pos == food
}
