package manager

import (
	"snake-game/game/entity"
	"snake-game/game/types"
)

type MovementManager struct{}

func NewMovementManager() *MovementManager {
	return &MovementManager{}
}

// Step advances the snake one cell. The head follows the next queued
// direction without wrapping, then each body segment takes the cell the
// segment ahead of it just left. Positions rotate in place so segment
// indices stay stable between ticks.
func (mm *MovementManager) Step(snake *entity.Snake) types.Direction {
	dir := snake.Direction.ConsumeOne()

	prev := snake.Body[0]
	snake.Body[0] = prev.Add(dir)

	for i := 1; i < len(snake.Body); i++ {
		snake.Body[i], prev = prev, snake.Body[i]
	}
	return dir
}
