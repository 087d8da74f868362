package manager

import (
	"errors"
	"fmt"
	"log"

	"snake-game/game/entity"
	"snake-game/game/types"
)

// ErrBodyTooShort is returned when growth is asked of a snake whose tail
// direction cannot be known.
var ErrBodyTooShort = errors.New("snake needs at least two segments to grow")

// RandSource is the part of a random generator food placement needs.
type RandSource interface {
	Intn(n int) int
}

type FoodManager struct {
	grid         types.Grid
	food         types.Point
	rng          RandSource
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, rng RandSource, collisionMgr *CollisionManager) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

func (fm *FoodManager) GetFood() types.Point {
	return fm.food
}

// Place puts the food on p as is.
func (fm *FoodManager) Place(p types.Point) {
	fm.food = p
}

// Spawn moves the food to a random free cell inside the inset region.
func (fm *FoodManager) Spawn(snake *entity.Snake) types.Point {
	fm.food = fm.GenerateFood(snake)
	return fm.food
}

// GenerateFood draws random inset cells until one is free of the snake. A
// body that has swallowed most of the inset falls back to a scan of the
// inset. Food never leaves the inset, so a full inset keeps the old food.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) types.Point {
	lo, hi := fm.grid.FoodRegion()
	side := hi - lo
	for i := 0; i < side*side*maxSpawnRollsPerCell; i++ {
		food := types.Point{
			X: lo + fm.rng.Intn(side),
			Y: lo + fm.rng.Intn(side),
		}
		if !snake.Occupies(food) {
			return food
		}
	}
	if food, ok := firstFree(snake, lo, hi); ok {
		return food
	}
	log.Printf("no free inset cell left for food, keeping it at %v", fm.food)
	return fm.food
}

const maxSpawnRollsPerCell = 4

func firstFree(snake *entity.Snake, lo, hi int) (types.Point, bool) {
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			p := types.Point{X: x, Y: y}
			if !snake.Occupies(p) {
				return p, true
			}
		}
	}
	return types.Point{}, false
}

// IsEaten reports whether the head has reached the food.
func (fm *FoodManager) IsEaten(snake *entity.Snake) bool {
	return fm.collisionMgr.IsFoodCollision(snake.GetHead(), fm.food)
}

// Eat grows the snake by one segment behind its tail and respawns the food
// away from the longer body. It returns where the new segment was placed.
func (fm *FoodManager) Eat(snake *entity.Snake) (types.Point, error) {
	if snake.Len() < 2 {
		return types.Point{}, fmt.Errorf("eat at %v: %w", snake.GetHead(), ErrBodyTooShort)
	}

	segment, err := fm.growthCell(snake)
	if err != nil {
		return types.Point{}, err
	}
	snake.Grow(segment)
	fm.Spawn(snake)
	return segment, nil
}

// growthCell picks where the new tail goes: straight on from the pre-tail
// through the tail, else another free neighbour of the tail (on the board
// first), else stacked on the tail itself until the next tick moves it.
func (fm *FoodManager) growthCell(snake *entity.Snake) (types.Point, error) {
	tail := snake.GetTail()
	preTail := snake.Body[snake.Len()-2]

	tailDir, ok := types.DirectionBetween(preTail, tail)
	if !ok {
		// A tail stacked by the previous growth has not moved yet.
		if preTail == tail {
			return tail, nil
		}
		return types.Point{}, fmt.Errorf("pre-tail %v and tail %v are not adjacent", preTail, tail)
	}

	candidates := []types.Point{tail.Add(tailDir)}
	for _, d := range types.Directions {
		if d != tailDir && d != tailDir.Opposite() {
			candidates = append(candidates, tail.Add(d))
		}
	}

	var offBoard []types.Point
	for _, c := range candidates {
		if snake.Occupies(c) {
			continue
		}
		if fm.grid.InBounds(c) {
			return c, nil
		}
		offBoard = append(offBoard, c)
	}
	if len(offBoard) > 0 {
		return offBoard[0], nil
	}
	return tail, nil
}
