package ai

import (
	"log"
	"math"

	"snake-game/game"
	"snake-game/game/entity"
	"snake-game/game/manager"
	"snake-game/game/types"
)

// Rewards handed to a learning policy after each tick.
const (
	RewardFood    = 1.0
	RewardCrash   = -1.0
	RewardCloser  = 0.1
	RewardFarther = -0.1
)

// Rand is the part of a random generator the policies draw from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Policy picks the autopilot's moves and learns from what they led to.
type Policy interface {
	// Choose returns one of allowed. ok is false when the policy has
	// nothing to go on yet and the caller should decide.
	Choose(state State, allowed []types.Direction) (dir types.Direction, ok bool)
	Learn(state State, action types.Direction, reward float64, next State, done bool)
	EndEpisode()
	Save() error
}

// State is what the autopilot sees from the head.
type State struct {
	RelativeFoodDir [2]int  // Food direction relative to head (x, y)
	FoodDistance    int     // Manhattan distance to food
	DangerDirs      [4]bool // Danger one step away, indexed by types.Direction
}

// NewState reads the board around the snake's head.
func NewState(grid types.Grid, snake *entity.Snake, food types.Point) State {
	head := snake.GetHead()
	s := State{
		RelativeFoodDir: [2]int{sign(food.X - head.X), sign(food.Y - head.Y)},
		FoodDistance:    abs(food.X-head.X) + abs(food.Y-head.Y),
	}
	for _, d := range types.Directions {
		s.DangerDirs[d] = IsDanger(grid, snake, head.Add(d))
	}
	return s
}

// IsDanger reports whether moving the head onto p would end the game. The
// tail cell counts as safe because the tail moves away on the same tick.
func IsDanger(grid types.Grid, snake *entity.Snake, p types.Point) bool {
	if !grid.InBounds(p) {
		return true
	}
	body := snake.Body
	for i := 1; i < len(body)-1; i++ {
		if body[i] == p {
			return true
		}
	}
	return false
}

// Reward scores the tick that took the snake from prev to next.
func Reward(prev, next State, ate bool, collision manager.CollisionType) float64 {
	switch {
	case collision != manager.NoCollision:
		return RewardCrash
	case ate:
		return RewardFood
	case next.FoodDistance < prev.FoodDistance:
		return RewardCloser
	case next.FoodDistance > prev.FoodDistance:
		return RewardFarther
	}
	return 0
}

type move struct {
	state  State
	action types.Direction
}

// Autopilot steers the snake. A policy, when set, makes the choices and is
// trained on every observed tick; states it knows nothing about fall back to
// a greedy walk towards the food that avoids moves crashing on the next tick.
type Autopilot struct {
	grid   types.Grid
	policy Policy
	last   *move
}

func NewAutopilot(grid types.Grid, policy Policy) *Autopilot {
	return &Autopilot{grid: grid, policy: policy}
}

// GetAction picks the next direction for the snake. ok is false when no
// queued input is needed, either because the current heading is already
// the choice or because input is still waiting in the queue.
func (a *Autopilot) GetAction(snake *entity.Snake, food types.Point) (dir types.Direction, ok bool) {
	current := snake.Direction.Current()
	if len(snake.Direction.Pending()) > 0 {
		return current, false
	}
	state := NewState(a.grid, snake, food)

	chosen := false
	if a.policy != nil {
		dir, chosen = a.policy.Choose(state, legalMoves(current))
	}
	if !chosen {
		dir = a.greedy(state, current)
	}
	if a.policy != nil {
		a.last = &move{state: state, action: dir}
	}
	return dir, dir != current
}

// Observe feeds the outcome of a tick back to the policy. Crashes end the
// episode and persist what was learned.
func (a *Autopilot) Observe(out game.TickOutcome, snake *entity.Snake, food types.Point) {
	if a.policy == nil || a.last == nil || !out.Advanced {
		return
	}
	prev := a.last
	a.last = nil

	next := NewState(a.grid, snake, food)
	done := out.Collision != manager.NoCollision
	a.policy.Learn(prev.state, prev.action, Reward(prev.state, next, out.Ate, out.Collision), next, done)
	if !done {
		return
	}
	a.policy.EndEpisode()
	if err := a.policy.Save(); err != nil {
		log.Printf("autopilot: %v", err)
	}
}

// greedy heads towards the food, keeping the current heading on ties and
// when every move is fatal.
func (a *Autopilot) greedy(state State, current types.Direction) types.Direction {
	best, bestScore := current, math.MinInt
	for _, d := range legalMoves(current) {
		if state.DangerDirs[d] {
			continue
		}
		if score := a.score(state, d, current); score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// score rates a move: heading towards the food first, then keeping the
// current heading.
func (a *Autopilot) score(state State, d types.Direction, current types.Direction) int {
	delta := d.Delta()
	score := 0
	if delta.X != 0 && delta.X == state.RelativeFoodDir[0] {
		score += 10
	}
	if delta.Y != 0 && delta.Y == state.RelativeFoodDir[1] {
		score += 10
	}
	if d == current {
		score++
	}
	return score
}

// legalMoves lists every direction but the reversal of current.
func legalMoves(current types.Direction) []types.Direction {
	moves := make([]types.Direction, 0, len(types.Directions)-1)
	for _, d := range types.Directions {
		if d != current.Opposite() {
			moves = append(moves, d)
		}
	}
	return moves
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
