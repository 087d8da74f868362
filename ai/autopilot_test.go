package ai

import (
	"testing"

	"snake-game/game"
	"snake-game/game/entity"
	"snake-game/game/manager"
	"snake-game/game/types"
)

// scriptedRand replays fixed values, wrapping around when exhausted.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	v := r.ints[r.ii%len(r.ints)] % n
	r.ii++
	return v
}

var grid = types.Grid{Size: 20, TileSize: 30}

func TestNewState(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 5, Y: 10}, {X: 4, Y: 10}, {X: 3, Y: 10}})
	state := NewState(grid, s, types.Point{X: 8, Y: 6})
	if state.RelativeFoodDir != [2]int{1, -1} {
		t.Errorf("RelativeFoodDir = %v", state.RelativeFoodDir)
	}
	if state.FoodDistance != 7 {
		t.Errorf("FoodDistance = %d, want 7", state.FoodDistance)
	}
	if state.DangerDirs[types.Right] || state.DangerDirs[types.Up] {
		t.Errorf("DangerDirs = %v, open cells flagged", state.DangerDirs)
	}
	if !state.DangerDirs[types.Left] {
		t.Errorf("DangerDirs = %v, the neck is not flagged", state.DangerDirs)
	}
}

func TestIsDangerWalls(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
	if !IsDanger(grid, s, types.Point{X: -1, Y: 0}) || !IsDanger(grid, s, types.Point{X: 0, Y: -1}) {
		t.Error("off-board cells not flagged")
	}
	if IsDanger(grid, s, types.Point{X: 2, Y: 0}) {
		t.Error("tail cell flagged although it moves away")
	}
}

func TestGetActionTurnsTowardsFood(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 5, Y: 10}, {X: 4, Y: 10}, {X: 3, Y: 10}})
	pilot := NewAutopilot(grid, nil)

	dir, ok := pilot.GetAction(s, types.Point{X: 5, Y: 14})
	if !ok || dir != types.Up {
		t.Errorf("GetAction = %v, %v; want Up", dir, ok)
	}
	if _, ok := pilot.GetAction(s, types.Point{X: 12, Y: 10}); ok {
		t.Error("GetAction asked to turn while already heading to the food")
	}
}

func TestGetActionAvoidsWall(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 19, Y: 10}, {X: 18, Y: 10}, {X: 17, Y: 10}})
	dir, ok := NewAutopilot(grid, nil).GetAction(s, types.Point{X: 19, Y: 10})
	if !ok || (dir != types.Up && dir != types.Down) {
		t.Errorf("GetAction at the wall = %v, %v", dir, ok)
	}
}

func TestGetActionWaitsForQueuedInput(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 5, Y: 10}, {X: 4, Y: 10}, {X: 3, Y: 10}})
	s.Direction.Queue(types.Down)
	if _, ok := NewAutopilot(grid, nil).GetAction(s, types.Point{X: 5, Y: 14}); ok {
		t.Error("GetAction overrode queued input")
	}
}

func TestReward(t *testing.T) {
	near := State{FoodDistance: 3}
	far := State{FoodDistance: 5}
	tests := []struct {
		name      string
		prev      State
		next      State
		ate       bool
		collision manager.CollisionType
		want      float64
	}{
		{"crash beats food", far, near, true, manager.WallCollision, RewardCrash},
		{"food", far, far, true, manager.NoCollision, RewardFood},
		{"closer", far, near, false, manager.NoCollision, RewardCloser},
		{"farther", near, far, false, manager.NoCollision, RewardFarther},
		{"level", near, near, false, manager.NoCollision, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reward(tt.prev, tt.next, tt.ate, tt.collision); got != tt.want {
				t.Errorf("Reward = %v, want %v", got, tt.want)
			}
		})
	}
}

// startAtWall drives a fresh game until the head sits at (19,10) heading
// Right into the wall.
func startAtWall(t *testing.T) *game.Simulation {
	t.Helper()
	sim, err := game.New(game.DefaultConfig(), game.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	sim.PlaceFood(types.Point{X: 5, Y: 5})
	sim.HandleDirection(types.Right)
	for sim.Snake().GetHead().X < grid.Size-1 {
		out, err := sim.Tick()
		if err != nil || out.State != manager.Playing {
			t.Fatalf("tick: %v, state %v", err, out.State)
		}
	}
	return sim
}

func TestCrashTeachesNegativeValue(t *testing.T) {
	sim := startAtWall(t)

	// Explore, and pick Right out of [Up Down Right].
	q, err := NewQLearning("", &scriptedRand{floats: []float64{0}, ints: []int{2}})
	if err != nil {
		t.Fatal(err)
	}
	pilot := NewAutopilot(sim.Grid, q)
	before := NewState(sim.Grid, sim.Snake(), sim.Food())

	dir, ok := pilot.GetAction(sim.Snake(), sim.Food())
	if dir != types.Right || ok {
		t.Fatalf("GetAction = %v, %v; want Right without queueing", dir, ok)
	}
	out, err := sim.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if !out.Collision.Has(manager.WallCollision) {
		t.Fatalf("collision = %v, want wall", out.Collision)
	}
	pilot.Observe(out, sim.Snake(), sim.Food())

	if v := q.Value(before, types.Right); v >= 0 {
		t.Errorf("Q(crash state, Right) = %v, want negative", v)
	}
	if v := q.Value(before, types.Up); v != 0 {
		t.Errorf("Q(crash state, Up) = %v, want untouched 0", v)
	}
	if q.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d, want 1", q.GamesPlayed)
	}
}

func TestLearnedPolicyAvoidsCrash(t *testing.T) {
	sim := startAtWall(t)
	q, err := NewQLearning("", &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	state := NewState(sim.Grid, sim.Snake(), sim.Food())
	q.Learn(state, types.Right, RewardCrash, state, true)
	q.Learn(state, types.Down, RewardCloser, state, false)

	dir, ok := NewAutopilot(sim.Grid, q).GetAction(sim.Snake(), sim.Food())
	if !ok || dir != types.Down {
		t.Errorf("GetAction = %v, %v; want Down", dir, ok)
	}
}

func TestUnseenStateFallsBackToGreedy(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 5, Y: 10}, {X: 4, Y: 10}, {X: 3, Y: 10}})
	q, err := NewQLearning("", &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	dir, ok := NewAutopilot(grid, q).GetAction(s, types.Point{X: 5, Y: 14})
	if !ok || dir != types.Up {
		t.Errorf("GetAction = %v, %v; want the greedy Up", dir, ok)
	}
}

func TestObserveWithoutChoiceIsIgnored(t *testing.T) {
	s := entity.NewSnake([]types.Point{{X: 5, Y: 10}, {X: 4, Y: 10}, {X: 3, Y: 10}})
	q, err := NewQLearning("", &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	pilot := NewAutopilot(grid, q)
	pilot.Observe(game.TickOutcome{Advanced: true, Collision: manager.WallCollision}, s, types.Point{X: 5, Y: 14})
	if len(q.QTable) != 0 || q.GamesPlayed != 0 {
		t.Errorf("table = %v, games %d; want nothing learned", q.QTable, q.GamesPlayed)
	}
}
