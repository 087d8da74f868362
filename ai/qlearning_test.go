package ai

import (
	"os"
	"path/filepath"
	"testing"

	"snake-game/game/types"
)

func TestStateKey(t *testing.T) {
	s := State{RelativeFoodDir: [2]int{1, -1}, FoodDistance: 7, DangerDirs: [4]bool{false, true, false, true}}
	if got := stateKey(s); got != "1,-1|0101" {
		t.Errorf("stateKey = %q", got)
	}
	s.FoodDistance = 2
	if stateKey(s) != "1,-1|0101" {
		t.Error("distance leaked into the key")
	}
}

func TestChooseTiesDefer(t *testing.T) {
	q, err := NewQLearning("", &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	s := State{RelativeFoodDir: [2]int{1, 0}}
	allowed := []types.Direction{types.Up, types.Down, types.Right}

	q.Learn(s, types.Left, 1, s, true)
	if _, ok := q.Choose(s, allowed); ok {
		t.Error("Choose decided between moves it values equally")
	}
	q.Learn(s, types.Down, 1, s, true)
	if dir, ok := q.Choose(s, allowed); !ok || dir != types.Down {
		t.Errorf("Choose = %v, %v; want Down", dir, ok)
	}
}

func TestQTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "qtable.json")
	q, err := NewQLearning(path, &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	s := State{RelativeFoodDir: [2]int{-1, 1}, DangerDirs: [4]bool{true}}
	q.Learn(s, types.Left, RewardCrash, s, true)
	if err := q.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := NewQLearning(path, &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, want := loaded.Value(s, types.Left), q.Value(s, types.Left); got != want || got >= 0 {
		t.Errorf("reloaded Q = %v, want %v", got, want)
	}
}

func TestQTableCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtable.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0644); err != nil {
		t.Fatal(err)
	}
	q, err := NewQLearning(path, &scriptedRand{floats: []float64{1}, ints: []int{0}})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if q == nil || len(q.QTable) != 0 {
		t.Error("expected an empty usable table alongside the error")
	}
}
