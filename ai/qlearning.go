package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"snake-game/game/types"
)

// QTable maps a state key to the learned value of each move.
type QTable map[string]map[types.Direction]float64

// QLearning is a tabular Q-learner keyed on the autopilot's State.
type QLearning struct {
	QTable       QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	TotalReward  float64
	GamesPlayed  int

	path string
	rng  Rand
	mu   sync.RWMutex
}

// NewQLearning returns a learner persisted at path. An existing table is
// loaded; a missing file starts empty. An empty path never touches disk.
func NewQLearning(path string, rng Rand) (*QLearning, error) {
	q := &QLearning{
		QTable:       make(QTable),
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		path:         path,
		rng:          rng,
	}
	if path == "" {
		return q, nil
	}
	if err := q.LoadQTable(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return q, err
	}
	return q, nil
}

func stateKey(s State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d|", s.RelativeFoodDir[0], s.RelativeFoodDir[1])
	for _, danger := range s.DangerDirs {
		if danger {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Choose explores with probability Epsilon, otherwise takes the best known
// move. A state never seen, or one whose moves are all valued the same,
// gives ok false.
func (q *QLearning) Choose(state State, allowed []types.Direction) (types.Direction, bool) {
	if len(allowed) == 0 {
		return types.Up, false
	}
	if q.rng.Float64() < q.Epsilon {
		return allowed[q.rng.Intn(len(allowed))], true
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	row, seen := q.QTable[stateKey(state)]
	if !seen {
		return types.Up, false
	}
	best, bestValue := allowed[0], row[allowed[0]]
	tied := true
	for _, d := range allowed[1:] {
		v := row[d]
		if v != bestValue {
			tied = false
		}
		if v > bestValue {
			best, bestValue = d, v
		}
	}
	if tied {
		return types.Up, false
	}
	return best, true
}

// Learn applies one Q-learning update. A terminal step has no future value.
func (q *QLearning) Learn(state State, action types.Direction, reward float64, next State, done bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	row := q.row(stateKey(state))
	maxNextQ := 0.0
	if !done {
		maxNextQ = maxValue(q.row(stateKey(next)))
	}
	row[action] += q.LearningRate * (reward + q.Discount*maxNextQ - row[action])
	q.TotalReward += reward
}

// row returns the values for key, creating zeroed ones on first sight.
func (q *QLearning) row(key string) map[types.Direction]float64 {
	row, ok := q.QTable[key]
	if !ok {
		row = make(map[types.Direction]float64, len(types.Directions))
		for _, d := range types.Directions {
			row[d] = 0
		}
		q.QTable[key] = row
	}
	return row
}

func maxValue(row map[types.Direction]float64) float64 {
	best := math.Inf(-1)
	for _, v := range row {
		best = max(best, v)
	}
	return best
}

// Value returns the learned value of taking d in state.
func (q *QLearning) Value(state State, d types.Direction) float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.QTable[stateKey(state)][d]
}

func (q *QLearning) EndEpisode() {
	q.mu.Lock()
	q.GamesPlayed++
	q.mu.Unlock()
}

func (q *QLearning) Save() error {
	if q.path == "" {
		return nil
	}
	return q.SaveQTable(q.path)
}

// SaveQTable writes the table as JSON.
func (q *QLearning) SaveQTable(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	q.mu.RLock()
	data, err := json.MarshalIndent(q.QTable, "", "  ")
	q.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal q-table: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write q-table: %w", err)
	}
	return nil
}

// LoadQTable replaces the table with the one stored in filename.
func (q *QLearning) LoadQTable(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse q-table %s: %w", filename, err)
	}

	q.mu.Lock()
	q.QTable = table
	q.mu.Unlock()
	return nil
}
