package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"snake-game/game/types"
)

// Config carries the settings a Simulation is built from.
type Config struct {
	GridSize     int
	TileSize     float32
	TickInterval time.Duration
	Seed         uint64 // 0 seeds from the clock
	HighScore    int    // best score carried over from earlier sessions
}

func DefaultConfig() Config {
	return Config{
		GridSize:     types.DefaultGridSize,
		TileSize:     types.DefaultTileSize,
		TickInterval: 100 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if _, err := types.NewGrid(c.GridSize, c.TileSize); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: tick interval %v must be positive", c.TickInterval)
	}
	if c.HighScore < 0 {
		return fmt.Errorf("config: high score %d is negative", c.HighScore)
	}
	return nil
}

// NewRand returns the generator food placement draws from.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}
