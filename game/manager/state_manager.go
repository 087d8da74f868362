package manager

import (
	"errors"
	"fmt"
	"log"
)

type GameState int

const (
	BeforeGame GameState = iota
	Playing
	Paused
	GameOver
)

func (s GameState) String() string {
	switch s {
	case BeforeGame:
		return "BeforeGame"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case GameOver:
		return "GameOver"
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid state transition")

// StateManager owns the game lifecycle. Only collisions move it forward to
// GameOver and only Restart brings it back to BeforeGame.
type StateManager struct {
	state GameState
}

func NewStateManager() *StateManager {
	return &StateManager{state: BeforeGame}
}

func (sm *StateManager) State() GameState {
	return sm.state
}

func (sm *StateManager) IsPlaying() bool {
	return sm.state == Playing
}

// AcceptsInput reports whether a direction press should reach the snake.
func (sm *StateManager) AcceptsInput() bool {
	return sm.state == BeforeGame || sm.state == Playing
}

func (sm *StateManager) Start() error {
	return sm.transition(Playing, BeforeGame)
}

// TogglePause flips between Playing and Paused.
func (sm *StateManager) TogglePause() error {
	switch sm.state {
	case Playing:
		return sm.transition(Paused, Playing)
	case Paused:
		return sm.transition(Playing, Paused)
	}
	return fmt.Errorf("%w: pause from %v", ErrInvalidTransition, sm.state)
}

// EndGame moves to GameOver. Calling it again once there is a no-op.
func (sm *StateManager) EndGame() error {
	if sm.state == GameOver {
		return nil
	}
	return sm.transition(GameOver, Playing, Paused)
}

func (sm *StateManager) Restart() error {
	return sm.transition(BeforeGame, GameOver)
}

func (sm *StateManager) transition(to GameState, from ...GameState) error {
	for _, f := range from {
		if sm.state == f {
			log.Printf("game state %v -> %v", sm.state, to)
			sm.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %v -> %v", ErrInvalidTransition, sm.state, to)
}
