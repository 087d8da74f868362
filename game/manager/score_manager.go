package manager

// ScoreManager counts food eaten in the current run and the best run seen.
type ScoreManager struct {
	score   int
	highest int
}

func NewScoreManager(highest int) *ScoreManager {
	return &ScoreManager{highest: highest}
}

func (sm *ScoreManager) Increment() {
	sm.score++
}

// GameOver closes the run: the score is folded into the high score and
// reset for the next game. It returns the final score.
func (sm *ScoreManager) GameOver() int {
	final := sm.score
	if final > sm.highest {
		sm.highest = final
	}
	sm.score = 0
	return final
}

func (sm *ScoreManager) GetScore() int {
	return sm.score
}

func (sm *ScoreManager) GetHighScore() int {
	return sm.highest
}
