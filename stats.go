package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"snake-game/game"
)

const (
	DefaultStatsFile = "data/stats.json"
	GroupSize        = 100 // Runs folded into one summary record
)

// GameStats keeps the history of finished runs. Old runs are folded into
// summary records so the file stays small.
type GameStats struct {
	Games []GameRecord `json:"games"`
	path  string
	mutex sync.RWMutex
}

// GameRecord is a single run, or a summary of GamesCount runs when
// CompressionIndex is above zero.
type GameRecord struct {
	RunID            string    `json:"runId,omitempty"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	Length           int       `json:"length"`
	Collision        string    `json:"collision,omitempty"`
	CompressionIndex int       `json:"compressionIndex"`
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageDuration  float64   `json:"averageDuration"`
}

// LoadStats reads the history at path. A missing file gives empty stats.
func LoadStats(path string) (*GameStats, error) {
	s := &GameStats{
		Games: make([]GameRecord, 0),
		path:  path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read stats file: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return s, fmt.Errorf("failed to parse stats file %s: %w", path, err)
	}
	return s, nil
}

// AddRun records a finished run.
func (s *GameStats) AddRun(run game.RunResult) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	duration := run.EndTime.Sub(run.StartTime).Seconds()
	s.Games = append(s.Games, GameRecord{
		RunID:           run.RunID,
		StartTime:       run.StartTime,
		EndTime:         run.EndTime,
		Score:           run.Score,
		Length:          run.Length,
		Collision:       run.Collision.String(),
		GamesCount:      1,
		AverageScore:    float64(run.Score),
		MaxScore:        run.Score,
		MinScore:        run.Score,
		AverageDuration: duration,
	})
	s.groupGames()
}

// groupGames folds the oldest single runs into one summary once twice
// GroupSize of them have piled up.
func (s *GameStats) groupGames() {
	var singles, summaries []GameRecord
	for _, g := range s.Games {
		if g.CompressionIndex == 0 {
			singles = append(singles, g)
		} else {
			summaries = append(summaries, g)
		}
	}
	if len(singles) < GroupSize*2 {
		return
	}

	sort.Slice(singles, func(i, j int) bool {
		return singles[i].StartTime.Before(singles[j].StartTime)
	})
	group := singles[:GroupSize]

	summary := GameRecord{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: 1,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
	}
	var totalScore, totalDuration float64
	for _, g := range group {
		summary.MaxScore = max(summary.MaxScore, g.MaxScore)
		summary.MinScore = min(summary.MinScore, g.MinScore)
		if g.EndTime.After(summary.EndTime) {
			summary.EndTime = g.EndTime
		}
		totalScore += g.AverageScore * float64(g.GamesCount)
		totalDuration += g.AverageDuration * float64(g.GamesCount)
		summary.GamesCount += g.GamesCount
	}
	summary.AverageScore = totalScore / float64(summary.GamesCount)
	summary.AverageDuration = totalDuration / float64(summary.GamesCount)
	summary.Score = summary.MaxScore

	s.Games = append(append(summaries, summary), singles[GroupSize:]...)
}

// GetHighScore returns the best score on record.
func (s *GameStats) GetHighScore() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	best := 0
	for _, g := range s.Games {
		best = max(best, g.MaxScore)
	}
	return best
}

// GetGamesPlayed returns the number of runs on record.
func (s *GameStats) GetGamesPlayed() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, g := range s.Games {
		total += g.GamesCount
	}
	return total
}

// GetAverageScore returns the mean score over every recorded run.
func (s *GameStats) GetAverageScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var totalScore float64
	var totalGames int
	for _, g := range s.Games {
		totalScore += g.AverageScore * float64(g.GamesCount)
		totalGames += g.GamesCount
	}
	if totalGames == 0 {
		return 0
	}
	return totalScore / float64(totalGames)
}

// SaveToFile writes the history back to the path it was loaded from.
func (s *GameStats) SaveToFile() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}
