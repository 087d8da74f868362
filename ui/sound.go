package ui

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone is one note of a sound cue.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

var (
	EatCue      = []Tone{{Freq: 880, Duration: 50 * time.Millisecond}}
	GameOverCue = []Tone{
		{Freq: 330, Duration: 120 * time.Millisecond},
		{Freq: 220, Duration: 120 * time.Millisecond},
		{Freq: 165, Duration: 240 * time.Millisecond},
	}
)

// SoundManager plays the game's short cues. Every method is a no-op until
// Initialize succeeds, so the game runs silently without an audio device.
type SoundManager struct {
	mu          sync.Mutex
	initialized bool
	muted       bool
}

func NewSoundManager(muted bool) *SoundManager {
	return &SoundManager{muted: muted}
}

// Initialize sets up the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || sm.muted {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	sm.initialized = true
	return nil
}

func (sm *SoundManager) PlayEat() {
	sm.play(EatCue)
}

func (sm *SoundManager) PlayGameOver() {
	sm.play(GameOverCue)
}

func (sm *SoundManager) play(cue []Tone) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}
	streamer, err := CueStreamer(cue)
	if err != nil {
		return
	}
	speaker.Play(streamer)
}

// CueStreamer renders a cue as a sequence of sine tones.
func CueStreamer(cue []Tone) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(cue))
	for _, tone := range cue {
		sine, err := generators.SineTone(sampleRate, tone.Freq)
		if err != nil {
			return nil, err
		}
		notes = append(notes, beep.Take(sampleRate.N(tone.Duration), sine))
	}
	return beep.Seq(notes...), nil
}
