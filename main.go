package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-game/ai"
	"snake-game/game"
	"snake-game/game/input"
	"snake-game/game/manager"
	"snake-game/game/types"
	"snake-game/ui"
)

const gamepadDeadzone = 0.5

func main() {
	defaults := game.DefaultConfig()
	size := flag.Int("size", defaults.GridSize, "Board size in cells per side")
	tileSize := flag.Float64("tile", float64(defaults.TileSize), "Tile size in pixels")
	speed := flag.Int("speed", int(defaults.TickInterval/time.Millisecond), "Tick interval in milliseconds (lower = faster)")
	seed := flag.Uint64("seed", 0, "Food placement seed (0 = time based)")
	term := flag.Bool("term", false, "Play in the terminal instead of a window")
	auto := flag.Bool("auto", false, "Let the autopilot play")
	policyName := flag.String("policy", "qtable", "Autopilot policy: qtable, dqn or greedy")
	mute := flag.Bool("mute", false, "Disable sound")
	statsFile := flag.String("stats", DefaultStatsFile, "Run history file")
	flag.Parse()

	stats, err := LoadStats(*statsFile)
	if err != nil {
		log.Printf("Warning: starting with empty stats: %v", err)
	}

	cfg := game.Config{
		GridSize:     *size,
		TileSize:     float32(*tileSize),
		TickInterval: time.Duration(*speed) * time.Millisecond,
		Seed:         *seed,
		HighScore:    stats.GetHighScore(),
	}
	sim, err := game.New(cfg, game.NewRand(cfg.Seed))
	if err != nil {
		log.Fatal(err)
	}

	sound := ui.NewSoundManager(*mute)
	if err := sound.Initialize(); err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	sim.OnRunEnd = func(run game.RunResult) {
		stats.AddRun(run)
		if err := stats.SaveToFile(); err != nil {
			log.Printf("Warning: could not save stats: %v", err)
		}
	}

	var pilot *ai.Autopilot
	if *auto {
		policy, err := newPolicy(*policyName, filepath.Dir(*statsFile), game.NewRand(cfg.Seed))
		if err != nil {
			log.Fatal(err)
		}
		pilot = ai.NewAutopilot(sim.Grid, policy)
	}

	if *term {
		runTerminal(sim, pilot, sound, cfg.TickInterval, *statsFile)
		return
	}
	runWindow(sim, pilot, sound, cfg.TickInterval)
}

func runTerminal(sim *game.Simulation, pilot *ai.Autopilot, sound *ui.SoundManager, interval time.Duration, statsFile string) {
	// The screen owns stdout while the game runs.
	restore, err := redirectLog(filepath.Join(filepath.Dir(statsFile), "snake.log"))
	if err != nil {
		log.Printf("Warning: logging to stderr: %v", err)
	} else {
		defer restore()
	}

	t, err := ui.NewTerminal(sim, pilot, sound, interval)
	if err != nil {
		log.Fatal(err)
	}
	if err := t.Run(); err != nil {
		log.Fatal(err)
	}
}

// newPolicy builds the named autopilot policy, persisted under dataDir. A
// nil policy leaves the autopilot greedy. Unreadable saved state is logged
// and learning starts over.
func newPolicy(name, dataDir string, rng ai.Rand) (ai.Policy, error) {
	switch name {
	case "greedy":
		return nil, nil
	case "qtable":
		q, err := ai.NewQLearning(filepath.Join(dataDir, "qtable.json"), rng)
		if err != nil {
			log.Printf("Warning: starting with an empty q-table: %v", err)
		}
		return q, nil
	case "dqn":
		d, err := ai.NewDQN(filepath.Join(dataDir, "dqn_weights.gob"), rng)
		if d == nil {
			return nil, err
		}
		if err != nil {
			log.Printf("Warning: starting with fresh weights: %v", err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}

// redirectLog sends the standard logger to the file at path. The returned
// func points it back at stderr and closes the file.
func redirectLog(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func runWindow(sim *game.Simulation, pilot *ai.Autopilot, sound *ui.SoundManager, interval time.Duration) {
	boardPixels := int32(float32(sim.Grid.Size) * sim.Grid.TileSize)
	rl.InitWindow(boardPixels+40, boardPixels+100, "Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)

	renderer := ui.NewRenderer()
	lastUpdate := time.Now()
	var dragStart rl.Vector2
	stickHeld := false

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}

		for _, dir := range keyDirections() {
			sim.HandleDirection(dir)
		}

		// Mouse or touch drags, screen y points down.
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			dragStart = rl.GetMousePosition()
		}
		if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
			end := rl.GetMousePosition()
			for _, dir := range input.DirectionsFromVector(float64(end.X-dragStart.X), float64(dragStart.Y-end.Y)) {
				sim.HandleDirection(dir)
			}
		}

		// Gamepad stick, one press per push past the deadzone.
		if rl.IsGamepadAvailable(0) {
			x := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftX))
			y := -float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftY))
			dirs := input.DirectionsFromAxis(x, y, gamepadDeadzone)
			if len(dirs) > 0 && !stickHeld {
				for _, dir := range dirs {
					sim.HandleDirection(dir)
				}
			}
			stickHeld = len(dirs) > 0
		}

		if rl.IsKeyPressed(rl.KeyP) {
			if err := sim.TogglePause(); err != nil {
				log.Printf("pause: %v", err)
			}
		}
		if (rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeySpace)) && sim.State() == manager.GameOver {
			if err := sim.Restart(); err != nil {
				log.Printf("restart: %v", err)
			}
		}

		// Update game state at fixed interval
		if time.Since(lastUpdate) >= interval {
			if pilot != nil {
				if sim.State() == manager.BeforeGame {
					sim.HandleDirection(sim.Snake().Direction.Current())
				}
				if dir, ok := pilot.GetAction(sim.Snake(), sim.Food()); ok {
					sim.HandleDirection(dir)
				}
			}

			out, err := sim.Tick()
			if err != nil {
				log.Printf("tick: %v", err)
			}
			if pilot != nil {
				pilot.Observe(out, sim.Snake(), sim.Food())
			}
			if out.Ate {
				sound.PlayEat()
			}
			if out.Advanced && out.State == manager.GameOver {
				sound.PlayGameOver()
				if pilot != nil {
					if err := sim.Restart(); err != nil {
						log.Printf("restart: %v", err)
					}
				}
			}
			lastUpdate = time.Now()
		}

		var lastRun *game.RunResult
		if run, ok := sim.LastRun(); ok {
			lastRun = &run
		}
		renderer.Draw(sim.Grid, sim.Snapshot(), lastRun)
	}
}

// keyDirections returns the direction keys pressed this frame.
func keyDirections() []types.Direction {
	bindings := []struct {
		keys []int32
		dir  types.Direction
	}{
		{[]int32{rl.KeyUp, rl.KeyW}, types.Up},
		{[]int32{rl.KeyDown, rl.KeyS}, types.Down},
		{[]int32{rl.KeyLeft, rl.KeyA}, types.Left},
		{[]int32{rl.KeyRight, rl.KeyD}, types.Right},
	}
	var dirs []types.Direction
	for _, b := range bindings {
		for _, k := range b.keys {
			if rl.IsKeyPressed(k) {
				dirs = append(dirs, b.dir)
				break
			}
		}
	}
	return dirs
}
