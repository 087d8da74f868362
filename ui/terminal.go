package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"snake-game/ai"
	"snake-game/game"
	"snake-game/game/manager"
	"snake-game/game/tile"
	"snake-game/game/types"
)

var (
	boardStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(87, 138, 52))
	snakeStyle = boardStyle.Foreground(tcell.NewRGBColor(78, 124, 246)).Bold(true)
	foodStyle  = boardStyle.Foreground(tcell.NewRGBColor(231, 71, 29))
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// TileRune returns the character a tile is drawn with in the terminal.
func TileRune(t tile.Tile) rune {
	switch t {
	case tile.HeadUp:
		return '▲'
	case tile.HeadDown:
		return '▼'
	case tile.HeadLeft:
		return '◀'
	case tile.HeadRight:
		return '▶'
	case tile.TailUp:
		return '╵'
	case tile.TailDown:
		return '╷'
	case tile.TailLeft:
		return '╴'
	case tile.TailRight:
		return '╶'
	case tile.BodyHorizontal:
		return '═'
	case tile.BodyVertical:
		return '║'
	case tile.BodyTopLeft:
		return '╝'
	case tile.BodyTopRight:
		return '╚'
	case tile.BodyBottomLeft:
		return '╗'
	case tile.BodyBottomRight:
		return '╔'
	case tile.Food:
		return '●'
	}
	return '?'
}

// joinsRight reports whether a tile continues into the cell on its right,
// which fills the spacer column between the two.
func joinsRight(t tile.Tile) bool {
	switch t {
	case tile.BodyHorizontal, tile.BodyTopRight, tile.BodyBottomRight, tile.HeadLeft, tile.TailLeft:
		return true
	}
	return false
}

// KeyAction is what a key press asks the game to do.
type KeyAction int

const (
	KeyNone KeyAction = iota
	KeyDirection
	KeyPause
	KeyRestart
	KeyQuit
)

// DecodeKey maps a terminal key press to a game action.
func DecodeKey(ev *tcell.EventKey) (KeyAction, types.Direction) {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyDirection, types.Up
	case tcell.KeyDown:
		return KeyDirection, types.Down
	case tcell.KeyLeft:
		return KeyDirection, types.Left
	case tcell.KeyRight:
		return KeyDirection, types.Right
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return KeyQuit, types.Up
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return KeyDirection, types.Up
		case 's', 'j':
			return KeyDirection, types.Down
		case 'a', 'h':
			return KeyDirection, types.Left
		case 'd', 'l':
			return KeyDirection, types.Right
		case 'p':
			return KeyPause, types.Up
		case 'r', ' ':
			return KeyRestart, types.Up
		case 'q':
			return KeyQuit, types.Up
		}
	}
	return KeyNone, types.Up
}

// Terminal runs the game inside a tcell screen.
type Terminal struct {
	screen   tcell.Screen
	sim      *game.Simulation
	pilot    *ai.Autopilot
	sound    *SoundManager
	interval time.Duration
}

func NewTerminal(sim *game.Simulation, pilot *ai.Autopilot, sound *SoundManager, interval time.Duration) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return &Terminal{
		screen:   screen,
		sim:      sim,
		pilot:    pilot,
		sound:    sound,
		interval: interval,
	}, nil
}

// Run drives the game until the player quits. Key events are read on a
// separate goroutine and handed to the loop, so the simulation is only
// touched from here.
func (t *Terminal) Run() error {
	defer t.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	events := t.pollEvents(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if t.handleKey(ev) {
					return nil
				}
			}
		case <-ticker.C:
			t.step()
		}
		t.draw()
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func (t *Terminal) pollEvents(done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 32)
	go func() {
		defer close(events)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// handleKey applies one key press and reports whether to quit.
func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	action, dir := DecodeKey(ev)
	switch action {
	case KeyQuit:
		return true
	case KeyDirection:
		t.sim.HandleDirection(dir)
	case KeyPause:
		if err := t.sim.TogglePause(); err != nil {
			log.Printf("pause: %v", err)
		}
	case KeyRestart:
		if t.sim.State() == manager.GameOver {
			if err := t.sim.Restart(); err != nil {
				log.Printf("restart: %v", err)
			}
		}
	}
	return false
}

func (t *Terminal) step() {
	if t.pilot != nil {
		if t.sim.State() == manager.BeforeGame {
			t.sim.HandleDirection(t.sim.Snake().Direction.Current())
		}
		if dir, ok := t.pilot.GetAction(t.sim.Snake(), t.sim.Food()); ok {
			t.sim.HandleDirection(dir)
		}
	}

	out, err := t.sim.Tick()
	if err != nil {
		log.Printf("tick: %v", err)
		return
	}
	if t.pilot != nil {
		t.pilot.Observe(out, t.sim.Snake(), t.sim.Food())
	}
	if out.Ate {
		t.sound.PlayEat()
	}
	if out.Advanced && out.State == manager.GameOver {
		t.sound.PlayGameOver()
	}
	if t.pilot != nil && out.State == manager.GameOver {
		if err := t.sim.Restart(); err != nil {
			log.Printf("restart: %v", err)
		}
	}
}

func (t *Terminal) draw() {
	t.screen.Clear()
	grid := t.sim.Grid
	snap := t.sim.Snapshot()

	header := fmt.Sprintf("Score %d  Best %d  %v", snap.Score, snap.HighScore, snap.State)
	drawText(t.screen, 0, 0, header, textStyle)

	// Each cell is two columns wide to keep the board roughly square.
	cells := make(map[types.Point]tile.Tile, len(snap.Body)+1)
	cells[snap.Food] = tile.Food
	for i := len(snap.Body) - 1; i >= 0; i-- {
		if i < len(snap.Tiles) {
			cells[snap.Body[i]] = snap.Tiles[i]
		}
	}
	for y := 0; y < grid.Size; y++ {
		row := 1 + grid.Size - 1 - y
		for x := 0; x < grid.Size; x++ {
			col := x * 2
			cell, ok := cells[types.Point{X: x, Y: y}]
			if !ok {
				t.screen.SetContent(col, row, ' ', nil, boardStyle)
				t.screen.SetContent(col+1, row, ' ', nil, boardStyle)
				continue
			}
			style := snakeStyle
			if cell == tile.Food {
				style = foodStyle
			}
			t.screen.SetContent(col, row, TileRune(cell), nil, style)
			spacer := ' '
			if joinsRight(cell) {
				spacer = '═'
			}
			t.screen.SetContent(col+1, row, spacer, nil, style)
		}
	}

	footer := "arrows/wasd move  p pause  r restart  q quit"
	if last, ok := t.sim.LastRun(); ok && snap.State == manager.GameOver {
		footer = fmt.Sprintf("game over: %v collision, score %d  r restart  q quit", last.Collision, last.Score)
	}
	drawText(t.screen, 0, grid.Size+2, footer, textStyle)
	t.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
