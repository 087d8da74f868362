package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-game/game"
	"snake-game/game/manager"
	"snake-game/game/tile"
	"snake-game/game/types"
)

const (
	borderPadding = 10 // Padding around game area
	hudHeight     = 40 // Space above the board for score text
)

var (
	boardColor     = rl.NewColor(87, 138, 52, 255)
	boardDarkColor = rl.NewColor(79, 126, 47, 255)
	snakeColor     = rl.NewColor(78, 124, 246, 255)
	headColor      = rl.NewColor(58, 96, 214, 255)
	foodColor      = rl.NewColor(231, 71, 29, 255)
)

type Renderer struct {
	cellSize     int32
	screenWidth  int32
	screenHeight int32
	offsetX      int32
	offsetY      int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
}

// Layout returns the top-left screen pixel of cell p. Grid y grows upwards,
// screen y grows downwards.
func (r *Renderer) Layout(grid types.Grid, p types.Point) (int32, int32) {
	x := r.offsetX + int32(p.X)*r.cellSize
	y := r.offsetY + int32(grid.Size-1-p.Y)*r.cellSize
	return x, y
}

func (r *Renderer) fit(grid types.Grid) {
	availableWidth := r.screenWidth - borderPadding*2
	availableHeight := r.screenHeight - borderPadding*2 - hudHeight
	r.cellSize = min(availableWidth, availableHeight) / int32(grid.Size)

	total := r.cellSize * int32(grid.Size)
	r.offsetX = (r.screenWidth - total) / 2
	r.offsetY = hudHeight + (r.screenHeight-hudHeight-total)/2
}

func (r *Renderer) Draw(grid types.Grid, snap game.Snapshot, lastRun *game.RunResult) {
	r.UpdateDimensions()
	r.fit(grid)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	for x := 0; x < grid.Size; x++ {
		for y := 0; y < grid.Size; y++ {
			color := boardColor
			if (x+y)%2 == 1 {
				color = boardDarkColor
			}
			px, py := r.Layout(grid, types.Point{X: x, Y: y})
			rl.DrawRectangle(px, py, r.cellSize, r.cellSize, color)
		}
	}

	r.drawTile(grid, snap.Food, tile.Food)
	for i, p := range snap.Body {
		if i < len(snap.Tiles) && grid.InBounds(p) {
			r.drawTile(grid, p, snap.Tiles[i])
		}
	}

	r.drawHUD(snap, lastRun)
	rl.EndDrawing()
}

func (r *Renderer) drawTile(grid types.Grid, p types.Point, t tile.Tile) {
	x, y := r.Layout(grid, p)
	c := r.cellSize
	inset := c / 5

	switch t {
	case tile.Food:
		rl.DrawCircle(x+c/2, y+c/2, float32(c)*0.35, foodColor)
	case tile.HeadUp, tile.HeadDown, tile.HeadLeft, tile.HeadRight:
		rl.DrawRectangle(x+inset/2, y+inset/2, c-inset, c-inset, headColor)
		drawArrow(x, y, c, headDirection(t), rl.Yellow)
	case tile.TailUp, tile.TailDown, tile.TailLeft, tile.TailRight:
		drawArrow(x, y, c, tailDirection(t), snakeColor)
	default:
		for _, side := range Connections(t) {
			drawArm(x, y, c, inset, side)
		}
		rl.DrawRectangle(x+inset, y+inset, c-2*inset, c-2*inset, snakeColor)
	}
}

// drawArm fills the band from the cell center to one edge.
func drawArm(x, y, c, inset int32, side types.Direction) {
	switch side {
	case types.Up:
		rl.DrawRectangle(x+inset, y, c-2*inset, c/2, snakeColor)
	case types.Down:
		rl.DrawRectangle(x+inset, y+c/2, c-2*inset, c-c/2, snakeColor)
	case types.Left:
		rl.DrawRectangle(x, y+inset, c/2, c-2*inset, snakeColor)
	case types.Right:
		rl.DrawRectangle(x+c/2, y+inset, c-c/2, c-2*inset, snakeColor)
	}
}

// drawArrow draws a triangle pointing towards dir on screen. Vertices are
// listed counter-clockwise as raylib requires.
func drawArrow(x, y, c int32, dir types.Direction, color rl.Color) {
	h := c / 2
	switch dir {
	case types.Right:
		rl.DrawTriangle(
			rl.Vector2{X: float32(x + c), Y: float32(y + h)},
			rl.Vector2{X: float32(x + h), Y: float32(y)},
			rl.Vector2{X: float32(x + h), Y: float32(y + c)},
			color)
	case types.Left:
		rl.DrawTriangle(
			rl.Vector2{X: float32(x), Y: float32(y + h)},
			rl.Vector2{X: float32(x + h), Y: float32(y + c)},
			rl.Vector2{X: float32(x + h), Y: float32(y)},
			color)
	case types.Down:
		rl.DrawTriangle(
			rl.Vector2{X: float32(x + h), Y: float32(y + c)},
			rl.Vector2{X: float32(x + c), Y: float32(y + h)},
			rl.Vector2{X: float32(x), Y: float32(y + h)},
			color)
	default:
		rl.DrawTriangle(
			rl.Vector2{X: float32(x + h), Y: float32(y)},
			rl.Vector2{X: float32(x), Y: float32(y + h)},
			rl.Vector2{X: float32(x + c), Y: float32(y + h)},
			color)
	}
}

func (r *Renderer) drawHUD(snap game.Snapshot, lastRun *game.RunResult) {
	fontSize := int32(20)
	score := fmt.Sprintf("Score: %d   Best: %d", snap.Score, snap.HighScore)
	rl.DrawText(score, r.offsetX, borderPadding, fontSize, rl.RayWhite)

	var banner string
	switch snap.State {
	case manager.BeforeGame:
		banner = "Press an arrow key to start"
	case manager.Paused:
		banner = "Paused - P to resume"
	case manager.GameOver:
		banner = "Game over - R to restart"
		if lastRun != nil {
			banner = fmt.Sprintf("Game over (%v), score %d - R to restart", lastRun.Collision, lastRun.Score)
		}
	}
	if banner != "" {
		width := rl.MeasureText(banner, fontSize)
		rl.DrawText(banner, (r.screenWidth-width)/2, r.screenHeight/2-fontSize/2, fontSize, rl.White)
	}
}

// Connections returns the screen sides a body tile joins.
func Connections(t tile.Tile) []types.Direction {
	switch t {
	case tile.BodyHorizontal:
		return []types.Direction{types.Left, types.Right}
	case tile.BodyVertical:
		return []types.Direction{types.Up, types.Down}
	case tile.BodyTopLeft:
		return []types.Direction{types.Up, types.Left}
	case tile.BodyTopRight:
		return []types.Direction{types.Up, types.Right}
	case tile.BodyBottomLeft:
		return []types.Direction{types.Down, types.Left}
	case tile.BodyBottomRight:
		return []types.Direction{types.Down, types.Right}
	}
	return nil
}

func headDirection(t tile.Tile) types.Direction {
	switch t {
	case tile.HeadDown:
		return types.Down
	case tile.HeadLeft:
		return types.Left
	case tile.HeadRight:
		return types.Right
	}
	return types.Up
}

func tailDirection(t tile.Tile) types.Direction {
	switch t {
	case tile.TailDown:
		return types.Down
	case tile.TailLeft:
		return types.Left
	case tile.TailRight:
		return types.Right
	}
	return types.Up
}
