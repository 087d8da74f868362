package game

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"snake-game/game/entity"
	"snake-game/game/manager"
	"snake-game/game/tile"
	"snake-game/game/types"
)

// TickOutcome reports what one call to Tick did.
type TickOutcome struct {
	Advanced  bool // false when the game was not Playing
	Ate       bool
	Collision manager.CollisionType
	State     manager.GameState
	Tiles     []tile.Tile
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	RunID     string
	State     manager.GameState
	Body      []types.Point
	Tiles     []tile.Tile
	Food      types.Point
	Score     int
	HighScore int
}

// RunResult describes a finished run.
type RunResult struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Score     int
	Length    int
	Collision manager.CollisionType
}

// Simulation owns the whole game state. It is not safe for concurrent use:
// input and ticks must come from the same goroutine.
type Simulation struct {
	Grid types.Grid

	snake        *entity.Snake
	movementMgr  *manager.MovementManager
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	stateMgr     *manager.StateManager
	scoreMgr     *manager.ScoreManager

	tiles     []tile.Tile
	runID     string
	startTime time.Time
	lastRun   *RunResult

	// OnRunEnd, when set, is called once for every run that reaches GameOver.
	OnRunEnd func(RunResult)
}

func New(cfg Config, rng manager.RandSource) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := types.NewGrid(cfg.GridSize, cfg.TileSize)
	if err != nil {
		return nil, err
	}

	collisionMgr := manager.NewCollisionManager(grid)
	s := &Simulation{
		Grid:         grid,
		snake:        entity.NewSnake(grid.StartingBody()),
		movementMgr:  manager.NewMovementManager(),
		collisionMgr: collisionMgr,
		foodMgr:      manager.NewFoodManager(grid, rng, collisionMgr),
		stateMgr:     manager.NewStateManager(),
		scoreMgr:     manager.NewScoreManager(cfg.HighScore),
	}
	s.enterBeforeGame()
	return s, nil
}

// enterBeforeGame seeds a fresh snake, queue and food under a new run id.
func (s *Simulation) enterBeforeGame() {
	s.snake.Reset(s.Grid.StartingBody())
	s.foodMgr.Spawn(s.snake)
	s.runID = uuid.New().String()
	if err := s.refreshTiles(); err != nil {
		log.Printf("run %s: %v", s.runID, err)
	}
	log.Printf("run %s ready, food at %v", s.runID, s.foodMgr.GetFood())
}

// HandleDirection routes a decoded direction press. Before the game an
// accepted direction is queued and starts play, a reversal does neither;
// while playing it is queued; otherwise it is dropped.
func (s *Simulation) HandleDirection(dir types.Direction) {
	if !s.stateMgr.AcceptsInput() {
		return
	}
	if !s.snake.Direction.Queue(dir) {
		return
	}
	if s.stateMgr.State() == manager.BeforeGame {
		if err := s.Start(); err != nil {
			log.Printf("start: %v", err)
		}
	}
}

// Start begins play from BeforeGame.
func (s *Simulation) Start() error {
	if err := s.stateMgr.Start(); err != nil {
		return err
	}
	s.startTime = time.Now()
	return nil
}

func (s *Simulation) TogglePause() error {
	return s.stateMgr.TogglePause()
}

// Restart leaves GameOver and reseeds the board.
func (s *Simulation) Restart() error {
	if err := s.stateMgr.Restart(); err != nil {
		return err
	}
	s.enterBeforeGame()
	return nil
}

// Tick advances the game by one step: movement, collision, food, then
// tiles. It does nothing unless the game is Playing.
func (s *Simulation) Tick() (TickOutcome, error) {
	if !s.stateMgr.IsPlaying() {
		return TickOutcome{State: s.stateMgr.State(), Tiles: s.Tiles()}, nil
	}
	out := TickOutcome{Advanced: true}

	s.movementMgr.Step(s.snake)

	out.Collision = s.collisionMgr.Check(s.snake)
	if out.Collision != manager.NoCollision {
		if err := s.stateMgr.EndGame(); err != nil {
			return out, err
		}
		s.finishRun(out.Collision)
	}

	if s.stateMgr.IsPlaying() && s.foodMgr.IsEaten(s.snake) {
		if _, err := s.foodMgr.Eat(s.snake); err != nil {
			return out, fmt.Errorf("tick: %w", err)
		}
		s.scoreMgr.Increment()
		out.Ate = true
	}

	if err := s.refreshTiles(); err != nil {
		return out, fmt.Errorf("tick: %w", err)
	}
	out.State = s.stateMgr.State()
	out.Tiles = s.Tiles()
	return out, nil
}

func (s *Simulation) finishRun(collision manager.CollisionType) {
	length := s.snake.Len()
	result := RunResult{
		RunID:     s.runID,
		StartTime: s.startTime,
		EndTime:   time.Now(),
		Score:     s.scoreMgr.GameOver(),
		Length:    length,
		Collision: collision,
	}
	s.lastRun = &result
	log.Printf("run %s over: %v collision, score %d", result.RunID, collision, result.Score)
	if s.OnRunEnd != nil {
		s.OnRunEnd(result)
	}
}

func (s *Simulation) refreshTiles() error {
	tiles, err := tile.Classify(s.snake.Body, s.snake.Direction.Current())
	if err != nil {
		return err
	}
	s.tiles = tiles
	return nil
}

func (s *Simulation) State() manager.GameState {
	return s.stateMgr.State()
}

func (s *Simulation) Snake() *entity.Snake {
	return s.snake
}

func (s *Simulation) Food() types.Point {
	return s.foodMgr.GetFood()
}

// PlaceFood overrides the food position.
func (s *Simulation) PlaceFood(p types.Point) {
	s.foodMgr.Place(p)
}

func (s *Simulation) Tiles() []tile.Tile {
	out := make([]tile.Tile, len(s.tiles))
	copy(out, s.tiles)
	return out
}

func (s *Simulation) RunID() string {
	return s.runID
}

// LastRun returns the most recently finished run, if any.
func (s *Simulation) LastRun() (RunResult, bool) {
	if s.lastRun == nil {
		return RunResult{}, false
	}
	return *s.lastRun, true
}

func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		RunID:     s.runID,
		State:     s.stateMgr.State(),
		Body:      s.snake.Positions(),
		Tiles:     s.Tiles(),
		Food:      s.foodMgr.GetFood(),
		Score:     s.scoreMgr.GetScore(),
		HighScore: s.scoreMgr.GetHighScore(),
	}
}
