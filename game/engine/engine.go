package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Engine provides the main interface for round operations
type Engine interface {
	// Round state management
	GetState() *GameState
	Snapshot() *GameState
	Reset() *GameState
	NewRound() (*GameState, error)
	IsSolved() bool
	IsFailed() bool

	// Selection
	Select(at Coord) Feedback
	CanSelect(at Coord) bool
	GetPath() Path

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use.
type GameEngine struct {
	state     *GameState
	config    *GameConfig
	generator *Generator
}

// NewEngine creates an engine for config and generates its first round.
// A nil src uses the process-wide random generator.
func NewEngine(config *GameConfig, src Source) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		generator: NewGenerator(&GeneratorOptions{
			Source:        src,
			MaxBacktracks: config.MaxBacktracks,
		}),
		state: &GameState{
			MoveHistory:  []MoveHistoryEntry{},
			CurrentMoves: []MoveHistoryEntry{},
		},
	}

	if _, err := engine.NewRound(); err != nil {
		return nil, err
	}

	return engine, nil
}

// NewEngineWithDefaults creates an engine on the easy preset
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(PresetConfig(DifficultyEasy), nil)
	if err != nil {
		// The easy preset always fits its board
		panic(fmt.Sprintf("engine: easy preset failed: %v", err))
	}
	return engine
}

// GetState returns the current round state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a deep copy of the current round state
func (e *GameEngine) Snapshot() *GameState {
	return e.state.Clone()
}

// NewRound generates a fresh puzzle and clears the path. Cumulative history is kept.
func (e *GameEngine) NewRound() (*GameState, error) {
	game, err := e.generator.Game(e.config.BoardSize, e.config.PathSize)
	if err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}

	prev := e.state
	e.state = &GameState{
		Board:        game.Board,
		Puzzle:       game.Puzzle,
		Path:         Path{},
		Message:      e.welcome(),
		ConfigName:   e.config.Name,
		Round:        prev.Round + 1,
		RoundID:      uuid.NewString(),
		MoveHistory:  prev.MoveHistory,
		TotalMoves:   prev.TotalMoves,
		CurrentMoves: []MoveHistoryEntry{},
	}
	e.state.refresh()

	return e.state, nil
}

// Reset clears the path of the current round, keeping its puzzle
func (e *GameEngine) Reset() *GameState {
	e.state.Path = Path{}
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0
	e.state.Message = e.welcome()
	e.state.refresh()
	return e.state
}

// IsSolved returns whether the current path solves the puzzle
func (e *GameEngine) IsSolved() bool {
	return e.state.Solved
}

// IsFailed returns whether the path is full without solving the puzzle
func (e *GameEngine) IsFailed() bool {
	return e.state.Failed
}

// Select presses the cell at c and records the outcome in history
func (e *GameEngine) Select(at Coord) Feedback {
	feedback := e.state.SelectNode(at, e.config)

	action := "select"
	if feedback == FeedbackUndo {
		action = "undo"
	}
	e.state.AddMoveToHistory(action, at, feedback)

	return feedback
}

// CanSelect reports whether pressing c would extend the path
func (e *GameEngine) CanSelect(at Coord) bool {
	if e.state.Solved {
		return false
	}
	return IsValidMove(e.state.Puzzle, e.state.Path, e.state.Board.At(at))
}

// GetPath returns the current player path
func (e *GameEngine) GetPath() Path {
	return e.state.Path
}

// GetPuzzle returns the hidden solution of the current round
func (e *GameEngine) GetPuzzle() Puzzle {
	return e.state.Puzzle
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a new round. When the
// round cannot be generated the previous configuration and round are kept.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	prevConfig, prevBacktracks := e.config, e.generator.maxBacktracks
	e.config = config
	e.generator.maxBacktracks = config.MaxBacktracks
	if _, err := e.NewRound(); err != nil {
		e.config, e.generator.maxBacktracks = prevConfig, prevBacktracks
		return err
	}
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkSelect presses cells in order, stopping after the first rejected
// press or once the puzzle is solved
func (e *GameEngine) BulkSelect(cells []Coord) []Feedback {
	results := make([]Feedback, 0, len(cells))

	for _, c := range cells {
		if e.state.Solved {
			break
		}

		feedback := e.Select(c)
		results = append(results, feedback)
		if feedback == FeedbackReject || feedback == FeedbackLocked {
			break
		}
	}

	return results
}

func (e *GameEngine) welcome() string {
	if e.config.Messages.Welcome != "" {
		return e.config.Messages.Welcome
	}
	return fmt.Sprintf("Connect %d shapes from the start to the end", e.config.PathSize)
}
