package main

import (
	"context"
	"errors"

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/solver"
)

// ErrHiddenState means the public state lacks what planning needs
var ErrHiddenState = errors.New("state does not expose start, end and length")

// SystematicStrategy plans complete paths from what the server shows a
// player: the board, the start and end nodes and the puzzle length.
type SystematicStrategy struct {
	maxNodes int
	expanded int
}

func NewSystematicStrategy(maxNodes int) *SystematicStrategy {
	return &SystematicStrategy{maxNodes: maxNodes}
}

// Expanded returns the solver work spent on the last plan
func (s *SystematicStrategy) Expanded() int {
	return s.expanded
}

// PublicPuzzle rebuilds a puzzle that accepts exactly the paths the hidden
// one accepts. Validation only reads the endpoints and the length, so the
// interior nodes repeat the start.
func PublicPuzzle(state *engine.GameState) (engine.Puzzle, error) {
	if state == nil || state.StartNode == nil || state.EndNode == nil || state.PuzzleLength < 1 {
		return nil, ErrHiddenState
	}

	puzzle := make(engine.Puzzle, state.PuzzleLength)
	for i := range puzzle {
		puzzle[i] = *state.StartNode
	}
	puzzle[len(puzzle)-1] = *state.EndNode
	return puzzle, nil
}

// Plan returns the cells of a complete path. The current path is kept when
// it can still be completed.
func (s *SystematicStrategy) Plan(ctx context.Context, state *engine.GameState) ([]engine.Coord, error) {
	puzzle, err := PublicPuzzle(state)
	if err != nil {
		return nil, err
	}

	strategy := solver.NewStrategy(state.Board, puzzle, solver.Options{MaxNodes: s.maxNodes})
	defer func() { s.expanded = strategy.Expanded() }()

	path, err := strategy.Solve(ctx, state.Path)
	if errors.Is(err, solver.ErrNoSolution) && len(state.Path) > 0 {
		path, err = strategy.Solve(ctx, engine.Path{})
	}
	if err != nil {
		return nil, err
	}

	cells := make([]engine.Coord, len(path))
	for i, node := range path {
		cells[i] = node.Coord()
	}
	return cells, nil
}
