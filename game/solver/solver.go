package solver

import (
	"context"
	"errors"

	"github.com/wricardo/shape-connector/game/engine"
)

var (
	// ErrNoSolution means no path of the puzzle's length connects a start
	// cell to an end cell from the given prefix.
	ErrNoSolution = errors.New("no solution from this path")

	// ErrSearchLimit means the node budget ran out before the search finished
	ErrSearchLimit = errors.New("search limit reached")
)

// DefaultMaxNodes bounds the number of cells a single search may expand
const DefaultMaxNodes = 500_000

// checkEvery is how many expansions pass between context checks
const checkEvery = 1024

// Options configures a search
type Options struct {
	MaxNodes int
}

// Strategy searches a board for paths that satisfy the solved predicate.
// The found path need not retrace the hidden puzzle.
type Strategy struct {
	board    engine.Board
	puzzle   engine.Puzzle
	maxNodes int

	// Search state
	expanded int
	found    int
	limit    int
	result   engine.Path
}

// NewStrategy prepares a search over board for puzzle
func NewStrategy(board engine.Board, puzzle engine.Puzzle, opts Options) *Strategy {
	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &Strategy{
		board:    board,
		puzzle:   puzzle,
		maxNodes: maxNodes,
	}
}

// Expanded returns the number of cells expanded by the last search
func (s *Strategy) Expanded() int {
	return s.expanded
}

// Solve finds a complete path extending prefix
func (s *Strategy) Solve(ctx context.Context, prefix engine.Path) (engine.Path, error) {
	s.reset(1)
	if err := s.search(ctx, prefix); err != nil {
		return nil, err
	}
	if s.found == 0 {
		return nil, ErrNoSolution
	}
	return s.result, nil
}

// CountSolutions counts complete paths from an empty selection, stopping at limit
func (s *Strategy) CountSolutions(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 1
	}
	s.reset(limit)
	err := s.search(ctx, engine.Path{})
	return s.found, err
}

// NextMove returns the cell that extends prefix toward a solution
func (s *Strategy) NextMove(ctx context.Context, prefix engine.Path) (*engine.Node, error) {
	if engine.IsSolved(s.puzzle, prefix) {
		return nil, nil
	}
	solution, err := s.Solve(ctx, prefix)
	if err != nil {
		return nil, err
	}
	next := solution[len(prefix)]
	return &next, nil
}

// NextMoves returns up to maxMoves cells extending prefix toward a solution
func (s *Strategy) NextMoves(ctx context.Context, prefix engine.Path, maxMoves int) ([]engine.Node, error) {
	solution, err := s.Solve(ctx, prefix)
	if err != nil {
		return nil, err
	}
	rest := solution[len(prefix):]
	if maxMoves > 0 && len(rest) > maxMoves {
		rest = rest[:maxMoves]
	}
	return rest, nil
}

func (s *Strategy) reset(limit int) {
	s.expanded = 0
	s.found = 0
	s.limit = limit
	s.result = nil
}

// search validates prefix and runs the depth-first walk from it
func (s *Strategy) search(ctx context.Context, prefix engine.Path) error {
	if len(s.puzzle) == 0 || len(prefix) > len(s.puzzle) {
		return nil
	}

	path := make(engine.Path, 0, len(s.puzzle))
	for i := range prefix {
		if !engine.IsValidMove(s.puzzle, path, &prefix[i]) {
			return nil
		}
		path = append(path, prefix[i])
	}

	if len(path) > 0 {
		return s.extend(ctx, path)
	}

	for y := range s.board {
		for x := range s.board[y] {
			start := s.board[y][x]
			if !engine.IsValidMove(s.puzzle, path, &start) {
				continue
			}
			if err := s.extend(ctx, append(path, start)); err != nil || s.done() {
				return err
			}
		}
	}
	return nil
}

func (s *Strategy) extend(ctx context.Context, path engine.Path) error {
	s.expanded++
	if s.expanded > s.maxNodes {
		return ErrSearchLimit
	}
	if s.expanded%checkEvery == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if len(path) == len(s.puzzle) {
		if engine.IsSolved(s.puzzle, path) {
			s.found++
			if s.result == nil {
				s.result = append(engine.Path(nil), path...)
			}
		}
		return nil
	}

	last := path.Last()
	for _, c := range s.board.Neighbors(last.Coord()) {
		next := *s.board.At(c)
		if !engine.IsValidMove(s.puzzle, path, &next) {
			continue
		}
		if err := s.extend(ctx, append(path, next)); err != nil || s.done() {
			return err
		}
	}
	return nil
}

func (s *Strategy) done() bool {
	return s.found >= s.limit
}

// Solve finds any complete path on board for puzzle
func Solve(ctx context.Context, board engine.Board, puzzle engine.Puzzle, opts Options) (engine.Path, error) {
	return NewStrategy(board, puzzle, opts).Solve(ctx, engine.Path{})
}

// CountSolutions counts complete paths on board for puzzle, up to limit
func CountSolutions(ctx context.Context, board engine.Board, puzzle engine.Puzzle, limit int) (int, error) {
	return NewStrategy(board, puzzle, Options{}).CountSolutions(ctx, limit)
}

// Hint returns the next cell to select after path, or nil when path
// already solves the puzzle
func Hint(ctx context.Context, board engine.Board, puzzle engine.Puzzle, path engine.Path) (*engine.Node, error) {
	return NewStrategy(board, puzzle, Options{}).NextMove(ctx, path)
}
