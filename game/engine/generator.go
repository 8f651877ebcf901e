package engine

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrGenerationUnsatisfiable is returned when the coordinate walk cannot
	// reach the requested path length within its budget.
	ErrGenerationUnsatisfiable = errors.New("generation unsatisfiable")

	// ErrInvalidSettings is returned for board or path sizes outside the
	// supported range.
	ErrInvalidSettings = errors.New("invalid game settings")
)

// DefaultMaxAttempts is the number of fresh walks tried before giving up
const DefaultMaxAttempts = 8

// GeneratorOptions configures puzzle generation
type GeneratorOptions struct {
	// Seed feeds a deterministic source when Source is nil and Seed is non-zero
	Seed uint64
	// Source overrides Seed when set
	Source Source
	// MaxBacktracks caps backtracking per walk. Zero means 4·boardSize².
	MaxBacktracks int
	// MaxAttempts caps the number of fresh walks. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// DefaultGeneratorOptions returns options backed by the process-wide generator
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{MaxAttempts: DefaultMaxAttempts}
}

// Generator produces puzzles, boards and games from a random source
type Generator struct {
	src           Source
	maxBacktracks int
	maxAttempts   int
}

// NewGenerator creates a generator. A nil opts uses DefaultGeneratorOptions.
func NewGenerator(opts *GeneratorOptions) *Generator {
	if opts == nil {
		opts = DefaultGeneratorOptions()
	}

	src := opts.Source
	if src == nil && opts.Seed != 0 {
		src = NewSource(opts.Seed)
	}

	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	return &Generator{
		src:           sourceOrDefault(src),
		maxBacktracks: opts.MaxBacktracks,
		maxAttempts:   attempts,
	}
}

// GenerateGame is shorthand for NewGenerator with src followed by Game
func GenerateGame(src Source, boardSize, pathSize int) (*Game, error) {
	return NewGenerator(&GeneratorOptions{Source: src}).Game(boardSize, pathSize)
}

// CheckSizes validates a board and path size pair
func CheckSizes(boardSize, pathSize int) error {
	if boardSize < MinBoardSize || boardSize > MaxBoardSize {
		return fmt.Errorf("%w: board size must be between %d and %d, got %d",
			ErrInvalidSettings, MinBoardSize, MaxBoardSize, boardSize)
	}
	if pathSize < 1 {
		return fmt.Errorf("%w: path size must be at least 1, got %d", ErrInvalidSettings, pathSize)
	}
	if pathSize > boardSize*boardSize {
		return fmt.Errorf("%w: path size %d exceeds %d cells on a %dx%d board",
			ErrGenerationUnsatisfiable, pathSize, boardSize*boardSize, boardSize, boardSize)
	}
	return nil
}

// Game generates a puzzle and the board that embeds it
func (g *Generator) Game(boardSize, pathSize int) (*Game, error) {
	puzzle, err := g.Puzzle(boardSize, pathSize)
	if err != nil {
		return nil, err
	}
	return &Game{
		Board:  g.Board(boardSize, puzzle),
		Puzzle: puzzle,
	}, nil
}

// PuzzleCoords walks a random self-avoiding path of pathSize coordinates.
//
// Dead ends are popped from the path but stay visited for the rest of the
// walk. When the path drains completely a new random start is drawn.
func (g *Generator) PuzzleCoords(boardSize, pathSize int) ([]Coord, error) {
	if err := CheckSizes(boardSize, pathSize); err != nil {
		return nil, err
	}

	budget := g.maxBacktracks
	if budget <= 0 {
		budget = 4 * boardSize * boardSize
	}

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if coords, ok := g.walk(boardSize, pathSize, budget); ok {
			return coords, nil
		}
	}

	return nil, fmt.Errorf("%w: no %d-cell path on a %dx%d board after %d attempts",
		ErrGenerationUnsatisfiable, pathSize, boardSize, boardSize, g.maxAttempts)
}

// walk runs one bounded attempt of the coordinate walk
func (g *Generator) walk(boardSize, pathSize, budget int) ([]Coord, bool) {
	cells := boardSize * boardSize
	path := make([]Coord, 0, pathSize)
	visited := make(map[Coord]bool, pathSize)
	backtracks := 0

	inBounds := func(c Coord) bool {
		return c.X >= 0 && c.X < boardSize && c.Y >= 0 && c.Y < boardSize
	}

	for len(path) < pathSize {
		if len(path) == 0 {
			if len(visited) == cells {
				return nil, false
			}
			start := Coord{X: g.src.IntN(boardSize), Y: g.src.IntN(boardSize)}
			path = append(path, start)
			visited[start] = true
			continue
		}

		last := path[len(path)-1]
		candidates := make([]Coord, 0, 4)
		for _, c := range neighbors(last) {
			if inBounds(c) && !visited[c] {
				candidates = append(candidates, c)
			}
		}

		if len(candidates) == 0 {
			backtracks++
			if backtracks > budget {
				return nil, false
			}
			path = path[:len(path)-1]
			continue
		}

		next := randomFrom(g.src, candidates)
		path = append(path, next)
		visited[next] = true
	}

	return path, true
}

// neighbors lists the four axis-aligned neighbors in exploration order
func neighbors(c Coord) [4]Coord {
	return [4]Coord{
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X, Y: c.Y - 1},
	}
}

// Puzzle walks a path and assigns attributes to it so that consecutive
// nodes share exactly one attribute and no attribute stays unchanged for
// more than MaxSameChain nodes.
func (g *Generator) Puzzle(boardSize, pathSize int) (Puzzle, error) {
	coords, err := g.PuzzleCoords(boardSize, pathSize)
	if err != nil {
		return nil, err
	}
	return g.assignAttributes(coords), nil
}

func (g *Generator) assignAttributes(coords []Coord) Puzzle {
	puzzle := make(Puzzle, 0, len(coords))

	for i, c := range coords {
		if i == 0 {
			puzzle = append(puzzle, Node{
				X:     c.X,
				Y:     c.Y,
				Color: randomColor(g.src),
				Shape: randomShape(g.src),
			})
			continue
		}

		window := puzzle[max(0, len(puzzle)-MaxSameChain):]
		sameColor := !slices.ContainsFunc(window, func(n Node) bool { return n.Color != window[0].Color })
		sameShape := !slices.ContainsFunc(window, func(n Node) bool { return n.Shape != window[0].Shape })

		prev := puzzle[i-1]
		excludeColors := []Color{prev.Color}
		excludeShapes := []Shape{prev.Shape}

		// The end node must not share attributes with the start node
		if i == len(coords)-1 {
			excludeColors = append(excludeColors, puzzle[0].Color)
			excludeShapes = append(excludeShapes, puzzle[0].Shape)
		}

		color, shape := prev.Color, prev.Shape
		switch {
		case sameColor:
			color = randomColor(g.src, excludeColors...)
		case sameShape:
			shape = randomShape(g.src, excludeShapes...)
		default:
			if randomBool(g.src) {
				shape = randomShape(g.src, excludeShapes...)
			} else {
				color = randomColor(g.src, excludeColors...)
			}
		}

		puzzle = append(puzzle, Node{X: c.X, Y: c.Y, Color: color, Shape: shape})
	}

	return puzzle
}

// Board materializes a boardSize×boardSize grid. Puzzle nodes are placed
// verbatim and every other cell gets an independent random attribute pair.
func (g *Generator) Board(boardSize int, puzzle Puzzle) Board {
	placed := make(map[Coord]Node, len(puzzle))
	for _, n := range puzzle {
		if _, ok := placed[n.Coord()]; !ok {
			placed[n.Coord()] = n
		}
	}

	board := make(Board, boardSize)
	for y := range board {
		board[y] = make([]Node, boardSize)
		for x := range board[y] {
			if n, ok := placed[Coord{X: x, Y: y}]; ok {
				board[y][x] = n
				continue
			}
			board[y][x] = Node{
				X:     x,
				Y:     y,
				Color: randomColor(g.src),
				Shape: randomShape(g.src),
			}
		}
	}

	return board
}
