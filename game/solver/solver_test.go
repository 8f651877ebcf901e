package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/wricardo/shape-connector/game/engine"
)

func node(x, y int, shape engine.Shape, color engine.Color) engine.Node {
	return engine.Node{X: x, Y: y, Shape: shape, Color: color}
}

func createTestBoard() (engine.Board, engine.Puzzle) {
	board := engine.Board{
		{node(0, 0, engine.ShapeCircle, engine.ColorRed), node(1, 0, engine.ShapeSquare, engine.ColorYellow), node(2, 0, engine.ShapeCross, engine.ColorGreen)},
		{node(0, 1, engine.ShapeCircle, engine.ColorBlue), node(1, 1, engine.ShapeSquare, engine.ColorBlue), node(2, 1, engine.ShapeSquare, engine.ColorGreen)},
		{node(0, 2, engine.ShapeCircle, engine.ColorGreen), node(1, 2, engine.ShapeTriangle, engine.ColorBlue), node(2, 2, engine.ShapeCross, engine.ColorYellow)},
	}
	puzzle := engine.Puzzle{board[0][0], board[1][0], board[1][1]}
	return board, puzzle
}

func TestSolve(t *testing.T) {
	board, puzzle := createTestBoard()

	path, err := Solve(context.Background(), board, puzzle, Options{})
	if err != nil {
		t.Fatalf("Expected solution, got %v", err)
	}
	if !engine.IsSolved(puzzle, path) {
		t.Errorf("Expected solved path, got %v", path)
	}
}

func TestSolve_GeneratedGames(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		game, err := engine.NewGenerator(&engine.GeneratorOptions{Seed: seed}).Game(7, 8)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		path, err := Solve(context.Background(), game.Board, game.Puzzle, Options{})
		if err != nil {
			t.Fatalf("seed %d: expected solution, got %v", seed, err)
		}

		// Every step must be a legal move
		replay := engine.Path{}
		for i := range path {
			if !engine.IsValidMove(game.Puzzle, replay, &path[i]) {
				t.Fatalf("seed %d: step %d of solution is illegal", seed, i)
			}
			replay = append(replay, path[i])
		}
		if !engine.IsSolved(game.Puzzle, replay) {
			t.Fatalf("seed %d: solution does not solve the puzzle", seed)
		}
	}
}

func TestCountSolutions(t *testing.T) {
	board, puzzle := createTestBoard()

	count, err := CountSolutions(context.Background(), board, puzzle, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 solution, got %d", count)
	}
}

func TestHint(t *testing.T) {
	board, puzzle := createTestBoard()
	ctx := context.Background()

	tests := []struct {
		name     string
		path     engine.Path
		expected *engine.Coord
		wantErr  error
	}{
		{"empty path", engine.Path{}, &engine.Coord{X: 0, Y: 0}, nil},
		{"after start", engine.Path{board[0][0]}, &engine.Coord{X: 0, Y: 1}, nil},
		{"dead end", engine.Path{board[0][0], board[1][0], board[2][0]}, nil, ErrNoSolution},
		{"illegal prefix", engine.Path{board[1][1]}, nil, ErrNoSolution},
		{"solved", engine.Path{board[0][0], board[1][0], board[1][1]}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint, err := Hint(ctx, board, puzzle, tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.expected == nil {
				if hint != nil {
					t.Errorf("Expected no hint, got %s", hint)
				}
				return
			}
			if hint == nil || hint.Coord() != *tt.expected {
				t.Errorf("Expected hint at %s, got %v", tt.expected, hint)
			}
		})
	}
}

func TestNextMoves(t *testing.T) {
	board, puzzle := createTestBoard()
	s := NewStrategy(board, puzzle, Options{})

	moves, err := s.NextMoves(context.Background(), engine.Path{}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("Expected 2 moves, got %d", len(moves))
	}
	if moves[1].Coord() != (engine.Coord{X: 0, Y: 1}) {
		t.Errorf("Expected second move at (0,1), got %s", moves[1].Coord())
	}
	if s.Expanded() == 0 {
		t.Error("Expected expansions to be counted")
	}
}

func TestSearchLimit(t *testing.T) {
	game, err := engine.NewGenerator(&engine.GeneratorOptions{Seed: 5}).Game(9, 16)
	if err != nil {
		t.Fatalf("Failed to generate game: %v", err)
	}

	_, err = Solve(context.Background(), game.Board, game.Puzzle, Options{MaxNodes: 1})
	if !errors.Is(err, ErrSearchLimit) {
		t.Errorf("Expected ErrSearchLimit, got %v", err)
	}
}
