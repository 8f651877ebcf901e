package engine

import "testing"

func node(x, y int, shape Shape, color Color) Node {
	return Node{X: x, Y: y, Shape: shape, Color: color}
}

// scenarioPuzzle is a three node puzzle on a 3x3 board
func scenarioPuzzle() Puzzle {
	return Puzzle{
		node(0, 0, ShapeCircle, ColorRed),
		node(0, 1, ShapeCircle, ColorBlue),
		node(1, 1, ShapeSquare, ColorBlue),
	}
}

func scenarioBoard() Board {
	return Board{
		{node(0, 0, ShapeCircle, ColorRed), node(1, 0, ShapeSquare, ColorYellow), node(2, 0, ShapeCross, ColorGreen)},
		{node(0, 1, ShapeCircle, ColorBlue), node(1, 1, ShapeSquare, ColorBlue), node(2, 1, ShapeSquare, ColorGreen)},
		{node(0, 2, ShapeCircle, ColorGreen), node(1, 2, ShapeTriangle, ColorBlue), node(2, 2, ShapeCross, ColorYellow)},
	}
}

func TestIsValidMove(t *testing.T) {
	puzzle := scenarioPuzzle()
	start := node(0, 0, ShapeCircle, ColorRed)

	tests := []struct {
		name     string
		path     Path
		move     *Node
		expected bool
	}{
		{"start matches", Path{}, &start, true},
		{"start elsewhere with matching attributes", Path{}, ptr(node(2, 2, ShapeCircle, ColorRed)), true},
		{"start wrong color", Path{}, ptr(node(0, 0, ShapeCircle, ColorBlue)), false},
		{"shares shape", Path{start}, ptr(node(0, 1, ShapeCircle, ColorBlue)), true},
		{"shares color", Path{start}, ptr(node(1, 0, ShapeSquare, ColorRed)), true},
		{"shares nothing", Path{start}, ptr(node(1, 0, ShapeSquare, ColorYellow)), false},
		{"not adjacent", Path{start}, ptr(node(2, 0, ShapeCircle, ColorRed)), false},
		{"diagonal", Path{start}, ptr(node(1, 1, ShapeCircle, ColorRed)), false},
		{"already visited", Path{start, node(0, 1, ShapeCircle, ColorBlue)}, &start, false},
		{"path full", Path(puzzle), ptr(node(2, 1, ShapeSquare, ColorBlue)), false},
		{"nil move", Path{}, nil, false},
		{"negative coordinate", Path{start}, ptr(node(-1, 0, ShapeCircle, ColorRed)), false},
		{"invalid shape", Path{}, ptr(Node{X: 0, Y: 0, Shape: Shape(9), Color: ColorRed}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMove(puzzle, tt.path, tt.move); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsValidMove_EmptyPuzzle(t *testing.T) {
	move := node(0, 0, ShapeCircle, ColorRed)
	if IsValidMove(nil, nil, &move) {
		t.Error("Expected empty puzzle to reject every move")
	}
}

func TestNodeQueries(t *testing.T) {
	a := node(0, 0, ShapeCircle, ColorRed)
	b := node(0, 1, ShapeCircle, ColorBlue)
	sameSpot := node(0, 1, ShapeCross, ColorYellow)
	path := Path{a, b}

	if !IsSameNode(&b, &sameSpot) {
		t.Error("Expected nodes at the same coordinate to be the same")
	}
	if IsMatchingNode(&b, &sameSpot) {
		t.Error("Expected different attributes not to match")
	}
	if !IsMatchingNode(&a, ptr(node(3, 3, ShapeCircle, ColorRed))) {
		t.Error("Expected equal attributes to match regardless of position")
	}
	if IsSameNode(nil, &a) || IsSameNode(&a, nil) {
		t.Error("Expected nil nodes never to be the same")
	}
	if IsMatchingNode(nil, &a) {
		t.Error("Expected nil nodes never to match")
	}
	if !IsNodeInPath(path, &b) {
		t.Error("Expected node to be in path")
	}
	if IsNodeInPath(path, nil) {
		t.Error("Expected nil node not to be in path")
	}
	if got := NodePathIndex(path, &b); got != 1 {
		t.Errorf("Expected index 1, got %d", got)
	}
	if got := NodePathIndex(path, ptr(node(2, 2, ShapeCircle, ColorRed))); got != -1 {
		t.Errorf("Expected index -1, got %d", got)
	}
}

func TestIsSolved(t *testing.T) {
	puzzle := scenarioPuzzle()
	board := scenarioBoard()

	tests := []struct {
		name     string
		path     Path
		expected bool
	}{
		{"empty", Path{}, false},
		{"exact puzzle", Path{board[0][0], board[1][0], board[1][1]}, true},
		{"too short", Path{board[0][0], board[1][0]}, false},
		{"wrong end", Path{board[0][0], board[1][0], board[2][0]}, false},
		{"different route same ends", Path{board[0][0], board[1][0], node(2, 1, ShapeSquare, ColorBlue)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSolved(puzzle, tt.path); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRewind(t *testing.T) {
	board := scenarioBoard()
	path := Path{board[0][0], board[1][0], board[2][0]}

	got, ok := Rewind(path, &board[2][0])
	if !ok || len(got) != 2 {
		t.Errorf("Expected last node to be removed, got ok=%v len=%d", ok, len(got))
	}

	got, ok = Rewind(path, &board[0][0])
	if !ok || len(got) != 1 {
		t.Errorf("Expected rewind to first node to keep it, got ok=%v len=%d", ok, len(got))
	}

	if _, ok := Rewind(path, &board[2][2]); ok {
		t.Error("Expected rewind of unselected node to fail")
	}

	// Appending after a rewind must not clobber the original path
	got, _ = Rewind(path, &board[0][0])
	_ = append(got, board[0][1])
	if path[1] != board[1][0] {
		t.Error("Expected original path to be untouched")
	}
}

func TestDerivedValues(t *testing.T) {
	puzzle := scenarioPuzzle()
	board := scenarioBoard()

	tests := []struct {
		name      string
		path      Path
		remaining int
		progress  float64
	}{
		{"empty", Path{}, 2, 0},
		{"start only", Path{board[0][0]}, 2, 0},
		{"two", Path{board[0][0], board[1][0]}, 1, 0.5},
		{"full", Path{board[0][0], board[1][0], board[1][1]}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemainingMoves(puzzle, tt.path); got != tt.remaining {
				t.Errorf("Expected remaining %d, got %d", tt.remaining, got)
			}
			if got := Progress(puzzle, tt.path); got != tt.progress {
				t.Errorf("Expected progress %v, got %v", tt.progress, got)
			}
		})
	}
}

func TestNodeStates(t *testing.T) {
	puzzle := scenarioPuzzle()
	board := scenarioBoard()

	path := Path{board[0][0], board[1][0]}
	if got := NodeStateFor(puzzle, path, &board[1][0]); got != StateSelected {
		t.Errorf("Expected last node selected, got %s", got)
	}
	if got := NodeStateFor(puzzle, path, &board[0][0]); got != StateConnected {
		t.Errorf("Expected earlier node connected, got %s", got)
	}
	if got := NodeStateFor(puzzle, path, &board[2][2]); got != StateDefault {
		t.Errorf("Expected other node default, got %s", got)
	}
	if got := StartNodeState(puzzle, path); got != StateConnected {
		t.Errorf("Expected start connected, got %s", got)
	}
	if got := StartNodeState(puzzle, path[:1]); got != StateSelected {
		t.Errorf("Expected start selected, got %s", got)
	}
	if got := StartNodeState(puzzle, Path{}); got != StateDefault {
		t.Errorf("Expected start default, got %s", got)
	}
	if !IsLinked(path, &board[0][0], &board[1][0]) {
		t.Error("Expected consecutive nodes to be linked")
	}

	solved := Path{board[0][0], board[1][0], board[1][1]}
	if got := NodeStateFor(puzzle, solved, &board[0][0]); got != StateSelected {
		t.Errorf("Expected solved path node selected, got %s", got)
	}
	if got := NodeStateFor(puzzle, solved, &board[2][2]); got != StateFaded {
		t.Errorf("Expected non-path node faded, got %s", got)
	}
	if got := EndNodeState(puzzle, solved); got != StateSelected {
		t.Errorf("Expected end selected, got %s", got)
	}
	if IsLinked(solved, &board[0][0], &board[1][1]) {
		t.Error("Expected non-consecutive nodes not to be linked")
	}
}

func TestDisplayColor(t *testing.T) {
	tests := []struct {
		color    Color
		expected string
	}{
		{ColorRed, "#D40004"},
		{ColorGreen, "#00D400"},
		{ColorBlue, "#006AD4"},
		{ColorYellow, "#D4AA00"},
	}

	for _, tt := range tests {
		n := node(0, 0, ShapeCircle, tt.color)
		if got := DisplayColor(&n); got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.color, tt.expected, got)
		}
	}

	if DisplayColor(nil) != "" {
		t.Error("Expected empty color for nil node")
	}
}

func TestMoveCounterColor(t *testing.T) {
	puzzle := scenarioPuzzle()
	board := scenarioBoard()

	if got := MoveCounterColor(puzzle, nil); got != UIColors.Text {
		t.Errorf("Expected text color, got %s", got)
	}
	if got := MoveCounterColor(puzzle, Path{board[0][0], board[1][0], board[2][0]}); got != UIColors.Error {
		t.Errorf("Expected error color, got %s", got)
	}
	if got := MoveCounterColor(puzzle, Path{board[0][0], board[1][0]}); got != UIColors.Selected {
		t.Errorf("Expected selected color, got %s", got)
	}
}

func ptr(n Node) *Node { return &n }
