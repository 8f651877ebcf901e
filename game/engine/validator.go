package engine

// IsValidMove reports whether move may be appended to path.
//
// The first move must carry the start node's shape and color. Every later
// move must be orthogonally adjacent to the last selected node, not already
// in the path, and share its shape or color. A full path accepts nothing.
func IsValidMove(puzzle Puzzle, path Path, move *Node) bool {
	if move == nil || !move.Valid() || len(puzzle) == 0 {
		return false
	}

	if len(path) >= len(puzzle) {
		return false
	}

	if len(path) == 0 {
		return IsMatchingNode(move, puzzle.Start())
	}

	last := path.Last()
	sharesAttribute := move.Shape == last.Shape || move.Color == last.Color

	return sharesAttribute && !IsNodeInPath(path, move) && ManhattanDistance(last.Coord(), move.Coord()) == 1
}

// IsSameNode reports whether two nodes occupy the same coordinate
func IsSameNode(a, b *Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.X == b.X && a.Y == b.Y
}

// IsMatchingNode reports whether two nodes carry the same shape and color
func IsMatchingNode(a, b *Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Shape == b.Shape && a.Color == b.Color
}

// IsNodeInPath reports whether a node's coordinate is already selected
func IsNodeInPath(path Path, node *Node) bool {
	return NodePathIndex(path, node) >= 0
}

// NodePathIndex returns the first path index at the node's coordinate, or -1
func NodePathIndex(path Path, node *Node) int {
	if node == nil {
		return -1
	}
	for i := range path {
		if IsSameNode(&path[i], node) {
			return i
		}
	}
	return -1
}

// IsSolved reports whether path starts on the puzzle's start attributes,
// ends on its end attributes and has the puzzle's length. The path need not
// retrace the puzzle's coordinates.
func IsSolved(puzzle Puzzle, path Path) bool {
	if len(puzzle) == 0 || len(path) != len(puzzle) {
		return false
	}
	return IsMatchingNode(path.First(), puzzle.Start()) && IsMatchingNode(path.Last(), puzzle.End())
}

// Rewind truncates path at a node that is already selected. Selecting the
// last node removes it; selecting an earlier node keeps everything up to and
// including it. The second result is false when node is not in path.
func Rewind(path Path, node *Node) (Path, bool) {
	idx := NodePathIndex(path, node)
	if idx < 0 {
		return path, false
	}
	if idx == len(path)-1 {
		return path[:idx:idx], true
	}
	return path[: idx+1 : idx+1], true
}

// RemainingMoves is the number of cells left to select. Before the first
// selection the start cell is not counted.
func RemainingMoves(puzzle Puzzle, path Path) int {
	if len(path) > 0 {
		return len(puzzle) - len(path)
	}
	return max(len(puzzle)-1, 0)
}

// Progress returns the completed fraction of the path in [0, 1]
func Progress(puzzle Puzzle, path Path) float64 {
	if len(path) <= 1 || len(puzzle) <= 1 {
		return 0
	}
	return float64(len(path)-1) / float64(len(puzzle)-1)
}

// IsLinked reports whether a connector is drawn between a and b, that is
// both are selected and adjacent in selection order.
func IsLinked(path Path, a, b *Node) bool {
	i, j := NodePathIndex(path, a), NodePathIndex(path, b)
	if i < 0 || j < 0 {
		return false
	}
	return i-j == 1 || j-i == 1
}

// NodeStateFor derives the display state of a board node
func NodeStateFor(puzzle Puzzle, path Path, node *Node) NodeState {
	inPath := IsNodeInPath(path, node)

	if IsSolved(puzzle, path) {
		if inPath {
			return StateSelected
		}
		return StateFaded
	}

	if IsSameNode(path.Last(), node) {
		return StateSelected
	}
	if inPath {
		return StateConnected
	}
	return StateDefault
}

// StartNodeState derives the display state of the puzzle's start indicator
func StartNodeState(puzzle Puzzle, path Path) NodeState {
	if IsSolved(puzzle, path) {
		return StateSelected
	}
	if !IsMatchingNode(path.First(), puzzle.Start()) {
		return StateDefault
	}
	if len(path) > 1 {
		return StateConnected
	}
	return StateSelected
}

// EndNodeState derives the display state of the puzzle's end indicator
func EndNodeState(puzzle Puzzle, path Path) NodeState {
	if IsSolved(puzzle, path) {
		return StateSelected
	}
	if len(path) == len(puzzle) && IsMatchingNode(path.Last(), puzzle.End()) {
		return StateConnected
	}
	return StateDefault
}
