package engine

// ManhattanDistance calculates the Manhattan distance between two coordinates
func ManhattanDistance(from, to Coord) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// CountMatching counts the board cells carrying the same shape and color as node
func CountMatching(board Board, node *Node) int {
	count := 0
	for _, row := range board {
		for i := range row {
			if IsMatchingNode(&row[i], node) {
				count++
			}
		}
	}
	return count
}

// Neighbors returns the in-bounds orthogonal neighbors of c
func (b Board) Neighbors(c Coord) []Coord {
	result := make([]Coord, 0, 4)
	for _, n := range neighbors(c) {
		if b.InBounds(n) {
			result = append(result, n)
		}
	}
	return result
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for y, row := range b {
		out[y] = append([]Node(nil), row...)
	}
	return out
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
