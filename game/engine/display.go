package engine

// Display palette for node colors
var shapeColors = map[Color]string{
	ColorRed:    "#D40004",
	ColorGreen:  "#00D400",
	ColorBlue:   "#006AD4",
	ColorYellow: "#D4AA00",
}

// UIColors is the interface palette
var UIColors = struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Selected   string `json:"selected"`
	Error      string `json:"error"`
}{
	Background: "#1B2036",
	Text:       "#FFFFFF",
	Selected:   "#FFFBDB",
	Error:      "#FF0000",
}

// pendingBorder is the move counter border once only the start is selected
const pendingBorder = "rgba(200, 200, 200, 0.8)"

// DisplayColor returns the hex color used to draw a node, or "" for a nil
// node or an undefined color
func DisplayColor(node *Node) string {
	if node == nil {
		return ""
	}
	return shapeColors[node.Color]
}

// MoveCounterColor returns the border color of the remaining-moves counter
func MoveCounterColor(puzzle Puzzle, path Path) string {
	switch {
	case len(path) == 0:
		return UIColors.Text
	case len(path) == 1:
		return pendingBorder
	case !IsSolved(puzzle, path) && RemainingMoves(puzzle, path) == 0:
		return UIColors.Error
	default:
		return UIColors.Selected
	}
}
