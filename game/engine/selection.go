package engine

import (
	"fmt"
	"strings"
	"time"
)

// SelectNode applies one press on the cell at c and returns its outcome
func (gs *GameState) SelectNode(c Coord, config *GameConfig) Feedback {
	if gs.Solved {
		gs.Message = "Puzzle already solved. Start a new round to play again."
		return FeedbackLocked
	}

	node := gs.Board.At(c)
	if node == nil {
		gs.Message = fmt.Sprintf("Can't select %s: outside the %dx%d board", c, gs.Board.Size(), gs.Board.Size())
		return FeedbackReject
	}

	if path, ok := Rewind(gs.Path, node); ok {
		gs.Path = path
		gs.Message = fmt.Sprintf("Rewound to %d selected", len(gs.Path))
		gs.refresh()
		return FeedbackUndo
	}

	if !IsValidMove(gs.Puzzle, gs.Path, node) {
		gs.Message = gs.rejectReason(node)
		return FeedbackReject
	}

	selected := *node
	selected.State = ""
	gs.Path = append(gs.Path, selected)
	gs.refresh()

	if gs.Solved {
		gs.Message = "Puzzle solved!"
		if config != nil && config.Messages.Victory != "" {
			gs.Message = formatCount(config.Messages.Victory, gs.CurrentMovesCount+1)
		}
		return FeedbackWin
	}

	if gs.Failed {
		gs.Message = "Out of moves! The last shape does not match the end."
		if config != nil && config.Messages.Defeat != "" {
			gs.Message = config.Messages.Defeat
		}
		return FeedbackLose
	}

	gs.Message = fmt.Sprintf("Selected %s, %d remaining", selected, gs.RemainingMoves)
	return FeedbackAccept
}

// rejectReason explains why a press on node was refused
func (gs *GameState) rejectReason(node *Node) string {
	if len(gs.Path) >= len(gs.Puzzle) {
		return "Path is full. Tap a selected shape to undo."
	}
	if len(gs.Path) == 0 {
		start := gs.Puzzle.Start()
		return fmt.Sprintf("Start on a %s %s", start.Color, start.Shape)
	}
	last := gs.Path.Last()
	if ManhattanDistance(last.Coord(), node.Coord()) != 1 {
		return fmt.Sprintf("%s is not next to %s", node.Coord(), last.Coord())
	}
	return fmt.Sprintf("%s shares neither shape nor color with %s", node, last)
}

// refresh recomputes every value derived from the path
func (gs *GameState) refresh() {
	gs.Solved = IsSolved(gs.Puzzle, gs.Path)
	gs.Failed = !gs.Solved && len(gs.Path) > 0 && RemainingMoves(gs.Puzzle, gs.Path) == 0
	gs.RemainingMoves = RemainingMoves(gs.Puzzle, gs.Path)
	gs.Progress = Progress(gs.Puzzle, gs.Path)
	gs.PuzzleLength = len(gs.Puzzle)

	for y := range gs.Board {
		for x := range gs.Board[y] {
			n := &gs.Board[y][x]
			n.State = NodeStateFor(gs.Puzzle, gs.Path, n)
		}
	}

	if start := gs.Puzzle.Start(); start != nil {
		start.State = StartNodeState(gs.Puzzle, gs.Path)
		gs.StartNode = start
	}
	if end := gs.Puzzle.End(); end != nil {
		end.State = EndNodeState(gs.Puzzle, gs.Path)
		gs.EndNode = end
	}
}

// AddMoveToHistory adds a selection to the round's move history
func (gs *GameState) AddMoveToHistory(action string, cell Coord, feedback Feedback) {
	entry := MoveHistoryEntry{
		Action:     action,
		Cell:       cell,
		Feedback:   feedback,
		PathLength: len(gs.Path),
		Timestamp:  time.Now().Unix(),
		Success:    feedback != FeedbackReject && feedback != FeedbackLocked,
		MoveNumber: gs.TotalMoves + 1,
	}
	// Cumulative history survives resets and new rounds
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}

// Clone returns a deep copy safe to hand to other goroutines
func (gs *GameState) Clone() *GameState {
	out := *gs
	out.Board = gs.Board.Clone()
	out.Puzzle = append(Puzzle(nil), gs.Puzzle...)
	out.Path = append(Path{}, gs.Path...)
	out.MoveHistory = append([]MoveHistoryEntry{}, gs.MoveHistory...)
	out.CurrentMoves = append([]MoveHistoryEntry{}, gs.CurrentMoves...)
	if gs.StartNode != nil {
		n := *gs.StartNode
		out.StartNode = &n
	}
	if gs.EndNode != nil {
		n := *gs.EndNode
		out.EndNode = &n
	}
	return &out
}

func formatCount(format string, n int) string {
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, n)
	}
	return format
}
