package engine

import (
	"fmt"
	"strings"
)

// Shape is one of the four glyphs a node can carry
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeCross

	shapeCount
)

// Color is one of the four hues a node can carry
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow

	colorCount
)

const (
	// MaxSameChain is the longest run of consecutive puzzle nodes allowed
	// to share a single attribute before the generator forces a change.
	MaxSameChain = 3

	// Validation constants
	MinBoardSize      = 1
	MaxBoardSize      = 50
	MaxBulkSelections = 100
)

var shapeNames = [...]string{"circle", "square", "triangle", "cross"}

var colorNames = [...]string{"red", "green", "blue", "yellow"}

// AllShapes returns every shape in canonical order
func AllShapes() []Shape {
	return []Shape{ShapeCircle, ShapeSquare, ShapeTriangle, ShapeCross}
}

// AllColors returns every color in canonical order
func AllColors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}
}

// Valid reports whether s is one of the defined shapes
func (s Shape) Valid() bool { return s < shapeCount }

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// ParseShape converts a shape name to its value
func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// MarshalText encodes the shape by name
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid shape %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a shape name
func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Valid reports whether c is one of the defined colors
func (c Color) Valid() bool { return c < colorCount }

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseColor converts a color name to its value
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", name)
}

// MarshalText encodes the color by name
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a color name
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// NodeState is a display tag derived from the player path. It carries no
// meaning for generation or validation.
type NodeState string

const (
	StateDefault   NodeState = "default"
	StateSelected  NodeState = "selected"
	StateConnected NodeState = "connected"
	StateFaded     NodeState = "faded"
)

// Coord represents x,y coordinates on the board
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Node is a board cell: a coordinate plus its shape and color
type Node struct {
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Shape Shape     `json:"shape"`
	Color Color     `json:"color"`
	State NodeState `json:"state,omitempty"`
}

// Coord returns the node's coordinate
func (n Node) Coord() Coord {
	return Coord{X: n.X, Y: n.Y}
}

// Valid reports whether the node has non-negative coordinates and defined attributes
func (n Node) Valid() bool {
	return n.X >= 0 && n.Y >= 0 && n.Shape.Valid() && n.Color.Valid()
}

func (n Node) String() string {
	return fmt.Sprintf("%s %s at (%d,%d)", n.Color, n.Shape, n.X, n.Y)
}

// Puzzle is the hidden solution path: adjacent, distinct coordinates where
// consecutive nodes share at least one attribute.
type Puzzle []Node

// Start returns the first puzzle node or nil when empty
func (p Puzzle) Start() *Node { return firstNode(p) }

// End returns the last puzzle node or nil when empty
func (p Puzzle) End() *Node { return lastNode(p) }

// Path is the player's ordered selection of board nodes
type Path []Node

// First returns the first selected node or nil when empty
func (p Path) First() *Node { return firstNode(p) }

// Last returns the most recently selected node or nil when empty
func (p Path) Last() *Node { return lastNode(p) }

// Board is a square grid indexed as board[y][x]
type Board [][]Node

// Size returns the board edge length
func (b Board) Size() int { return len(b) }

// InBounds reports whether c addresses a cell of the board
func (b Board) InBounds(c Coord) bool {
	return c.Y >= 0 && c.Y < len(b) && c.X >= 0 && c.X < len(b[c.Y])
}

// At returns the node at c, or nil when c is off the board
func (b Board) At(c Coord) *Node {
	if !b.InBounds(c) {
		return nil
	}
	return &b[c.Y][c.X]
}

// Game is a generated puzzle together with the board that embeds it
type Game struct {
	Board  Board  `json:"board"`
	Puzzle Puzzle `json:"puzzle"`
}

// GameState represents the complete state of a round
type GameState struct {
	Board          Board              `json:"board"`
	Puzzle         Puzzle             `json:"-"`
	StartNode      *Node              `json:"start_node"`
	EndNode        *Node              `json:"end_node"`
	PuzzleLength   int                `json:"puzzle_length"`
	Path           Path               `json:"path"`
	RemainingMoves int                `json:"remaining_moves"`
	Progress       float64            `json:"progress"`
	Solved         bool               `json:"solved"`
	Failed         bool               `json:"failed"`
	Message        string             `json:"message"`
	ConfigName     string             `json:"config_name"`
	Round          int                `json:"round"`
	RoundID        string             `json:"round_id"`
	MoveHistory    []MoveHistoryEntry `json:"move_history"`
	TotalMoves     int                `json:"total_moves"`

	// CurrentMoves tracks only the selections of the current round. It mirrors
	// MoveHistory entries but is cleared on reset and new round.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// Feedback classifies the outcome of a single selection
type Feedback string

const (
	FeedbackAccept Feedback = "accept"
	FeedbackReject Feedback = "reject"
	FeedbackUndo   Feedback = "undo"
	FeedbackWin    Feedback = "win"
	FeedbackLose   Feedback = "lose"
	FeedbackLocked Feedback = "locked"
)

// MoveHistoryEntry represents a single selection in the round history
type MoveHistoryEntry struct {
	Action     string   `json:"action"`
	Cell       Coord    `json:"cell"`
	Feedback   Feedback `json:"feedback"`
	PathLength int      `json:"path_length"`
	Timestamp  int64    `json:"timestamp"`
	Success    bool     `json:"success"`
	MoveNumber int      `json:"move_number"`
}

func firstNode[S ~[]Node](nodes S) *Node {
	if len(nodes) == 0 {
		return nil
	}
	n := nodes[0]
	return &n
}

func lastNode[S ~[]Node](nodes S) *Node {
	if len(nodes) == 0 {
		return nil
	}
	n := nodes[len(nodes)-1]
	return &n
}
