package service

import (
	"time"

	"github.com/wricardo/shape-connector/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// SelectResult contains the result of a single cell press
type SelectResult struct {
	Success   bool              `json:"success"`
	Feedback  engine.Feedback   `json:"feedback"`
	Cell      engine.Coord      `json:"cell"`
	Node      *engine.Node      `json:"node,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// BulkSelectResult contains the result of several presses
type BulkSelectResult struct {
	// Summary
	SelectionsExecuted  int               `json:"selections_executed"`
	RequestedSelections int               `json:"requested_selections"`
	Success             bool              `json:"success"`
	GameState           *engine.GameState `json:"game_state"`
	Events              []GameEvent       `json:"events"`
	StoppedReason       string            `json:"stopped_reason,omitempty"`
	StopReasonCode      string            `json:"stop_reason_code,omitempty"` // rejected|locked|solved|failed
	StoppedOnSelection  int               `json:"stopped_on_selection,omitempty"`
	Truncated           bool              `json:"truncated,omitempty"`
	Limit               int               `json:"limit,omitempty"`

	// Path length before and after this call
	StartPathLength int `json:"start_path_length"`
	EndPathLength   int `json:"end_path_length"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	Solved  bool   `json:"solved"`
	Failed  bool   `json:"failed"`
	Message string `json:"message,omitempty"`
}

// StepInfo is a compact record for each executed press in a bulk call
type StepInfo struct {
	Idx        int             `json:"idx"`
	Cell       engine.Coord    `json:"cell"`
	Shape      string          `json:"shape,omitempty"`
	Color      string          `json:"color,omitempty"`
	Feedback   engine.Feedback `json:"feedback"`
	PathLength int             `json:"path_length"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string        `json:"type"` // "select", "undo", "reject", "win", "lose", "locked", "reset", "new_round"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Cell      *engine.Coord `json:"cell,omitempty"`
}

// HintResult suggests the next cell to press
type HintResult struct {
	Node     *engine.Node `json:"node,omitempty"`
	Solved   bool         `json:"solved"`
	Undo     bool         `json:"undo"` // the current path cannot be completed
	Message  string       `json:"message"`
	Expanded int          `json:"expanded"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename,omitempty"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Difficulty  string `json:"difficulty,omitempty"`
	BoardSize   int    `json:"board_size"`
	PathSize    int    `json:"path_size"`
	Builtin     bool   `json:"builtin"`
}

// GenerateRequest asks for a standalone game. Difficulty is used when the
// sizes are zero. A nil Seed draws a fresh one.
type GenerateRequest struct {
	Difficulty string  `json:"difficulty,omitempty"`
	BoardSize  int     `json:"board_size,omitempty"`
	PathSize   int     `json:"path_size,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
}

// GenerateResult is a generated game and the seed that reproduces it
type GenerateResult struct {
	Seed      uint64       `json:"seed"`
	BoardSize int          `json:"board_size"`
	PathSize  int          `json:"path_size"`
	Game      *engine.Game `json:"game"`
}

// DailyPuzzle is the deterministic game of a date
type DailyPuzzle struct {
	Date       string            `json:"date"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Game       *engine.Game      `json:"game"`
}

// ValidateMoveRequest runs the move validator on caller supplied state
type ValidateMoveRequest struct {
	Puzzle engine.Puzzle `json:"puzzle"`
	Path   engine.Path   `json:"path"`
	Move   *engine.Node  `json:"move"`
}

// ValidateMoveResult reports the validator's verdict
type ValidateMoveResult struct {
	Valid          bool    `json:"valid"`
	InPath         bool    `json:"in_path"`
	PathIndex      int     `json:"path_index"`
	Solved         bool    `json:"solved"` // for the path with the move appended when valid
	RemainingMoves int     `json:"remaining_moves"`
	Progress       float64 `json:"progress"`
}
