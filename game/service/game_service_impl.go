package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/shape-connector/game/daily"
	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/solver"
)

// Options tunes a GameService
type Options struct {
	// DailySalt keys the daily puzzle seed
	DailySalt string
	// HintMaxNodes bounds the hint search. Zero uses the solver default.
	HintMaxNodes int
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	opts     Options
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return NewGameServiceWithOptions(sessions, configs, Options{})
}

// NewGameServiceWithOptions creates a game service with explicit options
func NewGameServiceWithOptions(sessions SessionManager, configs ConfigManager, opts Options) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		opts:     opts,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		GameConfig:     sess.Config,
	}
}

// getSession looks up a session and touches its access time. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				// Provide helpful error message with available options
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s': %w. Available configs: %v", configName, err, configIDs)
				}
				return nil, fmt.Errorf("config '%s': %w. Use /api/configs to list available configurations", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// Select presses one cell of a session's board
func (s *gameServiceImpl) Select(ctx context.Context, sessionID string, cell engine.Coord) (*SelectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	feedback := sess.Engine.Select(cell)
	state := sess.Engine.Snapshot()

	result := &SelectResult{
		Success:   feedback != engine.FeedbackReject && feedback != engine.FeedbackLocked,
		Feedback:  feedback,
		Cell:      cell,
		Node:      state.Board.At(cell),
		GameState: state,
		Message:   state.Message,
		Events:    []GameEvent{newEvent(feedback, state.Message, cell)},
	}

	return result, nil
}

// BulkSelect presses several cells in order, stopping at the first rejection
func (s *gameServiceImpl) BulkSelect(ctx context.Context, sessionID string, cells []engine.Coord, reset bool) (*BulkSelectResult, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: no cells to select", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkSelectResult{
		RequestedSelections: len(cells),
		Events:              []GameEvent{},
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Path cleared",
			Timestamp: time.Now(),
		})
	}

	// Limit selections to prevent abuse
	if len(cells) > engine.MaxBulkSelections {
		cells = cells[:engine.MaxBulkSelections]
		result.Truncated = true
		result.Limit = engine.MaxBulkSelections
	}

	result.StartPathLength = len(sess.Engine.GetPath())

	for i, cell := range cells {
		if sess.Engine.IsSolved() {
			result.StoppedReason = "puzzle already solved"
			result.StopReasonCode = "solved"
			result.StoppedOnSelection = i + 1
			break
		}

		feedback := sess.Engine.Select(cell)
		state := sess.Engine.GetState()
		result.SelectionsExecuted++

		step := StepInfo{
			Idx:        i,
			Cell:       cell,
			Feedback:   feedback,
			PathLength: len(state.Path),
		}
		if n := state.Board.At(cell); n != nil {
			step.Shape = n.Shape.String()
			step.Color = n.Color.String()
		}
		result.Steps = append(result.Steps, step)
		result.Events = append(result.Events, newEvent(feedback, state.Message, cell))

		if code, stop := stopCode(feedback); stop {
			result.StoppedReason = state.Message
			result.StopReasonCode = code
			result.StoppedOnSelection = i + 1
			break
		}
	}

	state := sess.Engine.Snapshot()
	result.GameState = state
	result.EndPathLength = len(state.Path)
	result.Solved = state.Solved
	result.Failed = state.Failed
	result.Message = state.Message
	result.Success = result.StopReasonCode == "" || result.StopReasonCode == "solved"

	return result, nil
}

// stopCode maps feedback that ends a bulk call to its reason code
func stopCode(feedback engine.Feedback) (string, bool) {
	switch feedback {
	case engine.FeedbackReject:
		return "rejected", true
	case engine.FeedbackLocked:
		return "locked", true
	case engine.FeedbackLose:
		return "failed", true
	default:
		return "", false
	}
}

func newEvent(feedback engine.Feedback, message string, cell engine.Coord) GameEvent {
	eventType := "select"
	switch feedback {
	case engine.FeedbackUndo:
		eventType = "undo"
	case engine.FeedbackReject:
		eventType = "reject"
	case engine.FeedbackWin:
		eventType = "win"
	case engine.FeedbackLose:
		eventType = "lose"
	case engine.FeedbackLocked:
		eventType = "locked"
	}
	return GameEvent{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
		Cell:      &cell,
	}
}

// Reset clears the path of the current round
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	return sess.Engine.Snapshot(), nil
}

// NewRound generates a new puzzle for the session
func (s *gameServiceImpl) NewRound(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := sess.Engine.NewRound(); err != nil {
		return nil, err
	}
	return sess.Engine.Snapshot(), nil
}

// Hint suggests the next cell for the session's current path
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	sess, err := s.getSession(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	state := sess.Engine.Snapshot()
	s.mu.RUnlock()

	if state.Solved {
		return &HintResult{Solved: true, Message: "Puzzle already solved"}, nil
	}

	strategy := solver.NewStrategy(state.Board, state.Puzzle, solver.Options{MaxNodes: s.opts.HintMaxNodes})
	next, err := strategy.NextMove(ctx, state.Path)
	result := &HintResult{Expanded: strategy.Expanded()}

	switch {
	case errors.Is(err, solver.ErrNoSolution):
		result.Undo = true
		result.Message = "The current path cannot be completed. Undo some cells."
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("hint: %w", err)
	}

	result.Node = next
	result.Message = fmt.Sprintf("Try the %s", next)
	return result, nil
}

// GetGameState returns a snapshot of the session's round
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// Generate builds a standalone game, reproducible from the returned seed
func (s *gameServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	settings := engine.GameSettings{BoardSize: req.BoardSize, PathSize: req.PathSize}
	if settings.BoardSize == 0 && settings.PathSize == 0 {
		settings = engine.GetGameSettings(engine.Difficulty(req.Difficulty))
	}

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	gen := engine.NewGenerator(&engine.GeneratorOptions{Source: engine.NewSource(seed)})
	game, err := gen.Game(settings.BoardSize, settings.PathSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return &GenerateResult{
		Seed:      seed,
		BoardSize: settings.BoardSize,
		PathSize:  settings.PathSize,
		Game:      game,
	}, nil
}

// Daily returns the deterministic game for a date and difficulty
func (s *gameServiceImpl) Daily(ctx context.Context, difficulty string, date time.Time) (*DailyPuzzle, error) {
	mode := engine.Difficulty(strings.ToLower(difficulty))
	if _, ok := knownDifficulty(mode); !ok {
		return nil, fmt.Errorf("%w: unknown difficulty '%s'", ErrInvalidRequest, difficulty)
	}

	game, err := daily.Game(date, s.opts.DailySalt, mode)
	if err != nil {
		return nil, err
	}

	return &DailyPuzzle{
		Date:       daily.DateKey(date),
		Difficulty: mode,
		Game:       game,
	}, nil
}

func knownDifficulty(mode engine.Difficulty) (engine.Difficulty, bool) {
	for _, d := range engine.Difficulties() {
		if d == mode {
			return d, true
		}
	}
	return "", false
}

// ValidateMove runs the validator against caller supplied state
func (s *gameServiceImpl) ValidateMove(ctx context.Context, req ValidateMoveRequest) (*ValidateMoveResult, error) {
	if len(req.Puzzle) == 0 {
		return nil, fmt.Errorf("%w: puzzle is required", ErrInvalidRequest)
	}

	result := &ValidateMoveResult{
		Valid:     engine.IsValidMove(req.Puzzle, req.Path, req.Move),
		InPath:    engine.IsNodeInPath(req.Path, req.Move),
		PathIndex: engine.NodePathIndex(req.Path, req.Move),
	}

	path := req.Path
	if result.Valid {
		path = append(append(engine.Path{}, req.Path...), *req.Move)
	}
	result.Solved = engine.IsSolved(req.Puzzle, path)
	result.RemainingMoves = engine.RemainingMoves(req.Puzzle, path)
	result.Progress = engine.Progress(req.Puzzle, path)

	return result, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
