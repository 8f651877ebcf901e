package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/shape-connector/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Round Operations
	Select(ctx context.Context, sessionID string, cell engine.Coord) (*SelectResult, error)
	BulkSelect(ctx context.Context, sessionID string, cells []engine.Coord, reset bool) (*BulkSelectResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	NewRound(ctx context.Context, sessionID string) (*engine.GameState, error)
	Hint(ctx context.Context, sessionID string) (*HintResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Stateless puzzle operations
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	Daily(ctx context.Context, difficulty string, date time.Time) (*DailyPuzzle, error)
	ValidateMove(ctx context.Context, req ValidateMoveRequest) (*ValidateMoveResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
