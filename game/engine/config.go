package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty names a preset
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// GameSettings is the generator input for a round
type GameSettings struct {
	BoardSize int `json:"board_size" yaml:"board_size"`
	PathSize  int `json:"path_size" yaml:"path_size"`
}

var gameSettings = map[Difficulty]GameSettings{
	DifficultyEasy:   {BoardSize: 5, PathSize: 4},
	DifficultyMedium: {BoardSize: 7, PathSize: 8},
	DifficultyHard:   {BoardSize: 9, PathSize: 16},
}

// Difficulties lists the presets from easiest to hardest
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// GetGameSettings returns the preset for mode, falling back to easy
func GetGameSettings(mode Difficulty) GameSettings {
	if s, ok := gameSettings[Difficulty(strings.ToLower(string(mode)))]; ok {
		return s
	}
	return gameSettings[DifficultyEasy]
}

// GameConfig represents a named preset loaded from JSON or YAML
type GameConfig struct {
	Name          string     `json:"name" yaml:"name"`
	Description   string     `json:"description" yaml:"description"`
	Label         string     `json:"label,omitempty" yaml:"label,omitempty"`
	Difficulty    Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	BoardSize     int        `json:"board_size" yaml:"board_size"`
	PathSize      int        `json:"path_size" yaml:"path_size"`
	MaxBacktracks int        `json:"max_backtracks,omitempty" yaml:"max_backtracks,omitempty"`
	Messages      struct {
		Welcome string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
		Victory string `json:"victory,omitempty" yaml:"victory,omitempty"`
		Defeat  string `json:"defeat,omitempty" yaml:"defeat,omitempty"`
	} `json:"messages" yaml:"messages"`
}

// Settings returns the generator input of the config
func (c *GameConfig) Settings() GameSettings {
	return GameSettings{BoardSize: c.BoardSize, PathSize: c.PathSize}
}

// PresetConfig builds the built-in config for a difficulty
func PresetConfig(mode Difficulty) *GameConfig {
	mode = Difficulty(strings.ToLower(string(mode)))
	if _, ok := gameSettings[mode]; !ok {
		mode = DifficultyEasy
	}
	s := gameSettings[mode]

	config := &GameConfig{
		Name:        string(mode),
		Description: fmt.Sprintf("Connect %d shapes on a %dx%d board", s.PathSize, s.BoardSize, s.BoardSize),
		Label:       strings.ToUpper(string(mode[:1])) + string(mode[1:]),
		Difficulty:  mode,
		BoardSize:   s.BoardSize,
		PathSize:    s.PathSize,
	}
	config.Messages.Welcome = "Start on the shape shown at the start and finish on the shape shown at the end."
	config.Messages.Victory = "Solved in %d moves!"
	config.Messages.Defeat = "Out of moves!"
	return config
}

// ValidateGameConfig validates a game configuration for correctness and
// playability. The difficulty is matched case-insensitively and stored in
// lower case.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.Difficulty != "" {
		config.Difficulty = Difficulty(strings.ToLower(string(config.Difficulty)))
		if _, ok := gameSettings[config.Difficulty]; !ok {
			return fmt.Errorf("config validation: unknown difficulty '%s'", config.Difficulty)
		}
	}
	if config.MaxBacktracks < 0 {
		return fmt.Errorf("config validation: max_backtracks must not be negative, got %d", config.MaxBacktracks)
	}
	if err := CheckSizes(config.BoardSize, config.PathSize); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if config.Messages.Victory != "" && strings.Count(config.Messages.Victory, "%d") > 1 {
		return fmt.Errorf("config validation: messages.victory may contain at most one %%d")
	}
	return nil
}

// LoadGameConfig loads a game configuration from a .json, .yaml or .yml file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(filepath.Ext(filename), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ParseGameConfig decodes a config by file extension without validating it
func ParseGameConfig(ext string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	case ".json", "":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format '%s'", ext)
	}
	return &config, nil
}
