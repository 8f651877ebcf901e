package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is the preset used when nothing else is configured
const DefaultConfigName = "easy"

// supportedExts lists preset file extensions in lookup order
var supportedExts = []string{".json", ".yaml", ".yml"}

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	m.defaultConfig = m.loadDefaultConfig()

	return m, nil
}

// LoadConfig loads a configuration by name. Files in the config directory
// take precedence over the built-in difficulty presets.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}

	m.configs[name] = config
	return config, nil
}

// readConfig loads name from disk or the built-in presets. Callers hold m.mu.
func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	path, ok := m.findFile(name)
	if !ok {
		if isPreset(name) {
			return engine.PresetConfig(engine.Difficulty(name)), nil
		}
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseGameConfig(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// findFile returns the first existing preset file for name
func (m *Manager) findFile(name string) (string, bool) {
	for _, ext := range supportedExts {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	seen := make(map[string]bool)
	var configs []*service.ConfigInfo

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !isSupportedExt(ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		if seen[name] {
			continue
		}

		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}
		seen[name] = true

		configs = append(configs, configInfo(entry.Name(), name, config, false))
	}

	// Built-in presets not overridden by a file
	for _, mode := range engine.Difficulties() {
		if seen[string(mode)] {
			continue
		}
		configs = append(configs, configInfo("", string(mode), engine.PresetConfig(mode), true))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})

	return configs, nil
}

func configInfo(filename, id string, config *engine.GameConfig, builtin bool) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Difficulty:  string(config.Difficulty),
		BoardSize:   config.BoardSize,
		PathSize:    config.PathSize,
		Builtin:     builtin,
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached configurations so they are reread from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	config := m.loadDefaultConfig()

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// loadDefaultConfig loads the default preset, falling back to the built-in one
func (m *Manager) loadDefaultConfig() *engine.GameConfig {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		return engine.PresetConfig(engine.DifficultyEasy)
	}
	return config
}

// SaveConfig saves a configuration to disk. Names ending in .yaml or .yml
// are written as YAML, everything else as JSON.
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	// Validate config before saving
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !isSupportedExt(ext) {
		ext = ".json"
	} else {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	var data []byte
	if ext == ".json" {
		data, err = json.MarshalIndent(config, "", "  ")
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+ext)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// normalizeName strips a supported extension and rejects names that could
// escape the config directory
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if ext := filepath.Ext(name); isSupportedExt(ext) {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	return name, nil
}

func isSupportedExt(ext string) bool {
	for _, e := range supportedExts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func isPreset(name string) bool {
	for _, mode := range engine.Difficulties() {
		if string(mode) == name {
			return true
		}
	}
	return false
}
