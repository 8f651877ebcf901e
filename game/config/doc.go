// Package config provides preset management for the Shape Connector game.
//
// The config package handles:
//   - Loading presets from JSON or YAML files
//   - Preset validation
//   - Default preset management
//   - Preset discovery and listing
//
// Configuration Format:
//
// Presets are stored as .json, .yaml or .yml files in the configs directory.
// Each preset defines:
//   - board_size: edge length of the square board
//   - path_size: number of cells the player must connect
//   - max_backtracks: optional cap on generator backtracking
//   - messages shown on welcome, victory and defeat
//
// Available Configurations:
//
// The easy, medium and hard presets are built in and are served even when
// no file defines them. A file with the same name overrides the built-in:
//   - easy: 5x5 board, 4 cells
//   - medium: 7x7 board, 8 cells
//   - hard: 9x9 board, 16 cells
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("medium")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	configs, err := manager.ListConfigs()
package config
