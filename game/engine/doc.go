// Package engine provides the core logic for the Shape Connector puzzle.
//
// The engine package implements:
//   - Puzzle generation as a random self-avoiding walk with attribute assignment
//   - Board materialization around the hidden puzzle path
//   - Move validation and the solved predicate
//   - Round state management with selection, undo and move history
//   - Difficulty presets and configuration loading and validation
//
// Core Types:
//
// A Node is a board cell carrying one of four shapes and one of four colors.
// The Puzzle is the hidden path of nodes the generator walked; the Board
// embeds it among random filler cells. Generator produces both from an
// injectable Source so games can be replayed from a seed. GameEngine owns the
// player's Path for one round and exposes it as a GameState.
//
// Usage:
//
//	config := engine.PresetConfig(engine.DifficultyMedium)
//
//	gameEngine, err := engine.NewEngine(config, engine.NewSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	start := gameEngine.GetState().StartNode
//	feedback := gameEngine.Select(engine.Coord{X: start.X, Y: start.Y})
//
// Game Rules:
//
// The player sees only the start and end attribute pairs and the number of
// cells to connect. The first selected cell must carry the start's shape and
// color. Each following cell must be orthogonally adjacent to the previous
// one, unselected, and share its shape or its color. The puzzle is solved
// when the path has the puzzle's length and ends on the end's shape and
// color. Pressing a selected cell rewinds the path to it.
package engine
