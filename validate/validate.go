// Command validate checks the preset files in ../configs. For each .json,
// .yaml or .yml file it verifies:
//   - the file parses and carries the required fields
//   - board and path sizes are in range and the path fits the board
//   - the victory message has at most one %d verb
//   - a handful of seeded generations succeed and the solver can finish them
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/solver"
)

// probeSeeds are the fixed seeds each preset is generated with
var probeSeeds = []uint64{1, 2, 3, 4, 5}

// probeTimeout bounds the solver on each probe game
const probeTimeout = 5 * time.Second

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.ParseGameConfig(filepath.Ext(filePath), data)
	if err != nil {
		result.fail("Invalid config: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	if config.Messages.Welcome == "" {
		result.Errors = append(result.Errors, "• No welcome message, the default is used")
	}

	probe := probeGeneration(config)
	if !probe.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, probe.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		if config.Difficulty != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Difficulty: %s", config.Difficulty))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.BoardSize, config.BoardSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Path: %d cells", config.PathSize))
	}

	return result
}

// probeGeneration generates one game per probe seed with the preset's
// backtrack budget and makes sure the solver can complete it.
func probeGeneration(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	solved := 0
	for _, seed := range probeSeeds {
		gen := engine.NewGenerator(&engine.GeneratorOptions{
			Seed:          seed,
			MaxBacktracks: config.MaxBacktracks,
		})
		game, err := gen.Game(config.BoardSize, config.PathSize)
		if err != nil {
			if errors.Is(err, engine.ErrGenerationUnsatisfiable) {
				result.fail("Generation failed with seed %d: raise max_backtracks or shorten the path", seed)
			} else {
				result.fail("Generation failed with seed %d: %v", seed, err)
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		_, err = solver.Solve(ctx, game.Board, game.Puzzle, solver.Options{})
		cancel()
		switch {
		case err == nil:
			solved++
		case errors.Is(err, solver.ErrNoSolution):
			result.fail("Seed %d produced an unsolvable board", seed)
		default:
			// Search limits on large boards are not a preset defect
			result.Errors = append(result.Errors, fmt.Sprintf("• Seed %d: solver gave up (%v)", seed, err))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Generation: %d/%d probe games solved", solved, len(probeSeeds)))
	}
	return result
}

// configFiles lists the preset files in dir
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main scans ../configs for preset files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := configFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
