// Command analyze prints quick, human-readable statistics about the presets:
// the built-in difficulties plus every file in the configs directory. For each
// preset it generates a batch of seeded games and reports how often the walk
// succeeds, how much work the solver needs, and how often the board admits
// more than one solution.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/solver"
)

// ambiguityLimit stops solution counting once a board is known to be ambiguous
const ambiguityLimit = 2

// Analysis summarizes a batch of generated games for one preset
type Analysis struct {
	Name      string
	BoardSize int
	PathSize  int

	Games       int
	Failures    int
	Unsolved    int
	Ambiguous   int
	Expanded    int
	StartDecoys int
	EndDecoys   int
}

// SuccessRate is the share of games the generator produced
func (a Analysis) SuccessRate() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.Games-a.Failures) / float64(a.Games)
}

// AverageExpanded is the mean solver work per generated game
func (a Analysis) AverageExpanded() float64 {
	return a.perGame(a.Expanded)
}

func (a Analysis) perGame(total int) float64 {
	generated := a.Games - a.Failures
	if generated == 0 {
		return 0
	}
	return float64(total) / float64(generated)
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Generation and solver statistics for each preset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory of preset files"},
			&cli.IntFlag{Name: "games", Value: 50, Usage: "Games generated per preset"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "First seed of the batch"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := loadPresets(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			games := int(cmd.Int("games"))
			for _, config := range configs {
				a, err := analyzeConfig(ctx, config, cmd.Uint64("seed"), games)
				if err != nil {
					return err
				}
				printAnalysis(cmd.Root().Writer, a)
			}
			return nil
		},
	}
}

// loadPresets returns the built-in presets followed by the files in dir.
// A missing directory only yields the built-ins.
func loadPresets(dir string) ([]*engine.GameConfig, error) {
	var configs []*engine.GameConfig
	for _, mode := range engine.Difficulties() {
		configs = append(configs, engine.PresetConfig(mode))
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	for _, file := range files {
		config, err := engine.LoadGameConfig(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		configs = append(configs, config)
	}
	return configs, nil
}

// analyzeConfig generates games with consecutive seeds starting at seed
func analyzeConfig(ctx context.Context, config *engine.GameConfig, seed uint64, games int) (Analysis, error) {
	a := Analysis{
		Name:      config.Name,
		BoardSize: config.BoardSize,
		PathSize:  config.PathSize,
		Games:     games,
	}

	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return a, err
		}

		gen := engine.NewGenerator(&engine.GeneratorOptions{
			Seed:          seed + uint64(i),
			MaxBacktracks: config.MaxBacktracks,
		})
		game, err := gen.Game(config.BoardSize, config.PathSize)
		if err != nil {
			a.Failures++
			continue
		}

		strategy := solver.NewStrategy(game.Board, game.Puzzle, solver.Options{})
		if _, err := strategy.Solve(ctx, engine.Path{}); err != nil {
			a.Unsolved++
		}
		a.Expanded += strategy.Expanded()

		n, err := solver.CountSolutions(ctx, game.Board, game.Puzzle, ambiguityLimit)
		if err == nil && n >= ambiguityLimit {
			a.Ambiguous++
		}

		// Cells besides the real endpoints that would be accepted as one
		a.StartDecoys += engine.CountMatching(game.Board, game.Puzzle.Start()) - 1
		a.EndDecoys += engine.CountMatching(game.Board, game.Puzzle.End()) - 1
	}
	return a, nil
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "\n=== %s ===\n", a.Name)
	fmt.Fprintf(w, "Board: %d x %d, path %d\n", a.BoardSize, a.BoardSize, a.PathSize)
	fmt.Fprintf(w, "Generated: %d/%d (%.0f%%)\n", a.Games-a.Failures, a.Games, a.SuccessRate()*100)
	fmt.Fprintf(w, "Solver cells expanded: %.1f avg\n", a.AverageExpanded())
	fmt.Fprintf(w, "Start decoys: %.2f avg, end decoys: %.2f avg\n", a.perGame(a.StartDecoys), a.perGame(a.EndDecoys))

	if a.Failures > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d games could not be generated\n", a.Failures)
	}
	if a.Unsolved > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: solver failed on %d games\n", a.Unsolved)
	} else {
		fmt.Fprintf(w, "✅ Every generated game was solved\n")
	}
	if a.Ambiguous > 0 {
		fmt.Fprintf(w, "• %d boards admit more than one solution\n", a.Ambiguous)
	}
}
