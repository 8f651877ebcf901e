// Command bruteforcer plays Shape Connector over the REST API. It plans each
// round from the public state with the local solver and submits the route in
// one bulk select. With --hints it walks the server's hints one press at a
// time instead.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/shape-connector/game/engine"
)

// ErrGaveUp is returned when a round is not solved within the attempt budget
var ErrGaveUp = errors.New("round not solved")

// playOptions tunes a single round
type playOptions struct {
	MaxAttempts int
	UseHints    bool
	Delay       time.Duration
}

// roundReport summarizes a played round
type roundReport struct {
	Round    int
	Attempts int
	Presses  int
	Message  string
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("bruteforcer failed")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "bruteforcer",
		Usage: "Solve Shape Connector rounds through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Preset to create the session with (easy, medium, hard, ...)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "File remembering the last session ID, empty to disable"},
			&cli.IntFlag{Name: "rounds", Value: 1, Usage: "Rounds to play, starting a new round after each solve"},
			&cli.IntFlag{Name: "max-attempts", Value: 5, Usage: "Maximum attempts per round before giving up"},
			&cli.IntFlag{Name: "max-nodes", Usage: "Solver node budget, zero for the default"},
			&cli.BoolFlag{Name: "hints", Usage: "Follow server hints instead of planning locally"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between hint presses"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Verbose output"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if cmd.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return ctx, nil
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Info().Str("url", cmd.String("url")).Msg("connecting to game server")
	client := NewClient(cmd.String("url"))

	if _, err := openSession(ctx, client, cmd.String("config"), cmd.String("continue"), cmd.String("session-file")); err != nil {
		return err
	}

	strategy := NewSystematicStrategy(int(cmd.Int("max-nodes")))
	opts := playOptions{
		MaxAttempts: int(cmd.Int("max-attempts")),
		UseHints:    cmd.Bool("hints"),
		Delay:       cmd.Duration("delay"),
	}

	rounds := int(cmd.Int("rounds"))
	for i := 0; i < rounds; i++ {
		if i > 0 {
			if _, err := client.NewRound(ctx); err != nil {
				return err
			}
		}

		report, err := playRound(ctx, client, strategy, opts)
		if err != nil {
			return fmt.Errorf("session %s: %w", client.SessionID(), err)
		}
		log.Info().
			Int("round", report.Round).
			Int("attempts", report.Attempts).
			Int("presses", report.Presses).
			Msg("🎉 " + report.Message)
	}

	log.Info().Str("session", client.SessionID()).Int("rounds", rounds).Msg("done")
	return nil
}

// openSession resumes the explicit or remembered session and falls back to
// creating a new one. A new session ID is written to sessionFile.
func openSession(ctx context.Context, client *Client, configID, resumeID, sessionFile string) (*engine.GameState, error) {
	if resumeID == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resumeID = string(bytes.TrimSpace(data))
		}
	}

	if resumeID != "" {
		state, err := client.Resume(ctx, resumeID)
		if err == nil {
			log.Info().Str("session", resumeID).Int("round", state.Round).Msg("🔄 session resumed")
			return state, nil
		}
		log.Warn().Err(err).Str("session", resumeID).Msg("failed to resume session, creating a new one")
	}

	state, err := client.CreateSession(ctx, configID)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("session", client.SessionID()).
		Int("board", state.Board.Size()).
		Int("path", state.PuzzleLength).
		Msg("✨ session created")

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0o644); err != nil {
			log.Warn().Err(err).Msg("failed to save session ID")
		}
	}
	return state, nil
}

// playRound clears the path and keeps trying until the round is solved or
// the attempt budget runs out
func playRound(ctx context.Context, client *Client, strategy *SystematicStrategy, opts playOptions) (*roundReport, error) {
	state, err := client.GetState(ctx)
	if err != nil {
		return nil, err
	}
	report := &roundReport{Round: state.Round}
	if state.Solved {
		report.Message = state.Message
		return report, nil
	}

	for report.Attempts < max(opts.MaxAttempts, 1) {
		report.Attempts++
		log.Debug().Int("attempt", report.Attempts).Int("round", state.Round).Msg("attempt")

		var solved bool
		if opts.UseHints {
			solved, err = followHints(ctx, client, state, report, opts.Delay)
		} else {
			solved, err = submitPlan(ctx, client, strategy, state, report)
		}
		if err != nil {
			return report, err
		}
		if solved {
			return report, nil
		}

		if state, err = client.Reset(ctx); err != nil {
			return report, err
		}
	}
	return report, fmt.Errorf("%w after %d attempts", ErrGaveUp, report.Attempts)
}

// submitPlan sends a locally planned route in a single bulk select
func submitPlan(ctx context.Context, client *Client, strategy *SystematicStrategy, state *engine.GameState, report *roundReport) (bool, error) {
	cells, err := strategy.Plan(ctx, state)
	if err != nil {
		return false, fmt.Errorf("plan: %w", err)
	}
	log.Debug().Int("cells", len(cells)).Int("expanded", strategy.Expanded()).Msg("planned route")

	result, err := client.BulkSelect(ctx, cells, true)
	if err != nil {
		return false, err
	}
	report.Presses += result.SelectionsExecuted
	report.Message = result.GameState.Message

	if !result.Solved {
		log.Warn().
			Str("stop", result.StopReasonCode).
			Int("stopped_on", result.StoppedOnSelection).
			Msg("route rejected: " + result.StoppedReason)
	}
	return result.Solved, nil
}

// followHints presses the server's suggestion until the round ends
func followHints(ctx context.Context, client *Client, state *engine.GameState, report *roundReport, delay time.Duration) (bool, error) {
	for range state.PuzzleLength + 1 {
		hint, err := client.Hint(ctx)
		if err != nil {
			return false, err
		}
		if hint.Solved {
			return true, nil
		}
		if hint.Undo || hint.Node == nil {
			log.Debug().Msg(hint.Message)
			return false, nil
		}

		result, err := client.Select(ctx, hint.Node.Coord())
		if err != nil {
			return false, err
		}
		report.Presses++
		report.Message = result.GameState.Message
		log.Debug().Stringer("cell", result.Cell).Str("feedback", string(result.Feedback)).Msg("press")

		switch result.Feedback {
		case engine.FeedbackWin:
			return true, nil
		case engine.FeedbackLose, engine.FeedbackReject:
			return false, nil
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}
	}
	return false, nil
}
