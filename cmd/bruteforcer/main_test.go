package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/shape-connector/api"
	"github.com/wricardo/shape-connector/game/config"
	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/service"
	"github.com/wricardo/shape-connector/game/session"
)

// newTestServer runs the real API over an empty config directory
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func TestPublicPuzzle(t *testing.T) {
	start := engine.Node{X: 0, Y: 0, Shape: engine.ShapeCircle, Color: engine.ColorRed}
	end := engine.Node{X: 2, Y: 1, Shape: engine.ShapeSquare, Color: engine.ColorBlue}

	puzzle, err := PublicPuzzle(&engine.GameState{StartNode: &start, EndNode: &end, PuzzleLength: 4})
	if err != nil {
		t.Fatalf("PublicPuzzle failed: %v", err)
	}
	if len(puzzle) != 4 {
		t.Fatalf("Expected length 4, got %d", len(puzzle))
	}
	if *puzzle.Start() != start || *puzzle.End() != end {
		t.Errorf("Expected endpoints %s and %s, got %s and %s", start, end, puzzle.Start(), puzzle.End())
	}

	if _, err := PublicPuzzle(&engine.GameState{StartNode: &start, PuzzleLength: 3}); !errors.Is(err, ErrHiddenState) {
		t.Errorf("Expected ErrHiddenState, got %v", err)
	}
}

func TestPlanMatchesHiddenPuzzle(t *testing.T) {
	game, err := engine.GenerateGame(engine.NewSource(11), 6, 7)
	if err != nil {
		t.Fatalf("GenerateGame failed: %v", err)
	}
	state := &engine.GameState{
		Board:        game.Board,
		StartNode:    game.Puzzle.Start(),
		EndNode:      game.Puzzle.End(),
		PuzzleLength: len(game.Puzzle),
	}

	cells, err := NewSystematicStrategy(0).Plan(context.Background(), state)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	var path engine.Path
	for _, c := range cells {
		node := game.Board.At(c)
		if !engine.IsValidMove(game.Puzzle, path, node) {
			t.Fatalf("Planned press %s rejected by the hidden puzzle", c)
		}
		path = append(path, *node)
	}
	if !engine.IsSolved(game.Puzzle, path) {
		t.Error("Expected the planned route to solve the hidden puzzle")
	}
}

func TestPlayRound(t *testing.T) {
	tests := []struct {
		name string
		opts playOptions
	}{
		{"planned", playOptions{MaxAttempts: 1}},
		{"hints", playOptions{MaxAttempts: 3, UseHints: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := NewClient(newTestServer(t).URL + "/")
			if _, err := client.CreateSession(ctx, "medium"); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}

			report, err := playRound(ctx, client, NewSystematicStrategy(0), tt.opts)
			if err != nil {
				t.Fatalf("playRound failed: %v", err)
			}
			if report.Round != 1 || report.Presses == 0 {
				t.Errorf("Unexpected report %+v", report)
			}

			state, err := client.GetState(ctx)
			if err != nil {
				t.Fatalf("GetState failed: %v", err)
			}
			if !state.Solved {
				t.Error("Expected the round to be solved")
			}

			// A solved round is reported without pressing anything
			again, err := playRound(ctx, client, NewSystematicStrategy(0), tt.opts)
			if err != nil || again.Attempts != 0 {
				t.Errorf("Expected no attempts on a solved round, got %+v, %v", again, err)
			}
		})
	}
}

func TestOpenSession(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)
	sessionFile := filepath.Join(t.TempDir(), ".session")

	first := NewClient(server.URL)
	if _, err := openSession(ctx, first, "easy", "", sessionFile); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	saved, err := os.ReadFile(sessionFile)
	if err != nil || string(saved) != first.SessionID() {
		t.Fatalf("Expected session ID saved, got %q (%v)", saved, err)
	}

	second := NewClient(server.URL)
	if _, err := openSession(ctx, second, "", "", sessionFile); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if second.SessionID() != first.SessionID() {
		t.Errorf("Expected remembered session %s, got %s", first.SessionID(), second.SessionID())
	}

	third := NewClient(server.URL)
	if _, err := openSession(ctx, third, "", "gone", ""); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if third.SessionID() == "gone" || third.SessionID() == "" {
		t.Errorf("Expected a fresh session for an unknown ID, got %q", third.SessionID())
	}
}

func TestClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"session not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Resume(context.Background(), "abc")
	if err == nil || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("Expected API error message, got %v", err)
	}
}

func TestAppRun(t *testing.T) {
	server := newTestServer(t)
	app := newApp()

	args := []string{"bruteforcer", "--url", server.URL, "--config", "easy", "--session-file", "", "--rounds", "2"}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}
