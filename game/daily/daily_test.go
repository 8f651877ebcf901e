package daily

import (
	"reflect"
	"testing"
	"time"

	"github.com/wricardo/shape-connector/game/engine"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)

	if got := DateKey(local); got != "2024-03-01" {
		t.Errorf("Expected UTC date 2024-03-01, got %s", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if DateKey(d) != "2024-02-29" {
		t.Errorf("Expected round trip, got %s", DateKey(d))
	}

	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Error("Expected error for malformed date")
	}
	if _, err := ParseDate(""); err != nil {
		t.Errorf("Expected empty date to mean today, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sameDay := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	base := Seed(day, "salt", engine.DifficultyEasy)
	if Seed(sameDay, "salt", engine.DifficultyEasy) != base {
		t.Error("Expected same seed within a day")
	}
	if Seed(nextDay, "salt", engine.DifficultyEasy) == base {
		t.Error("Expected a different seed on the next day")
	}
	if Seed(day, "pepper", engine.DifficultyEasy) == base {
		t.Error("Expected salt to change the seed")
	}
	if Seed(day, "salt", engine.DifficultyHard) == base {
		t.Error("Expected difficulty to change the seed")
	}
}

func TestGame(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	g1, err := Game(day, "salt", engine.DifficultyMedium)
	if err != nil {
		t.Fatalf("Failed to generate daily game: %v", err)
	}
	g2, err := Game(day, "salt", engine.DifficultyMedium)
	if err != nil {
		t.Fatalf("Failed to generate daily game: %v", err)
	}

	if !reflect.DeepEqual(g1, g2) {
		t.Error("Expected the same daily game for the same date")
	}
	if g1.Board.Size() != 7 || len(g1.Puzzle) != 8 {
		t.Errorf("Expected medium settings, got %d/%d", g1.Board.Size(), len(g1.Puzzle))
	}
}
