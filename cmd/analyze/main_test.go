package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/shape-connector/game/engine"
)

func TestAnalysisRates(t *testing.T) {
	a := Analysis{Games: 4, Failures: 1, Expanded: 30, StartDecoys: 3}

	if a.SuccessRate() != 0.75 {
		t.Errorf("Expected success rate 0.75, got %f", a.SuccessRate())
	}
	if a.AverageExpanded() != 10 {
		t.Errorf("Expected 10 cells expanded per game, got %f", a.AverageExpanded())
	}
	if a.perGame(a.StartDecoys) != 1 {
		t.Errorf("Expected 1 start decoy per game, got %f", a.perGame(a.StartDecoys))
	}

	empty := Analysis{Games: 2, Failures: 2}
	if empty.AverageExpanded() != 0 || empty.SuccessRate() != 0 {
		t.Error("Expected zero rates when nothing was generated")
	}
}

func TestAnalyzeConfig(t *testing.T) {
	config := engine.PresetConfig(engine.DifficultyEasy)

	a, err := analyzeConfig(context.Background(), config, 1, 10)
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}
	if a.Name != "easy" || a.BoardSize != 5 || a.PathSize != 4 {
		t.Errorf("Unexpected header %+v", a)
	}
	if a.Failures != 0 {
		t.Errorf("Expected every easy game to generate, got %d failures", a.Failures)
	}
	if a.Unsolved != 0 {
		t.Errorf("Expected every easy game to be solved, got %d unsolved", a.Unsolved)
	}
	if a.Expanded == 0 {
		t.Error("Expected solver work to be recorded")
	}
	if a.StartDecoys < 0 || a.EndDecoys < 0 {
		t.Errorf("Decoy counts must not be negative: %d %d", a.StartDecoys, a.EndDecoys)
	}

	again, _ := analyzeConfig(context.Background(), config, 1, 10)
	if again != a {
		t.Errorf("Expected the same seeds to give the same analysis: %+v vs %+v", a, again)
	}
}

func TestAnalyzeConfig_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := analyzeConfig(ctx, engine.PresetConfig(engine.DifficultyEasy), 1, 5); err == nil {
		t.Error("Expected canceled context to stop the analysis")
	}
}

func TestLoadPresets(t *testing.T) {
	dir := t.TempDir()
	yaml := "name: wide\ndescription: Wide board\nboard_size: 6\npath_size: 7\n"
	if err := os.WriteFile(filepath.Join(dir, "wide.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	configs, err := loadPresets(dir)
	if err != nil {
		t.Fatalf("loadPresets failed: %v", err)
	}
	if len(configs) != len(engine.Difficulties())+1 {
		t.Fatalf("Expected built-ins plus one file, got %d", len(configs))
	}
	if configs[len(configs)-1].Name != "wide" {
		t.Errorf("Expected file preset last, got %s", configs[len(configs)-1].Name)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"name": "bad"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadPresets(dir); err == nil {
		t.Error("Expected invalid preset file to fail")
	}
}

func TestLoadPresets_MissingDir(t *testing.T) {
	configs, err := loadPresets(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("loadPresets failed: %v", err)
	}
	if len(configs) != len(engine.Difficulties()) {
		t.Errorf("Expected only built-ins, got %d", len(configs))
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	printAnalysis(&buf, Analysis{Name: "tiny", BoardSize: 3, PathSize: 3, Games: 4, Failures: 1, Unsolved: 0, Ambiguous: 2, Expanded: 9})

	out := buf.String()
	for _, want := range []string{"=== tiny ===", "Board: 3 x 3, path 3", "Generated: 3/4 (75%)", "WARNING: 1 games", "Every generated game was solved", "2 boards admit"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestAppRun(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{"analyze", "--config-dir", t.TempDir(), "--games", "2"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, mode := range engine.Difficulties() {
		if !strings.Contains(buf.String(), "=== "+string(mode)+" ===") {
			t.Errorf("Expected a section for %s", mode)
		}
	}
}
